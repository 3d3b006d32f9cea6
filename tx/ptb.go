// Copyright (C) 2024, MoveLabs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tx

import (
	"fmt"

	"github.com/movelabs/sui-go/bcs"
)

// ProgrammableTransaction is the input list and command list that make
// up a transaction's payload. Commands may reference inputs by index
// and earlier commands' results.
type ProgrammableTransaction struct {
	Inputs   []CallArg
	Commands []Command
}

// Serialize writes the inputs vector then the commands vector.
func (p ProgrammableTransaction) Serialize(s *bcs.Serializer) {
	bcs.SerializeVector(s, p.Inputs)
	bcs.SerializeVector(s, p.Commands)
}

// DeserializeProgrammableTransaction reads a ProgrammableTransaction.
func DeserializeProgrammableTransaction(d *bcs.Deserializer) (ProgrammableTransaction, error) {
	inputs, err := bcs.DeserializeVector(d, DeserializeCallArg)
	if err != nil {
		return ProgrammableTransaction{}, fmt.Errorf("inputs: %w", err)
	}
	commands, err := bcs.DeserializeVector(d, DeserializeCommand)
	if err != nil {
		return ProgrammableTransaction{}, fmt.Errorf("commands: %w", err)
	}
	if len(inputs) == 0 {
		inputs = nil
	}
	if len(commands) == 0 {
		commands = nil
	}
	return ProgrammableTransaction{Inputs: inputs, Commands: commands}, nil
}

// Validate checks every argument of every command: Input indexes must
// land inside the inputs list, and Result/NestedResult may only name
// commands that run strictly earlier.
func (p ProgrammableTransaction) Validate() error {
	for ci, cmd := range p.Commands {
		for _, arg := range cmd.arguments() {
			if err := p.validateArgument(ci, arg); err != nil {
				return fmt.Errorf("command %d: %w", ci, err)
			}
		}
	}
	return nil
}

func (p ProgrammableTransaction) validateArgument(ci int, arg Argument) error {
	switch a := arg.(type) {
	case Input:
		if int(a) >= len(p.Inputs) {
			return fmt.Errorf("%w: input %d of %d", ErrInputOutOfRange, a, len(p.Inputs))
		}
	case Result:
		if int(a) >= ci {
			return fmt.Errorf("%w: result of command %d", ErrForwardReference, a)
		}
	case NestedResult:
		if int(a.Command) >= ci {
			return fmt.Errorf("%w: nested result of command %d", ErrForwardReference, a.Command)
		}
	}
	return nil
}
