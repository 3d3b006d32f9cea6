// Copyright (C) 2024, MoveLabs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tx

import (
	"fmt"

	"github.com/movelabs/sui-go/bcs"
	"github.com/movelabs/sui-go/types"
)

// Command wire tags. Cross-SDK contract, never renumber.
const (
	cmdMoveCall        uint8 = 0
	cmdTransferObjects uint8 = 1
	cmdSplitCoins      uint8 = 2
	cmdMergeCoins      uint8 = 3
	cmdPublish         uint8 = 4
	cmdUpgrade         uint8 = 5
	cmdMakeMoveVec     uint8 = 6
)

// Command is one step of a programmable transaction. Closed union over
// the seven command kinds.
type Command interface {
	bcs.Serializable

	isCommand()

	// arguments returns every Argument operand the command holds, for
	// reference validation.
	arguments() []Argument
}

// MoveCall invokes package::module::function with type arguments and
// value arguments.
type MoveCall struct {
	Package       types.ObjectID
	Module        string
	Function      string
	TypeArguments []types.TypeTag
	Arguments     []Argument
}

// NewMoveCall builds a MoveCall, rejecting empty module or function
// names.
func NewMoveCall(pkg types.ObjectID, module, function string, typeArgs []types.TypeTag, args []Argument) (MoveCall, error) {
	if module == "" || function == "" {
		return MoveCall{}, fmt.Errorf("%w: move call needs module and function", ErrEmptyCommand)
	}
	return MoveCall{
		Package:       pkg,
		Module:        module,
		Function:      function,
		TypeArguments: typeArgs,
		Arguments:     args,
	}, nil
}

func (MoveCall) isCommand() {}

func (c MoveCall) arguments() []Argument { return c.Arguments }

func (c MoveCall) Serialize(s *bcs.Serializer) {
	s.WriteU8(cmdMoveCall)
	c.Package.Serialize(s)
	s.WriteString(c.Module)
	s.WriteString(c.Function)
	bcs.SerializeVector(s, c.TypeArguments)
	bcs.SerializeVector(s, c.Arguments)
}

// TransferObjects sends objects to a recipient address.
type TransferObjects struct {
	Objects   []Argument
	Recipient Argument
}

// NewTransferObjects builds a TransferObjects, rejecting an empty
// object list.
func NewTransferObjects(objects []Argument, recipient Argument) (TransferObjects, error) {
	if len(objects) == 0 {
		return TransferObjects{}, fmt.Errorf("%w: transfer needs at least one object", ErrEmptyCommand)
	}
	if recipient == nil {
		return TransferObjects{}, fmt.Errorf("%w: transfer needs a recipient", ErrEmptyCommand)
	}
	return TransferObjects{Objects: objects, Recipient: recipient}, nil
}

func (TransferObjects) isCommand() {}

func (c TransferObjects) arguments() []Argument {
	return append(append([]Argument{}, c.Objects...), c.Recipient)
}

func (c TransferObjects) Serialize(s *bcs.Serializer) {
	s.WriteU8(cmdTransferObjects)
	bcs.SerializeVector(s, c.Objects)
	c.Recipient.Serialize(s)
}

// SplitCoins splits amounts off a coin, producing one new coin per
// amount.
type SplitCoins struct {
	Coin    Argument
	Amounts []Argument
}

// NewSplitCoins builds a SplitCoins, rejecting an empty amount list.
func NewSplitCoins(coin Argument, amounts []Argument) (SplitCoins, error) {
	if coin == nil {
		return SplitCoins{}, fmt.Errorf("%w: split needs a coin", ErrEmptyCommand)
	}
	if len(amounts) == 0 {
		return SplitCoins{}, fmt.Errorf("%w: split needs at least one amount", ErrEmptyCommand)
	}
	return SplitCoins{Coin: coin, Amounts: amounts}, nil
}

func (SplitCoins) isCommand() {}

func (c SplitCoins) arguments() []Argument {
	return append([]Argument{c.Coin}, c.Amounts...)
}

func (c SplitCoins) Serialize(s *bcs.Serializer) {
	s.WriteU8(cmdSplitCoins)
	c.Coin.Serialize(s)
	bcs.SerializeVector(s, c.Amounts)
}

// MergeCoins merges source coins into a destination coin.
type MergeCoins struct {
	Destination Argument
	Sources     []Argument
}

// NewMergeCoins builds a MergeCoins, rejecting an empty source list.
func NewMergeCoins(destination Argument, sources []Argument) (MergeCoins, error) {
	if destination == nil {
		return MergeCoins{}, fmt.Errorf("%w: merge needs a destination", ErrEmptyCommand)
	}
	if len(sources) == 0 {
		return MergeCoins{}, fmt.Errorf("%w: merge needs at least one source", ErrEmptyCommand)
	}
	return MergeCoins{Destination: destination, Sources: sources}, nil
}

func (MergeCoins) isCommand() {}

func (c MergeCoins) arguments() []Argument {
	return append([]Argument{c.Destination}, c.Sources...)
}

func (c MergeCoins) Serialize(s *bcs.Serializer) {
	s.WriteU8(cmdMergeCoins)
	c.Destination.Serialize(s)
	bcs.SerializeVector(s, c.Sources)
}

// Publish deploys compiled Move modules with their package
// dependencies.
type Publish struct {
	Modules      [][]byte
	Dependencies []types.ObjectID
}

// NewPublish builds a Publish, rejecting an empty module list.
func NewPublish(modules [][]byte, dependencies []types.ObjectID) (Publish, error) {
	if len(modules) == 0 {
		return Publish{}, fmt.Errorf("%w: publish needs at least one module", ErrEmptyCommand)
	}
	return Publish{Modules: modules, Dependencies: dependencies}, nil
}

func (Publish) isCommand() {}

func (Publish) arguments() []Argument { return nil }

func (c Publish) Serialize(s *bcs.Serializer) {
	s.WriteU8(cmdPublish)
	serializeModules(s, c.Modules)
	bcs.SerializeVector(s, c.Dependencies)
}

// Upgrade replaces a published package using an upgrade ticket.
type Upgrade struct {
	Modules      [][]byte
	Dependencies []types.ObjectID
	Package      types.ObjectID
	Ticket       Argument
}

// NewUpgrade builds an Upgrade, rejecting empty modules or a nil
// ticket.
func NewUpgrade(modules [][]byte, dependencies []types.ObjectID, pkg types.ObjectID, ticket Argument) (Upgrade, error) {
	if len(modules) == 0 {
		return Upgrade{}, fmt.Errorf("%w: upgrade needs at least one module", ErrEmptyCommand)
	}
	if ticket == nil {
		return Upgrade{}, fmt.Errorf("%w: upgrade needs a ticket", ErrEmptyCommand)
	}
	return Upgrade{Modules: modules, Dependencies: dependencies, Package: pkg, Ticket: ticket}, nil
}

func (Upgrade) isCommand() {}

func (c Upgrade) arguments() []Argument { return []Argument{c.Ticket} }

func (c Upgrade) Serialize(s *bcs.Serializer) {
	s.WriteU8(cmdUpgrade)
	serializeModules(s, c.Modules)
	bcs.SerializeVector(s, c.Dependencies)
	c.Package.Serialize(s)
	c.Ticket.Serialize(s)
}

// MakeMoveVec assembles a Move vector from elements. ElementType is nil
// when the element type is inferred.
type MakeMoveVec struct {
	ElementType *string
	Elements    []Argument
}

func (MakeMoveVec) isCommand() {}

func (c MakeMoveVec) arguments() []Argument { return c.Elements }

func (c MakeMoveVec) Serialize(s *bcs.Serializer) {
	s.WriteU8(cmdMakeMoveVec)
	if c.ElementType == nil {
		s.WriteOptionTag(false)
	} else {
		s.WriteOptionTag(true)
		s.WriteString(*c.ElementType)
	}
	bcs.SerializeVector(s, c.Elements)
}

func serializeModules(s *bcs.Serializer, modules [][]byte) {
	s.WriteVectorLength(len(modules))
	for _, m := range modules {
		s.WriteVectorLength(len(m))
		s.WriteBytes(m)
	}
}

func deserializeModules(d *bcs.Deserializer) ([][]byte, error) {
	raw, err := bcs.DeserializeVector(d, bcs.DeserializeBytes)
	if err != nil {
		return nil, err
	}
	out := make([][]byte, len(raw))
	for i, m := range raw {
		out[i] = m
	}
	return out, nil
}

// DeserializeCommand reads a Command by wire tag.
func DeserializeCommand(d *bcs.Deserializer) (Command, error) {
	tag := d.ReadU8()
	if err := d.Err(); err != nil {
		return nil, err
	}
	switch tag {
	case cmdMoveCall:
		return deserializeMoveCall(d)
	case cmdTransferObjects:
		objects, err := bcs.DeserializeVector(d, DeserializeArgument)
		if err != nil {
			return nil, fmt.Errorf("transfer objects: %w", err)
		}
		recipient, err := DeserializeArgument(d)
		if err != nil {
			return nil, fmt.Errorf("transfer recipient: %w", err)
		}
		return TransferObjects{Objects: objects, Recipient: recipient}, nil
	case cmdSplitCoins:
		coin, err := DeserializeArgument(d)
		if err != nil {
			return nil, fmt.Errorf("split coin: %w", err)
		}
		amounts, err := bcs.DeserializeVector(d, DeserializeArgument)
		if err != nil {
			return nil, fmt.Errorf("split amounts: %w", err)
		}
		return SplitCoins{Coin: coin, Amounts: amounts}, nil
	case cmdMergeCoins:
		destination, err := DeserializeArgument(d)
		if err != nil {
			return nil, fmt.Errorf("merge destination: %w", err)
		}
		sources, err := bcs.DeserializeVector(d, DeserializeArgument)
		if err != nil {
			return nil, fmt.Errorf("merge sources: %w", err)
		}
		return MergeCoins{Destination: destination, Sources: sources}, nil
	case cmdPublish:
		modules, err := deserializeModules(d)
		if err != nil {
			return nil, fmt.Errorf("publish modules: %w", err)
		}
		deps, err := bcs.DeserializeVector(d, types.DeserializeAddress)
		if err != nil {
			return nil, fmt.Errorf("publish dependencies: %w", err)
		}
		return Publish{Modules: modules, Dependencies: deps}, nil
	case cmdUpgrade:
		modules, err := deserializeModules(d)
		if err != nil {
			return nil, fmt.Errorf("upgrade modules: %w", err)
		}
		deps, err := bcs.DeserializeVector(d, types.DeserializeAddress)
		if err != nil {
			return nil, fmt.Errorf("upgrade dependencies: %w", err)
		}
		pkg, err := types.DeserializeAddress(d)
		if err != nil {
			return nil, fmt.Errorf("upgrade package: %w", err)
		}
		ticket, err := DeserializeArgument(d)
		if err != nil {
			return nil, fmt.Errorf("upgrade ticket: %w", err)
		}
		return Upgrade{Modules: modules, Dependencies: deps, Package: pkg, Ticket: ticket}, nil
	case cmdMakeMoveVec:
		elemType, err := bcs.DeserializeOption(d, bcs.DeserializeString)
		if err != nil {
			return nil, fmt.Errorf("move vec element type: %w", err)
		}
		elems, err := bcs.DeserializeVector(d, DeserializeArgument)
		if err != nil {
			return nil, fmt.Errorf("move vec elements: %w", err)
		}
		var et *string
		if elemType != nil {
			str := string(*elemType)
			et = &str
		}
		return MakeMoveVec{ElementType: et, Elements: elems}, nil
	default:
		return nil, fmt.Errorf("%w: command tag %d", ErrInvalidTag, tag)
	}
}

func deserializeMoveCall(d *bcs.Deserializer) (Command, error) {
	pkg, err := types.DeserializeAddress(d)
	if err != nil {
		return nil, fmt.Errorf("move call package: %w", err)
	}
	module := d.ReadString()
	function := d.ReadString()
	if err := d.Err(); err != nil {
		return nil, err
	}
	typeArgs, err := bcs.DeserializeVector(d, types.DeserializeTypeTag)
	if err != nil {
		return nil, fmt.Errorf("move call type args: %w", err)
	}
	args, err := bcs.DeserializeVector(d, DeserializeArgument)
	if err != nil {
		return nil, fmt.Errorf("move call args: %w", err)
	}
	if len(typeArgs) == 0 {
		typeArgs = nil
	}
	if len(args) == 0 {
		args = nil
	}
	return MoveCall{
		Package:       pkg,
		Module:        module,
		Function:      function,
		TypeArguments: typeArgs,
		Arguments:     args,
	}, nil
}
