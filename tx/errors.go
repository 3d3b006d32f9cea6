// Copyright (C) 2024, MoveLabs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tx

import "errors"

var (
	// Wire decoding.
	ErrInvalidTag    = errors.New("invalid tag")
	ErrTrailingBytes = errors.New("trailing bytes after envelope")

	// Structural validation.
	ErrNoCommands       = errors.New("transaction has no commands")
	ErrEmptyCommand     = errors.New("command is missing a required operand")
	ErrForwardReference = errors.New("argument references a later command")
	ErrInputOutOfRange  = errors.New("input index out of range")
	ErrInvalidTarget    = errors.New("invalid move call target")
	ErrUnsupportedPure  = errors.New("unsupported pure value type")

	// Build preconditions.
	ErrMissingSender     = errors.New("sender not set")
	ErrMissingGasPrice   = errors.New("gas price not set")
	ErrMissingGasBudget  = errors.New("gas budget not set")
	ErrMissingGasPayment = errors.New("gas payment not set")
	ErrUnresolvedObject  = errors.New("object input not resolved")
	ErrBuilderFinished   = errors.New("builder already finished")

	// Resolution.
	ErrObjectNotFound = errors.New("object not found")
)
