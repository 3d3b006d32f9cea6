// Copyright (C) 2024, MoveLabs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bcs

import "errors"

var (
	// ErrOverflow is returned when a numeric value does not fit the target
	// fixed-width type. Values are never truncated or wrapped.
	ErrOverflow = errors.New("value out of range")

	// ErrInsufficientData is returned when a read needs more bytes than remain.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInvalidData is returned when a byte is present but semantically
	// illegal for the declared type (bad bool byte, bad option tag).
	ErrInvalidData = errors.New("invalid data")

	// ErrInvalidLength is returned when a declared length is negative or
	// exceeds what the input can possibly hold.
	ErrInvalidLength = errors.New("invalid length")
)
