// Copyright (C) 2024, MoveLabs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package types

import "errors"

var (
	ErrInvalidAddress = errors.New("invalid address")
	ErrInvalidDigest  = errors.New("invalid digest")
	ErrInvalidTypeTag = errors.New("invalid type tag")
)
