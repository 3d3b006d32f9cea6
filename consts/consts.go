// Copyright (C) 2024, MoveLabs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

const (
	ByteLen    = 1
	BoolLen    = 1
	Uint16Len  = 2
	Uint32Len  = 4
	Uint64Len  = 8
	Uint128Len = 16
	Uint256Len = 32

	AddressLen = 32
	DigestLen  = 32

	MaxUint8  = ^uint8(0)
	MaxUint16 = ^uint16(0)
	MaxUint64 = ^uint64(0)
	MaxUint   = ^uint(0)
	MaxInt    = int(MaxUint >> 1)

	// MaxUleb128Len is the longest legal ULEB128 encoding of a 64-bit value.
	MaxUleb128Len = 10
)
