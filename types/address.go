// Copyright (C) 2024, MoveLabs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package types

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/movelabs/sui-go/bcs"
	"github.com/movelabs/sui-go/consts"
)

// Address is a 32-byte account or object identifier. The canonical text
// form is "0x" followed by 64 lowercase hex characters; shorter inputs
// are left-padded with zeros, so "0x2" and its full form name the same
// address.
type Address [consts.AddressLen]byte

// ObjectID shares the address representation.
type ObjectID = Address

// NewAddress parses a hex address, with or without the 0x prefix,
// normalizing short forms by left-padding.
func NewAddress(str string) (Address, error) {
	var a Address
	h := strings.TrimPrefix(strings.ToLower(str), "0x")
	if h == "" {
		return a, fmt.Errorf("%w: empty address", ErrInvalidAddress)
	}
	if len(h) > 2*consts.AddressLen {
		return a, fmt.Errorf("%w: %q longer than %d hex chars", ErrInvalidAddress, str, 2*consts.AddressLen)
	}
	if len(h)%2 == 1 {
		h = "0" + h
	}
	b, err := hex.DecodeString(h)
	if err != nil {
		return a, fmt.Errorf("%w: %q: %s", ErrInvalidAddress, str, err)
	}
	copy(a[consts.AddressLen-len(b):], b)
	return a, nil
}

// MustNewAddress is NewAddress for known-good literals; it panics on error.
func MustNewAddress(str string) Address {
	a, err := NewAddress(str)
	if err != nil {
		panic(err)
	}
	return a
}

// AddressFromBytes copies exactly 32 bytes into an Address.
func AddressFromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) != consts.AddressLen {
		return a, fmt.Errorf("%w: need %d bytes, got %d", ErrInvalidAddress, consts.AddressLen, len(b))
	}
	copy(a[:], b)
	return a, nil
}

// String returns the canonical 0x-prefixed 64-char lowercase hex form.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// Bytes returns a copy of the raw 32 bytes.
func (a Address) Bytes() []byte {
	b := make([]byte, consts.AddressLen)
	copy(b, a[:])
	return b
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := NewAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Serialize writes the raw 32 bytes with no length prefix.
func (a Address) Serialize(s *bcs.Serializer) {
	s.WriteBytes(a[:])
}

// DeserializeAddress reads 32 raw bytes.
func DeserializeAddress(d *bcs.Deserializer) (Address, error) {
	var a Address
	b := d.ReadBytes(consts.AddressLen)
	if err := d.Err(); err != nil {
		return a, err
	}
	copy(a[:], b)
	return a, nil
}
