// Copyright (C) 2024, MoveLabs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bcs

import (
	"fmt"

	"github.com/holiman/uint256"
)

// Serializable is implemented by every value that knows how to append
// its canonical byte form to a [Serializer]. Implementations report
// failures through the cursor rather than a return value.
type Serializable interface {
	Serialize(s *Serializer)
}

// U8 is a BCS u8.
type U8 uint8

func (v U8) Serialize(s *Serializer) { s.WriteU8(uint8(v)) }

// DeserializeU8 reads a u8 from the cursor.
func DeserializeU8(d *Deserializer) (U8, error) {
	v := d.ReadU8()
	return U8(v), d.Err()
}

// U16 is a BCS u16.
type U16 uint16

func (v U16) Serialize(s *Serializer) { s.WriteU16(uint16(v)) }

// DeserializeU16 reads a u16 from the cursor.
func DeserializeU16(d *Deserializer) (U16, error) {
	v := d.ReadU16()
	return U16(v), d.Err()
}

// U32 is a BCS u32.
type U32 uint32

func (v U32) Serialize(s *Serializer) { s.WriteU32(uint32(v)) }

// DeserializeU32 reads a u32 from the cursor.
func DeserializeU32(d *Deserializer) (U32, error) {
	v := d.ReadU32()
	return U32(v), d.Err()
}

// U64 is a BCS u64.
type U64 uint64

func (v U64) Serialize(s *Serializer) { s.WriteU64(uint64(v)) }

// DeserializeU64 reads a u64 from the cursor.
func DeserializeU64(d *Deserializer) (U64, error) {
	v := d.ReadU64()
	return U64(v), d.Err()
}

// U128 is a BCS u128. The zero value is the number zero. Construct
// non-zero values with [NewU128] or [NewU128FromString], which enforce
// the 128-bit range.
type U128 struct {
	n uint256.Int
}

// NewU128 builds a U128 from a 64-bit value.
func NewU128(v uint64) U128 {
	var u U128
	u.n.SetUint64(v)
	return u
}

// NewU128FromString parses a decimal or 0x-prefixed hex string,
// rejecting values wider than 128 bits.
func NewU128FromString(str string) (U128, error) {
	var u U128
	n, err := uint256.FromDecimal(str)
	if err != nil {
		n, err = uint256.FromHex(str)
		if err != nil {
			return u, fmt.Errorf("%w: %q is not a valid u128", ErrInvalidData, str)
		}
	}
	if n.BitLen() > 128 {
		return u, fmt.Errorf("%w: %q exceeds u128", ErrOverflow, str)
	}
	u.n = *n
	return u, nil
}

// Big returns a copy of the backing integer.
func (v U128) Big() *uint256.Int { return v.n.Clone() }

// String returns the decimal representation.
func (v U128) String() string { return v.n.Dec() }

func (v U128) Serialize(s *Serializer) { s.WriteU128(&v.n) }

// DeserializeU128 reads a u128 from the cursor.
func DeserializeU128(d *Deserializer) (U128, error) {
	var u U128
	u.n = *d.ReadU128()
	return u, d.Err()
}

// U256 is a BCS u256. The zero value is the number zero.
type U256 struct {
	n uint256.Int
}

// NewU256 builds a U256 from a 64-bit value.
func NewU256(v uint64) U256 {
	var u U256
	u.n.SetUint64(v)
	return u
}

// NewU256FromString parses a decimal or 0x-prefixed hex string.
func NewU256FromString(str string) (U256, error) {
	var u U256
	n, err := uint256.FromDecimal(str)
	if err != nil {
		n, err = uint256.FromHex(str)
		if err != nil {
			return u, fmt.Errorf("%w: %q is not a valid u256", ErrInvalidData, str)
		}
	}
	u.n = *n
	return u, nil
}

// Big returns a copy of the backing integer.
func (v U256) Big() *uint256.Int { return v.n.Clone() }

// String returns the decimal representation.
func (v U256) String() string { return v.n.Dec() }

func (v U256) Serialize(s *Serializer) { s.WriteU256(&v.n) }

// DeserializeU256 reads a u256 from the cursor.
func DeserializeU256(d *Deserializer) (U256, error) {
	var u U256
	u.n = *d.ReadU256()
	return u, d.Err()
}

// Bool is a BCS bool.
type Bool bool

func (v Bool) Serialize(s *Serializer) { s.WriteBool(bool(v)) }

// DeserializeBool reads a strict bool from the cursor.
func DeserializeBool(d *Deserializer) (Bool, error) {
	v := d.ReadBool()
	return Bool(v), d.Err()
}

// Bytes is a ULEB128 length-prefixed byte string.
type Bytes []byte

func (v Bytes) Serialize(s *Serializer) {
	s.WriteVectorLength(len(v))
	s.WriteBytes(v)
}

// DeserializeBytes reads a length-prefixed byte string. The result is a
// copy and safe to retain.
func DeserializeBytes(d *Deserializer) (Bytes, error) {
	n := d.ReadVectorLength()
	b := d.ReadBytes(n)
	if err := d.Err(); err != nil {
		return nil, err
	}
	out := make(Bytes, n)
	copy(out, b)
	return out, nil
}

// FixedBytes is a raw byte string with no length prefix. Both sides of
// the wire must agree on the width out of band.
type FixedBytes []byte

// NewFixedBytes copies [b], enforcing the agreed width at construction.
func NewFixedBytes(b []byte, size int) (FixedBytes, error) {
	if len(b) != size {
		return nil, fmt.Errorf("%w: need %d bytes, got %d", ErrInvalidLength, size, len(b))
	}
	out := make(FixedBytes, size)
	copy(out, b)
	return out, nil
}

func (v FixedBytes) Serialize(s *Serializer) { s.WriteBytes(v) }

// DeserializeFixedBytes reads exactly [n] raw bytes as a copy.
func DeserializeFixedBytes(d *Deserializer, n int) (FixedBytes, error) {
	b := d.ReadBytes(n)
	if err := d.Err(); err != nil {
		return nil, err
	}
	out := make(FixedBytes, n)
	copy(out, b)
	return out, nil
}

// String is a ULEB128 length-prefixed UTF-8 string.
type String string

func (v String) Serialize(s *Serializer) { s.WriteString(string(v)) }

// DeserializeString reads a length-prefixed UTF-8 string.
func DeserializeString(d *Deserializer) (String, error) {
	v := d.ReadString()
	return String(v), d.Err()
}

// Uleb128 is a bare ULEB128-encoded unsigned integer. BCS itself only
// uses this encoding for lengths and the wrapper exists for callers that
// need the raw varint form.
type Uleb128 uint64

func (v Uleb128) Serialize(s *Serializer) { s.WriteUleb128(uint64(v)) }

// DeserializeUleb128 reads a bare ULEB128 value.
func DeserializeUleb128(d *Deserializer) (Uleb128, error) {
	v := d.ReadUleb128()
	return Uleb128(v), d.Err()
}

// ToBytes serializes [v] into a fresh byte slice.
func ToBytes(v Serializable) ([]byte, error) {
	s := NewSerializer()
	v.Serialize(s)
	if err := s.Err(); err != nil {
		return nil, err
	}
	return s.Bytes(), nil
}
