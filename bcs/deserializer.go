// Copyright (C) 2024, MoveLabs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bcs

import (
	"encoding/binary"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/movelabs/sui-go/consts"
)

// Deserializer is a monotonically-advancing read cursor over an
// immutable byte slice.
//
// Like [Serializer], errors stick to the cursor: once a read fails, all
// further reads return zero values and Err reports the original
// failure. Callers must not interpret values read after a failure.
//
// A Deserializer must not be shared across goroutines.
type Deserializer struct {
	data []byte
	pos  int
	err  error
}

// NewDeserializer returns a cursor over [data]. The slice is not copied;
// callers must not mutate it while the cursor is live.
func NewDeserializer(data []byte) *Deserializer {
	return &Deserializer{data: data}
}

func (d *Deserializer) addErr(err error) {
	if d.err != nil {
		return
	}
	d.err = err
}

// Err returns the first error recorded by any read operation.
func (d *Deserializer) Err() error { return d.err }

// Position returns the current read offset. Diagnostic only.
func (d *Deserializer) Position() int { return d.pos }

// Remaining returns the number of unread bytes.
func (d *Deserializer) Remaining() int { return len(d.data) - d.pos }

// IsEmpty reports whether every byte has been consumed.
func (d *Deserializer) IsEmpty() bool { return d.pos >= len(d.data) }

// PeekU8 returns the next byte without advancing. The second return is
// false when no data remains.
func (d *Deserializer) PeekU8() (uint8, bool) {
	if d.Remaining() == 0 {
		return 0, false
	}
	return d.data[d.pos], true
}

// ensure records ErrInsufficientData unless [n] bytes remain.
func (d *Deserializer) ensure(n int) bool {
	if d.err != nil {
		return false
	}
	if d.Remaining() < n {
		d.addErr(fmt.Errorf("%w: need %d bytes at offset %d, have %d",
			ErrInsufficientData, n, d.pos, d.Remaining()))
		return false
	}
	return true
}

// ReadU8 reads a single byte.
func (d *Deserializer) ReadU8() uint8 {
	if !d.ensure(consts.ByteLen) {
		return 0
	}
	v := d.data[d.pos]
	d.pos++
	return v
}

// ReadU16 reads a 16-bit unsigned integer, little-endian.
func (d *Deserializer) ReadU16() uint16 {
	if !d.ensure(consts.Uint16Len) {
		return 0
	}
	v := binary.LittleEndian.Uint16(d.data[d.pos:])
	d.pos += consts.Uint16Len
	return v
}

// ReadU32 reads a 32-bit unsigned integer, little-endian.
func (d *Deserializer) ReadU32() uint32 {
	if !d.ensure(consts.Uint32Len) {
		return 0
	}
	v := binary.LittleEndian.Uint32(d.data[d.pos:])
	d.pos += consts.Uint32Len
	return v
}

// ReadU64 reads a 64-bit unsigned integer, little-endian.
func (d *Deserializer) ReadU64() uint64 {
	if !d.ensure(consts.Uint64Len) {
		return 0
	}
	v := binary.LittleEndian.Uint64(d.data[d.pos:])
	d.pos += consts.Uint64Len
	return v
}

// ReadU128 reads a 128-bit unsigned integer from 16 little-endian bytes.
func (d *Deserializer) ReadU128() *uint256.Int {
	var v uint256.Int
	if !d.ensure(consts.Uint128Len) {
		return &v
	}
	v[0] = binary.LittleEndian.Uint64(d.data[d.pos:])
	v[1] = binary.LittleEndian.Uint64(d.data[d.pos+consts.Uint64Len:])
	d.pos += consts.Uint128Len
	return &v
}

// ReadU256 reads a 256-bit unsigned integer from 32 little-endian bytes.
func (d *Deserializer) ReadU256() *uint256.Int {
	var v uint256.Int
	if !d.ensure(consts.Uint256Len) {
		return &v
	}
	for i := 0; i < 4; i++ {
		v[i] = binary.LittleEndian.Uint64(d.data[d.pos+i*consts.Uint64Len:])
	}
	d.pos += consts.Uint256Len
	return &v
}

// ReadBool reads a strict boolean: 0 is false, 1 is true, anything else
// records ErrInvalidData.
func (d *Deserializer) ReadBool() bool {
	v := d.ReadU8()
	switch v {
	case 0:
		return false
	case 1:
		return true
	default:
		d.addErr(fmt.Errorf("%w: boolean byte must be 0 or 1, got %d at offset %d",
			ErrInvalidData, v, d.pos-1))
		return false
	}
}

// ReadBytes reads exactly [n] raw bytes. The returned slice aliases the
// input; callers that retain it must copy.
func (d *Deserializer) ReadBytes(n int) []byte {
	if n < 0 {
		d.addErr(fmt.Errorf("%w: negative byte count %d", ErrInvalidLength, n))
		return nil
	}
	if !d.ensure(n) {
		return nil
	}
	v := d.data[d.pos : d.pos+n]
	d.pos += n
	return v
}

// ReadUleb128 reads an unsigned little-endian base-128 varint, rejecting
// encodings wider than 64 bits of magnitude.
func (d *Deserializer) ReadUleb128() uint64 {
	var (
		result uint64
		shift  uint
	)
	for {
		if shift > 63 {
			d.addErr(fmt.Errorf("%w: ULEB128 exceeds 64 bits", ErrOverflow))
			return 0
		}
		b := d.ReadU8()
		if d.err != nil {
			return 0
		}
		if shift == 63 && b > 1 {
			d.addErr(fmt.Errorf("%w: ULEB128 exceeds 64 bits", ErrOverflow))
			return 0
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result
		}
		shift += 7
	}
}

// ReadVectorLength reads a ULEB128 vector length. Lengths that cannot
// possibly fit the remaining input record ErrInvalidLength, which keeps
// a corrupt length prefix from driving a giant allocation.
func (d *Deserializer) ReadVectorLength() int {
	v := d.ReadUleb128()
	if d.err != nil {
		return 0
	}
	if v > uint64(d.Remaining()) {
		d.addErr(fmt.Errorf("%w: declared length %d exceeds %d remaining bytes",
			ErrInvalidLength, v, d.Remaining()))
		return 0
	}
	return int(v)
}

// ReadOptionTag reads a strict option tag byte: 0 is None, 1 is Some.
func (d *Deserializer) ReadOptionTag() bool {
	v := d.ReadU8()
	switch v {
	case 0:
		return false
	case 1:
		return true
	default:
		d.addErr(fmt.Errorf("%w: option tag must be 0 or 1, got %d at offset %d",
			ErrInvalidData, v, d.pos-1))
		return false
	}
}

// ReadString reads a ULEB128 length followed by that many UTF-8 bytes.
func (d *Deserializer) ReadString() string {
	n := d.ReadVectorLength()
	if d.err != nil {
		return ""
	}
	return string(d.ReadBytes(n))
}
