// Copyright (C) 2024, MoveLabs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bcs

import (
	"encoding/binary"
	"fmt"

	"github.com/holiman/uint256"
)

// Serializer is a monotonically-growing output cursor for BCS bytes.
//
// Errors stick to the cursor: the first failed write poisons every
// subsequent operation and is surfaced by [Serializer.Err]. This lets
// callers chain writes without checking an error per call, the same
// contract every Marshal method in this module relies on.
//
// A Serializer must not be shared across goroutines.
type Serializer struct {
	b   []byte
	err error
}

// NewSerializer returns an empty serializer.
func NewSerializer() *Serializer {
	return NewSerializerSize(256)
}

// NewSerializerSize returns an empty serializer with an initial buffer
// capacity of [initial] bytes.
func NewSerializerSize(initial int) *Serializer {
	return &Serializer{b: make([]byte, 0, initial)}
}

func (s *Serializer) addErr(err error) {
	if s.err != nil {
		return
	}
	s.err = err
}

// Err returns the first error recorded by any write operation.
func (s *Serializer) Err() error { return s.err }

// FailWith records an external error on the cursor. Serialize
// implementations use this to surface validation failures discovered
// mid-write; the first recorded error wins.
func (s *Serializer) FailWith(err error) { s.addErr(err) }

// Bytes returns the serialized output. The result is only meaningful if
// Err returns nil.
func (s *Serializer) Bytes() []byte { return s.b }

// Size returns the number of bytes written so far.
func (s *Serializer) Size() int { return len(s.b) }

// Clear resets the serializer to empty (retaining the buffer) so the
// instance can be reused for another serialization.
func (s *Serializer) Clear() {
	s.b = s.b[:0]
	s.err = nil
}

// WriteU8 writes a single byte.
func (s *Serializer) WriteU8(v uint8) {
	if s.err != nil {
		return
	}
	s.b = append(s.b, v)
}

// WriteU16 writes a 16-bit unsigned integer, little-endian.
func (s *Serializer) WriteU16(v uint16) {
	if s.err != nil {
		return
	}
	s.b = binary.LittleEndian.AppendUint16(s.b, v)
}

// WriteU32 writes a 32-bit unsigned integer, little-endian.
func (s *Serializer) WriteU32(v uint32) {
	if s.err != nil {
		return
	}
	s.b = binary.LittleEndian.AppendUint32(s.b, v)
}

// WriteU64 writes a 64-bit unsigned integer, little-endian.
func (s *Serializer) WriteU64(v uint64) {
	if s.err != nil {
		return
	}
	s.b = binary.LittleEndian.AppendUint64(s.b, v)
}

// WriteU128 writes a 128-bit unsigned integer as 16 little-endian bytes.
// Values wider than 128 bits record ErrOverflow.
func (s *Serializer) WriteU128(v *uint256.Int) {
	if s.err != nil {
		return
	}
	if v.BitLen() > 128 {
		s.addErr(fmt.Errorf("%w: %s exceeds u128", ErrOverflow, v))
		return
	}
	s.b = binary.LittleEndian.AppendUint64(s.b, v[0])
	s.b = binary.LittleEndian.AppendUint64(s.b, v[1])
}

// WriteU256 writes a 256-bit unsigned integer as 32 little-endian bytes.
func (s *Serializer) WriteU256(v *uint256.Int) {
	if s.err != nil {
		return
	}
	for i := 0; i < 4; i++ {
		s.b = binary.LittleEndian.AppendUint64(s.b, v[i])
	}
}

// WriteBool writes a boolean as a single 0/1 byte.
func (s *Serializer) WriteBool(v bool) {
	if v {
		s.WriteU8(1)
	} else {
		s.WriteU8(0)
	}
}

// WriteBytes writes raw bytes with no length prefix. Callers needing a
// length-prefixed byte string write a ULEB128 length first (see
// [Bytes.Serialize]).
func (s *Serializer) WriteBytes(b []byte) {
	if s.err != nil {
		return
	}
	s.b = append(s.b, b...)
}

// WriteUleb128 writes an unsigned little-endian base-128 varint.
func (s *Serializer) WriteUleb128(v uint64) {
	if s.err != nil {
		return
	}
	for v >= 0x80 {
		s.b = append(s.b, byte(v&0x7f)|0x80)
		v >>= 7
	}
	s.b = append(s.b, byte(v))
}

// WriteVectorLength writes a vector length as ULEB128.
func (s *Serializer) WriteVectorLength(n int) {
	if n < 0 {
		s.addErr(fmt.Errorf("%w: negative vector length %d", ErrInvalidLength, n))
		return
	}
	s.WriteUleb128(uint64(n))
}

// WriteOptionTag writes an option tag byte: 0 for None, 1 for Some.
// Option tags are a fixed single byte, not ULEB128.
func (s *Serializer) WriteOptionTag(some bool) {
	s.WriteBool(some)
}

// WriteString writes a ULEB128 length followed by the UTF-8 bytes.
func (s *Serializer) WriteString(str string) {
	s.WriteVectorLength(len(str))
	s.WriteBytes([]byte(str))
}
