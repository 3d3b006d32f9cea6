// Copyright (C) 2024, MoveLabs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tx

import (
	"fmt"
	"math"
	"strings"

	"github.com/movelabs/sui-go/bcs"
	"github.com/movelabs/sui-go/types"
)

// EncodePureValue turns a Go value into BCS bytes for a Pure input.
//
// Without a hint the Go type decides the encoding: bool, uint8/16/32/64
// map to the matching width, int and uint encode as u64, a string
// starting with "0x" encodes as a 32-byte address, any other string is
// length-prefixed UTF-8, []byte is a length-prefixed byte vector,
// types.Address is 32 raw bytes, bcs.U128/U256 use their fixed lanes,
// and any other bcs.Serializable serializes itself.
//
// A hint ("u8", "u64", "u128", "address", ...) overrides the default
// width for integer values and lets string inputs encode as addresses
// or wide integers.
func EncodePureValue(value any, typeHint string) ([]byte, error) {
	s := bcs.NewSerializer()
	if typeHint != "" {
		if err := encodeHinted(s, value, typeHint); err != nil {
			return nil, err
		}
	} else if err := encodeDefault(s, value); err != nil {
		return nil, err
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return s.Bytes(), nil
}

func encodeDefault(s *bcs.Serializer, value any) error {
	switch v := value.(type) {
	case bool:
		s.WriteBool(v)
	case uint8:
		s.WriteU8(v)
	case uint16:
		s.WriteU16(v)
	case uint32:
		s.WriteU32(v)
	case uint64:
		s.WriteU64(v)
	case uint:
		s.WriteU64(uint64(v))
	case int:
		if v < 0 {
			return fmt.Errorf("%w: negative integer %d", ErrUnsupportedPure, v)
		}
		s.WriteU64(uint64(v))
	case string:
		if strings.HasPrefix(v, "0x") {
			a, err := types.NewAddress(v)
			if err != nil {
				return err
			}
			a.Serialize(s)
			return nil
		}
		s.WriteString(v)
	case []byte:
		s.WriteVectorLength(len(v))
		s.WriteBytes(v)
	case types.Address:
		v.Serialize(s)
	case bcs.Serializable:
		v.Serialize(s)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedPure, value)
	}
	return nil
}

func encodeHinted(s *bcs.Serializer, value any, hint string) error {
	switch hint {
	case "bool":
		v, ok := value.(bool)
		if !ok {
			return fmt.Errorf("%w: %T is not a bool", ErrUnsupportedPure, value)
		}
		s.WriteBool(v)
	case "u8":
		n, err := asUint(value, math.MaxUint8)
		if err != nil {
			return err
		}
		s.WriteU8(uint8(n))
	case "u16":
		n, err := asUint(value, math.MaxUint16)
		if err != nil {
			return err
		}
		s.WriteU16(uint16(n))
	case "u32":
		n, err := asUint(value, math.MaxUint32)
		if err != nil {
			return err
		}
		s.WriteU32(uint32(n))
	case "u64":
		n, err := asUint(value, math.MaxUint64)
		if err != nil {
			return err
		}
		s.WriteU64(n)
	case "u128":
		return encodeWide(s, value, false)
	case "u256":
		return encodeWide(s, value, true)
	case "address":
		switch v := value.(type) {
		case types.Address:
			v.Serialize(s)
		case string:
			a, err := types.NewAddress(v)
			if err != nil {
				return err
			}
			a.Serialize(s)
		default:
			return fmt.Errorf("%w: %T is not an address", ErrUnsupportedPure, value)
		}
	case "string":
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: %T is not a string", ErrUnsupportedPure, value)
		}
		s.WriteString(v)
	default:
		return fmt.Errorf("%w: unknown type hint %q", ErrUnsupportedPure, hint)
	}
	return nil
}

func encodeWide(s *bcs.Serializer, value any, u256 bool) error {
	var (
		wide bcs.Serializable
		err  error
	)
	switch v := value.(type) {
	case bcs.U128:
		if u256 {
			return fmt.Errorf("%w: u128 value with u256 hint", ErrUnsupportedPure)
		}
		wide = v
	case bcs.U256:
		if !u256 {
			return fmt.Errorf("%w: u256 value with u128 hint", ErrUnsupportedPure)
		}
		wide = v
	case string:
		if u256 {
			wide, err = bcs.NewU256FromString(v)
		} else {
			wide, err = bcs.NewU128FromString(v)
		}
		if err != nil {
			return err
		}
	default:
		n, uerr := asUint(value, math.MaxUint64)
		if uerr != nil {
			return uerr
		}
		if u256 {
			wide = bcs.NewU256(n)
		} else {
			wide = bcs.NewU128(n)
		}
	}
	wide.Serialize(s)
	return nil
}

func asUint(value any, max uint64) (uint64, error) {
	var n uint64
	switch v := value.(type) {
	case uint8:
		n = uint64(v)
	case uint16:
		n = uint64(v)
	case uint32:
		n = uint64(v)
	case uint64:
		n = v
	case uint:
		n = uint64(v)
	case int:
		if v < 0 {
			return 0, fmt.Errorf("%w: negative integer %d", ErrUnsupportedPure, v)
		}
		n = uint64(v)
	case int64:
		if v < 0 {
			return 0, fmt.Errorf("%w: negative integer %d", ErrUnsupportedPure, v)
		}
		n = uint64(v)
	default:
		return 0, fmt.Errorf("%w: %T is not an unsigned integer", ErrUnsupportedPure, value)
	}
	if n > max {
		return 0, fmt.Errorf("%w: %d exceeds hinted width", bcs.ErrOverflow, n)
	}
	return n, nil
}
