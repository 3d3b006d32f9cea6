// Copyright (C) 2024, MoveLabs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package types

import (
	"fmt"
	"strings"

	"github.com/movelabs/sui-go/bcs"
)

// Wire tags for the TypeTag union. The numbering is a cross-SDK
// contract and must never change.
const (
	typeTagBool    uint8 = 0
	typeTagU8      uint8 = 1
	typeTagU64     uint8 = 2
	typeTagU128    uint8 = 3
	typeTagAddress uint8 = 4
	typeTagSigner  uint8 = 5
	typeTagVector  uint8 = 6
	typeTagStruct  uint8 = 7
	typeTagU16     uint8 = 8
	typeTagU32     uint8 = 9
	typeTagU256    uint8 = 10
)

// TypeTag is a Move type, used for MoveCall type arguments. It is a
// closed union: the variants in this package are the only
// implementations.
type TypeTag interface {
	bcs.Serializable
	fmt.Stringer

	isTypeTag()
}

// BoolTag is the Move bool type.
type BoolTag struct{}

func (BoolTag) isTypeTag()                  {}
func (BoolTag) String() string              { return "bool" }
func (BoolTag) Serialize(s *bcs.Serializer) { s.WriteU8(typeTagBool) }

// U8Tag is the Move u8 type.
type U8Tag struct{}

func (U8Tag) isTypeTag()                  {}
func (U8Tag) String() string              { return "u8" }
func (U8Tag) Serialize(s *bcs.Serializer) { s.WriteU8(typeTagU8) }

// U16Tag is the Move u16 type.
type U16Tag struct{}

func (U16Tag) isTypeTag()                  {}
func (U16Tag) String() string              { return "u16" }
func (U16Tag) Serialize(s *bcs.Serializer) { s.WriteU8(typeTagU16) }

// U32Tag is the Move u32 type.
type U32Tag struct{}

func (U32Tag) isTypeTag()                  {}
func (U32Tag) String() string              { return "u32" }
func (U32Tag) Serialize(s *bcs.Serializer) { s.WriteU8(typeTagU32) }

// U64Tag is the Move u64 type.
type U64Tag struct{}

func (U64Tag) isTypeTag()                  {}
func (U64Tag) String() string              { return "u64" }
func (U64Tag) Serialize(s *bcs.Serializer) { s.WriteU8(typeTagU64) }

// U128Tag is the Move u128 type.
type U128Tag struct{}

func (U128Tag) isTypeTag()                  {}
func (U128Tag) String() string              { return "u128" }
func (U128Tag) Serialize(s *bcs.Serializer) { s.WriteU8(typeTagU128) }

// U256Tag is the Move u256 type.
type U256Tag struct{}

func (U256Tag) isTypeTag()                  {}
func (U256Tag) String() string              { return "u256" }
func (U256Tag) Serialize(s *bcs.Serializer) { s.WriteU8(typeTagU256) }

// AddressTag is the Move address type.
type AddressTag struct{}

func (AddressTag) isTypeTag()                  {}
func (AddressTag) String() string              { return "address" }
func (AddressTag) Serialize(s *bcs.Serializer) { s.WriteU8(typeTagAddress) }

// SignerTag is the Move signer type.
type SignerTag struct{}

func (SignerTag) isTypeTag()                  {}
func (SignerTag) String() string              { return "signer" }
func (SignerTag) Serialize(s *bcs.Serializer) { s.WriteU8(typeTagSigner) }

// VectorTag is vector<Element>.
type VectorTag struct {
	Element TypeTag
}

func (VectorTag) isTypeTag() {}

func (v VectorTag) String() string {
	return "vector<" + v.Element.String() + ">"
}

func (v VectorTag) Serialize(s *bcs.Serializer) {
	s.WriteU8(typeTagVector)
	v.Element.Serialize(s)
}

// StructTag is a named Move struct, possibly generic:
// 0xADDR::module::Name<T0, T1, ...>.
type StructTag struct {
	Address    Address
	Module     string
	Name       string
	TypeParams []TypeTag
}

func (StructTag) isTypeTag() {}

func (t StructTag) String() string {
	var sb strings.Builder
	sb.WriteString(t.Address.String())
	sb.WriteString("::")
	sb.WriteString(t.Module)
	sb.WriteString("::")
	sb.WriteString(t.Name)
	if len(t.TypeParams) > 0 {
		sb.WriteString("<")
		for i, p := range t.TypeParams {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(p.String())
		}
		sb.WriteString(">")
	}
	return sb.String()
}

func (t StructTag) Serialize(s *bcs.Serializer) {
	s.WriteU8(typeTagStruct)
	t.Address.Serialize(s)
	s.WriteString(t.Module)
	s.WriteString(t.Name)
	bcs.SerializeVector(s, t.TypeParams)
}

// ParseTypeTag parses the canonical text form of a Move type:
// primitives ("u64", "bool", ...), "vector<T>", and struct paths
// "0x2::coin::Coin<0x2::sui::SUI>".
func ParseTypeTag(str string) (TypeTag, error) {
	str = strings.TrimSpace(str)
	switch str {
	case "bool":
		return BoolTag{}, nil
	case "u8":
		return U8Tag{}, nil
	case "u16":
		return U16Tag{}, nil
	case "u32":
		return U32Tag{}, nil
	case "u64":
		return U64Tag{}, nil
	case "u128":
		return U128Tag{}, nil
	case "u256":
		return U256Tag{}, nil
	case "address":
		return AddressTag{}, nil
	case "signer":
		return SignerTag{}, nil
	}

	if inner, ok := strings.CutPrefix(str, "vector<"); ok {
		if !strings.HasSuffix(inner, ">") {
			return nil, fmt.Errorf("%w: unterminated vector in %q", ErrInvalidTypeTag, str)
		}
		elem, err := ParseTypeTag(inner[:len(inner)-1])
		if err != nil {
			return nil, err
		}
		return VectorTag{Element: elem}, nil
	}

	return parseStructTag(str)
}

func parseStructTag(str string) (TypeTag, error) {
	base := str
	var params []TypeTag
	if open := strings.Index(str, "<"); open >= 0 {
		if !strings.HasSuffix(str, ">") {
			return nil, fmt.Errorf("%w: unterminated type params in %q", ErrInvalidTypeTag, str)
		}
		base = str[:open]
		for _, part := range splitTopLevel(str[open+1 : len(str)-1]) {
			p, err := ParseTypeTag(part)
			if err != nil {
				return nil, err
			}
			params = append(params, p)
		}
	}

	parts := strings.Split(base, "::")
	if len(parts) != 3 || parts[1] == "" || parts[2] == "" {
		return nil, fmt.Errorf("%w: %q is not addr::module::name", ErrInvalidTypeTag, str)
	}
	addr, err := NewAddress(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %q: bad address", ErrInvalidTypeTag, str)
	}
	return StructTag{
		Address:    addr,
		Module:     parts[1],
		Name:       parts[2],
		TypeParams: params,
	}, nil
}

// splitTopLevel splits a comma-separated type parameter list without
// breaking nested generics apart.
func splitTopLevel(str string) []string {
	var (
		out   []string
		depth int
		start int
	)
	for i, c := range str {
		switch c {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, str[start:i])
				start = i + 1
			}
		}
	}
	out = append(out, str[start:])
	return out
}

// DeserializeTypeTag reads a TypeTag by wire tag.
func DeserializeTypeTag(d *bcs.Deserializer) (TypeTag, error) {
	tag := d.ReadU8()
	if err := d.Err(); err != nil {
		return nil, err
	}
	switch tag {
	case typeTagBool:
		return BoolTag{}, nil
	case typeTagU8:
		return U8Tag{}, nil
	case typeTagU64:
		return U64Tag{}, nil
	case typeTagU128:
		return U128Tag{}, nil
	case typeTagAddress:
		return AddressTag{}, nil
	case typeTagSigner:
		return SignerTag{}, nil
	case typeTagVector:
		elem, err := DeserializeTypeTag(d)
		if err != nil {
			return nil, fmt.Errorf("vector element: %w", err)
		}
		return VectorTag{Element: elem}, nil
	case typeTagStruct:
		return deserializeStructTag(d)
	case typeTagU16:
		return U16Tag{}, nil
	case typeTagU32:
		return U32Tag{}, nil
	case typeTagU256:
		return U256Tag{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown tag %d", ErrInvalidTypeTag, tag)
	}
}

func deserializeStructTag(d *bcs.Deserializer) (TypeTag, error) {
	addr, err := DeserializeAddress(d)
	if err != nil {
		return nil, fmt.Errorf("struct address: %w", err)
	}
	module := d.ReadString()
	name := d.ReadString()
	if err := d.Err(); err != nil {
		return nil, err
	}
	params, err := bcs.DeserializeVector(d, DeserializeTypeTag)
	if err != nil {
		return nil, fmt.Errorf("struct type params: %w", err)
	}
	if len(params) == 0 {
		params = nil
	}
	return StructTag{
		Address:    addr,
		Module:     module,
		Name:       name,
		TypeParams: params,
	}, nil
}
