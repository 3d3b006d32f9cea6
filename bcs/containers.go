// Copyright (C) 2024, MoveLabs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bcs

import "fmt"

// SerializeVector writes a ULEB128 element count followed by each
// element's serialization, in order.
func SerializeVector[T Serializable](s *Serializer, elems []T) {
	s.WriteVectorLength(len(elems))
	for _, e := range elems {
		e.Serialize(s)
	}
}

// DeserializeVector reads a ULEB128 element count and then decodes each
// element with [readElem]. Element errors are wrapped with the index so
// a corrupt stream points at the offending position.
func DeserializeVector[T any](d *Deserializer, readElem func(*Deserializer) (T, error)) ([]T, error) {
	n := d.ReadVectorLength()
	if err := d.Err(); err != nil {
		return nil, err
	}
	out := make([]T, 0, n)
	for i := 0; i < n; i++ {
		e, err := readElem(d)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, e)
	}
	return out, nil
}

// SerializeOption writes a fixed tag byte (0 for nil, 1 otherwise)
// followed by the payload when present.
func SerializeOption[T Serializable](s *Serializer, v *T) {
	if v == nil {
		s.WriteOptionTag(false)
		return
	}
	s.WriteOptionTag(true)
	(*v).Serialize(s)
}

// DeserializeOption reads an option tag and, when set, the payload.
// None decodes to nil.
func DeserializeOption[T any](d *Deserializer, readElem func(*Deserializer) (T, error)) (*T, error) {
	some := d.ReadOptionTag()
	if err := d.Err(); err != nil {
		return nil, err
	}
	if !some {
		return nil, nil
	}
	v, err := readElem(d)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
