// Copyright (C) 2024, MoveLabs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package types

import (
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/movelabs/sui-go/bcs"
)

// ObjectRef pins an owned or immutable object to an exact on-chain
// state: id, version, and the base58 transaction digest that produced
// that version.
type ObjectRef struct {
	ObjectID ObjectID
	Version  uint64
	Digest   string
}

// NewObjectRef builds an ObjectRef, validating the digest eagerly so a
// bad literal fails at construction rather than at serialization.
func NewObjectRef(id ObjectID, version uint64, digest string) (ObjectRef, error) {
	if _, err := decodeDigest(digest); err != nil {
		return ObjectRef{}, err
	}
	return ObjectRef{ObjectID: id, Version: version, Digest: digest}, nil
}

func decodeDigest(digest string) ([]byte, error) {
	if digest == "" {
		return nil, fmt.Errorf("%w: empty digest", ErrInvalidDigest)
	}
	b, err := base58.Decode(digest)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %s", ErrInvalidDigest, digest, err)
	}
	return b, nil
}

// Serialize writes id, version, then the decoded digest bytes with a
// ULEB128 length prefix.
func (r ObjectRef) Serialize(s *bcs.Serializer) {
	db, err := decodeDigest(r.Digest)
	if err != nil {
		s.FailWith(err)
		return
	}
	r.ObjectID.Serialize(s)
	s.WriteU64(r.Version)
	s.WriteVectorLength(len(db))
	s.WriteBytes(db)
}

// DeserializeObjectRef reads an ObjectRef, re-encoding the digest bytes
// to base58 text.
func DeserializeObjectRef(d *bcs.Deserializer) (ObjectRef, error) {
	id, err := DeserializeAddress(d)
	if err != nil {
		return ObjectRef{}, fmt.Errorf("object id: %w", err)
	}
	version := d.ReadU64()
	n := d.ReadVectorLength()
	db := d.ReadBytes(n)
	if err := d.Err(); err != nil {
		return ObjectRef{}, err
	}
	if n == 0 {
		return ObjectRef{}, fmt.Errorf("%w: empty digest", ErrInvalidDigest)
	}
	return ObjectRef{
		ObjectID: id,
		Version:  version,
		Digest:   base58.Encode(db),
	}, nil
}

// SharedObjectRef names a shared object by id and the version at which
// it first became shared, plus whether the transaction needs mutable
// access.
type SharedObjectRef struct {
	ObjectID             ObjectID
	InitialSharedVersion uint64
	Mutable              bool
}

// Serialize writes id, initial shared version, and the mutability flag.
func (r SharedObjectRef) Serialize(s *bcs.Serializer) {
	r.ObjectID.Serialize(s)
	s.WriteU64(r.InitialSharedVersion)
	s.WriteBool(r.Mutable)
}

// DeserializeSharedObjectRef reads a SharedObjectRef.
func DeserializeSharedObjectRef(d *bcs.Deserializer) (SharedObjectRef, error) {
	id, err := DeserializeAddress(d)
	if err != nil {
		return SharedObjectRef{}, fmt.Errorf("object id: %w", err)
	}
	version := d.ReadU64()
	mutable := d.ReadBool()
	if err := d.Err(); err != nil {
		return SharedObjectRef{}, err
	}
	return SharedObjectRef{
		ObjectID:             id,
		InitialSharedVersion: version,
		Mutable:              mutable,
	}, nil
}
