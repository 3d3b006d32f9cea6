// Copyright (C) 2024, MoveLabs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tx

import (
	"fmt"

	"github.com/movelabs/sui-go/bcs"
	"github.com/movelabs/sui-go/types"
)

// CallArg wire tags. Cross-SDK contract, never renumber.
const (
	callArgPure   uint8 = 0
	callArgObject uint8 = 1

	objectArgImmOrOwned uint8 = 0
	objectArgShared     uint8 = 1
	objectArgReceiving  uint8 = 2
)

// Argument wire tags.
const (
	argGasCoin      uint8 = 0
	argInput        uint8 = 1
	argResult       uint8 = 2
	argNestedResult uint8 = 3
)

// CallArg is a transaction input. It is a closed union: Pure,
// ImmOrOwnedObject, SharedObject, and ReceivingObject are the only
// variants.
type CallArg interface {
	bcs.Serializable

	isCallArg()
}

// Pure is a pre-encoded BCS value passed by value into commands.
type Pure struct {
	Bytes []byte
}

func (Pure) isCallArg() {}

func (p Pure) Serialize(s *bcs.Serializer) {
	s.WriteU8(callArgPure)
	s.WriteVectorLength(len(p.Bytes))
	s.WriteBytes(p.Bytes)
}

// ImmOrOwnedObject is an owned or immutable object pinned to an exact
// (id, version, digest) state.
type ImmOrOwnedObject struct {
	Ref types.ObjectRef
}

func (ImmOrOwnedObject) isCallArg() {}

func (o ImmOrOwnedObject) Serialize(s *bcs.Serializer) {
	s.WriteU8(callArgObject)
	s.WriteU8(objectArgImmOrOwned)
	o.Ref.Serialize(s)
}

// SharedObject is a shared object named by id and initial shared
// version.
type SharedObject struct {
	Ref types.SharedObjectRef
}

func (SharedObject) isCallArg() {}

func (o SharedObject) Serialize(s *bcs.Serializer) {
	s.WriteU8(callArgObject)
	s.WriteU8(objectArgShared)
	o.Ref.Serialize(s)
}

// ReceivingObject is an object being received by the transaction via
// transfer-to-object.
type ReceivingObject struct {
	Ref types.ObjectRef
}

func (ReceivingObject) isCallArg() {}

func (o ReceivingObject) Serialize(s *bcs.Serializer) {
	s.WriteU8(callArgObject)
	s.WriteU8(objectArgReceiving)
	o.Ref.Serialize(s)
}

// DeserializeCallArg reads a CallArg by wire tag.
func DeserializeCallArg(d *bcs.Deserializer) (CallArg, error) {
	tag := d.ReadU8()
	if err := d.Err(); err != nil {
		return nil, err
	}
	switch tag {
	case callArgPure:
		b, err := bcs.DeserializeBytes(d)
		if err != nil {
			return nil, fmt.Errorf("pure bytes: %w", err)
		}
		return Pure{Bytes: b}, nil
	case callArgObject:
		return deserializeObjectArg(d)
	default:
		return nil, fmt.Errorf("%w: call arg tag %d", ErrInvalidTag, tag)
	}
}

func deserializeObjectArg(d *bcs.Deserializer) (CallArg, error) {
	kind := d.ReadU8()
	if err := d.Err(); err != nil {
		return nil, err
	}
	switch kind {
	case objectArgImmOrOwned:
		ref, err := types.DeserializeObjectRef(d)
		if err != nil {
			return nil, fmt.Errorf("owned object: %w", err)
		}
		return ImmOrOwnedObject{Ref: ref}, nil
	case objectArgShared:
		ref, err := types.DeserializeSharedObjectRef(d)
		if err != nil {
			return nil, fmt.Errorf("shared object: %w", err)
		}
		return SharedObject{Ref: ref}, nil
	case objectArgReceiving:
		ref, err := types.DeserializeObjectRef(d)
		if err != nil {
			return nil, fmt.Errorf("receiving object: %w", err)
		}
		return ReceivingObject{Ref: ref}, nil
	default:
		return nil, fmt.Errorf("%w: object arg kind %d", ErrInvalidTag, kind)
	}
}

// Argument names a value inside the command list: the gas coin, an
// input slot, or an earlier command's output. Closed union.
type Argument interface {
	bcs.Serializable

	isArgument()
}

// GasCoin refers to the transaction's gas coin object.
type GasCoin struct{}

func (GasCoin) isArgument() {}

func (GasCoin) Serialize(s *bcs.Serializer) { s.WriteU8(argGasCoin) }

// Input refers to the input slot at the given index.
type Input uint16

func (Input) isArgument() {}

func (a Input) Serialize(s *bcs.Serializer) {
	s.WriteU8(argInput)
	s.WriteU16(uint16(a))
}

// Result refers to the sole result of an earlier command.
type Result uint16

func (Result) isArgument() {}

func (a Result) Serialize(s *bcs.Serializer) {
	s.WriteU8(argResult)
	s.WriteU16(uint16(a))
}

// NestedResult refers to one element of an earlier command's result
// tuple.
type NestedResult struct {
	Command uint16
	Index   uint16
}

func (NestedResult) isArgument() {}

func (a NestedResult) Serialize(s *bcs.Serializer) {
	s.WriteU8(argNestedResult)
	s.WriteU16(a.Command)
	s.WriteU16(a.Index)
}

// DeserializeArgument reads an Argument by wire tag.
func DeserializeArgument(d *bcs.Deserializer) (Argument, error) {
	tag := d.ReadU8()
	if err := d.Err(); err != nil {
		return nil, err
	}
	switch tag {
	case argGasCoin:
		return GasCoin{}, nil
	case argInput:
		v := d.ReadU16()
		if err := d.Err(); err != nil {
			return nil, err
		}
		return Input(v), nil
	case argResult:
		v := d.ReadU16()
		if err := d.Err(); err != nil {
			return nil, err
		}
		return Result(v), nil
	case argNestedResult:
		c := d.ReadU16()
		i := d.ReadU16()
		if err := d.Err(); err != nil {
			return nil, err
		}
		return NestedResult{Command: c, Index: i}, nil
	default:
		return nil, fmt.Errorf("%w: argument tag %d", ErrInvalidTag, tag)
	}
}
