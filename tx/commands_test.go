// Copyright (C) 2024, MoveLabs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tx

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/movelabs/sui-go/bcs"
	"github.com/movelabs/sui-go/types"
)

func TestCommandWireTags(t *testing.T) {
	require := require.New(t)

	moveCall, err := NewMoveCall(types.MustNewAddress("0x2"), "display", "new", nil, nil)
	require.NoError(err)
	transfer, err := NewTransferObjects([]Argument{Input(0)}, Input(1))
	require.NoError(err)
	split, err := NewSplitCoins(GasCoin{}, []Argument{Input(0)})
	require.NoError(err)
	merge, err := NewMergeCoins(GasCoin{}, []Argument{Input(0)})
	require.NoError(err)
	publish, err := NewPublish([][]byte{{1}}, nil)
	require.NoError(err)
	upgrade, err := NewUpgrade([][]byte{{1}}, nil, types.MustNewAddress("0x2"), Input(0))
	require.NoError(err)

	for _, tt := range []struct {
		cmd Command
		tag byte
	}{
		{moveCall, 0},
		{transfer, 1},
		{split, 2},
		{merge, 3},
		{publish, 4},
		{upgrade, 5},
		{MakeMoveVec{}, 6},
	} {
		b, err := bcs.ToBytes(tt.cmd)
		require.NoError(err)
		require.Equal(tt.tag, b[0])
	}
}

func TestCommandRoundTrips(t *testing.T) {
	require := require.New(t)

	capy, err := types.ParseTypeTag("0x2::capy::Capy")
	require.NoError(err)
	moveCall, err := NewMoveCall(
		types.MustNewAddress("0x2"), "display", "new",
		[]types.TypeTag{capy},
		[]Argument{Input(0), NestedResult{Command: 0, Index: 1}},
	)
	require.NoError(err)
	transfer, err := NewTransferObjects([]Argument{Input(0), Result(0)}, Input(1))
	require.NoError(err)
	split, err := NewSplitCoins(GasCoin{}, []Argument{Input(0), Input(1)})
	require.NoError(err)
	merge, err := NewMergeCoins(Result(0), []Argument{Input(0)})
	require.NoError(err)
	publish, err := NewPublish(
		[][]byte{{0xCA, 0xFE}, {0xBE, 0xEF}},
		[]types.ObjectID{types.MustNewAddress("0x1"), types.MustNewAddress("0x2")},
	)
	require.NoError(err)
	upgrade, err := NewUpgrade(
		[][]byte{{0xCA}}, []types.ObjectID{types.MustNewAddress("0x1")},
		types.MustNewAddress("0xABC"), Input(0),
	)
	require.NoError(err)
	elemType := "u64"
	makeVec := MakeMoveVec{ElementType: &elemType, Elements: []Argument{Input(0), Input(1)}}

	for _, cmd := range []Command{moveCall, transfer, split, merge, publish, upgrade, makeVec} {
		b, err := bcs.ToBytes(cmd)
		require.NoError(err)

		d := bcs.NewDeserializer(b)
		back, err := DeserializeCommand(d)
		require.NoError(err)
		require.True(d.IsEmpty())
		require.Equal(cmd, back)
	}
}

func TestMakeMoveVecOption(t *testing.T) {
	t.Run("inferred element type", func(t *testing.T) {
		require := require.New(t)

		b, err := bcs.ToBytes(MakeMoveVec{Elements: []Argument{Input(0)}})
		require.NoError(err)
		// tag 6 · option none · one element
		require.Equal([]byte{6, 0, 1, 1, 0, 0}, b)
	})

	t.Run("explicit element type", func(t *testing.T) {
		require := require.New(t)

		elemType := "u8"
		b, err := bcs.ToBytes(MakeMoveVec{ElementType: &elemType})
		require.NoError(err)
		// tag 6 · option some · "u8" · no elements
		require.Equal([]byte{6, 1, 2, 117, 56, 0}, b)
	})
}

func TestMoveCallFixtureLayout(t *testing.T) {
	require := require.New(t)

	capy, err := types.ParseTypeTag("0x2::capy::Capy")
	require.NoError(err)
	cmd, err := NewMoveCall(
		types.MustNewAddress("0x2"), "display", "new",
		[]types.TypeTag{capy}, []Argument{Input(0)},
	)
	require.NoError(err)

	b, err := bcs.ToBytes(cmd)
	require.NoError(err)

	// Matches the command section of the shared C# fixture.
	expected := []byte{
		0,
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 2,
		7, 100, 105, 115, 112, 108, 97, 121,
		3, 110, 101, 119,
		1, 7,
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 2,
		4, 99, 97, 112, 121,
		4, 67, 97, 112, 121,
		0,
		1, 1, 0, 0,
	}
	require.Equal(expected, b)
}

func TestCommandUnknownTag(t *testing.T) {
	require := require.New(t)

	_, err := DeserializeCommand(bcs.NewDeserializer([]byte{7}))
	require.ErrorIs(err, ErrInvalidTag)
}
