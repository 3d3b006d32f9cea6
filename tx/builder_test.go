// Copyright (C) 2024, MoveLabs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tx

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/movelabs/sui-go/types"
)

func gasBuilder(t *testing.T) *Builder {
	t.Helper()
	b := NewBuilder()
	require.NoError(t, b.SetSender(types.MustNewAddress("0x2")))
	require.NoError(t, b.SetGasPrice(5))
	require.NoError(t, b.SetGasBudget(100))
	require.NoError(t, b.SetGasPayment([]types.ObjectRef{gasRef(t)}))
	return b
}

func mustInput(t *testing.T) func(Argument, error) Argument {
	t.Helper()
	return func(arg Argument, err error) Argument {
		require.NoError(t, err)
		return arg
	}
}

func TestBuildSplitCoins(t *testing.T) {
	require := require.New(t)

	b := gasBuilder(t)
	amount, err := b.Pure(100, "u64")
	require.NoError(err)
	_, err = b.SplitCoins(b.GasCoin(), []Argument{amount})
	require.NoError(err)

	actual, err := b.Build()
	require.NoError(err)

	expected := []byte{
		0, 0, 1, 0, 8, 100, 0, 0, 0, 0, 0, 0, 0, 1, 2, 0, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 2, 1, 88, 119, 64, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 35, 14, 0, 0, 0, 0, 0, 0, 32, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 1, 2, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 2, 5, 0, 0, 0, 0, 0, 0, 0, 100, 0, 0, 0, 0, 0, 0, 0, 0,
	}
	require.Equal(expected, actual)
}

func TestBuildSingleMoveCall(t *testing.T) {
	require := require.New(t)

	// Builder-level rendition of the single-input fixture exercised in
	// TestTransactionDataSingleInput.
	b := NewBuilder()
	require.NoError(b.SetSender(types.MustNewAddress("0x0000000000000000000000000000000000000000000000000000000000000BAD")))
	require.NoError(b.SetGasOwner(types.MustNewAddress("0x2")))
	require.NoError(b.SetGasPrice(1))
	require.NoError(b.SetGasBudget(1000000))
	require.NoError(b.SetGasPayment([]types.ObjectRef{capyRef(t)}))

	obj, err := b.ObjectRef(capyRef(t))
	require.NoError(err)
	_, err = b.MoveCall("0x2::display::new", []string{"0x2::capy::Capy"}, obj)
	require.NoError(err)

	actual, err := b.Build()
	require.NoError(err)

	want, err := capyEnvelope(t, []Argument{Input(0)}).ToBytes()
	require.NoError(err)
	require.Equal(want, actual)
}

func TestSplitCoinsStructure(t *testing.T) {
	require := require.New(t)

	b := gasBuilder(t)
	amount, err := b.Pure(100, "u64")
	require.NoError(err)
	_, err = b.SplitCoins(b.GasCoin(), []Argument{amount})
	require.NoError(err)

	td, err := b.TransactionData()
	require.NoError(err)
	require.Len(td.Transaction.Inputs, 1)
	require.Len(td.Transaction.Commands, 1)

	split, ok := td.Transaction.Commands[0].(SplitCoins)
	require.True(ok)
	require.Equal(GasCoin{}, split.Coin)
	require.Equal([]Argument{Input(0)}, split.Amounts)
	require.Equal(Pure{Bytes: []byte{100, 0, 0, 0, 0, 0, 0, 0}}, td.Transaction.Inputs[0])
}

func TestBuildPreSerializedInput(t *testing.T) {
	require := require.New(t)

	// Pre-encoded u64(100) must produce the same bytes as Pure with a
	// u64 hint.
	b := gasBuilder(t)
	amount, err := b.PureBytes([]byte{100, 0, 0, 0, 0, 0, 0, 0})
	require.NoError(err)
	_, err = b.SplitCoins(b.GasCoin(), []Argument{amount})
	require.NoError(err)
	viaBytes, err := b.Build()
	require.NoError(err)

	b2 := gasBuilder(t)
	amount2, err := b2.Pure(uint64(100))
	require.NoError(err)
	_, err = b2.SplitCoins(b2.GasCoin(), []Argument{amount2})
	require.NoError(err)
	viaValue, err := b2.Build()
	require.NoError(err)

	require.Equal(viaBytes, viaValue)
}

func TestBuildComplexInteraction(t *testing.T) {
	require := require.New(t)

	b := gasBuilder(t)

	amount, err := b.Pure(100, "u64")
	require.NoError(err)
	coin, err := b.SplitCoins(b.GasCoin(), []Argument{amount})
	require.NoError(err)

	_, err = b.MergeCoins(b.GasCoin(), []Argument{coin.Single(), mustInput(t)(b.ObjectRef(gasRef(t)))})
	require.NoError(err)

	foo, err := b.Pure("foo", "string")
	require.NoError(err)
	bar, err := b.Pure("bar", "string")
	require.NoError(err)
	baz, err := b.Pure("baz", "string")
	require.NoError(err)
	_, err = b.MoveCall("0x2::devnet_nft::mint", nil, foo, bar, baz)
	require.NoError(err)

	actual, err := b.Build()
	require.NoError(err)

	expected := []byte{
		0, 0, 5, 0, 8, 100, 0, 0, 0, 0, 0, 0, 0, 1, 0, 88, 119, 64, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 35, 14, 0, 0, 0, 0, 0, 0, 32, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 1, 2, 0, 4, 3, 102, 111, 111, 0, 4, 3, 98, 97, 114, 0, 4, 3, 98, 97, 122, 3, 2, 0, 1, 1, 0, 0, 3, 0, 2, 2, 0, 0, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 2, 10, 100, 101, 118, 110, 101, 116, 95, 110, 102, 116, 4, 109, 105, 110, 116, 0, 3, 1, 2, 0, 1, 3, 0, 1, 4, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 2, 1, 88, 119, 64, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 35, 14, 0, 0, 0, 0, 0, 0, 32, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 1, 2, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 2, 5, 0, 0, 0, 0, 0, 0, 0, 100, 0, 0, 0, 0, 0, 0, 0, 0,
	}
	require.Equal(expected, actual)
}

func TestBuildReceivingDedup(t *testing.T) {
	require := require.New(t)

	b := gasBuilder(t)

	// The same reference added repeatedly, including as a receiving
	// input, lands in one slot keyed by (id, version, digest).
	mustInput(t)(b.ObjectRef(gasRef(t)))
	amount, err := b.Pure(100, "u64")
	require.NoError(err)
	coin, err := b.SplitCoins(b.GasCoin(), []Argument{amount})
	require.NoError(err)
	_, err = b.MergeCoins(b.GasCoin(), []Argument{coin.Single(), mustInput(t)(b.ObjectRef(gasRef(t)))})
	require.NoError(err)
	_, err = b.MoveCall("0x2::devnet_nft::mint", nil,
		mustInput(t)(b.ObjectRef(gasRef(t))),
		mustInput(t)(b.ReceivingRef(gasRef(t))),
	)
	require.NoError(err)

	actual, err := b.Build()
	require.NoError(err)

	expected := []byte{
		0, 0, 2, 1, 0, 88, 119, 64, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 35, 14, 0, 0, 0, 0, 0, 0, 32, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 1, 2, 0, 8, 100, 0, 0, 0, 0, 0, 0, 0, 3, 2, 0, 1, 1, 1, 0, 3, 0, 2, 2, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 2, 10, 100, 101, 118, 110, 101, 116, 95, 110, 102, 116, 4, 109, 105, 110, 116, 0, 2, 1, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 2, 1, 88, 119, 64, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 35, 14, 0, 0, 0, 0, 0, 0, 32, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 1, 2, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 2, 5, 0, 0, 0, 0, 0, 0, 0, 100, 0, 0, 0, 0, 0, 0, 0, 0,
	}
	require.Equal(expected, actual)
}

func TestPureDedup(t *testing.T) {
	require := require.New(t)

	b := NewBuilder()
	a1, err := b.Pure(uint64(7))
	require.NoError(err)
	a2, err := b.Pure(7, "u64")
	require.NoError(err)
	require.Equal(a1, a2)

	a3, err := b.Pure(uint8(7))
	require.NoError(err)
	require.NotEqual(a1, a3)
}

func TestSharedObjectInput(t *testing.T) {
	require := require.New(t)

	b := gasBuilder(t)
	clock, err := b.SharedObjectRef(types.SharedObjectRef{
		ObjectID:             types.MustNewAddress("0x6"),
		InitialSharedVersion: 1,
		Mutable:              false,
	})
	require.NoError(err)
	require.Equal(Input(0), clock)

	// same fields, same slot
	again, err := b.SharedObjectRef(types.SharedObjectRef{
		ObjectID:             types.MustNewAddress("0x6"),
		InitialSharedVersion: 1,
	})
	require.NoError(err)
	require.Equal(clock, again)

	// mutable access is a distinct input
	mutable, err := b.SharedObjectRef(types.SharedObjectRef{
		ObjectID:             types.MustNewAddress("0x6"),
		InitialSharedVersion: 1,
		Mutable:              true,
	})
	require.NoError(err)
	require.Equal(Input(1), mutable)
}

func TestBuildPreconditions(t *testing.T) {
	addCommand := func(t *testing.T, b *Builder) {
		t.Helper()
		amount, err := b.Pure(1, "u64")
		require.NoError(t, err)
		_, err = b.SplitCoins(b.GasCoin(), []Argument{amount})
		require.NoError(t, err)
	}

	t.Run("no commands", func(t *testing.T) {
		require := require.New(t)

		_, err := gasBuilder(t).Build()
		require.ErrorIs(err, ErrNoCommands)
	})

	t.Run("missing sender", func(t *testing.T) {
		require := require.New(t)

		b := NewBuilder()
		require.NoError(b.SetGasPrice(5))
		require.NoError(b.SetGasBudget(100))
		require.NoError(b.SetGasPayment([]types.ObjectRef{gasRef(t)}))
		addCommand(t, b)
		_, err := b.Build()
		require.ErrorIs(err, ErrMissingSender)
	})

	t.Run("missing gas price", func(t *testing.T) {
		require := require.New(t)

		b := NewBuilder()
		require.NoError(b.SetSender(types.MustNewAddress("0x2")))
		require.NoError(b.SetGasBudget(100))
		require.NoError(b.SetGasPayment([]types.ObjectRef{gasRef(t)}))
		addCommand(t, b)
		_, err := b.Build()
		require.ErrorIs(err, ErrMissingGasPrice)
	})

	t.Run("missing gas budget", func(t *testing.T) {
		require := require.New(t)

		b := NewBuilder()
		require.NoError(b.SetSender(types.MustNewAddress("0x2")))
		require.NoError(b.SetGasPrice(5))
		require.NoError(b.SetGasPayment([]types.ObjectRef{gasRef(t)}))
		addCommand(t, b)
		_, err := b.Build()
		require.ErrorIs(err, ErrMissingGasBudget)
	})

	t.Run("missing gas payment", func(t *testing.T) {
		require := require.New(t)

		b := NewBuilder()
		require.NoError(b.SetSender(types.MustNewAddress("0x2")))
		require.NoError(b.SetGasPrice(5))
		require.NoError(b.SetGasBudget(100))
		addCommand(t, b)
		_, err := b.Build()
		require.ErrorIs(err, ErrMissingGasPayment)
	})

	t.Run("pending object", func(t *testing.T) {
		require := require.New(t)

		b := gasBuilder(t)
		obj, err := b.Object(types.MustNewAddress("0xCAFE"))
		require.NoError(err)
		_, err = b.TransferObjects([]Argument{obj}, b.GasCoin())
		require.NoError(err)
		_, err = b.Build()
		require.ErrorIs(err, ErrUnresolvedObject)
	})
}

func TestBuilderSingleUse(t *testing.T) {
	require := require.New(t)

	b := gasBuilder(t)
	amount, err := b.Pure(1, "u64")
	require.NoError(err)
	_, err = b.SplitCoins(b.GasCoin(), []Argument{amount})
	require.NoError(err)

	_, err = b.Build()
	require.NoError(err)

	_, err = b.Build()
	require.ErrorIs(err, ErrBuilderFinished)
	require.ErrorIs(b.SetSender(types.MustNewAddress("0x3")), ErrBuilderFinished)
	require.ErrorIs(b.SetGasBudget(1), ErrBuilderFinished)
	_, err = b.Pure(1, "u64")
	require.ErrorIs(err, ErrBuilderFinished)
	_, err = b.SplitCoins(b.GasCoin(), []Argument{amount})
	require.ErrorIs(err, ErrBuilderFinished)

	// every input mutator is refused, even ones that would dedup into an
	// existing slot
	_, err = b.PureBytes([]byte{9, 9})
	require.ErrorIs(err, ErrBuilderFinished)
	_, err = b.PureBytes([]byte{1, 0, 0, 0, 0, 0, 0, 0})
	require.ErrorIs(err, ErrBuilderFinished)
	_, err = b.Object(types.MustNewAddress("0xCAFE"))
	require.ErrorIs(err, ErrBuilderFinished)
	_, err = b.ObjectRef(gasRef(t))
	require.ErrorIs(err, ErrBuilderFinished)
	_, err = b.ReceivingRef(gasRef(t))
	require.ErrorIs(err, ErrBuilderFinished)
	_, err = b.SharedObjectRef(types.SharedObjectRef{
		ObjectID:             types.MustNewAddress("0x6"),
		InitialSharedVersion: 1,
	})
	require.ErrorIs(err, ErrBuilderFinished)

	// the envelope cannot be re-assembled either
	_, err = b.TransactionData()
	require.ErrorIs(err, ErrBuilderFinished)
}

func TestBuilderInputCapacity(t *testing.T) {
	require := require.New(t)

	b := NewBuilder()
	for i := 0; i <= math.MaxUint16; i++ {
		raw := binary.LittleEndian.AppendUint32(nil, uint32(i))
		arg, err := b.PureBytes(raw)
		require.NoError(err)
		require.Equal(Input(uint16(i)), arg)
	}

	// the 65537th distinct input would wrap the u16 index
	_, err := b.PureBytes([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF})
	require.ErrorIs(err, ErrInputOutOfRange)

	// interning an existing slot still works at capacity
	arg, err := b.PureBytes(binary.LittleEndian.AppendUint32(nil, 7))
	require.NoError(err)
	require.Equal(Input(7), arg)
}

func TestResultHandles(t *testing.T) {
	require := require.New(t)

	b := gasBuilder(t)
	amount, err := b.Pure(100, "u64")
	require.NoError(err)
	first, err := b.SplitCoins(b.GasCoin(), []Argument{amount})
	require.NoError(err)
	second, err := b.SplitCoins(b.GasCoin(), []Argument{amount, amount})
	require.NoError(err)

	require.Equal(Result(0), first.Single())
	require.Equal(Result(1), second.Single())
	require.Equal(NestedResult{Command: 1, Index: 1}, second.Nth(1))
}

func TestMoveCallTargetValidation(t *testing.T) {
	require := require.New(t)

	b := gasBuilder(t)
	for _, target := range []string{
		"display::new",
		"0x2::display",
		"not-an-address::display::new",
		"",
	} {
		_, err := b.MoveCall(target, nil)
		require.ErrorIs(err, ErrInvalidTarget, target)
	}

	_, err := b.MoveCall("0x2::display::new", []string{"not a type"})
	require.ErrorIs(err, types.ErrInvalidTypeTag)
}

func TestCommandConstructorsRejectEmpty(t *testing.T) {
	require := require.New(t)

	b := gasBuilder(t)

	_, err := b.TransferObjects(nil, b.GasCoin())
	require.ErrorIs(err, ErrEmptyCommand)

	_, err = b.SplitCoins(b.GasCoin(), nil)
	require.ErrorIs(err, ErrEmptyCommand)

	_, err = b.MergeCoins(b.GasCoin(), nil)
	require.ErrorIs(err, ErrEmptyCommand)

	_, err = b.Publish(nil, nil)
	require.ErrorIs(err, ErrEmptyCommand)

	_, err = b.Upgrade(nil, nil, types.MustNewAddress("0x2"), b.GasCoin())
	require.ErrorIs(err, ErrEmptyCommand)
}

func TestBuildValidatesReferences(t *testing.T) {
	require := require.New(t)

	b := gasBuilder(t)
	// recipient names the result of a command that never runs
	obj, err := b.Pure(uint64(1))
	require.NoError(err)
	_, err = b.TransferObjects([]Argument{obj}, Result(5))
	require.NoError(err)

	_, err = b.Build()
	require.ErrorIs(err, ErrForwardReference)
}
