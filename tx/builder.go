// Copyright (C) 2024, MoveLabs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tx

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/movelabs/sui-go/types"
)

const defaultResolveBatchSize = 50

// Builder accumulates inputs and commands into a programmable
// transaction and serializes the signable envelope.
//
// Inputs are interned: adding the same pure bytes or the same object
// reference twice yields the same input slot. Objects added by id alone
// stay pending until [Builder.ResolveObjects] fetches their refs; Build
// refuses to run with pending slots.
//
// A Builder is single-use: after a successful Build it refuses further
// mutation. It is not safe for concurrent use.
type Builder struct {
	log       *zap.Logger
	batchSize int

	inputs   []inputSlot
	index    map[string]uint16
	commands []Command

	sender     *types.Address
	gasPayment []types.ObjectRef
	gasOwner   *types.Address
	gasPrice   *uint64
	gasBudget  *uint64
	expiration Expiration

	finished bool
}

// inputSlot is one interned input. Exactly one of arg/pending is set:
// pending holds the object id awaiting resolution.
type inputSlot struct {
	arg     CallArg
	pending *types.ObjectID
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLogger installs a logger for build and resolution progress. The
// default discards everything.
func WithLogger(log *zap.Logger) BuilderOption {
	return func(b *Builder) { b.log = log }
}

// WithResolveBatchSize bounds how many object ids go into one store
// request during resolution.
func WithResolveBatchSize(n int) BuilderOption {
	return func(b *Builder) {
		if n > 0 {
			b.batchSize = n
		}
	}
}

// NewBuilder returns an empty transaction builder.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		log:       zap.NewNop(),
		batchSize: defaultResolveBatchSize,
		index:     make(map[string]uint16),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// intern returns the existing slot for [key] or appends [slot] as a new
// one. Every input mutator funnels through here, so this is where the
// single-use and slot-count invariants are enforced.
func (b *Builder) intern(key string, slot inputSlot) (Input, error) {
	if b.finished {
		return 0, ErrBuilderFinished
	}
	if idx, ok := b.index[key]; ok {
		return Input(idx), nil
	}
	if len(b.inputs) > math.MaxUint16 {
		return 0, fmt.Errorf("%w: too many inputs", ErrInputOutOfRange)
	}
	idx := uint16(len(b.inputs))
	b.inputs = append(b.inputs, slot)
	b.index[key] = idx
	return Input(idx), nil
}

func pureKey(raw []byte) string {
	return "p\x00" + string(raw)
}

func ownedKey(ref types.ObjectRef) string {
	var sb strings.Builder
	sb.WriteString("o\x00")
	sb.Write(ref.ObjectID[:])
	sb.Write(binary.LittleEndian.AppendUint64(nil, ref.Version))
	sb.WriteString(ref.Digest)
	return sb.String()
}

func sharedKey(ref types.SharedObjectRef) string {
	var sb strings.Builder
	sb.WriteString("s\x00")
	sb.Write(ref.ObjectID[:])
	sb.Write(binary.LittleEndian.AppendUint64(nil, ref.InitialSharedVersion))
	if ref.Mutable {
		sb.WriteByte(1)
	}
	return sb.String()
}

func pendingKey(id types.ObjectID) string {
	return "q\x00" + string(id[:])
}

// Pure adds a pure input from a Go value, with an optional type hint
// (see [EncodePureValue]). Equal encodings share one slot.
func (b *Builder) Pure(value any, typeHint ...string) (Argument, error) {
	if b.finished {
		return nil, ErrBuilderFinished
	}
	hint := ""
	if len(typeHint) > 0 {
		hint = typeHint[0]
	}
	raw, err := EncodePureValue(value, hint)
	if err != nil {
		return nil, err
	}
	return b.addInput(pureKey(raw), inputSlot{arg: Pure{Bytes: raw}})
}

// PureBytes adds a pure input from already-encoded BCS bytes.
func (b *Builder) PureBytes(raw []byte) (Argument, error) {
	return b.addInput(pureKey(raw), inputSlot{arg: Pure{Bytes: raw}})
}

// Object adds an owned-object input by id alone. The slot stays
// pending until ResolveObjects supplies the full reference.
func (b *Builder) Object(id types.ObjectID) (Argument, error) {
	idCopy := id
	return b.addInput(pendingKey(id), inputSlot{pending: &idCopy})
}

// ObjectRef adds an owned-object input from a full reference.
func (b *Builder) ObjectRef(ref types.ObjectRef) (Argument, error) {
	return b.addInput(ownedKey(ref), inputSlot{arg: ImmOrOwnedObject{Ref: ref}})
}

// ReceivingRef adds a receiving-object input. It shares a slot with an
// owned input for the same (id, version, digest).
func (b *Builder) ReceivingRef(ref types.ObjectRef) (Argument, error) {
	return b.addInput(ownedKey(ref), inputSlot{arg: ReceivingObject{Ref: ref}})
}

// SharedObjectRef adds a shared-object input.
func (b *Builder) SharedObjectRef(ref types.SharedObjectRef) (Argument, error) {
	return b.addInput(sharedKey(ref), inputSlot{arg: SharedObject{Ref: ref}})
}

func (b *Builder) addInput(key string, slot inputSlot) (Argument, error) {
	idx, err := b.intern(key, slot)
	if err != nil {
		return nil, err
	}
	return idx, nil
}

// GasCoin returns the argument naming the transaction's gas coin.
func (b *Builder) GasCoin() Argument { return GasCoin{} }

// PendingObjects returns the object ids added by Object that have not
// been resolved yet.
func (b *Builder) PendingObjects() []types.ObjectID {
	var ids []types.ObjectID
	for _, slot := range b.inputs {
		if slot.pending != nil {
			ids = append(ids, *slot.pending)
		}
	}
	return ids
}

// ResultHandle names one command's output for chaining into later
// commands.
type ResultHandle struct {
	command uint16
}

// Single returns the command's sole result.
func (h *ResultHandle) Single() Argument { return Result(h.command) }

// Nth returns element [i] of the command's result tuple.
func (h *ResultHandle) Nth(i uint16) Argument {
	return NestedResult{Command: h.command, Index: i}
}

func (b *Builder) addCommand(c Command) (*ResultHandle, error) {
	if b.finished {
		return nil, ErrBuilderFinished
	}
	if len(b.commands) > math.MaxUint16 {
		return nil, fmt.Errorf("%w: too many commands", ErrInputOutOfRange)
	}
	h := &ResultHandle{command: uint16(len(b.commands))}
	b.commands = append(b.commands, c)
	return h, nil
}

// MoveCall appends a Move call. Target is "package::module::function";
// type arguments are canonical type strings.
func (b *Builder) MoveCall(target string, typeArgs []string, args ...Argument) (*ResultHandle, error) {
	parts := strings.Split(target, "::")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: %q is not package::module::function", ErrInvalidTarget, target)
	}
	pkg, err := types.NewAddress(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %q: bad package address", ErrInvalidTarget, target)
	}
	tags := make([]types.TypeTag, 0, len(typeArgs))
	for _, ta := range typeArgs {
		tag, err := types.ParseTypeTag(ta)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	if len(tags) == 0 {
		tags = nil
	}
	cmd, err := NewMoveCall(pkg, parts[1], parts[2], tags, args)
	if err != nil {
		return nil, err
	}
	return b.addCommand(cmd)
}

// TransferObjects appends a transfer of objects to a recipient.
func (b *Builder) TransferObjects(objects []Argument, recipient Argument) (*ResultHandle, error) {
	cmd, err := NewTransferObjects(objects, recipient)
	if err != nil {
		return nil, err
	}
	return b.addCommand(cmd)
}

// SplitCoins appends a split of amounts off a coin. The handle's Nth
// results are the new coins, one per amount.
func (b *Builder) SplitCoins(coin Argument, amounts []Argument) (*ResultHandle, error) {
	cmd, err := NewSplitCoins(coin, amounts)
	if err != nil {
		return nil, err
	}
	return b.addCommand(cmd)
}

// MergeCoins appends a merge of source coins into a destination.
func (b *Builder) MergeCoins(destination Argument, sources []Argument) (*ResultHandle, error) {
	cmd, err := NewMergeCoins(destination, sources)
	if err != nil {
		return nil, err
	}
	return b.addCommand(cmd)
}

// Publish appends a package publication. The handle's Single result is
// the upgrade capability.
func (b *Builder) Publish(modules [][]byte, dependencies []types.ObjectID) (*ResultHandle, error) {
	cmd, err := NewPublish(modules, dependencies)
	if err != nil {
		return nil, err
	}
	return b.addCommand(cmd)
}

// Upgrade appends a package upgrade.
func (b *Builder) Upgrade(modules [][]byte, dependencies []types.ObjectID, pkg types.ObjectID, ticket Argument) (*ResultHandle, error) {
	cmd, err := NewUpgrade(modules, dependencies, pkg, ticket)
	if err != nil {
		return nil, err
	}
	return b.addCommand(cmd)
}

// MakeMoveVec appends vector construction. An empty elementType leaves
// the element type to inference.
func (b *Builder) MakeMoveVec(elementType string, elements []Argument) (*ResultHandle, error) {
	var et *string
	if elementType != "" {
		et = &elementType
	}
	return b.addCommand(MakeMoveVec{ElementType: et, Elements: elements})
}

// SetSender sets the transaction sender.
func (b *Builder) SetSender(sender types.Address) error {
	if b.finished {
		return ErrBuilderFinished
	}
	b.sender = &sender
	return nil
}

// SetGasPayment sets the gas payment coins.
func (b *Builder) SetGasPayment(payment []types.ObjectRef) error {
	if b.finished {
		return ErrBuilderFinished
	}
	b.gasPayment = payment
	return nil
}

// SetGasOwner sets the sponsor paying for gas. Unset, the sender pays.
func (b *Builder) SetGasOwner(owner types.Address) error {
	if b.finished {
		return ErrBuilderFinished
	}
	b.gasOwner = &owner
	return nil
}

// SetGasPrice sets the gas price.
func (b *Builder) SetGasPrice(price uint64) error {
	if b.finished {
		return ErrBuilderFinished
	}
	b.gasPrice = &price
	return nil
}

// SetGasBudget sets the gas budget.
func (b *Builder) SetGasBudget(budget uint64) error {
	if b.finished {
		return ErrBuilderFinished
	}
	b.gasBudget = &budget
	return nil
}

// SetExpirationEpoch makes the transaction expire after the given
// epoch.
func (b *Builder) SetExpirationEpoch(epoch uint64) error {
	if b.finished {
		return ErrBuilderFinished
	}
	b.expiration = Expiration{Epoch: &epoch}
	return nil
}

// SetNoExpiration clears any expiration.
func (b *Builder) SetNoExpiration() error {
	if b.finished {
		return ErrBuilderFinished
	}
	b.expiration = Expiration{}
	return nil
}

// TransactionData validates the accumulated state and assembles the
// typed envelope without consuming the builder.
func (b *Builder) TransactionData() (*TransactionData, error) {
	if b.finished {
		return nil, ErrBuilderFinished
	}
	if ids := b.PendingObjects(); len(ids) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnresolvedObject, ids[0])
	}
	if len(b.commands) == 0 {
		return nil, ErrNoCommands
	}
	if b.sender == nil {
		return nil, ErrMissingSender
	}
	if b.gasPrice == nil {
		return nil, ErrMissingGasPrice
	}
	if b.gasBudget == nil {
		return nil, ErrMissingGasBudget
	}
	if len(b.gasPayment) == 0 {
		return nil, ErrMissingGasPayment
	}

	inputs := make([]CallArg, len(b.inputs))
	for i, slot := range b.inputs {
		inputs[i] = slot.arg
	}
	if len(inputs) == 0 {
		inputs = nil
	}
	ptb := ProgrammableTransaction{
		Inputs:   inputs,
		Commands: append([]Command(nil), b.commands...),
	}
	if err := ptb.Validate(); err != nil {
		return nil, err
	}

	return &TransactionData{
		Transaction: ptb,
		Sender:      *b.sender,
		Gas: GasData{
			Payment: b.gasPayment,
			Owner:   b.gasOwner,
			Price:   *b.gasPrice,
			Budget:  *b.gasBudget,
		},
		Expiration: b.expiration,
	}, nil
}

// Build assembles and serializes the envelope, then marks the builder
// finished.
func (b *Builder) Build() ([]byte, error) {
	if b.finished {
		return nil, ErrBuilderFinished
	}
	td, err := b.TransactionData()
	if err != nil {
		return nil, err
	}
	raw, err := td.ToBytes()
	if err != nil {
		return nil, err
	}
	b.finished = true
	b.log.Info("built transaction",
		zap.Int("inputs", len(td.Transaction.Inputs)),
		zap.Int("commands", len(td.Transaction.Commands)),
		zap.Int("bytes", len(raw)),
	)
	return raw, nil
}
