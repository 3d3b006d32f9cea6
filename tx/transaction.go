// Copyright (C) 2024, MoveLabs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tx

import (
	"fmt"

	"github.com/movelabs/sui-go/bcs"
	"github.com/movelabs/sui-go/types"
)

// Envelope tags.
const (
	transactionDataV1 uint8 = 0

	kindProgrammableTransaction uint8 = 0

	expirationNone  uint8 = 0
	expirationEpoch uint8 = 1
)

// Expiration bounds how long a transaction stays valid. The zero value
// never expires.
type Expiration struct {
	// Epoch is the last epoch the transaction may execute in. Nil means
	// no expiration.
	Epoch *uint64
}

// Serialize writes the expiration tag and, for the epoch variant, the
// epoch number.
func (e Expiration) Serialize(s *bcs.Serializer) {
	if e.Epoch == nil {
		s.WriteU8(expirationNone)
		return
	}
	s.WriteU8(expirationEpoch)
	s.WriteU64(*e.Epoch)
}

// DeserializeExpiration reads an Expiration by tag.
func DeserializeExpiration(d *bcs.Deserializer) (Expiration, error) {
	tag := d.ReadU8()
	if err := d.Err(); err != nil {
		return Expiration{}, err
	}
	switch tag {
	case expirationNone:
		return Expiration{}, nil
	case expirationEpoch:
		epoch := d.ReadU64()
		if err := d.Err(); err != nil {
			return Expiration{}, err
		}
		return Expiration{Epoch: &epoch}, nil
	default:
		return Expiration{}, fmt.Errorf("%w: expiration tag %d", ErrInvalidTag, tag)
	}
}

// GasData is the gas section of the envelope: payment coins, the owner
// paying, and price/budget. Owner nil means the sender pays; the
// fallback resolves at serialization.
type GasData struct {
	Payment []types.ObjectRef
	Owner   *types.Address
	Price   uint64
	Budget  uint64
}

func (g GasData) serializeWith(s *bcs.Serializer, owner types.Address) {
	bcs.SerializeVector(s, g.Payment)
	owner.Serialize(s)
	s.WriteU64(g.Price)
	s.WriteU64(g.Budget)
}

func deserializeGasData(d *bcs.Deserializer) (GasData, error) {
	payment, err := bcs.DeserializeVector(d, types.DeserializeObjectRef)
	if err != nil {
		return GasData{}, fmt.Errorf("gas payment: %w", err)
	}
	owner, err := types.DeserializeAddress(d)
	if err != nil {
		return GasData{}, fmt.Errorf("gas owner: %w", err)
	}
	price := d.ReadU64()
	budget := d.ReadU64()
	if err := d.Err(); err != nil {
		return GasData{}, err
	}
	if len(payment) == 0 {
		payment = nil
	}
	return GasData{
		Payment: payment,
		Owner:   &owner,
		Price:   price,
		Budget:  budget,
	}, nil
}

// TransactionData is the full signable envelope: version, kind,
// payload, sender, gas, expiration.
type TransactionData struct {
	Transaction ProgrammableTransaction
	Sender      types.Address
	Gas         GasData
	Expiration  Expiration
}

// Serialize writes the V1 envelope. A nil gas owner falls back to the
// sender.
func (t TransactionData) Serialize(s *bcs.Serializer) {
	s.WriteU8(transactionDataV1)
	s.WriteU8(kindProgrammableTransaction)
	t.Transaction.Serialize(s)
	t.Sender.Serialize(s)
	owner := t.Sender
	if t.Gas.Owner != nil {
		owner = *t.Gas.Owner
	}
	t.Gas.serializeWith(s, owner)
	t.Expiration.Serialize(s)
}

// ToBytes serializes the envelope into a fresh byte slice.
func (t TransactionData) ToBytes() ([]byte, error) {
	return bcs.ToBytes(t)
}

// UnmarshalTransactionData reconstructs the typed envelope from bytes,
// rejecting unknown versions/kinds and trailing garbage.
func UnmarshalTransactionData(b []byte) (*TransactionData, error) {
	d := bcs.NewDeserializer(b)

	version := d.ReadU8()
	if err := d.Err(); err != nil {
		return nil, err
	}
	if version != transactionDataV1 {
		return nil, fmt.Errorf("%w: transaction data version %d", ErrInvalidTag, version)
	}

	kind := d.ReadU8()
	if err := d.Err(); err != nil {
		return nil, err
	}
	if kind != kindProgrammableTransaction {
		return nil, fmt.Errorf("%w: transaction kind %d", ErrInvalidTag, kind)
	}

	ptb, err := DeserializeProgrammableTransaction(d)
	if err != nil {
		return nil, err
	}
	sender, err := types.DeserializeAddress(d)
	if err != nil {
		return nil, fmt.Errorf("sender: %w", err)
	}
	gas, err := deserializeGasData(d)
	if err != nil {
		return nil, err
	}
	expiration, err := DeserializeExpiration(d)
	if err != nil {
		return nil, fmt.Errorf("expiration: %w", err)
	}
	if !d.IsEmpty() {
		return nil, fmt.Errorf("%w: %d bytes", ErrTrailingBytes, d.Remaining())
	}

	return &TransactionData{
		Transaction: ptb,
		Sender:      sender,
		Gas:         gas,
		Expiration:  expiration,
	}, nil
}
