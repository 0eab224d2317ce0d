package claimable

import (
	"fmt"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/coin"
	"github.com/iov-one/lockbox/errors"
	amino "github.com/tendermint/go-amino"
)

// MaxClaimants is the largest number of claimants a balance may name.
const MaxClaimants = 10

var cdc = amino.NewCodec()

// Escrow is the funded balance of an instance.
type Escrow struct {
	// Asset is the ticker of the locked coins.
	Asset  string
	Amount coin.Int128
	// Claimants may contain duplicates.
	Claimants []lockbox.Address
	TimeBound TimeBound
}

// Coin returns the locked funds.
func (e *Escrow) Coin() coin.Coin {
	return coin.Coin{Ticker: e.Asset, Amount: e.Amount}
}

// Validate checks the arguments of a funding request. Amount is checked
// first so that a non positive amount always reports ErrAmount.
func (e *Escrow) Validate() error {
	if !e.Amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive amount %s", e.Amount)
	}
	if !coin.IsCC(e.Asset) {
		return errors.Wrapf(errors.ErrInput, "invalid asset %q", e.Asset)
	}
	if len(e.Claimants) > MaxClaimants {
		return errors.Wrapf(ErrTooManyClaimants, "%d claimants", len(e.Claimants))
	}
	for i, c := range e.Claimants {
		if err := c.Validate(); err != nil {
			return errors.Wrapf(errors.ErrInput, "claimant %d: %s", i, err)
		}
	}
	if err := e.TimeBound.Validate(); err != nil {
		return errors.Wrap(err, "time bound")
	}
	return nil
}

// IsClaimant returns true if given address is one of the claimants.
func (e *Escrow) IsClaimant(addr lockbox.Address) bool {
	for _, c := range e.Claimants {
		if c.Equals(addr) {
			return true
		}
	}
	return false
}

// Marshal encodes the escrow as it is stored.
func (e *Escrow) Marshal() ([]byte, error) {
	rec := escrowRecord{
		Asset:          e.Asset,
		AmountHi:       e.Amount.Hi,
		AmountLo:       e.Amount.Lo,
		Claimants:      make([][]byte, len(e.Claimants)),
		BoundKind:      int32(e.TimeBound.Kind),
		BoundTimestamp: e.TimeBound.Timestamp,
	}
	for i, c := range e.Claimants {
		rec.Claimants[i] = c
	}
	return proto.Marshal(&rec)
}

// Unmarshal decodes a stored escrow. A record that does not describe a
// valid escrow is an error.
func (e *Escrow) Unmarshal(raw []byte) error {
	var rec escrowRecord
	if err := proto.Unmarshal(raw, &rec); err != nil {
		return err
	}
	*e = Escrow{
		Asset:  rec.Asset,
		Amount: coin.Int128{Hi: rec.AmountHi, Lo: rec.AmountLo},
		TimeBound: TimeBound{
			Kind:      TimeBoundKind(rec.BoundKind),
			Timestamp: rec.BoundTimestamp,
		},
	}
	for _, c := range rec.Claimants {
		e.Claimants = append(e.Claimants, lockbox.Address(c))
	}
	return e.Validate()
}

// escrowRecord is the protobuf message an Escrow is stored as.
type escrowRecord struct {
	Asset          string   `protobuf:"bytes,1,opt,name=asset,proto3" json:"asset,omitempty"`
	AmountHi       int64    `protobuf:"varint,2,opt,name=amount_hi,json=amountHi,proto3" json:"amount_hi,omitempty"`
	AmountLo       uint64   `protobuf:"varint,3,opt,name=amount_lo,json=amountLo,proto3" json:"amount_lo,omitempty"`
	Claimants      [][]byte `protobuf:"bytes,4,rep,name=claimants,proto3" json:"claimants,omitempty"`
	BoundKind      int32    `protobuf:"varint,5,opt,name=bound_kind,json=boundKind,proto3" json:"bound_kind,omitempty"`
	BoundTimestamp uint64   `protobuf:"varint,6,opt,name=bound_timestamp,json=boundTimestamp,proto3" json:"bound_timestamp,omitempty"`
}

func (m *escrowRecord) Reset()         { *m = escrowRecord{} }
func (m *escrowRecord) String() string { return proto.CompactTextString(m) }
func (*escrowRecord) ProtoMessage()    {}

// State is the lifecycle stage of an instance.
type State int

const (
	Uninitialized State = iota
	Funded
	Claimed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Funded:
		return "funded"
	case Claimed:
		return "claimed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Instance is a snapshot of a claimable balance.
type Instance struct {
	Name  string
	State State
	// Escrow is set only in the Funded state.
	Escrow *Escrow
	// Holding is the address that holds the funds.
	Holding lockbox.Address
}
