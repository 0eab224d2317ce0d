package claimable

import (
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/coin"
	"github.com/iov-one/lockbox/errors"
	amino "github.com/tendermint/go-amino"
)

var _ lockbox.Msg = (*FundMsg)(nil)
var _ lockbox.Msg = (*WithdrawMsg)(nil)

const (
	pathFundMsg     = "claimable/fund"
	pathWithdrawMsg = "claimable/withdraw"
)

// FundMsg locks Amount of Asset from the Depositor account.
type FundMsg struct {
	// Instance defaults to DefaultInstance when empty.
	Instance  string
	Depositor lockbox.Address
	Asset     string
	Amount    coin.Int128
	Claimants []lockbox.Address
	TimeBound TimeBound
}

// Path returns the routing path for this message
func (FundMsg) Path() string {
	return pathFundMsg
}

// Validate performs only the stateless checks that precede all others. The
// remaining arguments, the instance name included, are validated by the
// Controller once the instance state and the authorization were checked.
func (m *FundMsg) Validate() error {
	if len(m.Claimants) > MaxClaimants {
		return errors.Wrapf(ErrTooManyClaimants, "%d claimants", len(m.Claimants))
	}
	return nil
}

// Escrow returns the balance this message creates.
func (m *FundMsg) Escrow() *Escrow {
	return &Escrow{
		Asset:     m.Asset,
		Amount:    m.Amount,
		Claimants: m.Claimants,
		TimeBound: m.TimeBound,
	}
}

func (m *FundMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *FundMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

// WithdrawMsg transfers the whole balance to the Claimant.
type WithdrawMsg struct {
	// Instance defaults to DefaultInstance when empty.
	Instance string
	Claimant lockbox.Address
}

// Path returns the routing path for this message
func (WithdrawMsg) Path() string {
	return pathWithdrawMsg
}

// Validate is a noop. The claimant is checked by the authorization that
// comes first and the instance name right after it.
func (m *WithdrawMsg) Validate() error {
	return nil
}

func (m *WithdrawMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *WithdrawMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

// RegisterCodec registers all messages of this extension so that they can
// be carried by a transaction.
func RegisterCodec(c *amino.Codec) {
	c.RegisterConcrete(&FundMsg{}, pathFundMsg, nil)
	c.RegisterConcrete(&WithdrawMsg{}, pathWithdrawMsg, nil)
}

func instanceName(name string) string {
	if name == "" {
		return DefaultInstance
	}
	return name
}
