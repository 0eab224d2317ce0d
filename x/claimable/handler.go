package claimable

import (
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/x"
	"github.com/iov-one/lockbox/x/cash"
)

const (
	fundCost     int64 = 300
	withdrawCost int64 = 100
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r lockbox.Registry, auth x.Authenticator, bank cash.CoinMover) {
	r.Handle(pathFundMsg, NewFundHandler(auth, bank))
	r.Handle(pathWithdrawMsg, NewWithdrawHandler(auth, bank))
}

// FundHandler processes FundMsg. The instance is selected by the message.
type FundHandler struct {
	auth x.Authenticator
	bank cash.CoinMover
}

var _ lockbox.Handler = FundHandler{}

// NewFundHandler creates a handler for FundMsg
func NewFundHandler(auth x.Authenticator, bank cash.CoinMover) FundHandler {
	return FundHandler{auth: auth, bank: bank}
}

// Check verifies the message can be applied to the current state and
// returns the cost of executing it.
func (h FundHandler) Check(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	var msg FundMsg
	if err := lockbox.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	ctrl := NewController(instanceName(msg.Instance), h.auth, h.bank)
	if err := ctrl.CheckFund(ctx, db, msg.Depositor, msg.Claimants); err != nil {
		return nil, err
	}
	if err := msg.Escrow().Validate(); err != nil {
		return nil, err
	}
	return &lockbox.CheckResult{GasAllocated: fundCost}, nil
}

// Deliver moves the funds from the depositor to the holding address of the
// instance.
func (h FundHandler) Deliver(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	var msg FundMsg
	if err := lockbox.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	ctrl := NewController(instanceName(msg.Instance), h.auth, h.bank)
	if err := ctrl.Fund(ctx, db, msg.Depositor, msg.Asset, msg.Amount, msg.Claimants, msg.TimeBound); err != nil {
		return nil, err
	}
	return &lockbox.DeliverResult{
		Data: ctrl.HoldingAddress(),
		Log:  "funded " + msg.Escrow().Coin().String(),
	}, nil
}

// WithdrawHandler processes WithdrawMsg. The instance is selected by the
// message.
type WithdrawHandler struct {
	auth x.Authenticator
	bank cash.CoinMover
}

var _ lockbox.Handler = WithdrawHandler{}

// NewWithdrawHandler creates a handler for WithdrawMsg
func NewWithdrawHandler(auth x.Authenticator, bank cash.CoinMover) WithdrawHandler {
	return WithdrawHandler{auth: auth, bank: bank}
}

// Check verifies the claimant can withdraw the balance now.
func (h WithdrawHandler) Check(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	var msg WithdrawMsg
	if err := lockbox.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	ctrl := NewController(instanceName(msg.Instance), h.auth, h.bank)
	if _, err := ctrl.CheckWithdraw(ctx, db, msg.Claimant); err != nil {
		return nil, err
	}
	return &lockbox.CheckResult{GasAllocated: withdrawCost}, nil
}

// Deliver pays the whole balance out to the claimant.
func (h WithdrawHandler) Deliver(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	var msg WithdrawMsg
	if err := lockbox.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	ctrl := NewController(instanceName(msg.Instance), h.auth, h.bank)
	paid, err := ctrl.Withdraw(ctx, db, msg.Claimant)
	if err != nil {
		return nil, err
	}
	return &lockbox.DeliverResult{Log: "claimed " + paid.String()}, nil
}
