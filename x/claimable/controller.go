package claimable

import (
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/coin"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/x"
	"github.com/iov-one/lockbox/x/cash"
)

// Controller runs the operations of a single instance. Every operation
// either fails before changing state or applies all of its effects.
type Controller struct {
	bucket  Bucket
	holding lockbox.Address
	auth    x.Authenticator
	bank    cash.CoinMover
	// invalid is set when the instance name cannot be used. It is reported
	// once the caller is authorized.
	invalid error
}

// NewController returns the controller of given instance. An invalid
// instance name fails every operation after the authorization check.
func NewController(instance string, auth x.Authenticator, bank cash.CoinMover) Controller {
	return Controller{
		bucket:  NewBucket(instance),
		holding: HoldingAddress(instance),
		auth:    auth,
		bank:    bank,
		invalid: ValidateInstance(instance),
	}
}

// HoldingAddress returns the address that holds the funds of this instance.
func (c Controller) HoldingAddress() lockbox.Address {
	return c.holding
}

// Instance returns the current state of the instance. It does not modify
// the store.
func (c Controller) Instance(db lockbox.ReadOnlyKVStore) (*Instance, error) {
	if c.invalid != nil {
		return nil, c.invalid
	}
	return c.bucket.Load(db)
}

// CheckFund runs all checks of Fund that come before the arguments are
// validated, in order: the number of claimants, the instance state, the
// authorization of the caller and the instance name.
func (c Controller) CheckFund(ctx lockbox.Context, db lockbox.ReadOnlyKVStore, caller lockbox.Address, claimants []lockbox.Address) error {
	if len(claimants) > MaxClaimants {
		return errors.Wrapf(ErrTooManyClaimants, "%d claimants", len(claimants))
	}
	initialized, err := c.bucket.Initialized(db)
	if err != nil {
		return err
	}
	if initialized {
		return errors.Wrapf(ErrAlreadyInitialized, "instance %q", c.bucket.instance)
	}
	if !c.auth.HasAddress(ctx, caller) {
		return errors.Wrap(errors.ErrUnauthorized, "depositor signature missing")
	}
	return c.invalid
}

// Fund locks amount of asset taken from the caller. Any of the claimants can
// withdraw it once the time bound holds.
func (c Controller) Fund(
	ctx lockbox.Context,
	db lockbox.KVStore,
	caller lockbox.Address,
	asset string,
	amount coin.Int128,
	claimants []lockbox.Address,
	bound TimeBound,
) error {
	if err := c.CheckFund(ctx, db, caller, claimants); err != nil {
		return err
	}

	e := &Escrow{
		Asset:     asset,
		Amount:    amount,
		Claimants: claimants,
		TimeBound: bound,
	}
	if err := e.Validate(); err != nil {
		return err
	}

	if err := c.bank.MoveCoins(db, caller, c.holding, e.Coin()); err != nil {
		return errors.Wrap(err, "cannot lock funds")
	}
	if err := c.bucket.SaveEscrow(db, e); err != nil {
		return errors.Wrap(err, "cannot save escrow")
	}
	if err := c.bucket.MarkInitialized(db); err != nil {
		return errors.Wrap(err, "cannot mark initialized")
	}

	lockbox.GetLogger(ctx).Info("balance funded",
		"instance", c.bucket.instance,
		"amount", e.Coin().String(),
		"claimants", len(claimants),
		"bound", bound.String())
	return nil
}

// CheckWithdraw runs all checks of Withdraw, in order: the authorization
// of the claimant, the presence of a balance, the time bound and the
// claimant eligibility. It returns the balance that would be paid out.
func (c Controller) CheckWithdraw(ctx lockbox.Context, db lockbox.ReadOnlyKVStore, claimant lockbox.Address) (*Escrow, error) {
	if !c.auth.HasAddress(ctx, claimant) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "claimant signature missing")
	}
	if c.invalid != nil {
		return nil, c.invalid
	}

	inst, err := c.bucket.Load(db)
	if err != nil {
		return nil, err
	}
	switch inst.State {
	case Uninitialized:
		return nil, errors.Wrapf(ErrNoActiveEscrow, "instance %q was never funded", inst.Name)
	case Claimed:
		return nil, errors.Wrapf(ErrNoActiveEscrow, "instance %q was already claimed", inst.Name)
	}

	now, err := ledgerNow(ctx)
	if err != nil {
		return nil, err
	}
	if !inst.Escrow.TimeBound.Holds(now) {
		return nil, errors.Wrapf(ErrTimePredicate, "%s at %d", inst.Escrow.TimeBound, now)
	}

	if !inst.Escrow.IsClaimant(claimant) {
		return nil, errors.Wrapf(ErrIneligibleClaimant, "%s", claimant)
	}
	return inst.Escrow, nil
}

// Withdraw transfers the whole balance to the claimant and consumes the
// instance. It returns the paid amount.
func (c Controller) Withdraw(ctx lockbox.Context, db lockbox.KVStore, claimant lockbox.Address) (coin.Coin, error) {
	e, err := c.CheckWithdraw(ctx, db, claimant)
	if err != nil {
		return coin.Coin{}, err
	}

	amount := e.Coin()
	if err := c.bank.MoveCoins(db, c.holding, claimant, amount); err != nil {
		return coin.Coin{}, errors.Wrap(err, "cannot release funds")
	}
	if err := c.bucket.DeleteEscrow(db); err != nil {
		return coin.Coin{}, errors.Wrap(err, "cannot delete escrow")
	}

	lockbox.GetLogger(ctx).Info("balance claimed",
		"instance", c.bucket.instance,
		"amount", amount.String(),
		"claimant", claimant.String())
	return amount, nil
}
