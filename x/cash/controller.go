package cash

import (
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/coin"
	"github.com/iov-one/lockbox/errors"
)

// CoinMover is an interface for moving coins between accounts.
type CoinMover interface {
	// MoveCoins removes funds from the source account and adds them to the
	// destination account. This operation is atomic.
	MoveCoins(db lockbox.KVStore, src, dest lockbox.Address, amount coin.Coin) error
}

// CoinMinter is an interface to create new coins.
type CoinMinter interface {
	// CoinMint increases the number of funds on given account by a
	// specified amount.
	CoinMint(db lockbox.KVStore, dest lockbox.Address, amount coin.Coin) error
}

// Balancer reads account funds.
type Balancer interface {
	// Balance returns the amount of a single ticker held by an account.
	Balance(db lockbox.ReadOnlyKVStore, addr lockbox.Address, ticker string) (coin.Coin, error)
	// Balances returns all funds held by an account.
	Balances(db lockbox.ReadOnlyKVStore, addr lockbox.Address) ([]coin.Coin, error)
}

// Controller is the functionality needed by the send handler and the claimable extension.
// BaseController should work plenty fine, but you can add other logic if so
// desired
type Controller interface {
	CoinMover
	CoinMinter
	Balancer
}

// BaseController is a simple implementation of controller
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}

// NewController returns a basic controller implementation
func NewController() BaseController {
	return BaseController{bucket: NewBucket()}
}

// MoveCoins moves the given amount from src to dest.
// If src doesn't exist, or doesn't have sufficient
// coins, it fails.
func (c BaseController) MoveCoins(db lockbox.KVStore, src, dest lockbox.Address, amount coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive transfer %s", amount)
	}
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}

	sender, err := c.bucket.Get(db, src, amount.Ticker)
	if err != nil {
		return err
	}
	if !sender.IsGTE(amount) {
		return errors.Wrapf(errors.ErrInsufficientAmount, "%s holds %s, need %s", src, sender, amount)
	}
	if src.Equals(dest) {
		return nil
	}

	recipient, err := c.bucket.Get(db, dest, amount.Ticker)
	if err != nil {
		return err
	}
	if recipient, err = recipient.Add(amount); err != nil {
		return errors.Wrap(err, "recipient")
	}
	if sender, err = sender.Subtract(amount); err != nil {
		return errors.Wrap(err, "sender")
	}

	if err := c.bucket.Save(db, src, sender); err != nil {
		return err
	}
	return c.bucket.Save(db, dest, recipient)
}

// CoinMint attempts to add the given amount of coins to
// the destination address. Fails if it overflows the balance.
func (c BaseController) CoinMint(db lockbox.KVStore, dest lockbox.Address, amount coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive mint %s", amount)
	}
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	recipient, err := c.bucket.Get(db, dest, amount.Ticker)
	if err != nil {
		return err
	}
	if recipient, err = recipient.Add(amount); err != nil {
		return err
	}
	return c.bucket.Save(db, dest, recipient)
}

// Balance returns the amount of a single ticker held by an account.
func (c BaseController) Balance(db lockbox.ReadOnlyKVStore, addr lockbox.Address, ticker string) (coin.Coin, error) {
	return c.bucket.Get(db, addr, ticker)
}

// Balances returns all funds held by an account.
func (c BaseController) Balances(db lockbox.ReadOnlyKVStore, addr lockbox.Address) ([]coin.Coin, error) {
	return c.bucket.All(db, addr)
}
