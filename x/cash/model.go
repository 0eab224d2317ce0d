package cash

import (
	"bytes"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/coin"
	"github.com/iov-one/lockbox/errors"
	amino "github.com/tendermint/go-amino"
)

// BucketName is the key prefix of all balances
const BucketName = "cash"

var cdc = amino.NewCodec()

// Bucket keeps a balance per account and ticker. Keys are
//   cash:<address>:<ticker>
// and values are amino encoded coin.Int128 amounts.
type Bucket struct {
	prefix []byte
}

// NewBucket returns the balance bucket
func NewBucket() Bucket {
	return Bucket{prefix: []byte(BucketName + ":")}
}

func (b Bucket) accountKey(addr lockbox.Address) []byte {
	k := append(append([]byte(nil), b.prefix...), addr...)
	return append(k, ':')
}

func (b Bucket) dbKey(addr lockbox.Address, ticker string) []byte {
	return append(b.accountKey(addr), ticker...)
}

// Get returns the balance of a single ticker. An account that never held
// the ticker has a zero balance.
func (b Bucket) Get(db lockbox.ReadOnlyKVStore, addr lockbox.Address, ticker string) (coin.Coin, error) {
	raw, err := db.Get(b.dbKey(addr, ticker))
	if err != nil {
		return coin.Coin{}, errors.Wrap(err, "load balance")
	}
	c := coin.Coin{Ticker: ticker}
	if raw == nil {
		return c, nil
	}
	if err := cdc.UnmarshalBinaryBare(raw, &c.Amount); err != nil {
		return coin.Coin{}, errors.Wrap(errors.ErrModel, err.Error())
	}
	return c, nil
}

// Save stores the balance. A zero balance removes the entry.
func (b Bucket) Save(db lockbox.KVStore, addr lockbox.Address, c coin.Coin) error {
	if c.Amount.Sign() < 0 {
		return errors.Wrapf(errors.ErrInsufficientAmount, "negative balance %s", c)
	}
	key := b.dbKey(addr, c.Ticker)
	if c.IsZero() {
		return db.Delete(key)
	}
	raw, err := cdc.MarshalBinaryBare(c.Amount)
	if err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return db.Set(key, raw)
}

// All returns every non zero balance of an account, ordered by ticker.
func (b Bucket) All(db lockbox.ReadOnlyKVStore, addr lockbox.Address) ([]coin.Coin, error) {
	start := b.accountKey(addr)
	it, err := db.Iterator(start, prefixEnd(start))
	if err != nil {
		return nil, errors.Wrap(err, "iterate balances")
	}
	defer it.Close()

	var res []coin.Coin
	for ; it.Valid(); it.Next() {
		c := coin.Coin{Ticker: string(bytes.TrimPrefix(it.Key(), start))}
		if err := cdc.UnmarshalBinaryBare(it.Value(), &c.Amount); err != nil {
			return nil, errors.Wrap(errors.ErrModel, err.Error())
		}
		res = append(res, c)
	}
	return res, nil
}

// prefixEnd returns the smallest key greater than all keys starting with
// prefix.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
