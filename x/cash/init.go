package cash

import (
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/coin"
	"github.com/iov-one/lockbox/errors"
)

const optKey = "cash"

// GenesisAccount is used to parse the genesis file. Address accepts any
// format understood by lockbox.ParseAddress and coins use the human
// readable "<amount> <ticker>" format.
type GenesisAccount struct {
	Address string   `yaml:"address"`
	Coins   []string `yaml:"coins"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ lockbox.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(opts lockbox.Options, kv lockbox.KVStore) error {
	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	control := NewController()
	for i, acct := range accts {
		addr, err := lockbox.ParseAddress(acct.Address)
		if err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		if err := addr.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		for _, raw := range acct.Coins {
			c, err := coin.ParseHumanFormat(raw)
			if err != nil {
				return errors.Wrapf(err, "account %d", i)
			}
			if err := control.CoinMint(kv, addr, c); err != nil {
				return errors.Wrapf(err, "account %d", i)
			}
		}
	}
	return nil
}
