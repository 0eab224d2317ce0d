package cash

import (
	"testing"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/coin"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/lockboxtest/assert"
	"github.com/iov-one/lockbox/store"
	yaml "gopkg.in/yaml.v3"
)

func TestGenesis(t *testing.T) {
	const genesis = `
cash:
  - address: hex:B10AB6A1E1B20B5A6A50B95E0D97B5F0B6AC0E51
    coins:
      - 1000 IOV
      - 3 ETH
  - address: hex:B5AA1E43E9F6A3D6E8EE4B65F75A4A9B0E1B7E0D
    coins:
      - 42 IOV
`
	var opts lockbox.Options
	assert.Nil(t, yaml.Unmarshal([]byte(genesis), &opts))

	db := store.MemStore()
	assert.Nil(t, Initializer{}.FromGenesis(opts, db))

	first, err := lockbox.ParseAddress("hex:B10AB6A1E1B20B5A6A50B95E0D97B5F0B6AC0E51")
	assert.Nil(t, err)
	got, err := NewController().Balances(db, first)
	assert.Nil(t, err)
	assert.Equal(t, []coin.Coin{coin.NewCoin(3, "ETH"), coin.NewCoin(1000, "IOV")}, got)
}

func TestGenesisInvalid(t *testing.T) {
	cases := map[string]struct {
		genesis string
		wantErr *errors.Error
	}{
		"bad address": {
			genesis: "cash:\n  - address: hex:XYZ\n    coins: [\"1 IOV\"]\n",
			wantErr: errors.ErrInput,
		},
		"bad coin": {
			genesis: "cash:\n  - address: hex:B10AB6A1E1B20B5A6A50B95E0D97B5F0B6AC0E51\n    coins: [\"IOV\"]\n",
			wantErr: errors.ErrInput,
		},
		"missing section is fine": {
			genesis: "other: 1\n",
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts lockbox.Options
			assert.Nil(t, yaml.Unmarshal([]byte(tc.genesis), &opts))
			err := Initializer{}.FromGenesis(opts, store.MemStore())
			assert.IsErr(t, tc.wantErr, err)
		})
	}
}
