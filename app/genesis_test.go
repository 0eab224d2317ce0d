package app

import (
	"testing"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/store/iavl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dummyKey = "dummy"

type dummyInit struct{}

func (dummyInit) FromGenesis(opts lockbox.Options, kv lockbox.KVStore) error {
	var value string
	if err := opts.ReadOptions(dummyKey, &value); err != nil {
		return err
	}
	return kv.Set([]byte(dummyKey), []byte(value))
}

type countInit struct {
	called int
}

func (c *countInit) FromGenesis(opts lockbox.Options, kv lockbox.KVStore) error {
	c.called++
	return nil
}

func TestInitChain(t *testing.T) {
	cases := map[string]struct {
		file         string
		parseError   bool
		initErr      bool
		expectChain  string
		expectCalled int
		expectValue  []byte
	}{
		"no such file": {
			file:       "testdata/bad_file.yaml",
			parseError: true,
		},
		"missing chain id": {
			file:       "testdata/no_chain.yaml",
			parseError: true,
		},
		"proper parse": {
			file:         "testdata/genesis.yaml",
			expectChain:  "test-chain-67",
			expectCalled: 1,
			expectValue:  []byte("secret"),
		},
		"bad init": {
			file:        "testdata/bad_genesis.yaml",
			initErr:     true,
			expectChain: "",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			gen, err := LoadGenesis(tc.file)
			if tc.parseError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			c := new(countInit)
			init := ChainInitializers(dummyInit{}, c)
			a, err := NewApplication(iavl.NewMemCommitStore(), NewRouter(), nil)
			require.NoError(t, err)
			assert.Equal(t, "", a.ChainID())

			err = a.InitChain(gen, init)
			if tc.initErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.expectChain, a.ChainID())
			assert.Equal(t, tc.expectCalled, c.called)
			val, err := a.DeliverStore().Get([]byte(dummyKey))
			require.NoError(t, err)
			assert.Equal(t, tc.expectValue, val)
		})
	}
}

func TestInitChainTwice(t *testing.T) {
	gen, err := LoadGenesis("testdata/genesis.yaml")
	require.NoError(t, err)
	a, err := NewApplication(iavl.NewMemCommitStore(), NewRouter(), nil)
	require.NoError(t, err)
	require.NoError(t, a.InitChain(gen, dummyInit{}))
	assert.Error(t, a.InitChain(gen, dummyInit{}))
}
