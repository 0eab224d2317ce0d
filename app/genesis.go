package app

import (
	"io/ioutil"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	yaml "gopkg.in/yaml.v3"
)

// Genesis file format. AppState holds one section per extension, each
// decoded by that extension's Initializer.
type Genesis struct {
	ChainID  string          `yaml:"chain_id"`
	AppState lockbox.Options `yaml:"app_state"`
}

// LoadGenesis tries to load a given file into a Genesis struct
func LoadGenesis(filePath string) (*Genesis, error) {
	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "read genesis file: %s", err)
	}
	return ParseGenesis(raw)
}

// ParseGenesis decodes a YAML encoded genesis.
func ParseGenesis(raw []byte) (*Genesis, error) {
	var gen Genesis
	if err := yaml.Unmarshal(raw, &gen); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "parse genesis: %s", err)
	}
	if !lockbox.IsValidChainID(gen.ChainID) {
		return nil, errors.Wrapf(errors.ErrInput, "genesis chain id %q", gen.ChainID)
	}
	return &gen, nil
}

// ParseAppState decodes the app state section of a genesis. JSON, as
// passed by tendermint, is accepted as well.
func ParseAppState(raw []byte) (lockbox.Options, error) {
	var opts lockbox.Options
	if len(raw) == 0 {
		return opts, nil
	}
	if err := yaml.Unmarshal(raw, &opts); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "parse app state: %s", err)
	}
	return opts, nil
}

//------ init state -----

// ChainInitializers lets you initialize many extensions with one function
func ChainInitializers(inits ...lockbox.Initializer) lockbox.Initializer {
	return chainInitializer{inits}
}

type chainInitializer struct {
	inits []lockbox.Initializer
}

// FromGenesis will pass opts to all Initializers in the list,
// aborting at the first error.
func (c chainInitializer) FromGenesis(opts lockbox.Options, kv lockbox.KVStore) error {
	for _, i := range c.inits {
		if err := i.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}
