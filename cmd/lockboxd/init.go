package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	lbapp "github.com/iov-one/lockbox/app"
	"github.com/iov-one/lockbox/cmd/lockboxd/app"
	"github.com/iov-one/lockbox/coin"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/x/cash"
	"github.com/spf13/cobra"
	yaml "gopkg.in/yaml.v3"
)

const genesisFile = "genesis.yaml"

var (
	initChainID  string
	initAccounts []string
	initLogLevel string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the configuration and initialize the chain state",
	Long: `Create config.toml and initialize the chain state from genesis.yaml.

If genesis.yaml does not exist in the home directory, it is created from the
--account flags. Each account is given as "<key or address>=<amount> <ticker>",
for example --account "alice=1000 IOV".`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		genPath := filepath.Join(home, genesisFile)
		if _, err := os.Stat(genPath); os.IsNotExist(err) {
			if err := writeGenesis(genPath, initChainID, initAccounts); err != nil {
				return err
			}
		} else if len(initAccounts) > 0 {
			return errors.Wrapf(errors.ErrDuplicate, "%s exists, edit it instead of using --account", genPath)
		}

		gen, err := lbapp.LoadGenesis(genPath)
		if err != nil {
			return err
		}

		cfg := DefaultConfig()
		cfg.ChainID = gen.ChainID
		cfg.LogLevel = initLogLevel
		if instance != "" {
			cfg.Instance = instance
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if _, err := os.Stat(configPath(home)); err == nil {
			return errors.Wrapf(errors.ErrDuplicate, "%s exists", configPath(home))
		}
		if err := saveConfig(home, cfg); err != nil {
			return err
		}
		height, err := initChain(gen)
		if err != nil {
			// A failed init leaves no configuration behind, so that it
			// can be run again.
			if rmErr := os.Remove(configPath(home)); rmErr != nil {
				return errors.Wrapf(err, "remove %s: %s", configPath(home), rmErr)
			}
			return err
		}
		fmt.Printf("initialized chain %s at height %d\n", gen.ChainID, height)
		return nil
	},
}

// initChain opens the configured node and stores the genesis state as the
// first block.
func initChain(gen *lbapp.Genesis) (int64, error) {
	n, err := openNode(home)
	if err != nil {
		return 0, err
	}
	defer n.Close()
	if err := n.app.InitChain(gen, app.Initializer()); err != nil {
		return 0, err
	}
	id, err := n.app.Commit()
	if err != nil {
		return 0, err
	}
	return id.Version, nil
}

func init() {
	initCmd.Flags().StringVar(&initChainID, "chain-id", "lockbox-local", "chain id written to a new genesis file")
	initCmd.Flags().StringArrayVar(&initAccounts, "account", nil, `genesis account "<key or address>=<amount> <ticker>", can be repeated`)
	initCmd.Flags().StringVar(&initLogLevel, "log-level", "info", "log level written to the configuration")
}

// genesisDoc is the layout of a generated genesis file.
type genesisDoc struct {
	ChainID  string `yaml:"chain_id"`
	AppState struct {
		Cash []cash.GenesisAccount `yaml:"cash"`
	} `yaml:"app_state"`
}

func writeGenesis(path, chainID string, accounts []string) error {
	var doc genesisDoc
	doc.ChainID = chainID
	for _, a := range accounts {
		chunks := strings.SplitN(a, "=", 2)
		if len(chunks) != 2 {
			return errors.Wrapf(errors.ErrInput, "account %q", a)
		}
		addr, err := resolveAddress(chunks[0])
		if err != nil {
			return err
		}
		amount, err := coin.ParseHumanFormat(chunks[1])
		if err != nil {
			return err
		}
		doc.AppState.Cash = append(doc.AppState.Cash, cash.GenesisAccount{
			Address: addr.String(),
			Coins:   []string{amount.String()},
		})
	}

	raw, err := yaml.Marshal(&doc)
	if err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return ioutil.WriteFile(path, raw, 0600)
}
