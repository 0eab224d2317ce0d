package main

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/iov-one/lockbox"
	lbapp "github.com/iov-one/lockbox/app"
	"github.com/iov-one/lockbox/cmd/lockboxd/app"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/x/claimable"
	"github.com/tendermint/tendermint/libs/log"
)

const configFile = "config.toml"

// Config is the content of config.toml in the home directory.
type Config struct {
	ChainID string `toml:"chain_id"`
	// DBPath is relative to the home directory unless absolute.
	DBPath   string `toml:"db_path"`
	LogLevel string `toml:"log_level"`
	// Instance is the claimable balance used when --instance is not given.
	Instance string `toml:"instance"`
}

// DefaultConfig returns the configuration written by init.
func DefaultConfig() Config {
	return Config{
		DBPath:   filepath.Join("data", "state.db"),
		LogLevel: "info",
		Instance: claimable.DefaultInstance,
	}
}

// Validate checks that the configuration can be used to open a node.
func (c Config) Validate() error {
	if !lockbox.IsValidChainID(c.ChainID) {
		return errors.Wrapf(errors.ErrInput, "chain id %q", c.ChainID)
	}
	if c.DBPath == "" {
		return errors.Wrap(errors.ErrEmpty, "db path")
	}
	if err := claimable.ValidateInstance(c.Instance); err != nil {
		return errors.Wrap(err, "instance")
	}
	if _, err := log.AllowLevel(c.LogLevel); err != nil {
		return errors.Wrapf(errors.ErrInput, "log level: %s", err)
	}
	return nil
}

func configPath(dir string) string {
	return filepath.Join(dir, configFile)
}

func loadConfig(dir string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(configPath(dir), &cfg); err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrapf(errors.ErrNotFound, "%s, run init first", configPath(dir))
		}
		return Config{}, errors.Wrapf(errors.ErrInput, "config: %s", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func saveConfig(dir string, cfg Config) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(configPath(dir), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// newLogger returns a logger writing to stderr at the configured level.
func newLogger(level string) (log.Logger, error) {
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "log level: %s", err)
	}
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stderr))
	return log.NewFilter(logger, opt).With("module", "lockbox"), nil
}

// node is an opened application together with its configuration.
type node struct {
	cfg   Config
	app   *lbapp.Application
	abci  *lbapp.ABCI
	store lockbox.CommitKVStore
}

// Close releases the database.
func (n *node) Close() {
	if c, ok := n.store.(interface{ Close() }); ok {
		c.Close()
	}
}

func openNode(dir string) (*node, error) {
	cfg, err := loadConfig(dir)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	dbPath := cfg.DBPath
	if !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(dir, dbPath)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, err
	}
	kv, err := app.CommitKVStore(dbPath)
	if err != nil {
		return nil, err
	}
	a, err := app.NewApplication(kv, logger)
	if err != nil {
		return nil, err
	}
	return &node{
		cfg:   cfg,
		app:   a,
		abci:  lbapp.NewABCI(a, "lockboxd", app.Initializer()),
		store: kv,
	}, nil
}

// instanceName returns the instance selected by flag or configuration.
func (n *node) instanceName() (string, error) {
	name := instance
	if name == "" {
		name = n.cfg.Instance
	}
	return name, claimable.ValidateInstance(name)
}
