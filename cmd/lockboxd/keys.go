package main

import (
	"encoding/hex"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"regexp"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/crypto"
	"github.com/iov-one/lockbox/errors"
	"github.com/spf13/cobra"
	amino "github.com/tendermint/go-amino"
)

var keyCodec = amino.NewCodec()

var isKeyName = regexp.MustCompile(`^[a-zA-Z0-9_\-]{1,40}$`).MatchString

var (
	keygenSeed string
	keygenPath string
)

var keygenCmd = &cobra.Command{
	Use:   "keygen <name>",
	Short: "Create a new ed25519 key",
	Long: `Create a new ed25519 key stored under the home directory.

A random key is created unless --seed is given. A seed is hex encoded and
the key is derived from it using the --path derivation path.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if _, err := os.Stat(keyPath(name)); err == nil {
			return errors.Wrapf(errors.ErrDuplicate, "key %q", name)
		}

		var key *crypto.PrivateKey
		if keygenSeed == "" {
			key = crypto.GenPrivKeyEd25519()
		} else {
			seed, err := hex.DecodeString(keygenSeed)
			if err != nil {
				return errors.Wrap(errors.ErrInput, "seed is not hex encoded")
			}
			if key, err = crypto.DeriveEd25519(seed, keygenPath); err != nil {
				return err
			}
		}
		if err := saveKey(name, key); err != nil {
			return err
		}
		return printAddress(name, key.PublicKey().Address())
	},
}

var keyaddrCmd = &cobra.Command{
	Use:   "keyaddr <name>",
	Short: "Print the address of a key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := loadKey(args[0])
		if err != nil {
			return err
		}
		return printAddress(args[0], key.PublicKey().Address())
	},
}

func init() {
	keygenCmd.Flags().StringVar(&keygenSeed, "seed", "", "hex encoded seed to derive the key from")
	keygenCmd.Flags().StringVar(&keygenPath, "path", crypto.DefaultDerivationPath, "derivation path used with --seed")
}

func printAddress(name string, addr lockbox.Address) error {
	b32, err := addr.Bech32()
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(keyOutput{Name: name, Address: addr.String(), Bech32: b32})
	}
	fmt.Printf("%s\t%s\t%s\n", name, addr, b32)
	return nil
}

func keyPath(name string) string {
	return filepath.Join(home, "keys", name+".key")
}

func saveKey(name string, key *crypto.PrivateKey) error {
	if !isKeyName(name) {
		return errors.Wrapf(errors.ErrInput, "key name %q", name)
	}
	raw, err := keyCodec.MarshalJSON(key)
	if err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	if err := os.MkdirAll(filepath.Dir(keyPath(name)), 0700); err != nil {
		return err
	}
	return ioutil.WriteFile(keyPath(name), raw, 0600)
}

func loadKey(name string) (*crypto.PrivateKey, error) {
	if !isKeyName(name) {
		return nil, errors.Wrapf(errors.ErrInput, "key name %q", name)
	}
	raw, err := ioutil.ReadFile(keyPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrNotFound, "key %q", name)
		}
		return nil, err
	}
	var key crypto.PrivateKey
	if err := keyCodec.UnmarshalJSON(raw, &key); err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "key %q: %s", name, err)
	}
	return &key, nil
}

// resolveAddress accepts either the name of a local key or any address
// format understood by lockbox.ParseAddress.
func resolveAddress(arg string) (lockbox.Address, error) {
	if isKeyName(arg) {
		if key, err := loadKey(arg); err == nil {
			return key.PublicKey().Address(), nil
		} else if !errors.ErrNotFound.Is(err) {
			return nil, err
		}
	}
	addr, err := lockbox.ParseAddress(arg)
	if err != nil {
		return nil, errors.Wrapf(err, "address %q", arg)
	}
	if err := addr.Validate(); err != nil {
		return nil, errors.Wrapf(err, "address %q", arg)
	}
	return addr, nil
}
