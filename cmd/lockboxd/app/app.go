/*
Package app links together all the various components
to construct the lockboxd app.
*/
package app

import (
	"path/filepath"
	"strings"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/app"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/store/iavl"
	"github.com/iov-one/lockbox/x"
	"github.com/iov-one/lockbox/x/cash"
	"github.com/iov-one/lockbox/x/claimable"
	"github.com/iov-one/lockbox/x/sigs"
	"github.com/iov-one/lockbox/x/utils"
	"github.com/tendermint/tendermint/libs/log"
)

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, and recovery
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		// handlers check authorization in their own order
		sigs.NewDecorator().AllowMissingSigs(),
		// on DeliverTx, bad tx will increment nonce
		// even if the message fails
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a default router, dispatching to the cash and
// claimable handlers.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	bank := cash.NewController()
	cash.RegisterRoutes(r, authFn, bank)
	claimable.RegisterRoutes(r, authFn, bank)
	return r
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into NewApplication.
func Stack() lockbox.Handler {
	authFn := Authenticator()
	return Chain().WithHandler(Router(authFn))
}

// Initializer returns the genesis initializers of all extensions.
func Initializer() lockbox.Initializer {
	return app.ChainInitializers(
		cash.Initializer{},
	)
}

// NewApplication constructs the application with the standard stack on top
// of given store.
func NewApplication(kv lockbox.CommitKVStore, logger log.Logger) (*app.Application, error) {
	a, err := app.NewApplication(kv, Stack(), Decode)
	if err != nil {
		return nil, err
	}
	return a.WithLogger(logger), nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (lockbox.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.NewMemCommitStore(), nil
	}

	// Expand the path fully
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}

	// Some external calls accidently add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	// Split the database name into it's components (dir, name)
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name)
}
