package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Application executes transactions against a commit store. Every block
// holds the transactions delivered since the last Commit.
//
// All methods are safe for concurrent use, transactions are executed one
// at a time.
type Application struct {
	mu sync.Mutex

	store   *CommitStore
	handler lockbox.Handler
	decoder lockbox.TxDecoder
	logger  log.Logger

	// chainID is loaded from db in initialization
	// saved once in InitChain
	chainID string
}

// NewApplication loads the latest state of the store. The handler is
// usually a decorator chain ending with a Router.
func NewApplication(store lockbox.CommitKVStore, handler lockbox.Handler, decoder lockbox.TxDecoder) (*Application, error) {
	cs, err := NewCommitStore(store)
	if err != nil {
		return nil, err
	}
	chainID, err := loadChainID(cs.DeliverStore())
	if err != nil {
		return nil, err
	}
	return &Application{
		store:   cs,
		handler: handler,
		decoder: decoder,
		logger:  log.NewNopLogger(),
		chainID: chainID,
	}, nil
}

// WithLogger sets the logger on the Application and returns it,
// to make it easy to chain in initialization
func (a *Application) WithLogger(logger log.Logger) *Application {
	a.logger = logger
	return a
}

// ChainID returns the chain id, empty until the chain is initialized.
func (a *Application) ChainID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.chainID
}

// DeliverStore returns the state including all delivered but not yet
// committed transactions. Use it only for reading.
func (a *Application) DeliverStore() lockbox.ReadOnlyKVStore {
	return a.store.DeliverStore()
}

// InitChain stores the chain id and initializes all extensions from the
// genesis. It is called only once in the lifetime of a chain.
func (a *Application) InitChain(gen *Genesis, init lockbox.Initializer) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.chainID != "" {
		return errors.Wrapf(errors.ErrImmutable, "chain %s already initialized", a.chainID)
	}

	cache := a.store.DeliverStore().CacheWrap()
	if err := saveChainID(cache, gen.ChainID); err != nil {
		cache.Discard()
		return err
	}
	if err := init.FromGenesis(gen.AppState, cache); err != nil {
		cache.Discard()
		return errors.Wrap(err, "genesis")
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "write genesis")
	}
	a.chainID = gen.ChainID
	a.logger.Info("chain initialized", "chain_id", gen.ChainID)
	return nil
}

// CheckTx verifies the transaction against the check state. Changes made
// by a successful check, like signature sequences, are kept in the check
// state until the next Commit.
func (a *Application) CheckTx(blockTime time.Time, raw []byte) (*lockbox.CheckResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	ctx, tx, err := a.prepare(blockTime, raw, "check_tx")
	if err != nil {
		return nil, err
	}
	return a.handler.Check(ctx, a.store.CheckStore(), tx)
}

// DeliverTx executes the transaction against the deliver state.
func (a *Application) DeliverTx(blockTime time.Time, raw []byte) (*lockbox.DeliverResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	ctx, tx, err := a.prepare(blockTime, raw, "deliver_tx")
	if err != nil {
		return nil, err
	}
	return a.handler.Deliver(ctx, a.store.DeliverStore(), tx)
}

// Commit persists all delivered transactions as a new version.
func (a *Application) Commit() (lockbox.CommitID, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	id, err := a.store.Commit()
	if err != nil {
		return id, errors.Wrap(err, "commit")
	}
	a.logger.Info("committed state", "height", id.Version, "hash", fmt.Sprintf("%X", id.Hash))
	return id, nil
}

// LastCommit returns the version and hash of the last committed block.
func (a *Application) LastCommit() (lockbox.CommitID, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.CommitInfo()
}

// Query returns the value stored under key in the last committed state.
func (a *Application) Query(key []byte) (lockbox.CommitID, []byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(key) == 0 {
		return lockbox.CommitID{}, nil, errors.Wrap(errors.ErrEmpty, "key")
	}
	id, err := a.store.CommitInfo()
	if err != nil {
		return id, nil, err
	}
	value, err := a.store.committed.Get(key)
	if err != nil {
		return id, nil, errors.Wrap(err, "query")
	}
	return id, value, nil
}

// prepare decodes the transaction and builds the context it is executed
// with. Height is the height of the block being built.
func (a *Application) prepare(blockTime time.Time, raw []byte, call string) (lockbox.Context, lockbox.Tx, error) {
	if a.chainID == "" {
		return nil, nil, errors.Wrap(errors.ErrState, "chain not initialized")
	}
	tx, err := a.loadTx(raw)
	if err != nil {
		return nil, nil, err
	}
	info, err := a.store.CommitInfo()
	if err != nil {
		return nil, nil, err
	}

	ctx := lockbox.WithChainID(context.Background(), a.chainID)
	ctx = lockbox.WithHeight(ctx, info.Version+1)
	ctx = lockbox.WithBlockTime(ctx, blockTime)
	ctx = lockbox.WithLogger(ctx, a.logger)
	ctx = lockbox.WithLogInfo(ctx, "call", call, "path", lockbox.GetPath(tx))
	return ctx, tx, nil
}

// loadTx calls the decoder, and capture any panics
func (a *Application) loadTx(raw []byte) (tx lockbox.Tx, err error) {
	defer errors.Recover(&err)
	tx, err = a.decoder(raw)
	return
}
