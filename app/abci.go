package app

import (
	"fmt"
	"time"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// ABCI exposes an Application as a tendermint ABCI application. Block
// time is taken from the header passed to BeginBlock and used by all
// transactions until the next block begins.
//
// Errors returned to the client are converted with errors.ABCIInfo, so
// that only registered errors are visible outside of debug mode.
type ABCI struct {
	app       *Application
	init      lockbox.Initializer
	name      string
	debug     bool
	blockTime time.Time
}

var _ abci.Application = (*ABCI)(nil)

// NewABCI returns the ABCI binding of given application. The initializer
// is used on InitChain.
func NewABCI(app *Application, name string, init lockbox.Initializer) *ABCI {
	return &ABCI{
		app:  app,
		init: init,
		name: name,
	}
}

// WithDebug enables full error messages in responses.
func (b *ABCI) WithDebug(debug bool) *ABCI {
	b.debug = debug
	return b
}

// Info returns the name of the application and the last committed block.
func (b *ABCI) Info(req abci.RequestInfo) abci.ResponseInfo {
	id, err := b.app.LastCommit()
	if err != nil {
		return abci.ResponseInfo{Data: b.name}
	}
	return abci.ResponseInfo{
		Data:             b.name,
		LastBlockHeight:  id.Version,
		LastBlockAppHash: id.Hash,
	}
}

// SetOption is not supported.
func (b *ABCI) SetOption(req abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "Not Implemented"}
}

// Query returns the committed value stored under the key carried in
// Data. The only supported path is "/key".
func (b *ABCI) Query(req abci.RequestQuery) abci.ResponseQuery {
	if req.Path != "/key" {
		code, log := errors.ABCIInfo(errors.Wrapf(errors.ErrNotFound, "query path %q", req.Path), b.debug)
		return abci.ResponseQuery{Code: code, Log: log}
	}
	id, value, err := b.app.Query(req.Data)
	if err != nil {
		code, log := errors.ABCIInfo(err, b.debug)
		return abci.ResponseQuery{Code: code, Log: log}
	}
	return abci.ResponseQuery{
		Key:    req.Data,
		Value:  value,
		Height: id.Version,
	}
}

// InitChain initializes the chain from the app state given as YAML or
// JSON. A genesis that cannot be applied stops the node.
func (b *ABCI) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	opts, err := ParseAppState(req.AppStateBytes)
	if err == nil {
		err = b.app.InitChain(&Genesis{ChainID: req.ChainId, AppState: opts}, b.init)
	}
	if err != nil {
		panic(err)
	}
	return abci.ResponseInitChain{}
}

// BeginBlock sets the block time of the following transactions.
func (b *ABCI) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	b.blockTime = req.Header.Time
	return abci.ResponseBeginBlock{}
}

// CheckTx - ABCI - dispatches to the handler
func (b *ABCI) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	res, err := b.app.CheckTx(b.blockTime, txBytes)
	if err != nil {
		code, log := errors.ABCIInfo(err, b.debug)
		return abci.ResponseCheckTx{
			Code: code,
			Log:  fmt.Sprintf("cannot check tx: %s", log),
		}
	}
	return abci.ResponseCheckTx{
		Log:       res.Log,
		GasWanted: res.GasAllocated,
	}
}

// DeliverTx - ABCI - dispatches to the handler
func (b *ABCI) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	res, err := b.app.DeliverTx(b.blockTime, txBytes)
	if err != nil {
		code, log := errors.ABCIInfo(err, b.debug)
		return abci.ResponseDeliverTx{
			Code: code,
			Log:  fmt.Sprintf("cannot deliver tx: %s", log),
		}
	}
	return abci.ResponseDeliverTx{
		Data: res.Data,
		Log:  res.Log,
	}
}

// EndBlock has nothing to report, there are no validator changes.
func (b *ABCI) EndBlock(req abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}

// Commit persists the block. A store that cannot be written stops the
// node.
func (b *ABCI) Commit() abci.ResponseCommit {
	id, err := b.app.Commit()
	if err != nil {
		panic(err)
	}
	return abci.ResponseCommit{Data: id.Hash}
}
