package app

import (
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/crypto"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/x/cash"
	"github.com/iov-one/lockbox/x/claimable"
	"github.com/iov-one/lockbox/x/sigs"
	amino "github.com/tendermint/go-amino"
)

// TxCodec encodes transactions together with every message type the
// application routes.
var TxCodec = newTxCodec()

func newTxCodec() *amino.Codec {
	c := amino.NewCodec()
	c.RegisterInterface((*lockbox.Msg)(nil), nil)
	cash.RegisterCodec(c)
	claimable.RegisterCodec(c)
	c.Seal()
	return c
}

// Tx is the transaction format of the application: a single message and
// the signatures authorizing it.
type Tx struct {
	Msg        lockbox.Msg
	Signatures []*sigs.StdSignature
}

var _ lockbox.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// NewTx wraps a message into an unsigned transaction.
func NewTx(msg lockbox.Msg) *Tx {
	return &Tx{Msg: msg}
}

// GetMsg returns the message carried by the transaction.
func (tx *Tx) GetMsg() (lockbox.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "empty transaction")
	}
	return tx.Msg, nil
}

// GetSignatures returns all signatures of the transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the transaction serialized without signatures.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	unsigned := Tx{Msg: tx.Msg}
	return unsigned.Marshal()
}

func (tx *Tx) Marshal() ([]byte, error) {
	raw, err := TxCodec.MarshalBinaryBare(tx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrMsg, err.Error())
	}
	return raw, nil
}

func (tx *Tx) Unmarshal(raw []byte) error {
	if err := TxCodec.UnmarshalBinaryBare(raw, tx); err != nil {
		return errors.Wrap(errors.ErrMsg, err.Error())
	}
	return nil
}

// Decode implements lockbox.TxDecoder.
func Decode(raw []byte) (lockbox.Tx, error) {
	var tx Tx
	if err := tx.Unmarshal(raw); err != nil {
		return nil, err
	}
	return &tx, nil
}

// Sign appends a signature of every signer to the transaction. The sequence
// of each signer is read from db, which must hold the state the
// transaction is executed against.
func (tx *Tx) Sign(db lockbox.ReadOnlyKVStore, chainID string, signers ...*crypto.PrivateKey) error {
	bucket := sigs.NewBucket()
	for _, s := range signers {
		user, err := bucket.Get(db, s.PublicKey().Address())
		if err != nil {
			return errors.Wrap(err, "load signer")
		}
		var seq int64
		if user != nil {
			seq = user.Sequence
		}
		sig, err := sigs.SignTx(s, tx, chainID, seq)
		if err != nil {
			return errors.Wrap(err, "sign")
		}
		tx.Signatures = append(tx.Signatures, sig)
	}
	return nil
}
