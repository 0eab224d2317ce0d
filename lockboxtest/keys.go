package lockboxtest

import (
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/crypto"
)

func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

func NewCondition() lockbox.Condition {
	return NewKey().PublicKey().Condition()
}

// SequenceCondition returns a condition that is unique for given sequence
// number. Use it when a test requires a deterministic but not signing
// identity.
func SequenceCondition(ext string, n uint8) lockbox.Condition {
	return lockbox.NewCondition(ext, "seq", []byte{n})
}
