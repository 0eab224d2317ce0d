package sigs

import (
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/crypto"
	"github.com/iov-one/lockbox/errors"
	amino "github.com/tendermint/go-amino"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

var cdc = amino.NewCodec()

// UserData is the replay protection state of a single signer.
type UserData struct {
	Pubkey   *crypto.PublicKey
	Sequence int64
}

func (u *UserData) Validate() error {
	if seq := u.Sequence; seq < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	} else if seq > 0 && u.Pubkey == nil {
		return errors.Wrap(ErrInvalidSequence, "needs Pubkey")
	}
	return nil
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
// Before incrementing the sequence, this function is testing for a value
// overflow.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", expected, u.Sequence)
	}

	next := u.Sequence + 1

	// The greatest nonce value supported by javascript clients is
	//   Number.MAX_SAFE_INTEGER = 2^53 - 1
	const maxSequenceValue = (1 << 53) - 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

// Bucket persists UserData keyed by the signer address.
type Bucket struct {
	prefix []byte
}

// NewBucket creates the proper bucket for this extension
func NewBucket() Bucket {
	return Bucket{prefix: []byte(BucketName + ":")}
}

func (b Bucket) dbKey(addr lockbox.Address) []byte {
	return append(append([]byte(nil), b.prefix...), addr...)
}

// Get returns the user stored under given address or nil.
func (b Bucket) Get(db lockbox.ReadOnlyKVStore, addr lockbox.Address) (*UserData, error) {
	raw, err := db.Get(b.dbKey(addr))
	if err != nil {
		return nil, errors.Wrap(err, "load user")
	}
	if raw == nil {
		return nil, nil
	}
	var u UserData
	if err := cdc.UnmarshalBinaryBare(raw, &u); err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return &u, nil
}

// GetOrCreate initializes a UserData if none exist for that key
func (b Bucket) GetOrCreate(db lockbox.ReadOnlyKVStore, pubkey *crypto.PublicKey) (*UserData, error) {
	u, err := b.Get(db, pubkey.Address())
	if err == nil && u == nil {
		u = &UserData{Pubkey: pubkey}
	}
	return u, err
}

// Save validates and writes the user.
func (b Bucket) Save(db lockbox.KVStore, u *UserData) error {
	if u.Pubkey == nil {
		return errors.Wrap(errors.ErrModel, "missing public key")
	}
	if err := u.Validate(); err != nil {
		return err
	}
	raw, err := cdc.MarshalBinaryBare(u)
	if err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return db.Set(b.dbKey(u.Pubkey.Address()), raw)
}
