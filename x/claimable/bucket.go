package claimable

import (
	"regexp"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
)

// DefaultInstance is used when a message does not name an instance.
const DefaultInstance = "default"

var isInstanceName = regexp.MustCompile(`^[a-z0-9_\-]{1,32}$`).MatchString

// ValidateInstance checks that name can be used as an instance name.
func ValidateInstance(name string) error {
	if !isInstanceName(name) {
		return errors.Wrapf(errors.ErrInput, "invalid instance name %q", name)
	}
	return nil
}

// HoldingAddress returns the address holding the funds of an instance.
func HoldingAddress(instance string) lockbox.Address {
	return lockbox.NewCondition("claimable", "instance", []byte(instance)).Address()
}

// Bucket stores the state of a single instance under two keys:
//   <instance>:init     set on the first funding, never removed
//   <instance>:balance  the amino encoded Escrow while funded
type Bucket struct {
	instance string
	initKey  []byte
	balKey   []byte
}

// NewBucket returns the bucket of given instance.
func NewBucket(instance string) Bucket {
	return Bucket{
		instance: instance,
		initKey:  []byte(instance + ":init"),
		balKey:   []byte(instance + ":balance"),
	}
}

// Initialized reports whether the instance was ever funded.
func (b Bucket) Initialized(db lockbox.ReadOnlyKVStore) (bool, error) {
	ok, err := db.Has(b.initKey)
	if err != nil {
		return false, errors.Wrap(err, "load init flag")
	}
	return ok, nil
}

// Load returns the current state of the instance.
func (b Bucket) Load(db lockbox.ReadOnlyKVStore) (*Instance, error) {
	inst := &Instance{
		Name:    b.instance,
		Holding: HoldingAddress(b.instance),
	}
	initialized, err := b.Initialized(db)
	if err != nil {
		return nil, err
	}
	raw, err := db.Get(b.balKey)
	if err != nil {
		return nil, errors.Wrap(err, "load balance")
	}

	switch {
	case !initialized && raw == nil:
		inst.State = Uninitialized
	case !initialized:
		return nil, errors.Wrapf(errors.ErrState, "instance %q holds a balance but is not initialized", b.instance)
	case raw == nil:
		inst.State = Claimed
	default:
		var e Escrow
		if err := e.Unmarshal(raw); err != nil {
			return nil, errors.Wrap(errors.ErrModel, err.Error())
		}
		inst.State = Funded
		inst.Escrow = &e
	}
	return inst, nil
}

// SaveEscrow stores the funded balance.
func (b Bucket) SaveEscrow(db lockbox.KVStore, e *Escrow) error {
	raw, err := e.Marshal()
	if err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return db.Set(b.balKey, raw)
}

// DeleteEscrow removes the balance. The init flag is kept.
func (b Bucket) DeleteEscrow(db lockbox.KVStore) error {
	return db.Delete(b.balKey)
}

// MarkInitialized sets the init flag.
func (b Bucket) MarkInitialized(db lockbox.KVStore) error {
	return db.Set(b.initKey, []byte{1})
}
