package coin

import (
	"encoding/json"
	"math/big"

	"github.com/iov-one/lockbox/errors"
)

var (
	maxInt128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	minInt128 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	two64     = new(big.Int).Lsh(big.NewInt(1), 64)
)

// Int128 is a signed 128 bit integer stored as two's complement halves.
// The value is Hi * 2^64 + Lo.
type Int128 struct {
	Hi int64
	Lo uint64
}

// NewInt128 returns an Int128 holding given value.
func NewInt128(v int64) Int128 {
	if v < 0 {
		return Int128{Hi: -1, Lo: uint64(v)}
	}
	return Int128{Lo: uint64(v)}
}

// ParseInt128 reads a base 10 representation of an integer.
func ParseInt128(s string) (Int128, error) {
	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Int128{}, errors.Wrapf(errors.ErrInput, "invalid integer %q", s)
	}
	return FromBig(b)
}

// FromBig converts a big integer, failing with ErrOverflow if it does not
// fit into 128 bits.
func FromBig(b *big.Int) (Int128, error) {
	if b.Cmp(maxInt128) > 0 || b.Cmp(minInt128) < 0 {
		return Int128{}, errors.Wrap(errors.ErrOverflow, "int128")
	}
	v := new(big.Int).Set(b)
	if v.Sign() < 0 {
		v.Add(v, new(big.Int).Lsh(two64, 64))
	}
	lo := new(big.Int).And(v, new(big.Int).Sub(two64, big.NewInt(1)))
	hi := new(big.Int).Rsh(v, 64)
	return Int128{Hi: int64(hi.Uint64()), Lo: lo.Uint64()}, nil
}

// Big returns the value as a big integer.
func (i Int128) Big() *big.Int {
	b := new(big.Int).SetInt64(i.Hi)
	b.Lsh(b, 64)
	return b.Add(b, new(big.Int).SetUint64(i.Lo))
}

// Add returns i + o or ErrOverflow.
func (i Int128) Add(o Int128) (Int128, error) {
	return FromBig(new(big.Int).Add(i.Big(), o.Big()))
}

// Sub returns i - o or ErrOverflow.
func (i Int128) Sub(o Int128) (Int128, error) {
	return FromBig(new(big.Int).Sub(i.Big(), o.Big()))
}

// Neg returns -i or ErrOverflow for the smallest value.
func (i Int128) Neg() (Int128, error) {
	return FromBig(new(big.Int).Neg(i.Big()))
}

// Cmp returns -1, 0 or 1 if i is less than, equal to or greater than o.
func (i Int128) Cmp(o Int128) int {
	switch {
	case i.Hi < o.Hi:
		return -1
	case i.Hi > o.Hi:
		return 1
	case i.Lo < o.Lo:
		return -1
	case i.Lo > o.Lo:
		return 1
	}
	return 0
}

// Sign returns -1, 0 or 1 depending on the sign of i.
func (i Int128) Sign() int {
	switch {
	case i.Hi < 0:
		return -1
	case i.Hi == 0 && i.Lo == 0:
		return 0
	}
	return 1
}

// IsZero returns true if the value is 0.
func (i Int128) IsZero() bool {
	return i.Hi == 0 && i.Lo == 0
}

// IsPositive returns true if the value is greater than 0.
func (i Int128) IsPositive() bool {
	return i.Sign() > 0
}

func (i Int128) String() string {
	return i.Big().String()
}

// MarshalJSON renders the value as a JSON string so that no precision is
// lost by clients using floating point numbers.
func (i Int128) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.String())
}

func (i *Int128) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		// Accept plain numbers as well.
		s = string(raw)
	}
	v, err := ParseInt128(s)
	if err != nil {
		return err
	}
	*i = v
	return nil
}
