package claimable

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
)

// TimeBoundKind selects the direction of a TimeBound.
type TimeBoundKind int32

const (
	// Before holds while the clock has not passed the timestamp.
	Before TimeBoundKind = 1
	// After holds once the clock reached the timestamp.
	After TimeBoundKind = 2
)

func (k TimeBoundKind) String() string {
	switch k {
	case Before:
		return "before"
	case After:
		return "after"
	}
	return fmt.Sprintf("TimeBoundKind(%d)", int32(k))
}

// TimeBound is a predicate over the ledger clock. Both bounds are inclusive.
type TimeBound struct {
	Kind TimeBoundKind
	// Timestamp is in seconds since the unix epoch.
	Timestamp uint64
}

// BeforeTime returns a time bound that holds until t, including t.
func BeforeTime(t uint64) TimeBound {
	return TimeBound{Kind: Before, Timestamp: t}
}

// AfterTime returns a time bound that holds from t on, including t.
func AfterTime(t uint64) TimeBound {
	return TimeBound{Kind: After, Timestamp: t}
}

// Holds evaluates the bound for given clock reading.
func (t TimeBound) Holds(now uint64) bool {
	switch t.Kind {
	case Before:
		return now <= t.Timestamp
	case After:
		return now >= t.Timestamp
	}
	return false
}

func (t TimeBound) Validate() error {
	switch t.Kind {
	case Before, After:
		return nil
	}
	return errors.Wrapf(errors.ErrInput, "unknown time bound kind %d", int32(t.Kind))
}

func (t TimeBound) String() string {
	return t.Kind.String() + ":" + strconv.FormatUint(t.Timestamp, 10)
}

// ParseTimeBound reads the "<before|after>:<time>" representation. Time is
// either unsigned unix seconds, covering the whole Timestamp range, or an
// RFC 3339 timestamp.
func ParseTimeBound(raw string) (TimeBound, error) {
	chunks := strings.SplitN(raw, ":", 2)
	if len(chunks) != 2 {
		return TimeBound{}, errors.Wrapf(errors.ErrInput, "invalid time bound %q", raw)
	}
	var kind TimeBoundKind
	switch strings.ToLower(chunks[0]) {
	case "before":
		kind = Before
	case "after":
		kind = After
	default:
		return TimeBound{}, errors.Wrapf(errors.ErrInput, "invalid time bound kind %q", chunks[0])
	}
	if ts, err := strconv.ParseUint(chunks[1], 10, 64); err == nil {
		return TimeBound{Kind: kind, Timestamp: ts}, nil
	}
	ts, err := lockbox.ParseUnixTime(chunks[1])
	if err != nil {
		return TimeBound{}, err
	}
	return TimeBound{Kind: kind, Timestamp: uint64(ts)}, nil
}

// ledgerNow returns the block time as unix seconds. Times before the epoch
// are reported as 0.
func ledgerNow(ctx lockbox.Context) (uint64, error) {
	now, ok := lockbox.BlockTime(ctx)
	if !ok {
		return 0, errors.Wrap(errors.ErrHuman, "block time is not present")
	}
	if sec := now.Unix(); sec > 0 {
		return uint64(sec), nil
	}
	return 0, nil
}
