package lockbox

import (
	"strconv"
	"time"

	"github.com/iov-one/lockbox/errors"
)

// UnixTime represents a point in time as POSIX time.
// Instead of using Go's time.Time that includes nanoseconds use primitive
// int64 type and seconds precision. Some languages do not support
// nanoseconds precision anyway.
type UnixTime int64

// Time returns a time.Time structure that represents the same moment in time.
func (t UnixTime) Time() time.Time {
	return time.Unix(int64(t), 0).UTC()
}

// AsUnixTime converts given Time structure into its UNIX time representation.
func AsUnixTime(t time.Time) UnixTime {
	return UnixTime(t.Unix())
}

// ParseUnixTime reads a time value either as a number of seconds since the
// epoch or as an RFC 3339 formatted string. Times before the epoch are
// rejected.
func ParseUnixTime(raw string) (UnixTime, error) {
	if unix, err := strconv.ParseInt(raw, 10, 64); err == nil {
		t := UnixTime(unix)
		return t, t.Validate()
	}
	stdtime, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return 0, errors.Wrap(errors.ErrInput, "invalid time format")
	}
	t := AsUnixTime(stdtime)
	return t, t.Validate()
}

// Validate returns an error if this time value is invalid.
func (t UnixTime) Validate() error {
	if t < 0 {
		return errors.Wrap(errors.ErrInput, "time before epoch")
	}
	return nil
}

// String returns the usual string representation of this time as the time.Time
// structure would.
func (t UnixTime) String() string {
	return t.Time().String()
}
