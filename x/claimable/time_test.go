package claimable

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/lockboxtest/assert"
)

func TestTimeBoundHolds(t *testing.T) {
	const ts = 12346

	cases := map[string]struct {
		bound TimeBound
		now   uint64
		want  bool
	}{
		"before, earlier":          {bound: BeforeTime(ts), now: ts - 1, want: true},
		"before, equal":            {bound: BeforeTime(ts), now: ts, want: true},
		"before, one second late":  {bound: BeforeTime(ts), now: ts + 1, want: false},
		"before, at zero":          {bound: BeforeTime(0), now: 0, want: true},
		"after, later":             {bound: AfterTime(ts), now: ts + 1, want: true},
		"after, equal":             {bound: AfterTime(ts), now: ts, want: true},
		"after, one second early":  {bound: AfterTime(ts), now: ts - 1, want: false},
		"after, max timestamp":     {bound: AfterTime(^uint64(0)), now: ^uint64(0), want: true},
		"unknown kind never holds": {bound: TimeBound{Timestamp: ts}, now: ts, want: false},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.bound.Holds(tc.now))
		})
	}
}

func TestTimeBoundValidate(t *testing.T) {
	assert.Nil(t, BeforeTime(1).Validate())
	assert.Nil(t, AfterTime(1).Validate())
	assert.IsErr(t, errors.ErrInput, TimeBound{}.Validate())
	assert.IsErr(t, errors.ErrInput, TimeBound{Kind: 3}.Validate())
}

func TestParseTimeBound(t *testing.T) {
	cases := map[string]struct {
		raw     string
		want    TimeBound
		wantErr *errors.Error
	}{
		"before in seconds":  {raw: "before:12346", want: BeforeTime(12346)},
		"after in rfc3339":   {raw: "after:1970-01-01T03:25:46Z", want: AfterTime(12346)},
		"kind is case blind": {raw: "AFTER:5", want: AfterTime(5)},
		"missing time":       {raw: "before", wantErr: errors.ErrInput},
		"unknown kind":       {raw: "during:5", wantErr: errors.ErrInput},
		"negative time":      {raw: "after:-5", wantErr: errors.ErrInput},
		"beyond int64":       {raw: "before:18446744073709551615", want: BeforeTime(math.MaxUint64)},
		"beyond uint64":      {raw: "before:18446744073709551616", wantErr: errors.ErrInput},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := ParseTimeBound(tc.raw)
			assert.IsErr(t, tc.wantErr, err)
			if tc.wantErr == nil {
				assert.Equal(t, tc.want, got)
				assert.Equal(t, tc.want, mustParse(t, got.String()))
			}
		})
	}
}

func mustParse(t testing.TB, raw string) TimeBound {
	t.Helper()
	b, err := ParseTimeBound(raw)
	assert.Nil(t, err)
	return b
}

func TestLedgerNow(t *testing.T) {
	_, err := ledgerNow(context.Background())
	assert.IsErr(t, errors.ErrHuman, err)

	ctx := lockbox.WithBlockTime(context.Background(), time.Unix(12345, 0))
	now, err := ledgerNow(ctx)
	assert.Nil(t, err)
	assert.Equal(t, uint64(12345), now)

	ctx = lockbox.WithBlockTime(context.Background(), time.Unix(-20, 0))
	now, err = ledgerNow(ctx)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), now)
}
