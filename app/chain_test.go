package app

import (
	"context"
	"testing"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/lockboxtest"
	"github.com/iov-one/lockbox/x/utils"
	"github.com/stretchr/testify/assert"
)

func TestChain(t *testing.T) {
	c1 := &lockboxtest.Decorator{}
	c2 := &lockboxtest.Decorator{}
	c3 := &lockboxtest.Decorator{}
	var nilDecorator *lockboxtest.Decorator
	h := &lockboxtest.Handler{}

	stack := ChainDecorators(
		c1,
		utils.NewRecovery(),
		nilDecorator,
		c2,
		panicAtHeight(6),
		c3,
	).WithHandler(h)

	bg := context.Background()
	tx := &lockboxtest.Tx{Msg: &lockboxtest.Msg{RoutePath: "test/chain"}}

	// make some calls, make sure it is fine
	_, err := stack.Check(bg, nil, tx)
	assert.NoError(t, err)
	ctx := lockbox.WithHeight(bg, 4)
	_, err = stack.Deliver(ctx, nil, tx)
	assert.NoError(t, err)

	assert.Equal(t, 2, c1.CallCount())
	assert.Equal(t, 2, c2.CallCount())
	assert.Equal(t, 2, c3.CallCount())
	assert.Equal(t, 2, h.CallCount())

	// now, let's trigger a panic
	ctx = lockbox.WithHeight(bg, 8)
	_, err = stack.Check(ctx, nil, tx)
	assert.True(t, errors.ErrPanic.Is(err))
	_, err = stack.Deliver(ctx, nil, tx)
	assert.True(t, errors.ErrPanic.Is(err))

	assert.Equal(t, 4, c1.CallCount())
	assert.Equal(t, 4, c2.CallCount())
	// the panic happens before c3 is reached
	assert.Equal(t, 2, c3.CallCount())
	assert.Equal(t, 2, h.CallCount())
}

// panicAtHeight panics if the context height is at least h.
type panicAtHeight int64

func (p panicAtHeight) Check(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx, next lockbox.Checker) (*lockbox.CheckResult, error) {
	if val, _ := lockbox.GetHeight(ctx); val >= int64(p) {
		panic("too high")
	}
	return next.Check(ctx, db, tx)
}

func (p panicAtHeight) Deliver(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx, next lockbox.Deliverer) (*lockbox.DeliverResult, error) {
	if val, _ := lockbox.GetHeight(ctx); val >= int64(p) {
		panic("too high")
	}
	return next.Deliver(ctx, db, tx)
}
