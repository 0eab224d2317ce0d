package app

import (
	"context"
	"fmt"
	"testing"

	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/lockboxtest"
	"github.com/iov-one/lockbox/store"
	"github.com/stretchr/testify/assert"
)

func TestRouter(t *testing.T) {
	r := NewRouter()
	good, bad, missing := "test/good", "test/bad", "test/missing"

	// register some routers
	counter := &lockboxtest.Handler{}
	r.Handle(good, counter)
	r.Handle(bad, &lockboxtest.Handler{
		CheckErr:   fmt.Errorf("foo"),
		DeliverErr: fmt.Errorf("foo"),
	})

	// make sure invalid registrations panic
	assert.Panics(t, func() { r.Handle(good, counter) })
	assert.Panics(t, func() { r.Handle("l:7", counter) })

	ctx := context.Background()
	db := store.MemStore()
	txOf := func(path string) *lockboxtest.Tx {
		return &lockboxtest.Tx{Msg: &lockboxtest.Msg{RoutePath: path}}
	}

	// check proper paths work
	assert.Equal(t, 0, counter.CallCount())
	_, err := r.Check(ctx, db, txOf(good))
	assert.NoError(t, err)
	_, err = r.Deliver(ctx, db, txOf(good))
	assert.NoError(t, err)
	assert.Equal(t, 2, counter.CallCount())

	// check errors handler is also looked up
	_, err = r.Deliver(ctx, db, txOf(bad))
	assert.Error(t, err)
	assert.False(t, errors.ErrNotFound.Is(err))
	assert.Equal(t, "foo", err.Error())
	assert.Equal(t, 2, counter.CallCount())

	// make sure not found returns an error handler as well
	_, err = r.Deliver(ctx, db, txOf(missing))
	assert.True(t, errors.ErrNotFound.Is(err))
	_, err = r.Check(ctx, db, txOf(missing))
	assert.True(t, errors.ErrNotFound.Is(err))
	assert.Equal(t, 2, counter.CallCount())

	// a transaction that cannot provide its message is rejected
	_, err = r.Deliver(ctx, db, &lockboxtest.Tx{Err: errors.ErrMsg})
	assert.True(t, errors.ErrMsg.Is(err))
}
