package app

import (
	"fmt"
	"testing"
	"time"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/app"
	"github.com/iov-one/lockbox/coin"
	"github.com/iov-one/lockbox/crypto"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/lockboxtest"
	"github.com/iov-one/lockbox/store"
	"github.com/iov-one/lockbox/store/iavl"
	"github.com/iov-one/lockbox/x/cash"
	"github.com/iov-one/lockbox/x/claimable"
	"github.com/iov-one/lockbox/x/sigs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

const chainID = "test-chain-1"

type env struct {
	t         *testing.T
	app       *app.Application
	depositor *crypto.PrivateKey
	a, b      *crypto.PrivateKey
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		t:         t,
		depositor: lockboxtest.NewKey(),
		a:         lockboxtest.NewKey(),
		b:         lockboxtest.NewKey(),
	}
	var err error
	e.app, err = NewApplication(iavl.NewMemCommitStore(), log.NewNopLogger())
	require.NoError(t, err)

	gen, err := app.ParseGenesis([]byte(fmt.Sprintf(`
chain_id: %s
app_state:
  cash:
    - address: %s
      coins:
        - 1000 IOV
`, chainID, e.depositor.PublicKey().Address())))
	require.NoError(t, err)
	require.NoError(t, e.app.InitChain(gen, Initializer()))
	_, err = e.app.Commit()
	require.NoError(t, err)
	return e
}

// deliver signs the message with given keys and delivers it at given block
// time.
func (e *env) deliver(now int64, msg lockbox.Msg, signers ...*crypto.PrivateKey) (*lockbox.DeliverResult, error) {
	e.t.Helper()
	tx := NewTx(msg)
	require.NoError(e.t, tx.Sign(e.app.DeliverStore(), chainID, signers...))
	raw, err := tx.Marshal()
	require.NoError(e.t, err)
	return e.app.DeliverTx(time.Unix(now, 0), raw)
}

func (e *env) balance(key *crypto.PrivateKey) int64 {
	return e.balanceOf(key.PublicKey().Address())
}

func (e *env) balanceOf(addr lockbox.Address) int64 {
	e.t.Helper()
	c, err := cash.NewController().Balance(e.app.DeliverStore(), addr, "IOV")
	require.NoError(e.t, err)
	return c.Amount.Big().Int64()
}

func (e *env) fundMsg(bound claimable.TimeBound, claimants ...*crypto.PrivateKey) *claimable.FundMsg {
	msg := &claimable.FundMsg{
		Depositor: e.depositor.PublicKey().Address(),
		Asset:     "IOV",
		Amount:    coin.NewInt128(800),
		TimeBound: bound,
	}
	for _, c := range claimants {
		msg.Claimants = append(msg.Claimants, c.PublicKey().Address())
	}
	return msg
}

func TestClaimBeforeDeadline(t *testing.T) {
	e := newEnv(t)
	holding := claimable.HoldingAddress(claimable.DefaultInstance)

	res, err := e.deliver(12345, e.fundMsg(claimable.BeforeTime(12346), e.a, e.b), e.depositor)
	require.NoError(t, err)
	assert.Equal(t, []byte(holding), res.Data)
	assert.Equal(t, int64(200), e.balance(e.depositor))
	assert.Equal(t, int64(800), e.balanceOf(holding))
	_, err = e.app.Commit()
	require.NoError(t, err)

	_, err = e.deliver(12345, &claimable.WithdrawMsg{Claimant: e.b.PublicKey().Address()}, e.b)
	require.NoError(t, err)
	assert.Equal(t, int64(0), e.balanceOf(holding))
	assert.Equal(t, int64(800), e.balance(e.b))
	assert.Equal(t, int64(200), e.balance(e.depositor))

	_, err = e.deliver(12345, &claimable.WithdrawMsg{Claimant: e.a.PublicKey().Address()}, e.a)
	assert.True(t, claimable.ErrNoActiveEscrow.Is(err), "%+v", err)
	assert.Equal(t, int64(0), e.balance(e.a))

	// Funding again is rejected even though the balance was claimed.
	_, err = e.deliver(12345, e.fundMsg(claimable.AfterTime(0), e.a), e.depositor)
	assert.True(t, claimable.ErrAlreadyInitialized.Is(err), "%+v", err)
	assert.Equal(t, int64(200), e.balance(e.depositor))
}

func TestClaimAfterStart(t *testing.T) {
	e := newEnv(t)

	_, err := e.deliver(12345, e.fundMsg(claimable.AfterTime(12346), e.a), e.depositor)
	require.NoError(t, err)

	_, err = e.deliver(12345, &claimable.WithdrawMsg{Claimant: e.a.PublicKey().Address()}, e.a)
	assert.True(t, claimable.ErrTimePredicate.Is(err), "%+v", err)

	_, err = e.deliver(12346, &claimable.WithdrawMsg{Claimant: e.a.PublicKey().Address()}, e.a)
	require.NoError(t, err)
	assert.Equal(t, int64(800), e.balance(e.a))
}

func TestTooManyClaimants(t *testing.T) {
	e := newEnv(t)
	claimants := make([]*crypto.PrivateKey, claimable.MaxClaimants+1)
	for i := range claimants {
		claimants[i] = lockboxtest.NewKey()
	}

	_, err := e.deliver(12345, e.fundMsg(claimable.AfterTime(0), claimants...), e.depositor)
	assert.True(t, claimable.ErrTooManyClaimants.Is(err), "%+v", err)
	assert.Equal(t, int64(1000), e.balance(e.depositor))

	// The failed transaction still consumed the signer sequence.
	user, err := sigs.NewBucket().Get(e.app.DeliverStore(), e.depositor.PublicKey().Address())
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, int64(1), user.Sequence)

	// The instance can still be funded.
	_, err = e.deliver(12345, e.fundMsg(claimable.AfterTime(0), claimants[:10]...), e.depositor)
	require.NoError(t, err)
}

func TestUnsignedFundChecksOrder(t *testing.T) {
	e := newEnv(t)
	claimants := make([]*crypto.PrivateKey, claimable.MaxClaimants+1)
	for i := range claimants {
		claimants[i] = lockboxtest.NewKey()
	}

	// Capacity is checked before the authorization.
	_, err := e.deliver(12345, e.fundMsg(claimable.AfterTime(0), claimants...))
	assert.True(t, claimable.ErrTooManyClaimants.Is(err), "%+v", err)

	_, err = e.deliver(12345, e.fundMsg(claimable.AfterTime(0), e.a), e.depositor)
	require.NoError(t, err)

	// So is the initialization flag.
	_, err = e.deliver(12345, e.fundMsg(claimable.AfterTime(0), e.a))
	assert.True(t, claimable.ErrAlreadyInitialized.Is(err), "%+v", err)

	// An unsigned withdraw fails on the authorization first.
	_, err = e.deliver(0, &claimable.WithdrawMsg{Claimant: e.b.PublicKey().Address()})
	assert.True(t, errors.ErrUnauthorized.Is(err), "%+v", err)
	assert.Equal(t, int64(200), e.balance(e.depositor))
}

func TestAuthorization(t *testing.T) {
	e := newEnv(t)

	// Signed by the claimant instead of the depositor.
	_, err := e.deliver(12345, e.fundMsg(claimable.AfterTime(0), e.a), e.a)
	assert.True(t, errors.ErrUnauthorized.Is(err), "%+v", err)

	// Not signed at all.
	_, err = e.deliver(12345, e.fundMsg(claimable.AfterTime(0), e.a))
	assert.True(t, errors.ErrUnauthorized.Is(err), "%+v", err)

	_, err = e.deliver(12345, e.fundMsg(claimable.AfterTime(0), e.a), e.depositor)
	require.NoError(t, err)

	// Only the claimant can withdraw to its own account.
	_, err = e.deliver(12345, &claimable.WithdrawMsg{Claimant: e.a.PublicKey().Address()}, e.depositor)
	assert.True(t, errors.ErrUnauthorized.Is(err), "%+v", err)

	// A signer that is not a claimant.
	_, err = e.deliver(12345, &claimable.WithdrawMsg{Claimant: e.b.PublicKey().Address()}, e.b)
	assert.True(t, claimable.ErrIneligibleClaimant.Is(err), "%+v", err)
	assert.Equal(t, int64(800), e.balanceOf(claimable.HoldingAddress(claimable.DefaultInstance)))
}

func TestReplayIsRejected(t *testing.T) {
	e := newEnv(t)
	send := &cash.SendMsg{
		Source:      e.depositor.PublicKey().Address(),
		Destination: e.a.PublicKey().Address(),
		Amount:      coin.NewCoin(100, "IOV"),
	}
	tx := NewTx(send)
	require.NoError(t, tx.Sign(e.app.DeliverStore(), chainID, e.depositor))
	raw, err := tx.Marshal()
	require.NoError(t, err)

	_, err = e.app.CheckTx(time.Unix(12345, 0), raw)
	require.NoError(t, err)
	_, err = e.app.DeliverTx(time.Unix(12345, 0), raw)
	require.NoError(t, err)
	_, err = e.app.DeliverTx(time.Unix(12345, 0), raw)
	assert.True(t, sigs.ErrInvalidSequence.Is(err), "%+v", err)
	assert.Equal(t, int64(100), e.balance(e.a))
}

func TestCommitPersistsState(t *testing.T) {
	e := newEnv(t)
	_, err := e.deliver(12345, e.fundMsg(claimable.AfterTime(0), e.a), e.depositor)
	require.NoError(t, err)
	id, err := e.app.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(2), id.Version)
	assert.NotEmpty(t, id.Hash)

	ctrl := claimable.NewController(claimable.DefaultInstance, Authenticator(), cash.NewController())
	inst, err := ctrl.Instance(e.app.DeliverStore())
	require.NoError(t, err)
	assert.Equal(t, claimable.Funded, inst.State)
}

func TestUnknownTransaction(t *testing.T) {
	e := newEnv(t)
	_, err := e.app.DeliverTx(time.Unix(12345, 0), []byte("not a transaction"))
	assert.True(t, errors.ErrMsg.Is(err), "%+v", err)
}

func TestTxRoundTrip(t *testing.T) {
	key := lockboxtest.NewKey()
	msg := &claimable.WithdrawMsg{Instance: "second", Claimant: key.PublicKey().Address()}
	tx := NewTx(msg)
	require.NoError(t, tx.Sign(store.MemStore(), chainID, key))
	raw, err := tx.Marshal()
	require.NoError(t, err)

	got, err := Decode(raw)
	require.NoError(t, err)
	var loaded claimable.WithdrawMsg
	require.NoError(t, lockbox.LoadMsg(got, &loaded))
	assert.Equal(t, *msg, loaded)

	signers, err := sigs.VerifyTxSignatures(store.MemStore(), got.(*Tx), chainID)
	require.NoError(t, err)
	require.Len(t, signers, 1)
	assert.Equal(t, key.PublicKey().Address(), signers[0].Address())
}
