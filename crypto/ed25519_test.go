package crypto

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/lockboxtest/assert"
)

func TestEd25519Signing(t *testing.T) {
	private := GenPrivKeyEd25519()
	public := private.PublicKey()

	msg := []byte("foobar")
	msg2 := []byte("dingbooms")

	sig, err := private.Sign(msg)
	assert.Nil(t, err)
	sig2, err := private.Sign(msg2)
	assert.Nil(t, err)

	if bytes.Equal(sig.Ed25519, sig2.Ed25519) {
		t.Fatal("different messages produce the same signature")
	}
	if !public.Verify(msg, sig) {
		t.Fatal("cannot verify a message signed with this public key")
	}
	if !public.Verify(msg2, sig2) {
		t.Fatal("cannot verify a message signed with this public key")
	}
	if public.Verify(msg, sig2) {
		t.Fatal("verified message signature of the wrong message")
	}

	other := GenPrivKeyEd25519().PublicKey()
	if other.Verify(msg, sig) {
		t.Fatal("verified signature with another key")
	}
}

func TestEd25519Condition(t *testing.T) {
	public := PrivKeyEd25519FromSeed(make([]byte, 32)).PublicKey()

	cond := public.Condition()
	ext, typ, data, err := cond.Parse()
	assert.Nil(t, err)
	assert.Equal(t, ExtensionName, ext)
	assert.Equal(t, "ed25519", typ)
	assert.Equal(t, public.Ed25519, data)
	assert.Equal(t, cond.Address(), public.Address())
	assert.Nil(t, public.Address().Validate())
}

func TestEmptyKeys(t *testing.T) {
	var empty PrivateKey
	_, err := empty.Sign([]byte("foo bar"))
	assert.IsErr(t, errors.ErrEmpty, err)

	var pub PublicKey
	if pub.Verify([]byte("foo bar"), &Signature{Ed25519: []byte("sig 5")}) {
		t.Fatal("empty public key verified a signature")
	}
}

func TestDeriveEd25519(t *testing.T) {
	seed, err := hex.DecodeString("000102030405060708090a0b0c0d0e0f")
	assert.Nil(t, err)

	a, err := DeriveEd25519(seed, DefaultDerivationPath)
	assert.Nil(t, err)
	b, err := DeriveEd25519(seed, DefaultDerivationPath)
	assert.Nil(t, err)
	assert.Equal(t, a, b)

	c, err := DeriveEd25519(seed, "m/44'/234'/1'")
	assert.Nil(t, err)
	if bytes.Equal(a.Ed25519, c.Ed25519) {
		t.Fatal("different paths derived the same key")
	}

	// SLIP-10 test vector 1 for chain m/0H
	m0, err := DeriveEd25519(seed, "m/0'")
	assert.Nil(t, err)
	assert.Equal(t, "68e0fe46dfb67e368c75379acec591dad19df3cde26e63b93a8e704f1dade7a3", hex.EncodeToString(m0.Ed25519[:32]))

	_, err = DeriveEd25519(seed, "m/0")
	assert.IsErr(t, errors.ErrInput, err)
}
