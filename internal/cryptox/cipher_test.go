package cryptox

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCipher(t *testing.T) *Cipher {
	t.Helper()
	return NewCipher(NewMemoryKeyStore(), "backup")
}

func TestCipher_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newTestCipher(t)

	for _, plain := range [][]byte{
		{},
		[]byte("x"),
		[]byte(`{"version":"1.0","subscriptions":[]}`),
		bytes.Repeat([]byte{0xAB}, 64*1024),
	} {
		sealed, err := c.Encrypt(ctx, plain)
		require.NoError(t, err)
		assert.Len(t, sealed, NonceSize+len(plain)+TagSize)

		got, err := c.Decrypt(ctx, sealed)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(plain, got))
	}
}

func TestCipher_FreshNoncePerCall(t *testing.T) {
	ctx := context.Background()
	c := newTestCipher(t)
	plain := []byte("same input")

	a, err := c.Encrypt(ctx, plain)
	require.NoError(t, err)
	b, err := c.Encrypt(ctx, plain)
	require.NoError(t, err)

	assert.NotEqual(t, a[:NonceSize], b[:NonceSize])
	assert.NotEqual(t, a, b)
}

func TestCipher_DetectsEveryFlippedByte(t *testing.T) {
	ctx := context.Background()
	c := newTestCipher(t)

	sealed, err := c.Encrypt(ctx, []byte("subscription payload"))
	require.NoError(t, err)

	for i := range sealed {
		tampered := append([]byte(nil), sealed...)
		tampered[i] ^= 0x01
		_, err := c.Decrypt(ctx, tampered)
		require.ErrorIs(t, err, ErrAuthenticationFailure, "byte %d", i)
	}
}

func TestCipher_Truncated(t *testing.T) {
	ctx := context.Background()
	c := newTestCipher(t)

	sealed, err := c.Encrypt(ctx, []byte("payload"))
	require.NoError(t, err)

	_, err = c.Decrypt(ctx, sealed[:len(sealed)-4])
	require.ErrorIs(t, err, ErrAuthenticationFailure)

	_, err = c.Decrypt(ctx, sealed[:NonceSize+TagSize-1])
	require.ErrorIs(t, err, ErrAuthenticationFailure)

	_, err = c.Decrypt(ctx, nil)
	require.ErrorIs(t, err, ErrAuthenticationFailure)
}

func TestCipher_DecryptWithoutKey(t *testing.T) {
	ctx := context.Background()
	c := newTestCipher(t)

	ok, err := c.KeyExists(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = c.Decrypt(ctx, make([]byte, 64))
	require.ErrorIs(t, err, ErrKeyUnavailable)

	ok, err = c.KeyExists(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "decrypt must not create a key")
}

func TestCipher_OtherKeyFails(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryKeyStore()
	a := NewCipher(store, "a")
	b := NewCipher(store, "b")

	sealed, err := a.Encrypt(ctx, []byte("secret"))
	require.NoError(t, err)

	_, err = b.Encrypt(ctx, []byte("init b"))
	require.NoError(t, err)

	_, err = b.Decrypt(ctx, sealed)
	require.ErrorIs(t, err, ErrAuthenticationFailure)
}

func TestCipher_DeleteKey(t *testing.T) {
	ctx := context.Background()
	c := newTestCipher(t)

	sealed, err := c.Encrypt(ctx, []byte("gone soon"))
	require.NoError(t, err)

	removed, err := c.DeleteKey(ctx)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = c.DeleteKey(ctx)
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = c.Decrypt(ctx, sealed)
	require.ErrorIs(t, err, ErrKeyUnavailable)

	// a new key is generated on the next encrypt and old artifacts stay dead
	_, err = c.Encrypt(ctx, []byte("new"))
	require.NoError(t, err)
	_, err = c.Decrypt(ctx, sealed)
	require.ErrorIs(t, err, ErrAuthenticationFailure)
}

func TestNewAEAD_RejectsBadKeyLength(t *testing.T) {
	_, err := newAEAD(make([]byte, 16))
	require.Error(t, err)
}
