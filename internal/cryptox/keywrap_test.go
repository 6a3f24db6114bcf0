package cryptox

import (
	"testing"

	"github.com/dmitrijs2005/subcontrol/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useCheapScrypt(t *testing.T) {
	t.Helper()
	prev := wrapLogN
	wrapLogN = 10
	t.Cleanup(func() { wrapLogN = prev })
}

func TestWrapUnwrap(t *testing.T) {
	useCheapScrypt(t)
	key := common.GenerateRandByteArray(KeySize)
	pass := []byte("passphrase")

	blob, err := WrapKey(key, pass)
	require.NoError(t, err)
	assert.Equal(t, "SCK1", string(blob[:4]))
	assert.Equal(t, byte(10), blob[4])
	assert.Len(t, blob, wrapHeader+NonceSize+KeySize+TagSize)

	got, err := UnwrapKey(blob, pass)
	require.NoError(t, err)
	assert.Equal(t, key, got)

	again, err := WrapKey(key, pass)
	require.NoError(t, err)
	assert.NotEqual(t, blob, again, "salt and nonce must be random")
}

func TestUnwrap_WrongPassphrase(t *testing.T) {
	useCheapScrypt(t)
	blob, err := WrapKey(common.GenerateRandByteArray(KeySize), []byte("right"))
	require.NoError(t, err)

	_, err = UnwrapKey(blob, []byte("wrong"))
	require.ErrorIs(t, err, ErrAuthenticationFailure)
}

func TestUnwrap_TamperedHeader(t *testing.T) {
	useCheapScrypt(t)
	pass := []byte("p")
	blob, err := WrapKey(common.GenerateRandByteArray(KeySize), pass)
	require.NoError(t, err)

	// flip a salt byte; the derived key changes and the tag check fails
	blob[6] ^= 0xFF
	_, err = UnwrapKey(blob, pass)
	require.ErrorIs(t, err, ErrAuthenticationFailure)
}

func TestUnwrap_Malformed(t *testing.T) {
	_, err := UnwrapKey([]byte("short"), []byte("p"))
	require.ErrorIs(t, err, ErrInvalidWrappedKey)

	blob := make([]byte, wrapHeader+NonceSize+TagSize+KeySize)
	copy(blob, "XXXX")
	_, err = UnwrapKey(blob, []byte("p"))
	require.ErrorIs(t, err, ErrInvalidWrappedKey)

	copy(blob, wrapMagic)
	blob[4] = 40
	_, err = UnwrapKey(blob, []byte("p"))
	require.ErrorIs(t, err, ErrInvalidWrappedKey)
}

func TestWrap_RejectsBadInput(t *testing.T) {
	_, err := WrapKey(make([]byte, 10), []byte("p"))
	require.Error(t, err)

	_, err = WrapKey(make([]byte, KeySize), nil)
	require.Error(t, err)
}
