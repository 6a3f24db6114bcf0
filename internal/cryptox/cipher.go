package cryptox

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
)

const (
	// KeySize is the AES-256 key length in bytes.
	KeySize = 32
	// NonceSize is the GCM nonce length in bytes.
	NonceSize = 12
	// TagSize is the GCM authentication tag length in bytes.
	TagSize = 16
)

// Cipher seals and opens byte blobs with the key stored under one alias.
// Construct it once and share it; it holds no mutable state of its own.
type Cipher struct {
	keys  KeyStore
	alias string
}

func NewCipher(keys KeyStore, alias string) *Cipher {
	return &Cipher{keys: keys, alias: alias}
}

// Alias returns the key store alias the cipher uses.
func (c *Cipher) Alias() string {
	return c.alias
}

// Encrypt seals plaintext under a fresh random nonce and returns
// nonce||ciphertext||tag. The key is created on first use.
func (c *Cipher) Encrypt(ctx context.Context, plaintext []byte) ([]byte, error) {
	aead, err := c.keys.AEAD(ctx, c.alias, true)
	if err != nil {
		return nil, err
	}

	out := make([]byte, NonceSize, NonceSize+len(plaintext)+aead.Overhead())
	if _, err := rand.Read(out); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	return aead.Seal(out, out[:NonceSize], plaintext, nil), nil
}

// Decrypt reverses Encrypt. It never creates a key.
func (c *Cipher) Decrypt(ctx context.Context, blob []byte) ([]byte, error) {
	if len(blob) < NonceSize+TagSize {
		return nil, fmt.Errorf("%w: input is %d bytes", ErrAuthenticationFailure, len(blob))
	}

	aead, err := c.keys.AEAD(ctx, c.alias, false)
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Open(nil, blob[:NonceSize], blob[NonceSize:], nil)
	if err != nil {
		return nil, ErrAuthenticationFailure
	}
	return plaintext, nil
}

// KeyExists reports whether the alias has a key.
func (c *Cipher) KeyExists(ctx context.Context) (bool, error) {
	return c.keys.Exists(ctx, c.alias)
}

// DeleteKey destroys the key. Every artifact sealed with it becomes
// unreadable. It reports whether a key was removed.
func (c *Cipher) DeleteKey(ctx context.Context) (bool, error) {
	return c.keys.Delete(ctx, c.alias)
}

// newAEAD builds AES-256-GCM with the standard nonce and tag sizes.
func newAEAD(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("invalid key length %d", len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
