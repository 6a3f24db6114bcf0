package cryptox

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/subcontrol/internal/common"
	"golang.org/x/crypto/scrypt"
)

const (
	wrapMagic    = "SCK1"
	wrapSaltSize = 16
	wrapHeader   = len(wrapMagic) + 1 + wrapSaltSize
)

// wrapLogN is log2 of the scrypt cost parameter N for new blobs.
// UnwrapKey reads N from the blob, so changing it keeps old blobs readable.
var wrapLogN byte = 15

var ErrInvalidWrappedKey = errors.New("not a wrapped key")

// WrapKey seals key under a key-encryption key derived from passphrase with
// scrypt (r=8, p=1) and a random salt. Layout:
//
//	"SCK1" | logN (1 byte) | salt (16) | nonce (12) | ciphertext | tag (16)
func WrapKey(key, passphrase []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("invalid key length %d", len(key))
	}
	if len(passphrase) == 0 {
		return nil, errors.New("passphrase must not be empty")
	}

	out := make([]byte, 0, wrapHeader+NonceSize+KeySize+TagSize)
	out = append(out, wrapMagic...)
	out = append(out, wrapLogN)
	out = append(out, common.GenerateRandByteArray(wrapSaltSize)...)

	kek, err := deriveKEK(passphrase, out[len(wrapMagic)+1:wrapHeader], wrapLogN)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(kek)

	aead, err := newAEAD(kek)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	out = append(out, nonce...)

	// the header is bound as associated data so logN and salt cannot be swapped
	return aead.Seal(out, nonce, key, out[:wrapHeader]), nil
}

// UnwrapKey reverses WrapKey. A wrong passphrase or a modified blob yields
// ErrAuthenticationFailure.
func UnwrapKey(blob, passphrase []byte) ([]byte, error) {
	if len(blob) < wrapHeader+NonceSize+TagSize || string(blob[:len(wrapMagic)]) != wrapMagic {
		return nil, ErrInvalidWrappedKey
	}
	logN := blob[len(wrapMagic)]
	if logN < 10 || logN > 20 {
		return nil, fmt.Errorf("%w: unsupported cost %d", ErrInvalidWrappedKey, logN)
	}

	kek, err := deriveKEK(passphrase, blob[len(wrapMagic)+1:wrapHeader], logN)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(kek)

	aead, err := newAEAD(kek)
	if err != nil {
		return nil, err
	}

	nonce := blob[wrapHeader : wrapHeader+NonceSize]
	key, err := aead.Open(nil, nonce, blob[wrapHeader+NonceSize:], blob[:wrapHeader])
	if err != nil {
		return nil, ErrAuthenticationFailure
	}
	if len(key) != KeySize {
		common.WipeByteArray(key)
		return nil, fmt.Errorf("%w: wrapped key has length %d", ErrInvalidWrappedKey, len(key))
	}
	return key, nil
}

func deriveKEK(passphrase, salt []byte, logN byte) ([]byte, error) {
	kek, err := scrypt.Key(passphrase, salt, 1<<logN, 8, 1, KeySize)
	if err != nil {
		return nil, fmt.Errorf("derive key-encryption key: %w", err)
	}
	return kek, nil
}
