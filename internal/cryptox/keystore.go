package cryptox

import (
	"context"
	"crypto/cipher"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/subcontrol/internal/common"
	"github.com/dmitrijs2005/subcontrol/internal/repositories/metadata"
)

// KeyStore holds AES-256 keys by alias.
type KeyStore interface {
	// AEAD returns the cipher for alias. With create set, a random key is
	// generated and stored when none exists; otherwise a missing key is
	// ErrKeyUnavailable.
	AEAD(ctx context.Context, alias string, create bool) (cipher.AEAD, error)
	Exists(ctx context.Context, alias string) (bool, error)
	// Delete reports whether a key was removed.
	Delete(ctx context.Context, alias string) (bool, error)
}

const metadataKeyPrefix = "keystore/"

// MetadataKeyStore keeps keys in the local metadata table.
type MetadataKeyStore struct {
	repo metadata.Repository
}

func NewMetadataKeyStore(repo metadata.Repository) *MetadataKeyStore {
	return &MetadataKeyStore{repo: repo}
}

func (s *MetadataKeyStore) AEAD(ctx context.Context, alias string, create bool) (cipher.AEAD, error) {
	raw, err := s.load(ctx, alias)
	if errors.Is(err, common.ErrorNotFound) && create {
		raw, err = s.create(ctx, alias)
	}
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: no key for alias %q", ErrKeyUnavailable, alias)
		}
		return nil, fmt.Errorf("%w: %w", ErrKeyUnavailable, err)
	}
	defer common.WipeByteArray(raw)

	aead, err := newAEAD(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: stored key for %q is unusable: %w", ErrKeyUnavailable, alias, err)
	}
	return aead, nil
}

func (s *MetadataKeyStore) Exists(ctx context.Context, alias string) (bool, error) {
	raw, err := s.load(ctx, alias)
	if errors.Is(err, common.ErrorNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	common.WipeByteArray(raw)
	return true, nil
}

func (s *MetadataKeyStore) Delete(ctx context.Context, alias string) (bool, error) {
	return s.repo.Delete(ctx, metadataKeyPrefix+alias)
}

// Aliases lists the aliases that currently have a key.
func (s *MetadataKeyStore) Aliases(ctx context.Context) ([]string, error) {
	keys, err := s.repo.Keys(ctx, metadataKeyPrefix)
	if err != nil {
		return nil, err
	}
	aliases := make([]string, 0, len(keys))
	for _, k := range keys {
		aliases = append(aliases, strings.TrimPrefix(k, metadataKeyPrefix))
	}
	return aliases, nil
}

// ExportWrapped returns the alias key sealed under passphrase (see WrapKey).
func (s *MetadataKeyStore) ExportWrapped(ctx context.Context, alias string, passphrase []byte) ([]byte, error) {
	raw, err := s.load(ctx, alias)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("%w: no key for alias %q", ErrKeyUnavailable, alias)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeyUnavailable, err)
	}
	defer common.WipeByteArray(raw)

	return WrapKey(raw, passphrase)
}

// ImportWrapped unwraps blob with passphrase and stores it under alias.
// Without overwrite an existing key is kept and common.ErrorAlreadyExists
// is returned.
func (s *MetadataKeyStore) ImportWrapped(ctx context.Context, alias string, blob, passphrase []byte, overwrite bool) error {
	raw, err := UnwrapKey(blob, passphrase)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(raw)

	key := metadataKeyPrefix + alias
	if overwrite {
		return s.repo.Set(ctx, key, raw)
	}
	stored, err := s.repo.SetIfAbsent(ctx, key, raw)
	if err != nil {
		return err
	}
	if !stored {
		return fmt.Errorf("key for alias %q: %w", alias, common.ErrorAlreadyExists)
	}
	return nil
}

func (s *MetadataKeyStore) load(ctx context.Context, alias string) ([]byte, error) {
	return s.repo.Get(ctx, metadataKeyPrefix+alias)
}

func (s *MetadataKeyStore) create(ctx context.Context, alias string) ([]byte, error) {
	fresh := common.GenerateRandByteArray(KeySize)
	stored, err := s.repo.SetIfAbsent(ctx, metadataKeyPrefix+alias, fresh)
	if err != nil {
		common.WipeByteArray(fresh)
		return nil, err
	}
	if stored {
		return fresh, nil
	}
	// lost a race with another writer; use the key that won
	common.WipeByteArray(fresh)
	return s.load(ctx, alias)
}

// MemoryKeyStore keeps keys in process memory. Keys die with the process.
type MemoryKeyStore struct {
	mu   sync.Mutex
	keys map[string][]byte
}

func NewMemoryKeyStore() *MemoryKeyStore {
	return &MemoryKeyStore{keys: make(map[string][]byte)}
}

func (s *MemoryKeyStore) AEAD(_ context.Context, alias string, create bool) (cipher.AEAD, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.keys[alias]
	if !ok {
		if !create {
			return nil, fmt.Errorf("%w: no key for alias %q", ErrKeyUnavailable, alias)
		}
		raw = common.GenerateRandByteArray(KeySize)
		s.keys[alias] = raw
	}
	return newAEAD(raw)
}

func (s *MemoryKeyStore) Exists(_ context.Context, alias string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.keys[alias]
	return ok, nil
}

func (s *MemoryKeyStore) Delete(_ context.Context, alias string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.keys[alias]
	if ok {
		common.WipeByteArray(raw)
		delete(s.keys, alias)
	}
	return ok, nil
}
