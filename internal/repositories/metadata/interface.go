// Package metadata persists small opaque values (key material, settings)
// in the local store's key/value table.
package metadata

import (
	"context"
)

// Repository is a byte-valued key/value store.
type Repository interface {
	// Get returns common.ErrorNotFound when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// SetIfAbsent stores value only when key does not exist yet and reports
	// whether it did.
	SetIfAbsent(ctx context.Context, key string, value []byte) (bool, error)
	// Delete reports whether a row was removed.
	Delete(ctx context.Context, key string) (bool, error)
	// Keys lists keys starting with prefix in lexical order.
	Keys(ctx context.Context, prefix string) ([]string, error)
}
