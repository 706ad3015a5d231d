package storage

import (
	"context"

	pkgerrors "didwallet/pkg/domain-errors"
)

// ErrNotFound keeps storage-specific misses consistent across implementations.
var ErrNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "key not found")

// Store is the durable key-value surface backing the pending-request and
// credential stores. Values are opaque JSON blobs owned by the caller.
//
// Error Contract:
// - Get returns ErrNotFound when the key does not exist
// - Remove of a missing key is a no-op and returns nil
// - Other failures are wrapped infrastructure errors
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	GetAll(ctx context.Context) (map[string][]byte, error)
}
