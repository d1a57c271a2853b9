// Package cache provides the byte-oriented key/value stores behind the
// offline asset mirror.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache for multi-instance deployments
//   - [MongoCache]: document store with a TTL index
//   - [NullCache]: stores nothing (caching disabled)
//
// Every backend implements [Cache] and [Lister]. Listing lets the mirror
// find and evict entries that belong to an outdated version.
//
// # Keys
//
// Keys are produced by a [Keyer]. [DefaultKeyer] yields
// "asset:<version>:<sha256(url)>"; [ScopedKeyer] prepends a namespace so
// several deployments can share one backend.
package cache

import (
	"context"
	"time"
)

// TTLAsset is the default lifetime of a mirrored asset. Zero means entries
// never expire; outdated entries are removed by version instead.
const TTLAsset time.Duration = 0

// Cache is a byte-oriented key/value store.
type Cache interface {
	// Get returns the stored value and true, or (nil, false, nil) on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Lister is implemented by caches that can enumerate their keys.
type Lister interface {
	// Keys returns every live key starting with prefix, in no particular order.
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// Keys lists keys in c if it implements [Lister].
func Keys(ctx context.Context, c Cache, prefix string) ([]string, error) {
	l, ok := c.(Lister)
	if !ok {
		return nil, ErrUnsupported
	}
	return l.Keys(ctx, prefix)
}
