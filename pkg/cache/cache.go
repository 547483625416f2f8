// Package cache stores raw bytes keyed by string with an optional TTL.
//
// The client loader keeps downloaded directory documents here so repeated
// browse and lookup runs (or several processes sharing a redis server) do
// not refetch the same document. Three backends exist:
//
//   - [NullCache]: never stores anything
//   - [FileCache]: one JSON file per key under a directory
//   - [RedisCache]: a redis server, shared across machines
//
// [Open] picks a backend from a location string such as
// "redis://localhost:6379/0" or "~/.cache/branchpalette".
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
//
// Get returns (data, true, nil) on a hit and (nil, false, nil) on a miss or
// an expired entry. A TTL of 0 means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by backends that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Keyer derives cache keys. Swap in a [ScopedKeyer] to isolate environments
// sharing one backend.
type Keyer interface {
	// DocumentKey returns the key for the directory document served at url.
	DocumentKey(url string) string
}

// DefaultKeyer hashes URLs under the "directory" prefix.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key scheme.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// DocumentKey implements Keyer.
func (DefaultKeyer) DocumentKey(url string) string {
	return hashKey("directory", url)
}
