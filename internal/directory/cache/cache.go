// Package cache implements the TTL-bounded result cache that fronts the
// resolution engine. Keys are deterministic encodings of (operation, ordered
// parameters); values are opaque bytes owned by the facade. Entries expire,
// there is no explicit delete.
package cache

import (
	"context"
	"strings"
	"time"
)

// DefaultTTL reflects that regulatory data changes on the order of weeks,
// not seconds. Deliberately coarse.
const DefaultTTL = time.Hour

// Cache is the result cache consumed by the facade. Implementations must be
// safe for concurrent use; last-write-wins between concurrent writers to the
// same key is acceptable, and a Put must be visible to Gets issued after it
// returns.
type Cache interface {
	// Get returns the cached value for key, or ok=false on miss or expiry.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Put stores value under key for ttl.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Key builds a deterministic cache key from an operation name and its
// ordered, normalized parameters. Two logically identical queries always
// produce the same key.
func Key(operation string, params ...string) string {
	parts := make([]string, 0, len(params)+1)
	parts = append(parts, operation)
	parts = append(parts, params...)
	return strings.Join(parts, ":")
}
