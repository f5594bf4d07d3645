package cache

import (
	"context"
	"sync"
	"time"
)

// entry holds a cached value and its expiry.
type entry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is the default, process-local Cache: an RWMutex-protected map
// with lazy expiry on access. Multiple processes each holding their own copy
// with independent TTLs is acceptable; no cross-process coherence is
// promised.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// MemoryOption configures a MemoryCache.
type MemoryOption func(*MemoryCache)

// WithClock substitutes the time source, for deterministic expiry in tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(c *MemoryCache) { c.now = now }
}

// NewMemory creates an empty in-memory cache.
func NewMemory(opts ...MemoryOption) *MemoryCache {
	c := &MemoryCache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	e, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		return nil, false, nil
	}

	if c.now().After(e.expiresAt) {
		c.mu.Lock()
		// Re-check: another goroutine may have replaced the entry.
		if current, still := c.entries[key]; still && c.now().After(current.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}

	return e.value, true, nil
}

func (c *MemoryCache) Put(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	c.entries[key] = entry{value: value, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

// Len reports how many entries the cache currently holds, counting entries
// that have expired but not yet been lazily evicted.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
