package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// MemoryCache is an in-memory cache implementation with lazy expiry.
//
// There is no background sweep and no size bound: entries are evicted only
// when a Get finds them stale, or when Clear is called. Callers must size
// TTLs and query volume accordingly.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
	policy  Policy

	hits   atomic.Int64
	misses atomic.Int64
}

type memoryEntry struct {
	value    []byte
	storedAt time.Time
	maxAge   time.Duration
}

// fresh reports whether the entry is still valid at now.
// An entry exactly at its maxAge boundary counts as expired.
func (e *memoryEntry) fresh(now time.Time) bool {
	return now.Sub(e.storedAt) < e.maxAge
}

// NewMemoryCache creates a new in-memory cache with the given policy.
func NewMemoryCache(policy Policy) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]*memoryEntry),
		policy:  policy,
	}
}

// Get retrieves a value from the cache. Returns (nil, false) on miss or
// expiry. A stale entry is removed from the backing store as a side effect
// of the miss.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		c.misses.Add(1)
		return nil, false
	}

	if !entry.fresh(time.Now()) {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have
		// replaced the entry with a fresh one.
		if current, stillThere := c.entries[key]; stillThere && current == entry {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		c.misses.Add(1)
		return nil, false
	}

	c.hits.Add(1)
	return entry.value, true
}

// Set stores a value, overwriting any existing entry unconditionally.
// TTL<=0 falls back to the policy default; the policy's MaxTTL clamp applies.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	effective := c.policy.EffectiveTTL(ttl)
	if effective <= 0 {
		return nil
	}

	c.mu.Lock()
	c.entries[key] = &memoryEntry{
		value:    value,
		storedAt: time.Now(),
		maxAge:   effective,
	}
	c.mu.Unlock()

	return nil
}

// Clear empties the backing store. Hit/miss counters are preserved.
func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	c.entries = make(map[string]*memoryEntry)
	c.mu.Unlock()
	return nil
}

// Size returns the number of stored entries, including stale entries that
// have not yet been evicted by a lookup.
func (c *MemoryCache) Size(_ context.Context) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns the current cache statistics.
func (c *MemoryCache) Stats(ctx context.Context) Stats {
	return Stats{
		Size:   c.Size(ctx),
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
}

// Ensure MemoryCache implements Cache
var _ Cache = (*MemoryCache)(nil)
