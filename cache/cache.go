package cache

import (
	"context"
	"errors"
	"strings"
	"time"
)

// MaxKeyLength is the maximum allowed length for a cache key.
const MaxKeyLength = 512

// Sentinel errors for cache operations.
var (
	ErrNilCache   = errors.New("cache: cache is nil")
	ErrInvalidKey = errors.New("cache: key is invalid")
	ErrKeyTooLong = errors.New("cache: key exceeds max length")
)

// Stats holds cache accounting counters.
//
// Hits and Misses accumulate for the lifetime of the cache and are not
// reset by Clear; Size reflects the current number of stored entries.
type Stats struct {
	Size   int   `json:"size"`
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// HitRate returns the fraction of lookups that were hits, or 0 when no
// lookups have been recorded.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Cache is the interface for memoizing upstream query results.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: methods should honor cancellation/deadlines where applicable.
// - Errors: Get never errors; it returns (nil, false) on miss or expiry.
// - Accounting: every Get increments exactly one of the hit or miss counters;
//   Clear empties the store but leaves the counters intact.
type Cache interface {
	// Get retrieves a cached value. Returns (nil, false) on miss or expiry.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores a value with the given TTL. TTL<=0 falls back to the
	// implementation's default policy.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Clear removes all stored entries without resetting hit/miss counters.
	Clear(ctx context.Context) error

	// Size returns the number of currently stored entries, including
	// entries that have expired but not yet been evicted.
	Size(ctx context.Context) int

	// Stats returns the current cache statistics.
	Stats(ctx context.Context) Stats
}

// ValidateKey checks if a key is valid for caching.
func ValidateKey(key string) error {
	if key == "" || strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	// Reject keys with newlines or carriage returns
	if strings.ContainsAny(key, "\n\r") {
		return ErrInvalidKey
	}
	return nil
}
