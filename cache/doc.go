// Package cache provides deterministic memoization of upstream query results.
//
// It provides a Cache interface with memory and Redis implementations,
// SHA-256-based key derivation from normalized query text and variables,
// TTL policies, and hit/miss accounting.
package cache
