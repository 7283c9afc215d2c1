package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	// Address is the Redis server address (host:port).
	Address string

	// Password for authentication (optional).
	Password string

	// DB selects the Redis database index.
	DB int

	// DialTimeout is the timeout for establishing new connections.
	DialTimeout time.Duration

	// ReadTimeout is the timeout for socket reads.
	ReadTimeout time.Duration

	// WriteTimeout is the timeout for socket writes.
	WriteTimeout time.Duration

	// PoolSize is the maximum number of socket connections.
	PoolSize int

	// KeyPrefix is prepended to all keys (for namespacing).
	KeyPrefix string
}

// DefaultRedisConfig returns a RedisConfig with sensible defaults.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Address:      "localhost:6379",
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		KeyPrefix:    "govql:",
	}
}

// RedisCache is a Redis-backed cache implementation. Expiry is delegated to
// Redis TTLs; hit/miss counters are tracked client-side, so Stats reflects
// this process's lookups only.
type RedisCache struct {
	client    *redis.Client
	keyPrefix string
	policy    Policy

	hits   atomic.Int64
	misses atomic.Int64
}

// NewRedisCache connects to Redis and returns a cache using the given policy.
func NewRedisCache(cfg RedisConfig, policy Policy) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolSize:     cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cache: redis connection failed: %w", err)
	}

	return NewRedisCacheFromClient(client, cfg.KeyPrefix, policy), nil
}

// NewRedisCacheFromClient creates a cache from an existing Redis client.
func NewRedisCacheFromClient(client *redis.Client, keyPrefix string, policy Policy) *RedisCache {
	return &RedisCache{
		client:    client,
		keyPrefix: keyPrefix,
		policy:    policy,
	}
}

func (c *RedisCache) prefixKey(key string) string {
	return c.keyPrefix + key
}

// Get retrieves a value from Redis. Returns (nil, false) on miss, expiry,
// or any Redis error.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	result, err := c.client.Get(ctx, c.prefixKey(key)).Bytes()
	if err != nil {
		c.misses.Add(1)
		return nil, false
	}

	c.hits.Add(1)
	return result, true
}

// Set stores a value with the given TTL. TTL<=0 falls back to the policy
// default; the policy's MaxTTL clamp applies.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	effective := c.policy.EffectiveTTL(ttl)
	if effective <= 0 {
		return nil
	}

	if err := c.client.Set(ctx, c.prefixKey(key), value, effective).Err(); err != nil {
		return fmt.Errorf("cache: redis set: %w", err)
	}
	return nil
}

// Clear removes all entries with the cache prefix. Counters are preserved.
func (c *RedisCache) Clear(ctx context.Context) error {
	pattern := c.keyPrefix + "*"
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) >= 100 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("cache: redis clear: %w", err)
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache: redis scan: %w", err)
	}

	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("cache: redis clear: %w", err)
		}
	}
	return nil
}

// Size counts entries under the cache prefix. Returns 0 on any Redis error.
func (c *RedisCache) Size(ctx context.Context) int {
	pattern := c.keyPrefix + "*"
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()

	count := 0
	for iter.Next(ctx) {
		count++
	}
	if iter.Err() != nil {
		return 0
	}
	return count
}

// Stats returns the current cache statistics.
func (c *RedisCache) Stats(ctx context.Context) Stats {
	return Stats{
		Size:   c.Size(ctx),
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
}

// Close releases the underlying Redis client.
func (c *RedisCache) Close() error {
	if err := c.client.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
		return err
	}
	return nil
}

// Ensure RedisCache implements Cache
var _ Cache = (*RedisCache)(nil)
