// Package cache implements the generic key/value cache interface the
// engine's dirty-set and invalidation protocol are built on, plus the
// concrete backends that realize it.
package cache

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
)

// Cache is the generic interface the availability engine's cache
// protocol is built on: get, set with TTL, delete, and glob pattern
// delete. It carries no availability-specific semantics.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeletePattern(ctx context.Context, pattern string) error
}

// InMemoryCache is a mutex-guarded map with lazy TTL expiry, used for
// tests and local/offline mode.
type InMemoryCache struct {
	mu   sync.Mutex
	data map[string]inMemoryEntry
}

type inMemoryEntry struct {
	value    []byte
	expireAt time.Time
}

// NewInMemoryCache constructs an empty in-memory cache.
func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{data: make(map[string]inMemoryEntry)}
}

func (c *InMemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.data[key]
	if !ok {
		return nil, false, nil
	}
	if !entry.expireAt.IsZero() && time.Now().After(entry.expireAt) {
		delete(c.data, key)
		return nil, false, nil
	}
	return entry.value, true, nil
}

func (c *InMemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expireAt time.Time
	if ttl > 0 {
		expireAt = time.Now().Add(ttl)
	}
	c.data[key] = inMemoryEntry{value: value, expireAt: expireAt}
	return nil
}

func (c *InMemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *InMemoryCache) DeletePattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	re := regexp.MustCompile("(?s)^" + strings.ReplaceAll(regexp.QuoteMeta(pattern), `\*`, ".*") + "$")
	for k := range c.data {
		if re.MatchString(k) {
			delete(c.data, k)
		}
	}
	return nil
}

// RedisCache is a production Cache backend over go-redis.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache wraps an existing Redis client.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

func (c *RedisCache) DeletePattern(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// BreakerCache decorates a Cache with a circuit breaker so a degraded
// backend trips open and every call degrades to "cache miss" / no-op
// rather than blocking or propagating an error — cache errors are
// always swallowed, never surfaced to the caller.
type BreakerCache struct {
	inner   Cache
	breaker *gobreaker.CircuitBreaker[any]
}

// NewBreakerCache wraps inner with a circuit breaker using sensible
// defaults: trip after 5 consecutive failures, half-open after 10s.
func NewBreakerCache(inner Cache, name string) *BreakerCache {
	settings := gobreaker.Settings{
		Name:    name,
		Timeout: 10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
	return &BreakerCache{inner: inner, breaker: gobreaker.NewCircuitBreaker[any](settings)}
}

func (c *BreakerCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	result, err := c.breaker.Execute(func() (any, error) {
		val, found, err := c.inner.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		return cacheGetResult{val, found}, nil
	})
	if err != nil {
		return nil, false, nil
	}
	r := result.(cacheGetResult)
	return r.value, r.found, nil
}

func (c *BreakerCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := c.breaker.Execute(func() (any, error) {
		return nil, c.inner.Set(ctx, key, value, ttl)
	})
	if err != nil {
		return nil
	}
	return nil
}

func (c *BreakerCache) Delete(ctx context.Context, key string) error {
	_, err := c.breaker.Execute(func() (any, error) {
		return nil, c.inner.Delete(ctx, key)
	})
	if err != nil {
		return nil
	}
	return nil
}

func (c *BreakerCache) DeletePattern(ctx context.Context, pattern string) error {
	_, err := c.breaker.Execute(func() (any, error) {
		return nil, c.inner.DeletePattern(ctx, pattern)
	})
	if err != nil {
		return nil
	}
	return nil
}

type cacheGetResult struct {
	value []byte
	found bool
}
