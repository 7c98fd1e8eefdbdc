package external

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"

	"github.com/Git-of-Ritesh/NextGen-Medicine-Recommendation/internal/domain"
)

// NewLookupCache creates the lookup cache selected by config.Backend.
// A nil cache with nil error means caching is disabled.
func NewLookupCache(ctx context.Context, config domain.CacheConfig) (domain.LookupCache, error) {
	switch config.Backend {
	case "", domain.CacheNone:
		return nil, nil
	case domain.CacheMemory:
		return NewMemoryLookupCache(config.MemorySize, config.TTL), nil
	case domain.CacheRedis:
		opts, err := redis.ParseURL(config.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		client := redis.NewClient(opts)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		return NewRedisLookupCache(client, config.KeyPrefix, config.TTL), nil
	default:
		return nil, fmt.Errorf("unsupported cache backend: %q", config.Backend)
	}
}

// MemoryLookupCache is an in-process LRU with a fixed entry lifetime
type MemoryLookupCache struct {
	lru *expirable.LRU[string, []string]
}

// NewMemoryLookupCache creates a cache holding at most size entries for ttl
func NewMemoryLookupCache(size int, ttl time.Duration) *MemoryLookupCache {
	if size <= 0 {
		size = 1000
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &MemoryLookupCache{lru: expirable.NewLRU[string, []string](size, nil, ttl)}
}

// Get returns a copy of the cached names
func (m *MemoryLookupCache) Get(_ context.Context, key string) ([]string, bool, error) {
	names, ok := m.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	return append([]string(nil), names...), true, nil
}

// Set stores names. Entries share the lifetime given at construction; ttl is ignored.
func (m *MemoryLookupCache) Set(_ context.Context, key string, names []string, _ time.Duration) error {
	m.lru.Add(key, append([]string(nil), names...))
	return nil
}

// RedisLookupCache stores lookup results in Redis as JSON
type RedisLookupCache struct {
	redis      *redis.Client
	prefix     string
	defaultTTL time.Duration
}

type cachedLookup struct {
	Names    []string  `json:"names"`
	CachedAt time.Time `json:"cached_at"`
}

// NewRedisLookupCache wraps an existing Redis client
func NewRedisLookupCache(client *redis.Client, prefix string, defaultTTL time.Duration) *RedisLookupCache {
	if prefix == "" {
		prefix = "medrec:lookup:"
	}
	if defaultTTL <= 0 {
		defaultTTL = time.Hour
	}
	return &RedisLookupCache{redis: client, prefix: prefix, defaultTTL: defaultTTL}
}

// Get retrieves cached names
func (r *RedisLookupCache) Get(ctx context.Context, key string) ([]string, bool, error) {
	val, err := r.redis.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get lookup cache: %w", err)
	}

	var cached cachedLookup
	if err := json.Unmarshal([]byte(val), &cached); err != nil {
		// Remove corrupted cache entry
		r.redis.Del(ctx, r.prefix+key)
		return nil, false, nil
	}
	return cached.Names, true, nil
}

// Set caches names for ttl, or the default TTL when ttl is zero
func (r *RedisLookupCache) Set(ctx context.Context, key string, names []string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = r.defaultTTL
	}

	data, err := json.Marshal(cachedLookup{Names: names, CachedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to marshal lookup cache data: %w", err)
	}
	return r.redis.Set(ctx, r.prefix+key, data, ttl).Err()
}

// Close closes the underlying Redis client
func (r *RedisLookupCache) Close() error {
	return r.redis.Close()
}

// Ping checks the Redis connection
func (r *RedisLookupCache) Ping(ctx context.Context) error {
	return r.redis.Ping(ctx).Err()
}
