// Package cache provides a keyed TTL store with Redis and in-memory
// implementations. It backs state that must not live in a module-level
// singleton, such as the login-attempt tracker.
package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a key is absent or expired.
var ErrNotFound = errors.New("cache: key not found")

// Cache is a keyed store with per-key TTL and an atomic counter.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Delete(ctx context.Context, key string) error
}

// RedisCache implements Cache on a Redis server.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(addr, password string, db int) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{client: client}, nil
}

func (r *RedisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	return val, err
}

func (r *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

// Incr increments the counter at key, setting the TTL when the key is
// created.
func (r *RedisCache) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := r.client.Expire(ctx, key, ttl).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}

func (r *RedisCache) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// Close releases the underlying client.
func (r *RedisCache) Close() error {
	return r.client.Close()
}

// InMemoryCache implements Cache for single-instance deployments and
// tests.
type InMemoryCache struct {
	mu   sync.Mutex
	data map[string]memoryEntry
}

type memoryEntry struct {
	value     string
	count     int64
	expiresAt time.Time
}

// NewInMemoryCache constructs an empty in-memory cache.
func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{data: make(map[string]memoryEntry)}
}

func (m *InMemoryCache) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.data[key]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(m.data, key)
		return "", ErrNotFound
	}
	return entry.value, nil
}

func (m *InMemoryCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = memoryEntry{value: value, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (m *InMemoryCache) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.data[key]
	if !ok || time.Now().After(entry.expiresAt) {
		entry = memoryEntry{expiresAt: time.Now().Add(ttl)}
	}
	entry.count++
	m.data[key] = entry
	return entry.count, nil
}

func (m *InMemoryCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}
