// internal/guidance/cache/kv.go

// Package cache persists guidance payloads per (fingerprint, dateKey)
// over a simple namespaced key/value medium. Caching is always an
// optimization: every failure path here reads as "absent" or is
// swallowed, never surfaced to the pipeline.
package cache

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
)

// KeyValue is the persistence contract the store (and the rotation
// selector) run against: string keys, string values, best-effort on
// both sides.
type KeyValue interface {
	GetString(ctx context.Context, key string) (string, bool)
	SetString(ctx context.Context, key, value string)
}

// RedisKV backs KeyValue with a Redis client. Entries carry no TTL; the
// dateKey embedded in each cache key ages entries out naturally.
type RedisKV struct {
	client *redis.Client
}

func NewRedisKV(client *redis.Client) *RedisKV {
	return &RedisKV{client: client}
}

func (r *RedisKV) GetString(ctx context.Context, key string) (string, bool) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (r *RedisKV) SetString(ctx context.Context, key, value string) {
	// Best-effort: quota or connectivity errors are dropped.
	_ = r.client.Set(ctx, key, value, 0).Err()
}

// MemoryKV is an in-process KeyValue for tests and single-node use.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

func (m *MemoryKV) GetString(_ context.Context, key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.data[key]
	return val, ok
}

func (m *MemoryKV) SetString(_ context.Context, key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

// Reset clears every stored entry. Used by tests and by the external
// rotation reset.
func (m *MemoryKV) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]string)
}
