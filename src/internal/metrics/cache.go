// FILE: logdot/src/internal/metrics/cache.go
package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"logdot/src/internal/config"
	"logdot/src/internal/core"

	"github.com/redis/go-redis/v9"
)

// EntityCache remembers resolved entities by name. Entries never expire.
type EntityCache interface {
	Get(ctx context.Context, name string) (*core.Entity, bool, error)
	Set(ctx context.Context, entity *core.Entity) error
}

// MemoryCache is a process-local EntityCache.
type MemoryCache struct {
	mu       sync.RWMutex
	entities map[string]core.Entity
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entities: make(map[string]core.Entity)}
}

func (m *MemoryCache) Get(_ context.Context, name string) (*core.Entity, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entities[name]
	if !ok {
		return nil, false, nil
	}
	return &e, true, nil
}

func (m *MemoryCache) Set(_ context.Context, entity *core.Entity) error {
	if entity == nil || entity.Name == "" {
		return fmt.Errorf("entity name is required")
	}
	m.mu.Lock()
	m.entities[entity.Name] = *entity
	m.mu.Unlock()
	return nil
}

// Len returns the number of cached entities.
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entities)
}

// RedisCache shares resolved entities between processes through Redis.
// Values are JSON encoded entities stored under prefix+name.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache connects lazily; the first Get or Set dials the server.
func NewRedisCache(cfg config.RedisCacheConfig) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		prefix: cfg.KeyPrefix,
	}
}

func (r *RedisCache) Get(ctx context.Context, name string) (*core.Entity, bool, error) {
	val, err := r.client.Get(ctx, r.prefix+name).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var e core.Entity
	if err := json.Unmarshal(val, &e); err != nil {
		return nil, false, fmt.Errorf("invalid cached entity for %s: %w", name, err)
	}
	return &e, true, nil
}

func (r *RedisCache) Set(ctx context.Context, entity *core.Entity) error {
	if entity == nil || entity.Name == "" {
		return fmt.Errorf("entity name is required")
	}
	data, err := json.Marshal(entity)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.prefix+entity.Name, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Ping checks connectivity.
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

// NewCache builds the cache selected by configuration.
func NewCache(cfg config.EntityCacheConfig) (EntityCache, error) {
	switch cfg.Type {
	case "", "memory":
		return NewMemoryCache(), nil
	case "redis":
		return NewRedisCache(cfg.Redis), nil
	default:
		return nil, fmt.Errorf("unknown entity cache type: %s", cfg.Type)
	}
}
