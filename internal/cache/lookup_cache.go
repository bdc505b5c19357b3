// Package cache holds the read-through cache for lookup data. Clientes
// and modulos change rarely but back every picker in the UI, so reads
// go through here instead of hitting Postgres each time.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cs-pendencias/pendencia-service/internal/domain"
	"github.com/cs-pendencias/pendencia-service/internal/repository"
)

// ErrMiss is returned by stores when a key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// Store is the minimal key-value surface the cache needs. Implemented
// by RedisStore in production and MemoryStore in tests.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// RedisStore backs the cache with Redis; expiry is delegated to the
// server-side TTL.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps a go-redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return value, err
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *RedisStore) Del(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

// MemoryStore is an in-process Store with an injectable clock.
type MemoryStore struct {
	Now     func() time.Time
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryStore builds an empty store reading time.Now.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{Now: time.Now, entries: map[string]memoryEntry{}}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	entry, ok := s.entries[key]
	if !ok {
		return nil, ErrMiss
	}
	if !entry.expiresAt.IsZero() && !s.Now().Before(entry.expiresAt) {
		delete(s.entries, key)
		return nil, ErrMiss
	}
	return entry.value, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = s.Now().Add(ttl)
	}
	s.entries[key] = entry
	return nil
}

func (s *MemoryStore) Del(_ context.Context, key string) error {
	delete(s.entries, key)
	return nil
}

// LookupCache serves clientes and modulos, falling back to the
// repository on a miss and repopulating the store. Cache failures are
// logged and degrade to direct reads; they never fail the request.
type LookupCache struct {
	store  Store
	repo   repository.LookupRepository
	ttl    time.Duration
	prefix string
	logger *zap.Logger
}

// NewLookupCache wires the cache.
func NewLookupCache(store Store, repo repository.LookupRepository, ttl time.Duration, prefix string, logger *zap.Logger) *LookupCache {
	if prefix == "" {
		prefix = "pendencias:lookup"
	}
	return &LookupCache{store: store, repo: repo, ttl: ttl, prefix: prefix, logger: logger}
}

func (c *LookupCache) clientesKey() string { return c.prefix + ":clientes" }
func (c *LookupCache) modulosKey() string  { return c.prefix + ":modulos" }

// Clientes returns the full client list, cached.
func (c *LookupCache) Clientes(ctx context.Context) ([]domain.Cliente, error) {
	var cached []domain.Cliente
	if c.load(ctx, c.clientesKey(), &cached) {
		return cached, nil
	}
	clientes, err := c.repo.ListClientes(ctx)
	if err != nil {
		return nil, err
	}
	c.save(ctx, c.clientesKey(), clientes)
	return clientes, nil
}

// Modulos returns the module list, cached.
func (c *LookupCache) Modulos(ctx context.Context) ([]domain.Modulo, error) {
	var cached []domain.Modulo
	if c.load(ctx, c.modulosKey(), &cached) {
		return cached, nil
	}
	modulos, err := c.repo.ListModulos(ctx)
	if err != nil {
		return nil, err
	}
	c.save(ctx, c.modulosKey(), modulos)
	return modulos, nil
}

// InvalidateModulos drops the cached module list after a write.
func (c *LookupCache) InvalidateModulos(ctx context.Context) {
	if err := c.store.Del(ctx, c.modulosKey()); err != nil {
		c.logger.Warn("lookup cache invalidation failed", zap.Error(err))
	}
}

// InvalidateClientes drops the cached client list.
func (c *LookupCache) InvalidateClientes(ctx context.Context) {
	if err := c.store.Del(ctx, c.clientesKey()); err != nil {
		c.logger.Warn("lookup cache invalidation failed", zap.Error(err))
	}
}

func (c *LookupCache) load(ctx context.Context, key string, dest any) bool {
	raw, err := c.store.Get(ctx, key)
	if errors.Is(err, ErrMiss) {
		return false
	}
	if err != nil {
		c.logger.Warn("lookup cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.logger.Warn("lookup cache entry corrupted", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *LookupCache) save(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.store.Set(ctx, key, raw, c.ttl); err != nil {
		c.logger.Warn("lookup cache write failed", zap.String("key", key), zap.Error(err))
	}
}
