package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cs-pendencias/pendencia-service/internal/domain"
	"github.com/cs-pendencias/pendencia-service/internal/repository"
)

type countingLookupRepo struct {
	repository.LookupRepository
	clientes     []domain.Cliente
	modulos      []domain.Modulo
	clienteCalls int
	moduloCalls  int
}

func (r *countingLookupRepo) ListClientes(context.Context) ([]domain.Cliente, error) {
	r.clienteCalls++
	return r.clientes, nil
}

func (r *countingLookupRepo) ListModulos(context.Context) ([]domain.Modulo, error) {
	r.moduloCalls++
	return r.modulos, nil
}

func newTestCache(t *testing.T) (*LookupCache, *countingLookupRepo, *MemoryStore, *time.Time) {
	t.Helper()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.Now = func() time.Time { return now }
	repo := &countingLookupRepo{
		clientes: []domain.Cliente{{IDCliente: 7, Nome: "Padaria Central"}},
		modulos:  []domain.Modulo{{ID: 1, Nome: "Financeiro"}},
	}
	cache := NewLookupCache(store, repo, 30*time.Minute, "test:lookup", zap.NewNop())
	return cache, repo, store, &now
}

func TestLookupCacheReadThrough(t *testing.T) {
	cache, repo, _, _ := newTestCache(t)
	ctx := context.Background()

	first, err := cache.Clientes(ctx)
	require.NoError(t, err)
	second, err := cache.Clientes(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.clienteCalls, "second read is served from the cache")
}

func TestLookupCacheExpiry(t *testing.T) {
	cache, repo, _, now := newTestCache(t)
	ctx := context.Background()

	_, err := cache.Modulos(ctx)
	require.NoError(t, err)
	*now = now.Add(31 * time.Minute)
	_, err = cache.Modulos(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, repo.moduloCalls, "expired entry goes back to the repository")
}

func TestLookupCacheInvalidation(t *testing.T) {
	cache, repo, _, _ := newTestCache(t)
	ctx := context.Background()

	_, err := cache.Modulos(ctx)
	require.NoError(t, err)
	cache.InvalidateModulos(ctx)
	_, err = cache.Modulos(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, repo.moduloCalls)
}

func TestLookupCacheCorruptedEntryFallsBack(t *testing.T) {
	cache, repo, store, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "test:lookup:clientes", []byte("{not json"), time.Hour))

	clientes, err := cache.Clientes(ctx)
	require.NoError(t, err)
	assert.Len(t, clientes, 1)
	assert.Equal(t, 1, repo.clienteCalls)
}
