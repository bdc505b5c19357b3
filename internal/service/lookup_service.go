package service

import (
	"context"
	"strings"

	"github.com/cs-pendencias/pendencia-service/internal/cache"
	"github.com/cs-pendencias/pendencia-service/internal/domain"
	"github.com/cs-pendencias/pendencia-service/internal/repository"
	"github.com/cs-pendencias/pendencia-service/pkg/util"
)

// LookupService serves reference data for pickers. Full lists go
// through the read-through cache; searches hit Postgres directly.
type LookupService struct {
	store  repository.Store
	cached *cache.LookupCache
}

// NewLookupService constructs the service.
func NewLookupService(store repository.Store, cached *cache.LookupCache) *LookupService {
	return &LookupService{store: store, cached: cached}
}

// Clientes returns the cached client list.
func (s *LookupService) Clientes(ctx context.Context) ([]domain.Cliente, error) {
	return s.cached.Clientes(ctx)
}

// SearchClientes pages through clients matching the term.
func (s *LookupService) SearchClientes(ctx context.Context, term string, limit, offset int) ([]domain.Cliente, int, error) {
	return s.store.Lookups.SearchClientes(ctx, term, limit, offset)
}

// Modulos returns the cached module list.
func (s *LookupService) Modulos(ctx context.Context) ([]domain.Modulo, error) {
	return s.cached.Modulos(ctx)
}

// CreateModulo adds a module and drops the cached list.
func (s *LookupService) CreateModulo(ctx context.Context, nome string) (*domain.Modulo, error) {
	nome = strings.TrimSpace(nome)
	if nome == "" {
		return nil, util.NewValidationError("nome é obrigatório", nil)
	}
	modulo := &domain.Modulo{Nome: nome}
	if err := s.store.Lookups.CreateModulo(ctx, modulo); err != nil {
		return nil, err
	}
	s.cached.InvalidateModulos(ctx)
	return modulo, nil
}

// DeleteModulo removes a module and drops the cached list.
func (s *LookupService) DeleteModulo(ctx context.Context, id int64) error {
	if err := s.store.Lookups.DeleteModulo(ctx, id); err != nil {
		return err
	}
	s.cached.InvalidateModulos(ctx)
	return nil
}

// Tecnicos lists active technician accounts for assignment pickers.
func (s *LookupService) Tecnicos(ctx context.Context) ([]domain.Usuario, error) {
	return s.store.Usuarios.ListAtivos(ctx)
}
