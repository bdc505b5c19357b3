package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgx satisfied by both *pgxpool.Pool and
// pgx.Tx, so the same repositories run inside and outside transactions.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store bundles the repositories over a shared querier.
type Store struct {
	Pendencias PendenciaRepository
	Triagens   TriagemRepository
	Historicos HistoricoRepository
	Usuarios   UsuarioRepository
	Lookups    LookupRepository

	pool *pgxpool.Pool
}

// NewStore builds pool-backed repositories.
func NewStore(pool *pgxpool.Pool) Store {
	return Store{
		Pendencias: NewPendenciaRepository(pool),
		Triagens:   NewTriagemRepository(pool),
		Historicos: NewHistoricoRepository(pool),
		Usuarios:   NewUsuarioRepository(pool),
		Lookups:    NewLookupRepository(pool),
		pool:       pool,
	}
}

// WithTx runs fn with repositories bound to a single transaction.
// Workflow transitions write three tables; running them here keeps the
// pendência, triagem and history rows consistent when a step fails.
func (s Store) WithTx(ctx context.Context, fn func(tx Store) error) error {
	if s.pool == nil {
		// stores assembled from bare repositories run inline
		return fn(s)
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	txStore := Store{
		Pendencias: NewPendenciaRepository(tx),
		Triagens:   NewTriagemRepository(tx),
		Historicos: NewHistoricoRepository(tx),
		Usuarios:   NewUsuarioRepository(tx),
		Lookups:    NewLookupRepository(tx),
	}
	if err := fn(txStore); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
