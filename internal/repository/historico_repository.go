package repository

import (
	"context"

	"github.com/cs-pendencias/pendencia-service/internal/domain"
)

// HistoricoRepository encapsulates the append-only event ledger.
type HistoricoRepository interface {
	Append(ctx context.Context, entry *domain.Historico) error
	ListByPendencia(ctx context.Context, pendenciaID int64) ([]domain.Historico, error)
}

type historicoRepository struct {
	db Querier
}

// NewHistoricoRepository instantiates repository.
func NewHistoricoRepository(db Querier) HistoricoRepository {
	return &historicoRepository{db: db}
}

func (r *historicoRepository) Append(ctx context.Context, entry *domain.Historico) error {
	const query = `
        INSERT INTO pendencia_historicos (pendencia_id, kind, acao, usuario, campo_alterado, valor_anterior, valor_novo)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		entry.PendenciaID,
		entry.Kind,
		entry.Acao,
		entry.Usuario,
		entry.CampoAlterado,
		entry.ValorAnterior,
		entry.ValorNovo,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *historicoRepository) ListByPendencia(ctx context.Context, pendenciaID int64) ([]domain.Historico, error) {
	const query = `
        SELECT id, pendencia_id, kind, acao, usuario, campo_alterado, valor_anterior, valor_novo, created_at
        FROM pendencia_historicos WHERE pendencia_id=$1 ORDER BY created_at ASC, id ASC`
	rows, err := r.db.Query(ctx, query, pendenciaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []domain.Historico
	for rows.Next() {
		var entry domain.Historico
		if err := rows.Scan(
			&entry.ID,
			&entry.PendenciaID,
			&entry.Kind,
			&entry.Acao,
			&entry.Usuario,
			&entry.CampoAlterado,
			&entry.ValorAnterior,
			&entry.ValorNovo,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
