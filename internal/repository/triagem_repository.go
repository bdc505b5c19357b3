package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cs-pendencias/pendencia-service/internal/domain"
)

// TriagemPatch lists the triagem fields a workflow step writes. Nil
// fields are left untouched on upsert.
type TriagemPatch struct {
	TecnicoRelato      *string
	TecnicoTriagem     *string
	TecnicoResponsavel *string
	DataTriagem        *time.Time
	DataAceite         *time.Time
	DataRejeicao       *time.Time
	MotivoRejeicao     *string
}

// TriagemRepository encapsulates the one-per-pendência triage row.
type TriagemRepository interface {
	Upsert(ctx context.Context, pendenciaID int64, patch TriagemPatch) error
	GetByPendencia(ctx context.Context, pendenciaID int64) (*domain.Triagem, error)
	TopResponsaveis(ctx context.Context, limit int) ([]ResponsavelCount, error)
}

// ResponsavelCount ranks técnicos by pendências under their
// responsibility.
type ResponsavelCount struct {
	Tecnico string
	Total   int
}

type triagemRepository struct {
	db Querier
}

// NewTriagemRepository instantiates repository.
func NewTriagemRepository(db Querier) TriagemRepository {
	return &triagemRepository{db: db}
}

// Upsert inserts or updates the triage row for a pendência in one
// statement, so concurrent workflow steps cannot race a check-then-
// insert into duplicate rows.
func (r *triagemRepository) Upsert(ctx context.Context, pendenciaID int64, patch TriagemPatch) error {
	cols := []string{"pendencia_id"}
	args := []any{pendenciaID}
	updates := []string{}

	set := func(col string, value any) {
		args = append(args, value)
		cols = append(cols, col)
		updates = append(updates, fmt.Sprintf("%s=EXCLUDED.%s", col, col))
	}

	if patch.TecnicoRelato != nil {
		set("tecnico_relato", *patch.TecnicoRelato)
	}
	if patch.TecnicoTriagem != nil {
		set("tecnico_triagem", *patch.TecnicoTriagem)
	}
	if patch.TecnicoResponsavel != nil {
		set("tecnico_responsavel", *patch.TecnicoResponsavel)
	}
	if patch.DataTriagem != nil {
		set("data_triagem", *patch.DataTriagem)
	}
	if patch.DataAceite != nil {
		set("data_aceite", *patch.DataAceite)
	}
	if patch.DataRejeicao != nil {
		set("data_rejeicao", *patch.DataRejeicao)
	}
	if patch.MotivoRejeicao != nil {
		set("motivo_rejeicao", *patch.MotivoRejeicao)
	}

	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	action := "DO NOTHING"
	if len(updates) > 0 {
		action = "DO UPDATE SET " + strings.Join(updates, ", ")
	}

	query := fmt.Sprintf(`
        INSERT INTO pendencia_triagem (%s) VALUES (%s)
        ON CONFLICT (pendencia_id) %s`,
		strings.Join(cols, ", "), strings.Join(placeholders, ","), action)

	_, err := r.db.Exec(ctx, query, args...)
	return err
}

// GetByPendencia returns nil without error when no triage row exists
// yet; a pendência in Triagem legitimately has none.
func (r *triagemRepository) GetByPendencia(ctx context.Context, pendenciaID int64) (*domain.Triagem, error) {
	const query = `
        SELECT pendencia_id, tecnico_relato, tecnico_triagem, tecnico_responsavel,
               data_triagem, data_aceite, data_rejeicao, motivo_rejeicao
        FROM pendencia_triagem WHERE pendencia_id=$1`
	var triagem domain.Triagem
	err := r.db.QueryRow(ctx, query, pendenciaID).Scan(
		&triagem.PendenciaID,
		&triagem.TecnicoRelato,
		&triagem.TecnicoTriagem,
		&triagem.TecnicoResponsavel,
		&triagem.DataTriagem,
		&triagem.DataAceite,
		&triagem.DataRejeicao,
		&triagem.MotivoRejeicao,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &triagem, nil
}

func (r *triagemRepository) TopResponsaveis(ctx context.Context, limit int) ([]ResponsavelCount, error) {
	if limit <= 0 {
		limit = 10
	}
	query := fmt.Sprintf(`
        SELECT tecnico_responsavel, COUNT(*) AS total
        FROM pendencia_triagem
        WHERE tecnico_responsavel IS NOT NULL AND tecnico_responsavel <> ''
        GROUP BY tecnico_responsavel
        ORDER BY total DESC, tecnico_responsavel ASC
        LIMIT %d`, limit)
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []ResponsavelCount
	for rows.Next() {
		var rc ResponsavelCount
		if err := rows.Scan(&rc.Tecnico, &rc.Total); err != nil {
			return nil, err
		}
		result = append(result, rc)
	}
	return result, rows.Err()
}
