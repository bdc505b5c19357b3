package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cs-pendencias/pendencia-service/internal/domain"
)

// PendenciaFilter captures listing parameters.
type PendenciaFilter struct {
	Status         *domain.Status
	Tipo           *domain.Tipo
	Prioridade     *domain.Prioridade
	ClienteID      *int64
	ModuloID       *int64
	Tecnico        *string
	DataRelatoFrom *time.Time
	DataRelatoTo   *time.Time
	SearchTerm     *string
	Limit          int
	Offset         int
}

// PendenciaRepository encapsulates pendência persistence.
type PendenciaRepository interface {
	Create(ctx context.Context, pend *domain.Pendencia) error
	Update(ctx context.Context, pend *domain.Pendencia) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Pendencia, error)
	ListWithFilter(ctx context.Context, filter PendenciaFilter) ([]domain.Pendencia, int, error)
	SetStatus(ctx context.Context, id int64, status domain.Status) error
	SetStatusTecnico(ctx context.Context, id int64, status domain.Status, tecnico string) error
	Resolve(ctx context.Context, id int64, solucao *string) error
	SetLinkTrello(ctx context.Context, id int64, link string) error
	ListAguardandoAceite(ctx context.Context, tecnicoTriagem *string) ([]domain.Pendencia, error)
	CountByStatus(ctx context.Context) (map[domain.Status]int, error)
	CountByPrioridade(ctx context.Context) (map[domain.Prioridade]int, error)
	CountByTipo(ctx context.Context) (map[domain.Tipo]int, error)
}

type pendenciaRepository struct {
	db Querier
}

// NewPendenciaRepository instantiates repository.
func NewPendenciaRepository(db Querier) PendenciaRepository {
	return &pendenciaRepository{db: db}
}

const pendenciaColumns = `id, cliente_id, modulo_id, tipo, prioridade, status, tecnico, descricao,
               data_relato, previsao_conclusao, solucao_orientacao, link_trello, release_versao,
               situacao, etapas_reproducao, frequencia, informacoes_adicionais,
               escopo, objetivo, recursos_necessarios, created_at, updated_at`

func (r *pendenciaRepository) Create(ctx context.Context, pend *domain.Pendencia) error {
	const query = `
        INSERT INTO pendencias (cliente_id, modulo_id, tipo, prioridade, status, tecnico, descricao,
            data_relato, previsao_conclusao, solucao_orientacao, link_trello, release_versao,
            situacao, etapas_reproducao, frequencia, informacoes_adicionais,
            escopo, objetivo, recursos_necessarios)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		pend.ClienteID,
		pend.ModuloID,
		pend.Tipo,
		pend.Prioridade,
		pend.Status,
		pend.Tecnico,
		pend.Descricao,
		pend.DataRelato,
		pend.PrevisaoConclusao,
		pend.SolucaoOrientacao,
		pend.LinkTrello,
		pend.ReleaseVersao,
		pend.Situacao,
		pend.EtapasReproducao,
		pend.Frequencia,
		pend.InformacoesAdicionais,
		pend.Escopo,
		pend.Objetivo,
		pend.RecursosNecessarios,
	).Scan(&pend.ID, &pend.CreatedAt, &pend.UpdatedAt)
}

func (r *pendenciaRepository) Update(ctx context.Context, pend *domain.Pendencia) error {
	const query = `
        UPDATE pendencias SET cliente_id=$1, modulo_id=$2, tipo=$3, prioridade=$4, tecnico=$5,
            descricao=$6, data_relato=$7, previsao_conclusao=$8, solucao_orientacao=$9,
            link_trello=$10, release_versao=$11, situacao=$12, etapas_reproducao=$13,
            frequencia=$14, informacoes_adicionais=$15, escopo=$16, objetivo=$17,
            recursos_necessarios=$18, updated_at=NOW()
        WHERE id=$19`
	cmd, err := r.db.Exec(ctx, query,
		pend.ClienteID,
		pend.ModuloID,
		pend.Tipo,
		pend.Prioridade,
		pend.Tecnico,
		pend.Descricao,
		pend.DataRelato,
		pend.PrevisaoConclusao,
		pend.SolucaoOrientacao,
		pend.LinkTrello,
		pend.ReleaseVersao,
		pend.Situacao,
		pend.EtapasReproducao,
		pend.Frequencia,
		pend.InformacoesAdicionais,
		pend.Escopo,
		pend.Objetivo,
		pend.RecursosNecessarios,
		pend.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *pendenciaRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM pendencias WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *pendenciaRepository) GetByID(ctx context.Context, id int64) (*domain.Pendencia, error) {
	query := fmt.Sprintf(`SELECT %s FROM pendencias WHERE id=$1`, pendenciaColumns)
	var pend domain.Pendencia
	if err := scanPendencia(r.db.QueryRow(ctx, query, id), &pend); err != nil {
		return nil, err
	}
	return &pend, nil
}

func (r *pendenciaRepository) SetStatus(ctx context.Context, id int64, status domain.Status) error {
	return r.exec(ctx, `UPDATE pendencias SET status=$1, updated_at=NOW() WHERE id=$2`, status, id)
}

func (r *pendenciaRepository) SetStatusTecnico(ctx context.Context, id int64, status domain.Status, tecnico string) error {
	return r.exec(ctx, `UPDATE pendencias SET status=$1, tecnico=$2, updated_at=NOW() WHERE id=$3`, status, tecnico, id)
}

func (r *pendenciaRepository) Resolve(ctx context.Context, id int64, solucao *string) error {
	return r.exec(ctx, `UPDATE pendencias SET status=$1, solucao_orientacao=COALESCE($2, solucao_orientacao), updated_at=NOW() WHERE id=$3`,
		domain.StatusResolvido, solucao, id)
}

func (r *pendenciaRepository) SetLinkTrello(ctx context.Context, id int64, link string) error {
	return r.exec(ctx, `UPDATE pendencias SET link_trello=$1, updated_at=NOW() WHERE id=$2`, link, id)
}

func (r *pendenciaRepository) exec(ctx context.Context, query string, args ...any) error {
	cmd, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *pendenciaRepository) ListWithFilter(ctx context.Context, filter PendenciaFilter) ([]domain.Pendencia, int, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Tipo != nil {
		args = append(args, *filter.Tipo)
		clauses = append(clauses, fmt.Sprintf("tipo=$%d", len(args)))
	}
	if filter.Prioridade != nil {
		args = append(args, *filter.Prioridade)
		clauses = append(clauses, fmt.Sprintf("prioridade=$%d", len(args)))
	}
	if filter.ClienteID != nil {
		args = append(args, *filter.ClienteID)
		clauses = append(clauses, fmt.Sprintf("cliente_id=$%d", len(args)))
	}
	if filter.ModuloID != nil {
		args = append(args, *filter.ModuloID)
		clauses = append(clauses, fmt.Sprintf("modulo_id=$%d", len(args)))
	}
	if filter.Tecnico != nil && strings.TrimSpace(*filter.Tecnico) != "" {
		args = append(args, "%"+strings.TrimSpace(*filter.Tecnico)+"%")
		clauses = append(clauses, fmt.Sprintf("tecnico ILIKE $%d", len(args)))
	}
	if filter.DataRelatoFrom != nil {
		args = append(args, *filter.DataRelatoFrom)
		clauses = append(clauses, fmt.Sprintf("data_relato >= $%d", len(args)))
	}
	if filter.DataRelatoTo != nil {
		args = append(args, *filter.DataRelatoTo)
		clauses = append(clauses, fmt.Sprintf("data_relato <= $%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(descricao) LIKE %s OR LOWER(tecnico) LIKE %s)", placeholder, placeholder))
	}

	where := strings.Join(clauses, " AND ")

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM pendencias WHERE %s`, where)
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM pendencias WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		pendenciaColumns, where, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items, err := scanPendencias(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListAguardandoAceite returns the acceptance queue. Passing a técnico
// narrows it to pendências triaged to that technician.
func (r *pendenciaRepository) ListAguardandoAceite(ctx context.Context, tecnicoTriagem *string) ([]domain.Pendencia, error) {
	query := fmt.Sprintf(`SELECT %s FROM pendencias p WHERE p.status=$1 ORDER BY p.created_at ASC`, prefixColumns("p"))
	args := []any{domain.StatusAguardandoAceite}
	if tecnicoTriagem != nil {
		query = fmt.Sprintf(`
        SELECT %s FROM pendencias p
        JOIN pendencia_triagem t ON t.pendencia_id = p.id
        WHERE p.status=$1 AND t.tecnico_triagem=$2
        ORDER BY p.created_at ASC`, prefixColumns("p"))
		args = append(args, *tecnicoTriagem)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPendencias(rows)
}

func prefixColumns(alias string) string {
	cols := strings.Split(pendenciaColumns, ",")
	for i, col := range cols {
		cols[i] = alias + "." + strings.TrimSpace(col)
	}
	return strings.Join(cols, ", ")
}

func (r *pendenciaRepository) CountByStatus(ctx context.Context) (map[domain.Status]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM pendencias GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := map[domain.Status]int{}
	for rows.Next() {
		var status domain.Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *pendenciaRepository) CountByPrioridade(ctx context.Context) (map[domain.Prioridade]int, error) {
	rows, err := r.db.Query(ctx, `SELECT prioridade, COUNT(*) FROM pendencias GROUP BY prioridade`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := map[domain.Prioridade]int{}
	for rows.Next() {
		var prioridade domain.Prioridade
		var count int
		if err := rows.Scan(&prioridade, &count); err != nil {
			return nil, err
		}
		counts[prioridade] = count
	}
	return counts, rows.Err()
}

func (r *pendenciaRepository) CountByTipo(ctx context.Context) (map[domain.Tipo]int, error) {
	rows, err := r.db.Query(ctx, `SELECT tipo, COUNT(*) FROM pendencias GROUP BY tipo`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := map[domain.Tipo]int{}
	for rows.Next() {
		var tipo domain.Tipo
		var count int
		if err := rows.Scan(&tipo, &count); err != nil {
			return nil, err
		}
		counts[tipo] = count
	}
	return counts, rows.Err()
}

func scanPendencia(row pgx.Row, pend *domain.Pendencia) error {
	return row.Scan(
		&pend.ID,
		&pend.ClienteID,
		&pend.ModuloID,
		&pend.Tipo,
		&pend.Prioridade,
		&pend.Status,
		&pend.Tecnico,
		&pend.Descricao,
		&pend.DataRelato,
		&pend.PrevisaoConclusao,
		&pend.SolucaoOrientacao,
		&pend.LinkTrello,
		&pend.ReleaseVersao,
		&pend.Situacao,
		&pend.EtapasReproducao,
		&pend.Frequencia,
		&pend.InformacoesAdicionais,
		&pend.Escopo,
		&pend.Objetivo,
		&pend.RecursosNecessarios,
		&pend.CreatedAt,
		&pend.UpdatedAt,
	)
}

func scanPendencias(rows pgx.Rows) ([]domain.Pendencia, error) {
	var result []domain.Pendencia
	for rows.Next() {
		var pend domain.Pendencia
		if err := scanPendencia(rows, &pend); err != nil {
			return nil, err
		}
		result = append(result, pend)
	}
	return result, rows.Err()
}
