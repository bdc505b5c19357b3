package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/cs-pendencias/pendencia-service/internal/domain"
)

// LookupRepository serves the reference tables behind selects and
// pickers: clientes (read-only) and modulos.
type LookupRepository interface {
	ListClientes(ctx context.Context) ([]domain.Cliente, error)
	SearchClientes(ctx context.Context, term string, limit, offset int) ([]domain.Cliente, int, error)
	GetCliente(ctx context.Context, id int64) (*domain.Cliente, error)
	ListModulos(ctx context.Context) ([]domain.Modulo, error)
	GetModulo(ctx context.Context, id int64) (*domain.Modulo, error)
	CreateModulo(ctx context.Context, modulo *domain.Modulo) error
	DeleteModulo(ctx context.Context, id int64) error
}

type lookupRepository struct {
	db Querier
}

// NewLookupRepository instantiates repository.
func NewLookupRepository(db Querier) LookupRepository {
	return &lookupRepository{db: db}
}

const clienteColumns = `id_cliente, nome, email, endereco, numero, complemento, cep, uf, cidade, contatos, telefone, celular`

func (r *lookupRepository) ListClientes(ctx context.Context) ([]domain.Cliente, error) {
	rows, err := r.db.Query(ctx, `SELECT `+clienteColumns+` FROM clientes ORDER BY nome ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanClientes(rows)
}

func (r *lookupRepository) SearchClientes(ctx context.Context, term string, limit, offset int) ([]domain.Cliente, int, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if strings.TrimSpace(term) != "" {
		search := "%" + strings.TrimSpace(term) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(nome ILIKE %s OR cidade ILIKE %s OR contatos ILIKE %s OR CAST(id_cliente AS TEXT) LIKE %s)",
			placeholder, placeholder, placeholder, placeholder))
	}

	where := strings.Join(clauses, " AND ")

	var total int
	if err := r.db.QueryRow(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM clientes WHERE %s`, where), args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM clientes WHERE %s ORDER BY nome ASC LIMIT %d OFFSET %d`,
		clienteColumns, where, limit, offset)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items, err := scanClientes(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *lookupRepository) GetCliente(ctx context.Context, id int64) (*domain.Cliente, error) {
	var cliente domain.Cliente
	if err := scanCliente(r.db.QueryRow(ctx, `SELECT `+clienteColumns+` FROM clientes WHERE id_cliente=$1`, id), &cliente); err != nil {
		return nil, err
	}
	return &cliente, nil
}

func (r *lookupRepository) ListModulos(ctx context.Context) ([]domain.Modulo, error) {
	rows, err := r.db.Query(ctx, `SELECT id, nome FROM modulos ORDER BY nome ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []domain.Modulo
	for rows.Next() {
		var modulo domain.Modulo
		if err := rows.Scan(&modulo.ID, &modulo.Nome); err != nil {
			return nil, err
		}
		result = append(result, modulo)
	}
	return result, rows.Err()
}

func (r *lookupRepository) GetModulo(ctx context.Context, id int64) (*domain.Modulo, error) {
	var modulo domain.Modulo
	if err := r.db.QueryRow(ctx, `SELECT id, nome FROM modulos WHERE id=$1`, id).Scan(&modulo.ID, &modulo.Nome); err != nil {
		return nil, err
	}
	return &modulo, nil
}

func (r *lookupRepository) CreateModulo(ctx context.Context, modulo *domain.Modulo) error {
	return r.db.QueryRow(ctx, `INSERT INTO modulos (nome) VALUES ($1) RETURNING id`, modulo.Nome).Scan(&modulo.ID)
}

func (r *lookupRepository) DeleteModulo(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM modulos WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanCliente(row pgx.Row, cliente *domain.Cliente) error {
	return row.Scan(
		&cliente.IDCliente,
		&cliente.Nome,
		&cliente.Email,
		&cliente.Endereco,
		&cliente.Numero,
		&cliente.Complemento,
		&cliente.CEP,
		&cliente.UF,
		&cliente.Cidade,
		&cliente.Contatos,
		&cliente.Telefone,
		&cliente.Celular,
	)
}

func scanClientes(rows pgx.Rows) ([]domain.Cliente, error) {
	var result []domain.Cliente
	for rows.Next() {
		var cliente domain.Cliente
		if err := scanCliente(rows, &cliente); err != nil {
			return nil, err
		}
		result = append(result, cliente)
	}
	return result, rows.Err()
}
