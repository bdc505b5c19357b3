package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/cs-pendencias/pendencia-service/internal/domain"
)

// UsuarioRepository encapsulates technician accounts.
type UsuarioRepository interface {
	Create(ctx context.Context, usuario *domain.Usuario) error
	GetByID(ctx context.Context, id int64) (*domain.Usuario, error)
	GetByNome(ctx context.Context, nome string) (*domain.Usuario, error)
	ListAtivos(ctx context.Context) ([]domain.Usuario, error)
}

type usuarioRepository struct {
	db Querier
}

// NewUsuarioRepository instantiates repository.
func NewUsuarioRepository(db Querier) UsuarioRepository {
	return &usuarioRepository{db: db}
}

const usuarioColumns = `id, nome, fone_celular, funcao, senha_hash, ativo, created_at, updated_at`

func (r *usuarioRepository) Create(ctx context.Context, usuario *domain.Usuario) error {
	const query = `
        INSERT INTO usuarios (nome, fone_celular, funcao, senha_hash, ativo)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		usuario.Nome,
		usuario.FoneCelular,
		usuario.Funcao,
		usuario.SenhaHash,
		usuario.Ativo,
	).Scan(&usuario.ID, &usuario.CreatedAt, &usuario.UpdatedAt)
}

func (r *usuarioRepository) GetByID(ctx context.Context, id int64) (*domain.Usuario, error) {
	return r.fetchSingle(ctx, `SELECT `+usuarioColumns+` FROM usuarios WHERE id=$1`, id)
}

func (r *usuarioRepository) GetByNome(ctx context.Context, nome string) (*domain.Usuario, error) {
	return r.fetchSingle(ctx, `SELECT `+usuarioColumns+` FROM usuarios WHERE nome=$1`, nome)
}

func (r *usuarioRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Usuario, error) {
	var usuario domain.Usuario
	if err := r.db.QueryRow(ctx, query, arg).Scan(
		&usuario.ID,
		&usuario.Nome,
		&usuario.FoneCelular,
		&usuario.Funcao,
		&usuario.SenhaHash,
		&usuario.Ativo,
		&usuario.CreatedAt,
		&usuario.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &usuario, nil
}

func (r *usuarioRepository) ListAtivos(ctx context.Context) ([]domain.Usuario, error) {
	rows, err := r.db.Query(ctx, `SELECT `+usuarioColumns+` FROM usuarios WHERE ativo ORDER BY nome ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsuarios(rows)
}

func scanUsuarios(rows pgx.Rows) ([]domain.Usuario, error) {
	var result []domain.Usuario
	for rows.Next() {
		var usuario domain.Usuario
		if err := rows.Scan(
			&usuario.ID,
			&usuario.Nome,
			&usuario.FoneCelular,
			&usuario.Funcao,
			&usuario.SenhaHash,
			&usuario.Ativo,
			&usuario.CreatedAt,
			&usuario.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, usuario)
	}
	return result, rows.Err()
}
