package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cs-pendencias/pendencia-service/internal/auth"
	"github.com/cs-pendencias/pendencia-service/internal/domain"
	"github.com/cs-pendencias/pendencia-service/internal/repository"
	"github.com/cs-pendencias/pendencia-service/pkg/util"
)

// AuthService authenticates technicians by display name and password.
type AuthService struct {
	usuarios   repository.UsuarioRepository
	tokens     *auth.TokenManager
	bcryptCost int
}

// NewAuthService constructs the service.
func NewAuthService(usuarios repository.UsuarioRepository, tokens *auth.TokenManager, bcryptCost int) *AuthService {
	return &AuthService{usuarios: usuarios, tokens: tokens, bcryptCost: bcryptCost}
}

// LoginResult carries the issued token.
type LoginResult struct {
	Usuario   *domain.Usuario
	Token     string
	ExpiresAt time.Time
}

// Login verifies credentials and issues a JWT. Lookup failures and bad
// passwords return the same error so names cannot be probed.
func (s *AuthService) Login(ctx context.Context, nome, senha string) (*LoginResult, error) {
	nome = strings.TrimSpace(nome)
	if nome == "" || senha == "" {
		return nil, util.NewValidationError("nome e senha são obrigatórios", nil)
	}

	usuario, err := s.usuarios.GetByNome(ctx, nome)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewUnauthorized("credenciais inválidas")
		}
		return nil, err
	}
	if !usuario.Ativo {
		return nil, util.NewUnauthorized("credenciais inválidas")
	}
	if err := auth.CompararSenha(usuario.SenhaHash, senha); err != nil {
		return nil, util.NewUnauthorized("credenciais inválidas")
	}

	token, expiresAt, err := s.tokens.GenerateToken(usuario)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Usuario: usuario, Token: token, ExpiresAt: expiresAt}, nil
}

// RegisterInput describes a new technician account.
type RegisterInput struct {
	Nome        string
	FoneCelular *string
	Funcao      domain.Funcao
	Senha       string
}

// Register creates a technician account.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.Usuario, error) {
	input.Nome = strings.TrimSpace(input.Nome)
	if input.Nome == "" {
		return nil, util.NewValidationError("nome é obrigatório", nil)
	}
	if len(input.Senha) < 6 {
		return nil, util.NewValidationError("senha deve ter ao menos 6 caracteres", nil)
	}
	if input.Funcao == "" {
		input.Funcao = domain.FuncaoTecnico
	}

	if existing, err := s.usuarios.GetByNome(ctx, input.Nome); err == nil && existing != nil {
		return nil, util.NewConflict("nome já cadastrado", map[string]any{"nome": input.Nome})
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashSenha(input.Senha, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	usuario := &domain.Usuario{
		Nome:        input.Nome,
		FoneCelular: input.FoneCelular,
		Funcao:      input.Funcao,
		SenhaHash:   hash,
		Ativo:       true,
	}
	if err := s.usuarios.Create(ctx, usuario); err != nil {
		return nil, err
	}
	return usuario, nil
}
