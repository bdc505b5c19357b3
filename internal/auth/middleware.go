package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/cs-pendencias/pendencia-service/internal/domain"
	"github.com/cs-pendencias/pendencia-service/internal/repository"
	"github.com/cs-pendencias/pendencia-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated technician.
type Principal struct {
	Usuario *domain.Usuario
}

// Gestor reports whether the caller manages the triage queue.
func (p *Principal) Gestor() bool {
	return p.Usuario != nil && p.Usuario.Funcao.Gestor()
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens   *TokenManager
	usuarios repository.UsuarioRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, usuarios repository.UsuarioRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, usuarios: usuarios}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return util.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return util.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return util.NewUnauthorized("invalid token")
	}

	id, err := claims.UsuarioID()
	if err != nil {
		return util.NewUnauthorized("invalid token subject")
	}

	usuario, err := m.usuarios.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return util.NewUnauthorized("usuario not found")
		}
		return util.MapError(err)
	}
	if !usuario.Ativo {
		return util.NewUnauthorized("usuario inactive")
	}

	c.Locals(principalKey, &Principal{Usuario: usuario})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated technician.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
