package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cs-pendencias/pendencia-service/internal/domain"
	apperrors "github.com/cs-pendencias/pendencia-service/pkg/util"
)

// RequireAuth ensures a technician is authenticated.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireGestor restricts a route to managing roles (Adm, Supervisor,
// Gerente).
func RequireGestor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.Usuario == nil {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !principal.Gestor() {
			return apperrors.NewForbidden("gestor role required")
		}
		return c.Next()
	}
}

// RequireFuncao restricts a route to specific roles.
func RequireFuncao(allowed ...domain.Funcao) fiber.Handler {
	allowedSet := make(map[domain.Funcao]struct{}, len(allowed))
	for _, funcao := range allowed {
		allowedSet[funcao] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.Usuario == nil {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Usuario.Funcao]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
