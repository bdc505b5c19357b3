package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/cs-pendencias/pendencia-service/internal/api/dto"
	"github.com/cs-pendencias/pendencia-service/internal/service"
	apperrors "github.com/cs-pendencias/pendencia-service/pkg/util"
)

// AuthHandler serves login and account registration.
type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Nome) == "" || req.Senha == "" {
		return apperrors.NewValidationError("nome e senha são obrigatórios", nil)
	}

	result, err := h.service.Login(c.Context(), req.Nome, req.Senha)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		Usuario:   dto.ToUsuarioResponse(result.Usuario),
	}})
}

// Register POST /auth/register. Gestor only, enforced by the router.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	usuario, err := h.service.Register(c.Context(), service.RegisterInput{
		Nome:        req.Nome,
		FoneCelular: req.FoneCelular,
		Funcao:      req.Funcao,
		Senha:       req.Senha,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.ToUsuarioResponse(usuario)})
}

// Me GET /auth/me returns the authenticated account.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ToUsuarioResponse(principal.Usuario)})
}
