package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/cs-pendencias/pendencia-service/internal/api/dto"
	"github.com/cs-pendencias/pendencia-service/internal/service"
	apperrors "github.com/cs-pendencias/pendencia-service/pkg/util"
)

// LookupsHandler serves the picker data: clientes, módulos and técnicos.
type LookupsHandler struct {
	service *service.LookupService
}

func NewLookupsHandler(lookupService *service.LookupService) *LookupsHandler {
	return &LookupsHandler{service: lookupService}
}

// Clientes GET /clientes. With ?busca= the cached list is bypassed and
// the search hits the database directly.
func (h *LookupsHandler) Clientes(c *fiber.Ctx) error {
	if term := strings.TrimSpace(c.Query("busca")); term != "" {
		limit := c.QueryInt("limit", 20)
		offset := c.QueryInt("offset", 0)
		clientes, total, err := h.service.SearchClientes(c.Context(), term, limit, offset)
		if err != nil {
			return err
		}
		items := make([]dto.ClienteResponse, 0, len(clientes))
		for _, cliente := range clientes {
			items = append(items, dto.ToClienteResponse(cliente))
		}
		return c.JSON(fiber.Map{"data": dto.ClienteListResponse{Items: items, Total: total}})
	}

	clientes, err := h.service.Clientes(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.ClienteResponse, 0, len(clientes))
	for _, cliente := range clientes {
		items = append(items, dto.ToClienteResponse(cliente))
	}
	return c.JSON(fiber.Map{"data": dto.ClienteListResponse{Items: items, Total: len(items)}})
}

// Modulos GET /modulos.
func (h *LookupsHandler) Modulos(c *fiber.Ctx) error {
	modulos, err := h.service.Modulos(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.ModuloResponse, 0, len(modulos))
	for _, modulo := range modulos {
		items = append(items, dto.ModuloResponse{ID: modulo.ID, Nome: modulo.Nome})
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateModulo POST /modulos. Gestor only, enforced by the router.
func (h *LookupsHandler) CreateModulo(c *fiber.Ctx) error {
	var req dto.CreateModuloRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	modulo, err := h.service.CreateModulo(c.Context(), req.Nome)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.ModuloResponse{ID: modulo.ID, Nome: modulo.Nome}})
}

// DeleteModulo DELETE /modulos/:id. Gestor only, enforced by the router.
func (h *LookupsHandler) DeleteModulo(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return apperrors.NewValidationError("id inválido", map[string]any{"id": c.Params("id")})
	}
	if err := h.service.DeleteModulo(c.Context(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Tecnicos GET /tecnicos lists active accounts for assignment pickers.
func (h *LookupsHandler) Tecnicos(c *fiber.Ctx) error {
	usuarios, err := h.service.Tecnicos(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.UsuarioResponse, 0, len(usuarios))
	for i := range usuarios {
		items = append(items, dto.ToUsuarioResponse(&usuarios[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
