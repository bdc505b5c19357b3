package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cs-pendencias/pendencia-service/internal/api/dto"
	"github.com/cs-pendencias/pendencia-service/internal/service"
)

// DashboardHandler serves the landing page aggregates.
type DashboardHandler struct {
	service *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: dashboardService}
}

// Resumo GET /dashboard/resumo.
func (h *DashboardHandler) Resumo(c *fiber.Ctx) error {
	resumo, err := h.service.Resumo(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": resumo})
}

// FilaAceite GET /dashboard/fila-aceite. Técnicos only see pendências
// triaged to them; gestores see the whole queue.
func (h *DashboardHandler) FilaAceite(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	pendencias, err := h.service.FilaAceite(c.Context(), principal.Usuario)
	if err != nil {
		return err
	}
	items := make([]dto.PendenciaSummary, 0, len(pendencias))
	for i := range pendencias {
		items = append(items, dto.ToSummary(&pendencias[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

type tecnicoCount struct {
	Tecnico string `json:"tecnico"`
	Total   int    `json:"total"`
}

// RelatorioTecnicos GET /dashboard/tecnicos.
func (h *DashboardHandler) RelatorioTecnicos(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	counts, err := h.service.RelatorioTecnicos(c.Context(), limit)
	if err != nil {
		return err
	}
	items := make([]tecnicoCount, 0, len(counts))
	for _, count := range counts {
		items = append(items, tecnicoCount{Tecnico: count.Tecnico, Total: count.Total})
	}
	return c.JSON(fiber.Map{"data": items})
}
