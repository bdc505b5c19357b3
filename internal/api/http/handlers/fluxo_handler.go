package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cs-pendencias/pendencia-service/internal/api/dto"
	"github.com/cs-pendencias/pendencia-service/internal/auth"
	"github.com/cs-pendencias/pendencia-service/internal/domain"
	"github.com/cs-pendencias/pendencia-service/internal/service"
	apperrors "github.com/cs-pendencias/pendencia-service/pkg/util"
)

// FluxoHandler exposes the status transitions. Every route takes the
// pendência id in the path and records the authenticated usuario as the
// actor in the history ledger.
type FluxoHandler struct {
	service *service.FluxoService
}

func NewFluxoHandler(fluxoService *service.FluxoService) *FluxoHandler {
	return &FluxoHandler{service: fluxoService}
}

// Designar POST /pendencias/:id/designar.
func (h *FluxoHandler) Designar(c *fiber.Ctx) error {
	principal, id, err := transitionParams(c)
	if err != nil {
		return err
	}
	var req dto.DesignarRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	pend, err := h.service.Designar(c.Context(), id, req.TecnicoTriagem, principal.Usuario.Nome)
	return transitionResponse(c, pend, err)
}

// AceitarAnalise POST /pendencias/:id/aceitar-analise.
func (h *FluxoHandler) AceitarAnalise(c *fiber.Ctx) error {
	principal, id, err := transitionParams(c)
	if err != nil {
		return err
	}
	tecnico, err := transitionTecnico(c, principal)
	if err != nil {
		return err
	}
	pend, err := h.service.AceitarAnalise(c.Context(), id, tecnico, principal.Usuario.Nome)
	return transitionResponse(c, pend, err)
}

// AceitarResolucao POST /pendencias/:id/aceitar-resolucao.
func (h *FluxoHandler) AceitarResolucao(c *fiber.Ctx) error {
	principal, id, err := transitionParams(c)
	if err != nil {
		return err
	}
	tecnico, err := transitionTecnico(c, principal)
	if err != nil {
		return err
	}
	pend, err := h.service.AceitarResolucao(c.Context(), id, tecnico, principal.Usuario.Nome)
	return transitionResponse(c, pend, err)
}

// EnviarParaTestes POST /pendencias/:id/enviar-testes.
func (h *FluxoHandler) EnviarParaTestes(c *fiber.Ctx) error {
	principal, id, err := transitionParams(c)
	if err != nil {
		return err
	}
	tecnico, err := transitionTecnico(c, principal)
	if err != nil {
		return err
	}
	pend, err := h.service.EnviarParaTestes(c.Context(), id, tecnico, principal.Usuario.Nome)
	return transitionResponse(c, pend, err)
}

// AguardarCliente POST /pendencias/:id/aguardar-cliente.
func (h *FluxoHandler) AguardarCliente(c *fiber.Ctx) error {
	principal, id, err := transitionParams(c)
	if err != nil {
		return err
	}
	tecnico, err := transitionTecnico(c, principal)
	if err != nil {
		return err
	}
	pend, err := h.service.AguardarCliente(c.Context(), id, tecnico, principal.Usuario.Nome)
	return transitionResponse(c, pend, err)
}

// Rejeitar POST /pendencias/:id/rejeitar.
func (h *FluxoHandler) Rejeitar(c *fiber.Ctx) error {
	principal, id, err := transitionParams(c)
	if err != nil {
		return err
	}
	var req dto.RejeitarRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	pend, err := h.service.Rejeitar(c.Context(), id, req.Motivo, principal.Usuario.Nome)
	return transitionResponse(c, pend, err)
}

// Resolver POST /pendencias/:id/resolver.
func (h *FluxoHandler) Resolver(c *fiber.Ctx) error {
	principal, id, err := transitionParams(c)
	if err != nil {
		return err
	}
	var req dto.ResolverRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}
	pend, err := h.service.Resolver(c.Context(), id, req.SolucaoOrientacao, principal.Usuario.Nome)
	return transitionResponse(c, pend, err)
}

func transitionParams(c *fiber.Ctx) (*auth.Principal, int64, error) {
	principal, err := requirePrincipal(c)
	if err != nil {
		return nil, 0, err
	}
	id, err := parsePendenciaID(c)
	if err != nil {
		return nil, 0, err
	}
	return principal, id, nil
}

// transitionTecnico reads the tecnico from the payload; when the body is
// empty the authenticated usuario takes the work themselves.
func transitionTecnico(c *fiber.Ctx, principal *auth.Principal) (string, error) {
	var req dto.TecnicoRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return "", apperrors.NewValidationError("invalid payload", nil)
		}
	}
	if req.Tecnico == "" {
		return principal.Usuario.Nome, nil
	}
	return req.Tecnico, nil
}

func transitionResponse(c *fiber.Ctx, pend *domain.Pendencia, err error) error {
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ToSummary(pend)})
}
