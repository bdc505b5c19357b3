package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/cs-pendencias/pendencia-service/internal/api/dto"
	"github.com/cs-pendencias/pendencia-service/internal/auth"
	"github.com/cs-pendencias/pendencia-service/internal/domain"
	"github.com/cs-pendencias/pendencia-service/internal/service"
	apperrors "github.com/cs-pendencias/pendencia-service/pkg/util"
)

// PendenciasHandler manages registration, listing and the detail page.
type PendenciasHandler struct {
	service *service.PendenciaService
}

// NewPendenciasHandler constructs handler.
func NewPendenciasHandler(pendenciaService *service.PendenciaService) *PendenciasHandler {
	return &PendenciasHandler{service: pendenciaService}
}

// Create POST /pendencias.
func (h *PendenciasHandler) Create(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreatePendenciaRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	pend, err := h.service.Create(c.Context(), service.PendenciaCreateInput{
		ClienteID:             req.ClienteID,
		ModuloID:              req.ModuloID,
		Tipo:                  req.Tipo,
		Prioridade:            req.Prioridade,
		Tecnico:               req.Tecnico,
		Descricao:             req.Descricao,
		DataRelato:            req.DataRelato,
		PrevisaoConclusao:     req.PrevisaoConclusao,
		Situacao:              req.Situacao,
		EtapasReproducao:      req.EtapasReproducao,
		Frequencia:            req.Frequencia,
		InformacoesAdicionais: req.InformacoesAdicionais,
		Escopo:                req.Escopo,
		Objetivo:              req.Objetivo,
		RecursosNecessarios:   req.RecursosNecessarios,
	}, principal.Usuario.Nome)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.ToSummary(pend)})
}

// List GET /pendencias.
func (h *PendenciasHandler) List(c *fiber.Ctx) error {
	filter := parseListFilter(c)
	items, total, err := h.service.List(c.Context(), filter)
	if err != nil {
		return err
	}
	summaries := make([]dto.PendenciaSummary, 0, len(items))
	for i := range items {
		summaries = append(summaries, dto.ToSummary(&items[i]))
	}
	return c.JSON(fiber.Map{"data": dto.PendenciaListResponse{Items: summaries, Total: total}})
}

// Get GET /pendencias/:id — the composed detail page.
func (h *PendenciasHandler) Get(c *fiber.Ctx) error {
	id, err := parsePendenciaID(c)
	if err != nil {
		return err
	}
	detail, err := h.service.Detail(c.Context(), id, service.HistoricoQuery{
		Term:     c.Query("busca"),
		Page:     c.QueryInt("pagina", 1),
		PageSize: c.QueryInt("por_pagina", 0),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ToDetailResponse(detail)})
}

// Update PUT /pendencias/:id.
func (h *PendenciasHandler) Update(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := parsePendenciaID(c)
	if err != nil {
		return err
	}
	var req dto.UpdatePendenciaRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	pend, err := h.service.Update(c.Context(), id, service.PendenciaUpdateInput{
		ClienteID:             req.ClienteID,
		ModuloID:              req.ModuloID,
		Tipo:                  req.Tipo,
		Prioridade:            req.Prioridade,
		Tecnico:               req.Tecnico,
		Descricao:             req.Descricao,
		DataRelato:            req.DataRelato,
		PrevisaoConclusao:     req.PrevisaoConclusao,
		SolucaoOrientacao:     req.SolucaoOrientacao,
		ReleaseVersao:         req.ReleaseVersao,
		Situacao:              req.Situacao,
		EtapasReproducao:      req.EtapasReproducao,
		Frequencia:            req.Frequencia,
		InformacoesAdicionais: req.InformacoesAdicionais,
		Escopo:                req.Escopo,
		Objetivo:              req.Objetivo,
		RecursosNecessarios:   req.RecursosNecessarios,
	}, principal.Usuario.Nome)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ToSummary(pend)})
}

// Delete DELETE /pendencias/:id.
func (h *PendenciasHandler) Delete(c *fiber.Ctx) error {
	id, err := parsePendenciaID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func parsePendenciaID(c *fiber.Ctx) (int64, error) {
	raw := strings.TrimPrefix(c.Params("id"), "ID-")
	id, err := strconv.ParseInt(strings.TrimLeft(raw, "0"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("id inválido", map[string]any{"id": c.Params("id")})
	}
	return id, nil
}

func requirePrincipal(c *fiber.Ctx) (*auth.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Usuario == nil {
		return nil, apperrors.NewUnauthorized("usuario required")
	}
	return principal, nil
}

func parseListFilter(c *fiber.Ctx) service.ListFilter {
	filter := service.ListFilter{
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
	if raw := c.Query("status"); raw != "" {
		status := domain.Status(raw)
		filter.Status = &status
	}
	if raw := c.Query("tipo"); raw != "" {
		tipo := domain.Tipo(raw)
		filter.Tipo = &tipo
	}
	if raw := c.Query("prioridade"); raw != "" {
		prioridade := domain.Prioridade(raw)
		filter.Prioridade = &prioridade
	}
	if raw := c.Query("cliente_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filter.ClienteID = &id
		}
	}
	if raw := c.Query("modulo_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filter.ModuloID = &id
		}
	}
	if raw := c.Query("tecnico"); raw != "" {
		filter.Tecnico = &raw
	}
	if raw := c.Query("busca"); raw != "" {
		filter.SearchTerm = &raw
	}
	if from := parseDateQuery(c, "relato_de"); from != nil {
		filter.DataRelatoFrom = from
	}
	if to := parseDateQuery(c, "relato_ate"); to != nil {
		filter.DataRelatoTo = to
	}
	return filter
}

func parseDateQuery(c *fiber.Ctx, key string) *time.Time {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return &ts
		}
	}
	return nil
}
