package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/cs-pendencias/pendencia-service/internal/api/dto"
	"github.com/cs-pendencias/pendencia-service/internal/service"
	apperrors "github.com/cs-pendencias/pendencia-service/pkg/util"
)

// TrelloHandler bridges pendências to Trello cards.
type TrelloHandler struct {
	service *service.TrelloService
}

func NewTrelloHandler(trelloService *service.TrelloService) *TrelloHandler {
	return &TrelloHandler{service: trelloService}
}

// Organizations GET /trello/organizations.
func (h *TrelloHandler) Organizations(c *fiber.Ctx) error {
	orgs, err := h.service.Organizations(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": orgs})
}

// Boards GET /trello/organizations/:orgId/boards.
func (h *TrelloHandler) Boards(c *fiber.Ctx) error {
	orgID := c.Params("orgId")
	if orgID == "" {
		return apperrors.NewValidationError("organization id required", nil)
	}
	boards, err := h.service.Boards(c.Context(), orgID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": boards})
}

// Lists GET /trello/boards/:boardId/lists.
func (h *TrelloHandler) Lists(c *fiber.Ctx) error {
	boardID := c.Params("boardId")
	if boardID == "" {
		return apperrors.NewValidationError("board id required", nil)
	}
	lists, err := h.service.Lists(c.Context(), boardID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": lists})
}

// CriarCard POST /pendencias/:id/trello/card.
func (h *TrelloHandler) CriarCard(c *fiber.Ctx) error {
	principal, id, err := transitionParams(c)
	if err != nil {
		return err
	}
	var req dto.CriarCardRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.IDList) == "" {
		return apperrors.NewValidationError("id_list é obrigatório", nil)
	}
	card, err := h.service.CriarCard(c.Context(), id, req.IDList, principal.Usuario.Nome)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.ToCardResponse(card)})
}

// VincularCard POST /pendencias/:id/trello/vincular.
func (h *TrelloHandler) VincularCard(c *fiber.Ctx) error {
	principal, id, err := transitionParams(c)
	if err != nil {
		return err
	}
	var req dto.VincularCardRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	card, err := h.service.VincularCard(c.Context(), id, req.Link, principal.Usuario.Nome)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ToCardResponse(card)})
}

// Card GET /pendencias/:id/trello/card.
func (h *TrelloHandler) Card(c *fiber.Ctx) error {
	id, err := parsePendenciaID(c)
	if err != nil {
		return err
	}
	card, err := h.service.Card(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ToCardResponse(card)})
}
