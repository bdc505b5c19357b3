package service

import (
	"context"

	"github.com/cs-pendencias/pendencia-service/internal/domain"
	"github.com/cs-pendencias/pendencia-service/internal/integration/trello"
	"github.com/cs-pendencias/pendencia-service/internal/repository"
	"github.com/cs-pendencias/pendencia-service/pkg/util"
)

// TrelloService links pendências to Trello cards.
type TrelloService struct {
	store  repository.Store
	client *trello.Client
}

// NewTrelloService constructs the service.
func NewTrelloService(store repository.Store, client *trello.Client) *TrelloService {
	return &TrelloService{store: store, client: client}
}

// Organizations lists workspaces for the board picker.
func (s *TrelloService) Organizations(ctx context.Context) ([]trello.Organization, error) {
	return s.client.Organizations(ctx)
}

// Boards lists open boards of a workspace.
func (s *TrelloService) Boards(ctx context.Context, organizationID string) ([]trello.Board, error) {
	return s.client.Boards(ctx, organizationID)
}

// Lists returns the columns of a board.
func (s *TrelloService) Lists(ctx context.Context, boardID string) ([]trello.List, error) {
	return s.client.Lists(ctx, boardID)
}

// CriarCard creates a card for the pendência and stores its link.
func (s *TrelloService) CriarCard(ctx context.Context, pendenciaID int64, listID, usuario string) (*trello.Card, error) {
	if listID == "" {
		return nil, util.NewValidationError("id_list é obrigatório", nil)
	}
	pend, err := s.store.Pendencias.GetByID(ctx, pendenciaID)
	if err != nil {
		return nil, err
	}
	if pend.LinkTrello != nil && *pend.LinkTrello != "" {
		return nil, util.NewConflict("pendência já vinculada a um card", map[string]any{"link_trello": *pend.LinkTrello})
	}

	cliente, modulo := s.lookupRefs(ctx, pend)
	card, err := s.client.CreateCard(ctx, listID, BuildTituloCard(pend, cliente), BuildResumo(pend, cliente, modulo))
	if err != nil {
		return nil, err
	}

	if err := s.saveLink(ctx, pendenciaID, card.ShortURL, usuario); err != nil {
		return nil, err
	}
	return card, nil
}

// VincularCard attaches an existing card by link.
func (s *TrelloService) VincularCard(ctx context.Context, pendenciaID int64, link, usuario string) (*trello.Card, error) {
	cardID, ok := trello.ExtractCardID(link)
	if !ok {
		return nil, util.NewValidationError("link do Trello inválido", map[string]any{"link": link})
	}
	if _, err := s.store.Pendencias.GetByID(ctx, pendenciaID); err != nil {
		return nil, err
	}

	card, err := s.client.GetCard(ctx, cardID)
	if err != nil {
		return nil, err
	}

	if err := s.saveLink(ctx, pendenciaID, card.ShortURL, usuario); err != nil {
		return nil, err
	}
	return card, nil
}

// Card fetches the card linked to a pendência.
func (s *TrelloService) Card(ctx context.Context, pendenciaID int64) (*trello.Card, error) {
	pend, err := s.store.Pendencias.GetByID(ctx, pendenciaID)
	if err != nil {
		return nil, err
	}
	if pend.LinkTrello == nil || *pend.LinkTrello == "" {
		return nil, util.NewNotFound("card", map[string]any{"pendencia_id": pendenciaID})
	}
	cardID, ok := trello.ExtractCardID(*pend.LinkTrello)
	if !ok {
		return nil, util.NewValidationError("link do Trello inválido", map[string]any{"link": *pend.LinkTrello})
	}
	return s.client.GetCard(ctx, cardID)
}

func (s *TrelloService) saveLink(ctx context.Context, pendenciaID int64, link, usuario string) error {
	return s.store.WithTx(ctx, func(tx repository.Store) error {
		if err := tx.Pendencias.SetLinkTrello(ctx, pendenciaID, link); err != nil {
			return err
		}
		return tx.Historicos.Append(ctx, &domain.Historico{
			PendenciaID:   pendenciaID,
			Kind:          domain.KindCampoAlterado,
			Acao:          "Card do Trello vinculado",
			Usuario:       usuario,
			CampoAlterado: strPtr("link_trello"),
			ValorNovo:     &link,
		})
	})
}

// lookupRefs loads the card's reference names; a missing cliente or
// modulo only leaves the card description shorter.
func (s *TrelloService) lookupRefs(ctx context.Context, pend *domain.Pendencia) (*domain.Cliente, *domain.Modulo) {
	var cliente *domain.Cliente
	var modulo *domain.Modulo
	if pend.ClienteID != nil {
		if c, err := s.store.Lookups.GetCliente(ctx, *pend.ClienteID); err == nil {
			cliente = c
		}
	}
	if pend.ModuloID != nil {
		if m, err := s.store.Lookups.GetModulo(ctx, *pend.ModuloID); err == nil {
			modulo = m
		}
	}
	return cliente, modulo
}
