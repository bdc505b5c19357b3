package dto

import "github.com/cs-pendencias/pendencia-service/internal/integration/trello"

// CriarCardRequest payload.
type CriarCardRequest struct {
	IDList string `json:"id_list"`
}

// VincularCardRequest payload.
type VincularCardRequest struct {
	Link string `json:"link"`
}

// CardResponse mirrors the linked card.
type CardResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Desc     string `json:"desc,omitempty"`
	ShortURL string `json:"short_url"`
	Lista    string `json:"lista,omitempty"`
	Quadro   string `json:"quadro,omitempty"`
}

// ToCardResponse maps a Trello card.
func ToCardResponse(card *trello.Card) CardResponse {
	resp := CardResponse{
		ID:       card.ID,
		Name:     card.Name,
		Desc:     card.Desc,
		ShortURL: card.ShortURL,
	}
	if card.List != nil {
		resp.Lista = card.List.Name
	}
	if card.Board != nil {
		resp.Quadro = card.Board.Name
	}
	return resp
}
