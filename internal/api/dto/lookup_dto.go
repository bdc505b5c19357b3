package dto

import "github.com/cs-pendencias/pendencia-service/internal/domain"

// ClienteResponse is one picker row.
type ClienteResponse struct {
	IDCliente int64   `json:"id_cliente"`
	Nome      string  `json:"nome"`
	Cidade    *string `json:"cidade,omitempty"`
	UF        *string `json:"uf,omitempty"`
	Contatos  *string `json:"contatos,omitempty"`
	Telefone  *string `json:"telefone,omitempty"`
	Celular   *string `json:"celular,omitempty"`
}

// ClienteListResponse wraps a search result.
type ClienteListResponse struct {
	Items []ClienteResponse `json:"items"`
	Total int               `json:"total"`
}

// ToClienteResponse maps a client.
func ToClienteResponse(cliente domain.Cliente) ClienteResponse {
	return ClienteResponse{
		IDCliente: cliente.IDCliente,
		Nome:      cliente.Nome,
		Cidade:    cliente.Cidade,
		UF:        cliente.UF,
		Contatos:  cliente.Contatos,
		Telefone:  cliente.Telefone,
		Celular:   cliente.Celular,
	}
}

// ModuloResponse is one module row.
type ModuloResponse struct {
	ID   int64  `json:"id"`
	Nome string `json:"nome"`
}

// CreateModuloRequest payload.
type CreateModuloRequest struct {
	Nome string `json:"nome"`
}
