package dto

import (
	"time"

	"github.com/cs-pendencias/pendencia-service/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Nome  string `json:"nome"`
	Senha string `json:"senha"`
}

// LoginResponse carries the issued token.
type LoginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Usuario   UsuarioResponse `json:"usuario"`
}

// RegisterRequest payload.
type RegisterRequest struct {
	Nome        string        `json:"nome"`
	FoneCelular *string       `json:"fone_celular"`
	Funcao      domain.Funcao `json:"funcao"`
	Senha       string        `json:"senha"`
}

// UsuarioResponse is the public shape of an account.
type UsuarioResponse struct {
	ID          int64         `json:"id"`
	Nome        string        `json:"nome"`
	FoneCelular *string       `json:"fone_celular"`
	Funcao      domain.Funcao `json:"funcao"`
	Gestor      bool          `json:"gestor"`
	Ativo       bool          `json:"ativo"`
}

// ToUsuarioResponse maps an account, never exposing the hash.
func ToUsuarioResponse(usuario *domain.Usuario) UsuarioResponse {
	return UsuarioResponse{
		ID:          usuario.ID,
		Nome:        usuario.Nome,
		FoneCelular: usuario.FoneCelular,
		Funcao:      usuario.Funcao,
		Gestor:      usuario.Funcao.Gestor(),
		Ativo:       usuario.Ativo,
	}
}
