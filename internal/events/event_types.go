package events

import (
	"time"

	"github.com/cs-pendencias/pendencia-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventPendenciaCriada     EventType = "pendencia_criada"
	EventPendenciaDesignada  EventType = "pendencia_designada"
	EventPendenciaAceita     EventType = "pendencia_aceita"
	EventStatusAlterado      EventType = "pendencia_status_alterado"
	EventPendenciaRejeitada  EventType = "pendencia_rejeitada"
	EventPendenciaResolvida  EventType = "pendencia_resolvida"
	EventAguardandoCliente   EventType = "pendencia_aguardando_cliente"
	EventEnviadaParaTestes   EventType = "pendencia_enviada_testes"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	PendenciaID int64       `json:"pendencia_id"`
	Usuario     string      `json:"usuario"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// PendenciaCriadaPayload payload.
type PendenciaCriadaPayload struct {
	Tipo       domain.Tipo       `json:"tipo"`
	Prioridade domain.Prioridade `json:"prioridade"`
	ClienteID  *int64            `json:"cliente_id,omitempty"`
	Descricao  string            `json:"descricao"`
}

// PendenciaDesignadaPayload payload.
type PendenciaDesignadaPayload struct {
	TecnicoTriagem string `json:"tecnico_triagem"`
}

// PendenciaAceitaPayload payload.
type PendenciaAceitaPayload struct {
	Tecnico    string        `json:"tecnico"`
	NovoStatus domain.Status `json:"novo_status"`
}

// StatusAlteradoPayload payload.
type StatusAlteradoPayload struct {
	StatusAnterior domain.Status `json:"status_anterior"`
	NovoStatus     domain.Status `json:"novo_status"`
}

// PendenciaRejeitadaPayload payload.
type PendenciaRejeitadaPayload struct {
	Motivo string `json:"motivo"`
}

// PendenciaResolvidaPayload payload.
type PendenciaResolvidaPayload struct {
	SolucaoOrientacao *string `json:"solucao_orientacao,omitempty"`
}
