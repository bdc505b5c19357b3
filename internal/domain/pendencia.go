package domain

import (
	"strconv"
	"strings"
	"time"
)

// Status enumerates lifecycle states for pendências. The strings are
// accent-sensitive and double as display labels and matching keys.
type Status string

const (
	StatusTriagem            Status = "Triagem"
	StatusAguardandoAceite   Status = "Aguardando Aceite"
	StatusEmAnalise          Status = "Em Analise"
	StatusEmAndamento        Status = "Em Andamento"
	StatusAguardandoCliente  Status = "Aguardando o Cliente"
	StatusEmTeste            Status = "Em Teste"
	StatusRejeitada          Status = "Rejeitada"
	StatusResolvido          Status = "Resolvido"
)

// AllStatuses lists every valid status in workflow order.
var AllStatuses = []Status{
	StatusTriagem,
	StatusAguardandoAceite,
	StatusEmAnalise,
	StatusEmAndamento,
	StatusAguardandoCliente,
	StatusEmTeste,
	StatusRejeitada,
	StatusResolvido,
}

// Valid reports whether s is one of the eight defined statuses.
func (s Status) Valid() bool {
	for _, candidate := range AllStatuses {
		if s == candidate {
			return true
		}
	}
	return false
}

// Terminal reports whether the workflow ends at s.
func (s Status) Terminal() bool {
	return s == StatusResolvido || s == StatusRejeitada
}

// Tipo enumerates pendência categories.
type Tipo string

const (
	TipoProgramacao Tipo = "Programação"
	TipoSuporte     Tipo = "Suporte"
	TipoImplantacao Tipo = "Implantação"
	TipoAtualizacao Tipo = "Atualizacao" // sem acento para compatibilidade com a base
	TipoOutro       Tipo = "Outro"
)

// Prioridade enumerates urgency levels.
type Prioridade string

const (
	PrioridadeCritica Prioridade = "Critica"
	PrioridadeAlta    Prioridade = "Alta"
	PrioridadeMedia   Prioridade = "Media"
	PrioridadeBaixa   Prioridade = "Baixa"
)

// Pendencia is the aggregate for support requests.
type Pendencia struct {
	ID                int64
	ClienteID         *int64
	ModuloID          *int64
	Tipo              Tipo
	Prioridade        Prioridade
	Status            Status
	Tecnico           string
	Descricao         string
	DataRelato        *time.Time
	PrevisaoConclusao *time.Time
	SolucaoOrientacao *string
	LinkTrello        *string
	ReleaseVersao     *string

	// Campos de detalhe por tipo.
	Situacao              *string
	EtapasReproducao      *string
	Frequencia            *string
	InformacoesAdicionais *string
	Escopo                *string
	Objetivo              *string
	RecursosNecessarios   *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FormatPendID renders an id as 'ID-00080'. Input already bearing the
// prefix is accepted, so the formatting is idempotent.
func FormatPendID(raw string) string {
	trimmed := strings.TrimPrefix(strings.TrimSpace(raw), "ID-")
	if len(trimmed) < 5 {
		trimmed = strings.Repeat("0", 5-len(trimmed)) + trimmed
	}
	return "ID-" + trimmed
}

// FormatPendIDInt renders a numeric id as 'ID-00080'.
func FormatPendIDInt(id int64) string {
	return FormatPendID(strconv.FormatInt(id, 10))
}
