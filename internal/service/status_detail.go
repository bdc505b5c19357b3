package service

import (
	"time"

	"github.com/cs-pendencias/pendencia-service/internal/domain"
	"github.com/cs-pendencias/pendencia-service/internal/ledger"
)

// StatusDetail is the header line of the detail page: who holds the
// pendência in its current status and since when.
type StatusDetail struct {
	Status     domain.Status `json:"status"`
	Resumo     string        `json:"resumo"`
	Tecnico    string        `json:"tecnico,omitempty"`
	Quando     *time.Time    `json:"quando,omitempty"`
	Observacao string        `json:"observacao,omitempty"`
}

// DeriveStatusDetail builds the detail from the triage row first and
// falls back to the matching ledger event when a triage field is
// missing. Pure; no repository access.
func DeriveStatusDetail(pend *domain.Pendencia, triagem *domain.Triagem, entries []domain.Historico) StatusDetail {
	asc := ledger.SortAsc(entries)
	detail := StatusDetail{Status: pend.Status}

	switch pend.Status {
	case domain.StatusTriagem:
		detail.Resumo = "Aguardando triagem"
		detail.Quando = pend.DataRelato

	case domain.StatusAguardandoAceite:
		event := lastOfKind(asc, domain.KindDesignada)
		detail.Tecnico = firstNonEmpty(triagemField(triagem, func(t *domain.Triagem) *string { return t.TecnicoTriagem }), eventValorNovo(event))
		detail.Quando = firstTime(triagemTime(triagem, func(t *domain.Triagem) *time.Time { return t.DataTriagem }), eventTime(event))
		detail.Resumo = "Designada para " + orMarker(detail.Tecnico)

	case domain.StatusEmAnalise:
		event := lastOfKind(asc, domain.KindAceitaAnalise)
		detail.Tecnico = firstNonEmpty(pend.Tecnico, eventUsuario(event))
		detail.Quando = firstTime(triagemTime(triagem, func(t *domain.Triagem) *time.Time { return t.DataAceite }), eventTime(event))
		detail.Resumo = "Em análise com " + orMarker(detail.Tecnico)

	case domain.StatusEmAndamento:
		event := lastOfKind(asc, domain.KindAceitaResolucao)
		detail.Tecnico = firstNonEmpty(
			triagemField(triagem, func(t *domain.Triagem) *string { return t.TecnicoResponsavel }),
			pend.Tecnico,
			eventValorNovo(event))
		detail.Quando = firstTime(triagemTime(triagem, func(t *domain.Triagem) *time.Time { return t.DataAceite }), eventTime(event))
		detail.Resumo = "Em execução por " + orMarker(detail.Tecnico)

	case domain.StatusAguardandoCliente:
		event := lastOfKind(asc, domain.KindAguardandoCliente)
		detail.Tecnico = firstNonEmpty(
			triagemField(triagem, func(t *domain.Triagem) *string { return t.TecnicoResponsavel }),
			pend.Tecnico,
			eventValorNovo(event))
		detail.Quando = eventTime(event)
		detail.Resumo = "Aguardando retorno do cliente"

	case domain.StatusEmTeste:
		event := lastOfKind(asc, domain.KindEnviadaTeste)
		detail.Tecnico = firstNonEmpty(pend.Tecnico, eventValorNovo(event))
		detail.Quando = eventTime(event)
		detail.Resumo = "Em teste com " + orMarker(detail.Tecnico)

	case domain.StatusRejeitada:
		event := lastOfKind(asc, domain.KindRejeitada)
		detail.Quando = firstTime(triagemTime(triagem, func(t *domain.Triagem) *time.Time { return t.DataRejeicao }), eventTime(event))
		detail.Observacao = firstNonEmpty(triagemField(triagem, func(t *domain.Triagem) *string { return t.MotivoRejeicao }), eventValorNovo(event))
		detail.Resumo = "Pendência rejeitada"

	case domain.StatusResolvido:
		event := lastOfKind(asc, domain.KindResolvida)
		detail.Quando = eventTime(event)
		if pend.SolucaoOrientacao != nil {
			detail.Observacao = *pend.SolucaoOrientacao
		}
		detail.Resumo = "Pendência resolvida"

	default:
		detail.Resumo = string(pend.Status)
	}

	return detail
}

func lastOfKind(asc []domain.Historico, kind domain.EventKind) *domain.Historico {
	for i := len(asc) - 1; i >= 0; i-- {
		if asc[i].Kind == kind {
			return &asc[i]
		}
	}
	return nil
}

func triagemField(triagem *domain.Triagem, get func(*domain.Triagem) *string) string {
	if triagem == nil {
		return ""
	}
	if value := get(triagem); value != nil {
		return *value
	}
	return ""
}

func triagemTime(triagem *domain.Triagem, get func(*domain.Triagem) *time.Time) *time.Time {
	if triagem == nil {
		return nil
	}
	return get(triagem)
}

func eventValorNovo(event *domain.Historico) string {
	if event == nil || event.ValorNovo == nil {
		return ""
	}
	return *event.ValorNovo
}

func eventUsuario(event *domain.Historico) string {
	if event == nil {
		return ""
	}
	return event.Usuario
}

func eventTime(event *domain.Historico) *time.Time {
	if event == nil {
		return nil
	}
	ts := event.CreatedAt
	return &ts
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

func firstTime(values ...*time.Time) *time.Time {
	for _, value := range values {
		if value != nil {
			return value
		}
	}
	return nil
}

func orMarker(value string) string {
	if value == "" {
		return "—"
	}
	return value
}
