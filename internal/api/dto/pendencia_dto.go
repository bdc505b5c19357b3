package dto

import (
	"time"

	"github.com/cs-pendencias/pendencia-service/internal/domain"
	"github.com/cs-pendencias/pendencia-service/internal/ledger"
	"github.com/cs-pendencias/pendencia-service/internal/service"
)

// CreatePendenciaRequest payload.
type CreatePendenciaRequest struct {
	ClienteID         *int64            `json:"cliente_id"`
	ModuloID          *int64            `json:"modulo_id"`
	Tipo              domain.Tipo       `json:"tipo"`
	Prioridade        domain.Prioridade `json:"prioridade"`
	Tecnico           string            `json:"tecnico"`
	Descricao         string            `json:"descricao"`
	DataRelato        *time.Time        `json:"data_relato"`
	PrevisaoConclusao *time.Time        `json:"previsao_conclusao"`

	Situacao              *string `json:"situacao"`
	EtapasReproducao      *string `json:"etapas_reproducao"`
	Frequencia            *string `json:"frequencia"`
	InformacoesAdicionais *string `json:"informacoes_adicionais"`
	Escopo                *string `json:"escopo"`
	Objetivo              *string `json:"objetivo"`
	RecursosNecessarios   *string `json:"recursos_necessarios"`
}

// UpdatePendenciaRequest payload.
type UpdatePendenciaRequest struct {
	ClienteID         *int64            `json:"cliente_id"`
	ModuloID          *int64            `json:"modulo_id"`
	Tipo              domain.Tipo       `json:"tipo"`
	Prioridade        domain.Prioridade `json:"prioridade"`
	Tecnico           string            `json:"tecnico"`
	Descricao         string            `json:"descricao"`
	DataRelato        *time.Time        `json:"data_relato"`
	PrevisaoConclusao *time.Time        `json:"previsao_conclusao"`
	SolucaoOrientacao *string           `json:"solucao_orientacao"`
	ReleaseVersao     *string           `json:"release_versao"`

	Situacao              *string `json:"situacao"`
	EtapasReproducao      *string `json:"etapas_reproducao"`
	Frequencia            *string `json:"frequencia"`
	InformacoesAdicionais *string `json:"informacoes_adicionais"`
	Escopo                *string `json:"escopo"`
	Objetivo              *string `json:"objetivo"`
	RecursosNecessarios   *string `json:"recursos_necessarios"`
}

// PendenciaSummary is one listing row.
type PendenciaSummary struct {
	ID                int64             `json:"id"`
	Codigo            string            `json:"codigo"`
	ClienteID         *int64            `json:"cliente_id"`
	ModuloID          *int64            `json:"modulo_id"`
	Tipo              domain.Tipo       `json:"tipo"`
	Prioridade        domain.Prioridade `json:"prioridade"`
	Status            domain.Status     `json:"status"`
	Tecnico           string            `json:"tecnico"`
	Descricao         string            `json:"descricao"`
	DataRelato        *time.Time        `json:"data_relato"`
	PrevisaoConclusao *time.Time        `json:"previsao_conclusao"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// PendenciaListResponse wraps the listing with its exact total.
type PendenciaListResponse struct {
	Items []PendenciaSummary `json:"items"`
	Total int                `json:"total"`
}

// TriagemResponse mirrors the triage row.
type TriagemResponse struct {
	TecnicoRelato      *string    `json:"tecnico_relato"`
	TecnicoTriagem     *string    `json:"tecnico_triagem"`
	TecnicoResponsavel *string    `json:"tecnico_responsavel"`
	DataTriagem        *time.Time `json:"data_triagem"`
	DataAceite         *time.Time `json:"data_aceite"`
	DataRejeicao       *time.Time `json:"data_rejeicao"`
	MotivoRejeicao     *string    `json:"motivo_rejeicao"`
}

// HistoricoEntryResponse is one rendered ledger row.
type HistoricoEntryResponse struct {
	ID            int64            `json:"id"`
	Kind          domain.EventKind `json:"kind"`
	Acao          string           `json:"acao"`
	Usuario       string           `json:"usuario"`
	CampoAlterado *string          `json:"campo_alterado"`
	ValorAnterior *string          `json:"valor_anterior"`
	ValorNovo     *string          `json:"valor_novo"`
	Emphasis      ledger.Emphasis  `json:"emphasis,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

// HistoricoPageResponse is a slice of the ledger plus display bounds.
type HistoricoPageResponse struct {
	Items      []HistoricoEntryResponse `json:"items"`
	Total      int                      `json:"total"`
	Page       int                      `json:"page"`
	PageSize   int                      `json:"page_size"`
	MaxPage    int                      `json:"max_page"`
	StartIndex int                      `json:"start_index"`
	EndIndex   int                      `json:"end_index"`
}

// SegmentResponse is one slice of the status timeline.
type SegmentResponse struct {
	Status   domain.Status `json:"status"`
	Segundos int64         `json:"segundos"`
	Label    string        `json:"label"`
	Percent  float64       `json:"percent"`
	Color    string        `json:"color"`
}

// PendenciaDetailResponse is the composed detail page payload.
type PendenciaDetailResponse struct {
	PendenciaSummary
	SolucaoOrientacao     *string `json:"solucao_orientacao"`
	LinkTrello            *string `json:"link_trello"`
	ReleaseVersao         *string `json:"release_versao"`
	Situacao              *string `json:"situacao"`
	EtapasReproducao      *string `json:"etapas_reproducao"`
	Frequencia            *string `json:"frequencia"`
	InformacoesAdicionais *string `json:"informacoes_adicionais"`
	Escopo                *string `json:"escopo"`
	Objetivo              *string `json:"objetivo"`
	RecursosNecessarios   *string `json:"recursos_necessarios"`

	Triagem           *TriagemResponse      `json:"triagem"`
	StatusDetail      service.StatusDetail  `json:"status_detail"`
	Historico         HistoricoPageResponse `json:"historico"`
	Segments          []SegmentResponse     `json:"timeline"`
	TempoTotalSegundo int64                 `json:"tempo_total_segundos"`
	TempoTotalLabel   string                `json:"tempo_total_label"`
}

// ToSummary maps a domain pendência.
func ToSummary(pend *domain.Pendencia) PendenciaSummary {
	return PendenciaSummary{
		ID:                pend.ID,
		Codigo:            domain.FormatPendIDInt(pend.ID),
		ClienteID:         pend.ClienteID,
		ModuloID:          pend.ModuloID,
		Tipo:              pend.Tipo,
		Prioridade:        pend.Prioridade,
		Status:            pend.Status,
		Tecnico:           pend.Tecnico,
		Descricao:         pend.Descricao,
		DataRelato:        pend.DataRelato,
		PrevisaoConclusao: pend.PrevisaoConclusao,
		CreatedAt:         pend.CreatedAt,
		UpdatedAt:         pend.UpdatedAt,
	}
}

// ToDetailResponse maps the composed detail.
func ToDetailResponse(detail *service.Detail) PendenciaDetailResponse {
	pend := detail.Pendencia
	resp := PendenciaDetailResponse{
		PendenciaSummary:      ToSummary(pend),
		SolucaoOrientacao:     pend.SolucaoOrientacao,
		LinkTrello:            pend.LinkTrello,
		ReleaseVersao:         pend.ReleaseVersao,
		Situacao:              pend.Situacao,
		EtapasReproducao:      pend.EtapasReproducao,
		Frequencia:            pend.Frequencia,
		InformacoesAdicionais: pend.InformacoesAdicionais,
		Escopo:                pend.Escopo,
		Objetivo:              pend.Objetivo,
		RecursosNecessarios:   pend.RecursosNecessarios,
		StatusDetail:          detail.StatusDetail,
		TempoTotalSegundo:     int64(detail.TempoTotal.Seconds()),
		TempoTotalLabel:       ledger.Humanize(detail.TempoTotal),
	}

	if detail.Triagem != nil {
		resp.Triagem = &TriagemResponse{
			TecnicoRelato:      detail.Triagem.TecnicoRelato,
			TecnicoTriagem:     detail.Triagem.TecnicoTriagem,
			TecnicoResponsavel: detail.Triagem.TecnicoResponsavel,
			DataTriagem:        detail.Triagem.DataTriagem,
			DataAceite:         detail.Triagem.DataAceite,
			DataRejeicao:       detail.Triagem.DataRejeicao,
			MotivoRejeicao:     detail.Triagem.MotivoRejeicao,
		}
	}

	resp.Historico = HistoricoPageResponse{
		Items:      make([]HistoricoEntryResponse, 0, len(detail.Historico)),
		Total:      detail.HistoricoPag.Total,
		Page:       detail.HistoricoPag.Page,
		PageSize:   detail.HistoricoPag.PageSize,
		MaxPage:    detail.HistoricoPag.MaxPage,
		StartIndex: detail.HistoricoPag.StartIndex,
		EndIndex:   detail.HistoricoPag.EndIndex,
	}
	for _, view := range detail.Historico {
		resp.Historico.Items = append(resp.Historico.Items, HistoricoEntryResponse{
			ID:            view.Entry.ID,
			Kind:          view.Entry.Kind,
			Acao:          view.Entry.Acao,
			Usuario:       view.Entry.Usuario,
			CampoAlterado: view.Entry.CampoAlterado,
			ValorAnterior: view.Entry.ValorAnterior,
			ValorNovo:     view.Entry.ValorNovo,
			Emphasis:      view.Emphasis,
			CreatedAt:     view.Entry.CreatedAt,
		})
	}

	resp.Segments = make([]SegmentResponse, 0, len(detail.Segments))
	for _, seg := range detail.Segments {
		resp.Segments = append(resp.Segments, SegmentResponse{
			Status:   seg.Status,
			Segundos: int64(seg.Duration.Seconds()),
			Label:    seg.Label,
			Percent:  seg.Percent,
			Color:    seg.Color,
		})
	}

	return resp
}
