package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cs-pendencias/pendencia-service/internal/domain"
	"github.com/cs-pendencias/pendencia-service/internal/events"
	"github.com/cs-pendencias/pendencia-service/internal/ledger"
	"github.com/cs-pendencias/pendencia-service/internal/repository"
	"github.com/cs-pendencias/pendencia-service/pkg/util"
)

// PendenciaService coordinates registration, editing and the composed
// detail view.
type PendenciaService struct {
	store      repository.Store
	dispatcher events.Dispatcher
	now        func() time.Time
}

// PendenciaDependencies bundles collaborators.
type PendenciaDependencies struct {
	Store      repository.Store
	Dispatcher events.Dispatcher
	Now        func() time.Time
}

// NewPendenciaService constructs the service.
func NewPendenciaService(deps PendenciaDependencies) *PendenciaService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &PendenciaService{store: deps.Store, dispatcher: deps.Dispatcher, now: now}
}

// PendenciaCreateInput describes registration payload.
type PendenciaCreateInput struct {
	ClienteID         *int64
	ModuloID          *int64
	Tipo              domain.Tipo
	Prioridade        domain.Prioridade
	Tecnico           string
	Descricao         string
	DataRelato        *time.Time
	PrevisaoConclusao *time.Time

	Situacao              *string
	EtapasReproducao      *string
	Frequencia            *string
	InformacoesAdicionais *string
	Escopo                *string
	Objetivo              *string
	RecursosNecessarios   *string
}

// PendenciaUpdateInput describes editable fields. Status is never
// edited here; only workflow steps move it.
type PendenciaUpdateInput struct {
	ClienteID         *int64
	ModuloID          *int64
	Tipo              domain.Tipo
	Prioridade        domain.Prioridade
	Tecnico           string
	Descricao         string
	DataRelato        *time.Time
	PrevisaoConclusao *time.Time
	SolucaoOrientacao *string
	ReleaseVersao     *string

	Situacao              *string
	EtapasReproducao      *string
	Frequencia            *string
	InformacoesAdicionais *string
	Escopo                *string
	Objetivo              *string
	RecursosNecessarios   *string
}

// Create registers a pendência. New records always enter in Triagem
// regardless of what the caller sends.
func (s *PendenciaService) Create(ctx context.Context, input PendenciaCreateInput, usuario string) (*domain.Pendencia, error) {
	if strings.TrimSpace(input.Descricao) == "" {
		return nil, util.NewValidationError("descricao é obrigatória", nil)
	}
	if input.Prioridade == "" {
		input.Prioridade = domain.PrioridadeMedia
	}
	if input.Tipo == "" {
		input.Tipo = domain.TipoOutro
	}

	relato := input.DataRelato
	if relato == nil {
		now := s.now()
		relato = &now
	}

	pend := &domain.Pendencia{
		ClienteID:             input.ClienteID,
		ModuloID:              input.ModuloID,
		Tipo:                  input.Tipo,
		Prioridade:            input.Prioridade,
		Status:                domain.StatusTriagem,
		Tecnico:               strings.TrimSpace(input.Tecnico),
		Descricao:             strings.TrimSpace(input.Descricao),
		DataRelato:            relato,
		PrevisaoConclusao:     input.PrevisaoConclusao,
		Situacao:              input.Situacao,
		EtapasReproducao:      input.EtapasReproducao,
		Frequencia:            input.Frequencia,
		InformacoesAdicionais: input.InformacoesAdicionais,
		Escopo:                input.Escopo,
		Objetivo:              input.Objetivo,
		RecursosNecessarios:   input.RecursosNecessarios,
	}

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if err := tx.Pendencias.Create(ctx, pend); err != nil {
			return err
		}
		if pend.Tecnico != "" {
			tecnico := pend.Tecnico
			return tx.Triagens.Upsert(ctx, pend.ID, repository.TriagemPatch{TecnicoRelato: &tecnico})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:        events.EventPendenciaCriada,
		PendenciaID: pend.ID,
		Usuario:     usuario,
		Payload: events.PendenciaCriadaPayload{
			Tipo:       pend.Tipo,
			Prioridade: pend.Prioridade,
			ClienteID:  pend.ClienteID,
			Descricao:  pend.Descricao,
		},
	})
	return pend, nil
}

// Get loads a single pendência.
func (s *PendenciaService) Get(ctx context.Context, id int64) (*domain.Pendencia, error) {
	return s.store.Pendencias.GetByID(ctx, id)
}

// ListFilter narrows the pendência listing.
type ListFilter struct {
	Status         *domain.Status
	Tipo           *domain.Tipo
	Prioridade     *domain.Prioridade
	ClienteID      *int64
	ModuloID       *int64
	Tecnico        *string
	DataRelatoFrom *time.Time
	DataRelatoTo   *time.Time
	SearchTerm     *string
	Limit          int
	Offset         int
}

// List returns pendências most recent first, with the exact total.
func (s *PendenciaService) List(ctx context.Context, filter ListFilter) ([]domain.Pendencia, int, error) {
	return s.store.Pendencias.ListWithFilter(ctx, repository.PendenciaFilter{
		Status:         filter.Status,
		Tipo:           filter.Tipo,
		Prioridade:     filter.Prioridade,
		ClienteID:      filter.ClienteID,
		ModuloID:       filter.ModuloID,
		Tecnico:        filter.Tecnico,
		DataRelatoFrom: filter.DataRelatoFrom,
		DataRelatoTo:   filter.DataRelatoTo,
		SearchTerm:     filter.SearchTerm,
		Limit:          filter.Limit,
		Offset:         filter.Offset,
	})
}

// Update edits a pendência and appends one ledger entry per changed
// field, so edits stay auditable next to workflow steps.
func (s *PendenciaService) Update(ctx context.Context, id int64, input PendenciaUpdateInput, usuario string) (*domain.Pendencia, error) {
	if strings.TrimSpace(input.Descricao) == "" {
		return nil, util.NewValidationError("descricao é obrigatória", nil)
	}

	current, err := s.store.Pendencias.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status.Terminal() {
		return nil, util.NewConflict("pendência encerrada não pode ser editada", map[string]any{"status": current.Status})
	}

	updated := *current
	updated.ClienteID = input.ClienteID
	updated.ModuloID = input.ModuloID
	updated.Tipo = input.Tipo
	updated.Prioridade = input.Prioridade
	updated.Tecnico = strings.TrimSpace(input.Tecnico)
	updated.Descricao = strings.TrimSpace(input.Descricao)
	updated.DataRelato = input.DataRelato
	updated.PrevisaoConclusao = input.PrevisaoConclusao
	updated.SolucaoOrientacao = input.SolucaoOrientacao
	updated.ReleaseVersao = input.ReleaseVersao
	updated.Situacao = input.Situacao
	updated.EtapasReproducao = input.EtapasReproducao
	updated.Frequencia = input.Frequencia
	updated.InformacoesAdicionais = input.InformacoesAdicionais
	updated.Escopo = input.Escopo
	updated.Objetivo = input.Objetivo
	updated.RecursosNecessarios = input.RecursosNecessarios

	changes := diffPendencia(current, &updated)

	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		if err := tx.Pendencias.Update(ctx, &updated); err != nil {
			return err
		}
		for _, change := range changes {
			entry := &domain.Historico{
				PendenciaID:   id,
				Kind:          domain.KindCampoAlterado,
				Acao:          fmt.Sprintf("Campo %s alterado", change.campo),
				Usuario:       usuario,
				CampoAlterado: strPtr(change.campo),
				ValorAnterior: change.anterior,
				ValorNovo:     change.novo,
			}
			if err := tx.Historicos.Append(ctx, entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a pendência; history and triage rows cascade in the
// schema.
func (s *PendenciaService) Delete(ctx context.Context, id int64) error {
	return s.store.Pendencias.Delete(ctx, id)
}

// HistoricoQuery selects a slice of the ledger for display.
type HistoricoQuery struct {
	Term     string
	Page     int
	PageSize int
}

// HistoricoView is one rendered ledger row.
type HistoricoView struct {
	Entry    domain.Historico
	Emphasis ledger.Emphasis
}

// Detail is the composed detail page payload.
type Detail struct {
	Pendencia    *domain.Pendencia
	Codigo       string
	Triagem      *domain.Triagem
	StatusDetail StatusDetail
	Historico    []HistoricoView
	HistoricoPag ledger.Page
	Segments     []ledger.Segment
	TempoTotal   time.Duration
}

// Detail loads everything the detail page needs in one call.
func (s *PendenciaService) Detail(ctx context.Context, id int64, query HistoricoQuery) (*Detail, error) {
	pend, err := s.store.Pendencias.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	triagem, err := s.store.Triagens.GetByPendencia(ctx, id)
	if err != nil {
		return nil, err
	}
	entries, err := s.store.Historicos.ListByPendencia(ctx, id)
	if err != nil {
		return nil, err
	}

	durations := ledger.Reconstruct(pend, entries, s.now())
	page := ledger.Paginate(ledger.SortDesc(ledger.Filter(entries, query.Term)), query.Page, query.PageSize)

	views := make([]HistoricoView, 0, len(page.Items))
	for _, entry := range page.Items {
		views = append(views, HistoricoView{Entry: entry, Emphasis: ledger.Classify(entry)})
	}

	return &Detail{
		Pendencia:    pend,
		Codigo:       domain.FormatPendIDInt(pend.ID),
		Triagem:      triagem,
		StatusDetail: DeriveStatusDetail(pend, triagem, entries),
		Historico:    views,
		HistoricoPag: page,
		Segments:     ledger.Segments(durations),
		TempoTotal:   durations.Total(),
	}, nil
}

type fieldChange struct {
	campo    string
	anterior *string
	novo     *string
}

func diffPendencia(before, after *domain.Pendencia) []fieldChange {
	var changes []fieldChange

	add := func(campo, anterior, novo string) {
		if anterior == novo {
			return
		}
		change := fieldChange{campo: campo}
		if anterior != "" {
			change.anterior = strPtr(anterior)
		}
		if novo != "" {
			change.novo = strPtr(novo)
		}
		changes = append(changes, change)
	}

	add("descricao", before.Descricao, after.Descricao)
	add("tecnico", before.Tecnico, after.Tecnico)
	add("tipo", string(before.Tipo), string(after.Tipo))
	add("prioridade", string(before.Prioridade), string(after.Prioridade))
	add("cliente_id", int64PtrString(before.ClienteID), int64PtrString(after.ClienteID))
	add("modulo_id", int64PtrString(before.ModuloID), int64PtrString(after.ModuloID))
	add("data_relato", timePtrString(before.DataRelato), timePtrString(after.DataRelato))
	add("previsao_conclusao", timePtrString(before.PrevisaoConclusao), timePtrString(after.PrevisaoConclusao))
	add("solucao_orientacao", derefStr(before.SolucaoOrientacao), derefStr(after.SolucaoOrientacao))
	add("release_versao", derefStr(before.ReleaseVersao), derefStr(after.ReleaseVersao))
	add("situacao", derefStr(before.Situacao), derefStr(after.Situacao))
	add("etapas_reproducao", derefStr(before.EtapasReproducao), derefStr(after.EtapasReproducao))
	add("frequencia", derefStr(before.Frequencia), derefStr(after.Frequencia))
	add("informacoes_adicionais", derefStr(before.InformacoesAdicionais), derefStr(after.InformacoesAdicionais))
	add("escopo", derefStr(before.Escopo), derefStr(after.Escopo))
	add("objetivo", derefStr(before.Objetivo), derefStr(after.Objetivo))
	add("recursos_necessarios", derefStr(before.RecursosNecessarios), derefStr(after.RecursosNecessarios))

	return changes
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func int64PtrString(v *int64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d", *v)
}

func timePtrString(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

func (s *PendenciaService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
