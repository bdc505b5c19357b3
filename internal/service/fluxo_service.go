package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cs-pendencias/pendencia-service/internal/domain"
	"github.com/cs-pendencias/pendencia-service/internal/events"
	"github.com/cs-pendencias/pendencia-service/internal/repository"
	"github.com/cs-pendencias/pendencia-service/pkg/util"
)

// FluxoService drives pendências through the workflow. Every step runs
// inside one transaction: the status update, the triage row and the
// history entries land together or not at all.
type FluxoService struct {
	store      repository.Store
	dispatcher events.Dispatcher
	now        func() time.Time
}

// FluxoDependencies bundles collaborators for the workflow service.
type FluxoDependencies struct {
	Store      repository.Store
	Dispatcher events.Dispatcher
	Now        func() time.Time
}

// NewFluxoService constructs the service.
func NewFluxoService(deps FluxoDependencies) *FluxoService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &FluxoService{
		store:      deps.Store,
		dispatcher: deps.Dispatcher,
		now:        now,
	}
}

var allowedTransitions = map[domain.Status][]domain.Status{
	domain.StatusTriagem:           {domain.StatusAguardandoAceite, domain.StatusRejeitada},
	domain.StatusAguardandoAceite:  {domain.StatusEmAnalise, domain.StatusEmAndamento, domain.StatusRejeitada},
	domain.StatusEmAnalise:         {domain.StatusEmAndamento, domain.StatusEmTeste, domain.StatusAguardandoCliente, domain.StatusResolvido, domain.StatusRejeitada},
	domain.StatusEmAndamento:       {domain.StatusEmTeste, domain.StatusAguardandoCliente, domain.StatusResolvido, domain.StatusRejeitada},
	domain.StatusAguardandoCliente: {domain.StatusEmAnalise, domain.StatusEmAndamento, domain.StatusEmTeste, domain.StatusResolvido, domain.StatusRejeitada},
	domain.StatusEmTeste:           {domain.StatusEmAndamento, domain.StatusAguardandoCliente, domain.StatusResolvido, domain.StatusRejeitada},
	domain.StatusResolvido:         {},
	domain.StatusRejeitada:         {},
}

func isValidTransition(current, next domain.Status) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

func (s *FluxoService) loadForTransition(ctx context.Context, id int64, next domain.Status) (*domain.Pendencia, error) {
	pend, err := s.store.Pendencias.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pend.Status.Terminal() {
		return nil, util.NewInvalidTransition(
			fmt.Sprintf("pendência %s já foi encerrada", pend.Status),
			map[string]any{"status": pend.Status})
	}
	if !isValidTransition(pend.Status, next) {
		return nil, util.NewInvalidTransition(
			fmt.Sprintf("transição de %s para %s não permitida", pend.Status, next),
			map[string]any{"de": pend.Status, "para": next})
	}
	return pend, nil
}

// Designar assigns a triage technician and moves the pendência to
// Aguardando Aceite.
func (s *FluxoService) Designar(ctx context.Context, id int64, tecnicoTriagem, usuario string) (*domain.Pendencia, error) {
	tecnicoTriagem = strings.TrimSpace(tecnicoTriagem)
	if tecnicoTriagem == "" {
		return nil, util.NewValidationError("tecnico_triagem é obrigatório", nil)
	}
	pend, err := s.loadForTransition(ctx, id, domain.StatusAguardandoAceite)
	if err != nil {
		return nil, err
	}

	now := s.now()
	from := pend.Status
	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		if err := tx.Triagens.Upsert(ctx, id, repository.TriagemPatch{
			TecnicoTriagem: &tecnicoTriagem,
			DataTriagem:    &now,
		}); err != nil {
			return err
		}
		if err := tx.Pendencias.SetStatus(ctx, id, domain.StatusAguardandoAceite); err != nil {
			return err
		}
		if err := tx.Historicos.Append(ctx, &domain.Historico{
			PendenciaID:   id,
			Kind:          domain.KindDesignada,
			Acao:          "Pendência designada para " + tecnicoTriagem,
			Usuario:       usuario,
			CampoAlterado: strPtr("tecnico_triagem"),
			ValorNovo:     &tecnicoTriagem,
		}); err != nil {
			return err
		}
		return tx.Historicos.Append(ctx, statusEntry(id, usuario, from, domain.StatusAguardandoAceite))
	})
	if err != nil {
		return nil, err
	}

	pend.Status = domain.StatusAguardandoAceite
	s.publishEvent(ctx, events.Event{
		Type:        events.EventPendenciaDesignada,
		PendenciaID: id,
		Usuario:     usuario,
		Payload:     events.PendenciaDesignadaPayload{TecnicoTriagem: tecnicoTriagem},
	})
	return pend, nil
}

// AceitarAnalise accepts the pendência for analysis only: the accept
// date is recorded but no responsible technician is committed yet.
func (s *FluxoService) AceitarAnalise(ctx context.Context, id int64, tecnico, usuario string) (*domain.Pendencia, error) {
	tecnico = strings.TrimSpace(tecnico)
	if tecnico == "" {
		return nil, util.NewValidationError("tecnico é obrigatório", nil)
	}
	pend, err := s.loadForTransition(ctx, id, domain.StatusEmAnalise)
	if err != nil {
		return nil, err
	}

	now := s.now()
	from := pend.Status
	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		if err := tx.Triagens.Upsert(ctx, id, repository.TriagemPatch{DataAceite: &now}); err != nil {
			return err
		}
		if err := tx.Pendencias.SetStatusTecnico(ctx, id, domain.StatusEmAnalise, tecnico); err != nil {
			return err
		}
		if err := tx.Historicos.Append(ctx, &domain.Historico{
			PendenciaID: id,
			Kind:        domain.KindAceitaAnalise,
			Acao:        "Pendência aceita para análise por " + tecnico,
			Usuario:     usuario,
		}); err != nil {
			return err
		}
		return tx.Historicos.Append(ctx, statusEntry(id, usuario, from, domain.StatusEmAnalise))
	})
	if err != nil {
		return nil, err
	}

	pend.Status = domain.StatusEmAnalise
	pend.Tecnico = tecnico
	s.publishEvent(ctx, events.Event{
		Type:        events.EventPendenciaAceita,
		PendenciaID: id,
		Usuario:     usuario,
		Payload:     events.PendenciaAceitaPayload{Tecnico: tecnico, NovoStatus: domain.StatusEmAnalise},
	})
	return pend, nil
}

// AceitarResolucao accepts the pendência straight into execution,
// committing the technician as responsável.
func (s *FluxoService) AceitarResolucao(ctx context.Context, id int64, tecnico, usuario string) (*domain.Pendencia, error) {
	tecnico = strings.TrimSpace(tecnico)
	if tecnico == "" {
		return nil, util.NewValidationError("tecnico é obrigatório", nil)
	}
	pend, err := s.loadForTransition(ctx, id, domain.StatusEmAndamento)
	if err != nil {
		return nil, err
	}

	now := s.now()
	from := pend.Status
	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		if err := tx.Triagens.Upsert(ctx, id, repository.TriagemPatch{
			TecnicoResponsavel: &tecnico,
			DataAceite:         &now,
		}); err != nil {
			return err
		}
		if err := tx.Pendencias.SetStatusTecnico(ctx, id, domain.StatusEmAndamento, tecnico); err != nil {
			return err
		}
		if err := tx.Historicos.Append(ctx, &domain.Historico{
			PendenciaID:   id,
			Kind:          domain.KindAceitaResolucao,
			Acao:          "Pendência aceita para resolução por " + tecnico,
			Usuario:       usuario,
			CampoAlterado: strPtr("tecnico_responsavel"),
			ValorNovo:     &tecnico,
		}); err != nil {
			return err
		}
		return tx.Historicos.Append(ctx, statusEntry(id, usuario, from, domain.StatusEmAndamento))
	})
	if err != nil {
		return nil, err
	}

	pend.Status = domain.StatusEmAndamento
	pend.Tecnico = tecnico
	s.publishEvent(ctx, events.Event{
		Type:        events.EventPendenciaAceita,
		PendenciaID: id,
		Usuario:     usuario,
		Payload:     events.PendenciaAceitaPayload{Tecnico: tecnico, NovoStatus: domain.StatusEmAndamento},
	})
	return pend, nil
}

// EnviarParaTestes hands the pendência to a tester.
func (s *FluxoService) EnviarParaTestes(ctx context.Context, id int64, tecnico, usuario string) (*domain.Pendencia, error) {
	tecnico = strings.TrimSpace(tecnico)
	if tecnico == "" {
		return nil, util.NewValidationError("tecnico é obrigatório", nil)
	}
	pend, err := s.loadForTransition(ctx, id, domain.StatusEmTeste)
	if err != nil {
		return nil, err
	}

	from := pend.Status
	anterior := pend.Tecnico
	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		if err := tx.Pendencias.SetStatusTecnico(ctx, id, domain.StatusEmTeste, tecnico); err != nil {
			return err
		}
		if err := tx.Historicos.Append(ctx, &domain.Historico{
			PendenciaID:   id,
			Kind:          domain.KindEnviadaTeste,
			Acao:          "Pendência enviada para testes com " + tecnico,
			Usuario:       usuario,
			CampoAlterado: strPtr("tecnico"),
			ValorAnterior: &anterior,
			ValorNovo:     &tecnico,
		}); err != nil {
			return err
		}
		return tx.Historicos.Append(ctx, statusEntry(id, usuario, from, domain.StatusEmTeste))
	})
	if err != nil {
		return nil, err
	}

	pend.Status = domain.StatusEmTeste
	pend.Tecnico = tecnico
	s.publishEvent(ctx, events.Event{
		Type:        events.EventEnviadaParaTestes,
		PendenciaID: id,
		Usuario:     usuario,
		Payload:     events.StatusAlteradoPayload{StatusAnterior: from, NovoStatus: domain.StatusEmTeste},
	})
	return pend, nil
}

// AguardarCliente parks the pendência waiting on the client. An accept
// date already registered is kept; a pendência parked before any accept
// gets one now so the detail view can attribute the wait.
func (s *FluxoService) AguardarCliente(ctx context.Context, id int64, tecnico, usuario string) (*domain.Pendencia, error) {
	tecnico = strings.TrimSpace(tecnico)
	if tecnico == "" {
		return nil, util.NewValidationError("tecnico é obrigatório", nil)
	}
	pend, err := s.loadForTransition(ctx, id, domain.StatusAguardandoCliente)
	if err != nil {
		return nil, err
	}

	now := s.now()
	from := pend.Status
	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		patch := repository.TriagemPatch{TecnicoResponsavel: &tecnico}
		triagem, err := tx.Triagens.GetByPendencia(ctx, id)
		if err != nil {
			return err
		}
		if triagem == nil || triagem.DataAceite == nil {
			patch.DataAceite = &now
		}
		if err := tx.Triagens.Upsert(ctx, id, patch); err != nil {
			return err
		}
		if err := tx.Pendencias.SetStatusTecnico(ctx, id, domain.StatusAguardandoCliente, tecnico); err != nil {
			return err
		}
		if err := tx.Historicos.Append(ctx, &domain.Historico{
			PendenciaID:   id,
			Kind:          domain.KindAguardandoCliente,
			Acao:          "Aguardando retorno do cliente",
			Usuario:       usuario,
			CampoAlterado: strPtr("tecnico_responsavel"),
			ValorNovo:     &tecnico,
		}); err != nil {
			return err
		}
		return tx.Historicos.Append(ctx, statusEntry(id, usuario, from, domain.StatusAguardandoCliente))
	})
	if err != nil {
		return nil, err
	}

	pend.Status = domain.StatusAguardandoCliente
	pend.Tecnico = tecnico
	s.publishEvent(ctx, events.Event{
		Type:        events.EventAguardandoCliente,
		PendenciaID: id,
		Usuario:     usuario,
		Payload:     events.StatusAlteradoPayload{StatusAnterior: from, NovoStatus: domain.StatusAguardandoCliente},
	})
	return pend, nil
}

// Rejeitar closes the pendência as rejected. The motivo is mandatory
// and lands both on the triage row and in the ledger.
func (s *FluxoService) Rejeitar(ctx context.Context, id int64, motivo, usuario string) (*domain.Pendencia, error) {
	motivo = strings.TrimSpace(motivo)
	if motivo == "" {
		return nil, util.NewValidationError("motivo_rejeicao é obrigatório", nil)
	}
	pend, err := s.loadForTransition(ctx, id, domain.StatusRejeitada)
	if err != nil {
		return nil, err
	}

	now := s.now()
	from := pend.Status
	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		if err := tx.Triagens.Upsert(ctx, id, repository.TriagemPatch{
			DataRejeicao:   &now,
			MotivoRejeicao: &motivo,
		}); err != nil {
			return err
		}
		if err := tx.Pendencias.SetStatus(ctx, id, domain.StatusRejeitada); err != nil {
			return err
		}
		if err := tx.Historicos.Append(ctx, &domain.Historico{
			PendenciaID:   id,
			Kind:          domain.KindRejeitada,
			Acao:          "Pendência rejeitada",
			Usuario:       usuario,
			CampoAlterado: strPtr("motivo_rejeicao"),
			ValorNovo:     &motivo,
		}); err != nil {
			return err
		}
		return tx.Historicos.Append(ctx, statusEntry(id, usuario, from, domain.StatusRejeitada))
	})
	if err != nil {
		return nil, err
	}

	pend.Status = domain.StatusRejeitada
	s.publishEvent(ctx, events.Event{
		Type:        events.EventPendenciaRejeitada,
		PendenciaID: id,
		Usuario:     usuario,
		Payload:     events.PendenciaRejeitadaPayload{Motivo: motivo},
	})
	return pend, nil
}

// Resolver closes the pendência as resolved, optionally recording the
// orientation given to the client. A pendência resolved without a
// responsável on record gets the current técnico as one.
func (s *FluxoService) Resolver(ctx context.Context, id int64, solucao *string, usuario string) (*domain.Pendencia, error) {
	pend, err := s.loadForTransition(ctx, id, domain.StatusResolvido)
	if err != nil {
		return nil, err
	}

	from := pend.Status
	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		triagem, err := tx.Triagens.GetByPendencia(ctx, id)
		if err != nil {
			return err
		}
		if (triagem == nil || triagem.TecnicoResponsavel == nil) && pend.Tecnico != "" {
			tecnico := pend.Tecnico
			if err := tx.Triagens.Upsert(ctx, id, repository.TriagemPatch{TecnicoResponsavel: &tecnico}); err != nil {
				return err
			}
		}
		if err := tx.Pendencias.Resolve(ctx, id, solucao); err != nil {
			return err
		}
		if err := tx.Historicos.Append(ctx, &domain.Historico{
			PendenciaID: id,
			Kind:        domain.KindResolvida,
			Acao:        "Pendência resolvida",
			Usuario:     usuario,
		}); err != nil {
			return err
		}
		return tx.Historicos.Append(ctx, statusEntry(id, usuario, from, domain.StatusResolvido))
	})
	if err != nil {
		return nil, err
	}

	pend.Status = domain.StatusResolvido
	if solucao != nil {
		pend.SolucaoOrientacao = solucao
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventPendenciaResolvida,
		PendenciaID: id,
		Usuario:     usuario,
		Payload:     events.PendenciaResolvidaPayload{SolucaoOrientacao: solucao},
	})
	return pend, nil
}

func statusEntry(id int64, usuario string, from, to domain.Status) *domain.Historico {
	return &domain.Historico{
		PendenciaID:   id,
		Kind:          domain.KindStatusAlterado,
		Acao:          fmt.Sprintf("Status alterado de %s para %s", from, to),
		Usuario:       usuario,
		CampoAlterado: strPtr(domain.CampoStatus),
		ValorAnterior: strPtr(string(from)),
		ValorNovo:     strPtr(string(to)),
	}
}

func strPtr(s string) *string { return &s }

func (s *FluxoService) publishEvent(ctx context.Context, event events.Event) {
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
