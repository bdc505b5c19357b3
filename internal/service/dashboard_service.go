package service

import (
	"context"

	"github.com/cs-pendencias/pendencia-service/internal/domain"
	"github.com/cs-pendencias/pendencia-service/internal/repository"
)

// DashboardService aggregates the landing page numbers and the
// acceptance queue.
type DashboardService struct {
	store repository.Store
}

// NewDashboardService constructs the service.
func NewDashboardService(store repository.Store) *DashboardService {
	return &DashboardService{store: store}
}

// Resumo is the dashboard payload.
type Resumo struct {
	PorStatus     map[domain.Status]int     `json:"por_status"`
	PorPrioridade map[domain.Prioridade]int `json:"por_prioridade"`
	PorTipo       map[domain.Tipo]int       `json:"por_tipo"`
	Total         int                       `json:"total"`
	Abertas       int                       `json:"abertas"`
	Encerradas    int                       `json:"encerradas"`
}

// Resumo computes the counters. Statuses with no rows still appear
// with zero so the cards render a full grid.
func (s *DashboardService) Resumo(ctx context.Context) (*Resumo, error) {
	porStatus, err := s.store.Pendencias.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	porPrioridade, err := s.store.Pendencias.CountByPrioridade(ctx)
	if err != nil {
		return nil, err
	}
	porTipo, err := s.store.Pendencias.CountByTipo(ctx)
	if err != nil {
		return nil, err
	}

	resumo := &Resumo{
		PorStatus:     make(map[domain.Status]int, len(domain.AllStatuses)),
		PorPrioridade: porPrioridade,
		PorTipo:       porTipo,
	}
	for _, status := range domain.AllStatuses {
		count := porStatus[status]
		resumo.PorStatus[status] = count
		resumo.Total += count
		if status.Terminal() {
			resumo.Encerradas += count
		} else {
			resumo.Abertas += count
		}
	}
	return resumo, nil
}

// FilaAceite lists pendências waiting for acceptance. Gestores see the
// whole queue; technicians only what was triaged to them.
func (s *DashboardService) FilaAceite(ctx context.Context, usuario *domain.Usuario) ([]domain.Pendencia, error) {
	if usuario != nil && !usuario.Funcao.Gestor() {
		nome := usuario.Nome
		return s.store.Pendencias.ListAguardandoAceite(ctx, &nome)
	}
	return s.store.Pendencias.ListAguardandoAceite(ctx, nil)
}

// RelatorioTecnicos ranks técnicos responsáveis by open load.
func (s *DashboardService) RelatorioTecnicos(ctx context.Context, limit int) ([]repository.ResponsavelCount, error) {
	return s.store.Triagens.TopResponsaveis(ctx, limit)
}
