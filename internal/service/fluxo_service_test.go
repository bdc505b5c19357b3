package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cs-pendencias/pendencia-service/internal/domain"
	"github.com/cs-pendencias/pendencia-service/internal/events"
	"github.com/cs-pendencias/pendencia-service/internal/repository"
	"github.com/cs-pendencias/pendencia-service/pkg/util"
)

type fakePendenciaRepo struct {
	repository.PendenciaRepository
	items map[int64]*domain.Pendencia
}

func (r *fakePendenciaRepo) GetByID(_ context.Context, id int64) (*domain.Pendencia, error) {
	pend, ok := r.items[id]
	if !ok {
		return nil, util.NewNotFound("pendencia", nil)
	}
	clone := *pend
	return &clone, nil
}

func (r *fakePendenciaRepo) SetStatus(_ context.Context, id int64, status domain.Status) error {
	r.items[id].Status = status
	return nil
}

func (r *fakePendenciaRepo) SetStatusTecnico(_ context.Context, id int64, status domain.Status, tecnico string) error {
	r.items[id].Status = status
	r.items[id].Tecnico = tecnico
	return nil
}

func (r *fakePendenciaRepo) Resolve(_ context.Context, id int64, solucao *string) error {
	r.items[id].Status = domain.StatusResolvido
	if solucao != nil {
		r.items[id].SolucaoOrientacao = solucao
	}
	return nil
}

type fakeTriagemRepo struct {
	repository.TriagemRepository
	rows map[int64]*domain.Triagem
}

func (r *fakeTriagemRepo) Upsert(_ context.Context, pendenciaID int64, patch repository.TriagemPatch) error {
	row, ok := r.rows[pendenciaID]
	if !ok {
		row = &domain.Triagem{PendenciaID: pendenciaID}
		r.rows[pendenciaID] = row
	}
	if patch.TecnicoRelato != nil {
		row.TecnicoRelato = patch.TecnicoRelato
	}
	if patch.TecnicoTriagem != nil {
		row.TecnicoTriagem = patch.TecnicoTriagem
	}
	if patch.TecnicoResponsavel != nil {
		row.TecnicoResponsavel = patch.TecnicoResponsavel
	}
	if patch.DataTriagem != nil {
		row.DataTriagem = patch.DataTriagem
	}
	if patch.DataAceite != nil {
		row.DataAceite = patch.DataAceite
	}
	if patch.DataRejeicao != nil {
		row.DataRejeicao = patch.DataRejeicao
	}
	if patch.MotivoRejeicao != nil {
		row.MotivoRejeicao = patch.MotivoRejeicao
	}
	return nil
}

func (r *fakeTriagemRepo) GetByPendencia(_ context.Context, pendenciaID int64) (*domain.Triagem, error) {
	return r.rows[pendenciaID], nil
}

type fakeHistoricoRepo struct {
	repository.HistoricoRepository
	entries []domain.Historico
	now     func() time.Time
}

func (r *fakeHistoricoRepo) Append(_ context.Context, entry *domain.Historico) error {
	entry.ID = int64(len(r.entries) + 1)
	entry.CreatedAt = r.now()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeHistoricoRepo) ListByPendencia(_ context.Context, pendenciaID int64) ([]domain.Historico, error) {
	var result []domain.Historico
	for _, entry := range r.entries {
		if entry.PendenciaID == pendenciaID {
			result = append(result, entry)
		}
	}
	return result, nil
}

type recordingDispatcher struct {
	published []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

type fluxoFixture struct {
	svc        *FluxoService
	pends      *fakePendenciaRepo
	triagens   *fakeTriagemRepo
	historicos *fakeHistoricoRepo
	dispatcher *recordingDispatcher
	now        time.Time
}

func newFluxoFixture(t *testing.T, status domain.Status) *fluxoFixture {
	t.Helper()
	now := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	f := &fluxoFixture{
		pends:      &fakePendenciaRepo{items: map[int64]*domain.Pendencia{}},
		triagens:   &fakeTriagemRepo{rows: map[int64]*domain.Triagem{}},
		dispatcher: &recordingDispatcher{},
		now:        now,
	}
	f.historicos = &fakeHistoricoRepo{now: func() time.Time { return f.now }}
	f.pends.items[80] = &domain.Pendencia{ID: 80, Status: status, Descricao: "Erro ao emitir boleto"}

	store := repository.Store{
		Pendencias: f.pends,
		Triagens:   f.triagens,
		Historicos: f.historicos,
	}
	f.svc = NewFluxoService(FluxoDependencies{
		Store:      store,
		Dispatcher: f.dispatcher,
		Now:        func() time.Time { return f.now },
	})
	return f
}

func lastEntry(t *testing.T, f *fluxoFixture) domain.Historico {
	t.Helper()
	require.NotEmpty(t, f.historicos.entries)
	return f.historicos.entries[len(f.historicos.entries)-1]
}

func TestDesignar(t *testing.T) {
	f := newFluxoFixture(t, domain.StatusTriagem)

	pend, err := f.svc.Designar(context.Background(), 80, "Ana", "Carlos")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusAguardandoAceite, pend.Status)

	triagem := f.triagens.rows[80]
	require.NotNil(t, triagem)
	require.NotNil(t, triagem.TecnicoTriagem)
	assert.Equal(t, "Ana", *triagem.TecnicoTriagem)
	require.NotNil(t, triagem.DataTriagem)
	assert.Equal(t, f.now, *triagem.DataTriagem)
	assert.Nil(t, triagem.TecnicoResponsavel)

	require.Len(t, f.historicos.entries, 2)
	assert.Equal(t, domain.KindDesignada, f.historicos.entries[0].Kind)
	assert.True(t, lastEntry(t, f).IsStatusChange())

	require.Len(t, f.dispatcher.published, 1)
	assert.Equal(t, events.EventPendenciaDesignada, f.dispatcher.published[0].Type)
}

func TestAceitarAnalise(t *testing.T) {
	f := newFluxoFixture(t, domain.StatusAguardandoAceite)

	pend, err := f.svc.AceitarAnalise(context.Background(), 80, "Ana", "Ana")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusEmAnalise, pend.Status)
	assert.Equal(t, "Ana", pend.Tecnico)

	triagem := f.triagens.rows[80]
	require.NotNil(t, triagem)
	require.NotNil(t, triagem.DataAceite)
	assert.Nil(t, triagem.TecnicoResponsavel, "analysis does not commit a responsável")

	require.Len(t, f.historicos.entries, 2)
	assert.Equal(t, domain.KindAceitaAnalise, f.historicos.entries[0].Kind)
	assert.True(t, lastEntry(t, f).IsStatusChange())
}

func TestAceitarResolucao(t *testing.T) {
	f := newFluxoFixture(t, domain.StatusAguardandoAceite)

	pend, err := f.svc.AceitarResolucao(context.Background(), 80, "Ana", "Ana")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusEmAndamento, pend.Status)
	assert.Equal(t, "Ana", pend.Tecnico)

	triagem := f.triagens.rows[80]
	require.NotNil(t, triagem)
	require.NotNil(t, triagem.TecnicoResponsavel)
	assert.Equal(t, "Ana", *triagem.TecnicoResponsavel)
	require.NotNil(t, triagem.DataAceite)
}

func TestEnviarParaTestes(t *testing.T) {
	f := newFluxoFixture(t, domain.StatusEmAndamento)
	f.pends.items[80].Tecnico = "Ana"

	pend, err := f.svc.EnviarParaTestes(context.Background(), 80, "Bruno", "Ana")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusEmTeste, pend.Status)
	assert.Equal(t, "Bruno", pend.Tecnico)

	require.Len(t, f.historicos.entries, 2)
	first := f.historicos.entries[0]
	assert.Equal(t, domain.KindEnviadaTeste, first.Kind)
	require.NotNil(t, first.CampoAlterado)
	assert.Equal(t, "tecnico", *first.CampoAlterado)
	assert.Equal(t, "Ana", *first.ValorAnterior)
	assert.Equal(t, "Bruno", *first.ValorNovo)
	assert.True(t, lastEntry(t, f).IsStatusChange())
}

func TestAguardarClienteKeepsDataAceite(t *testing.T) {
	f := newFluxoFixture(t, domain.StatusEmAndamento)
	f.pends.items[80].Tecnico = "Bruno"
	aceite := f.now.Add(-48 * time.Hour)
	f.triagens.rows[80] = &domain.Triagem{PendenciaID: 80, DataAceite: &aceite}

	pend, err := f.svc.AguardarCliente(context.Background(), 80, "Ana", "Ana")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusAguardandoCliente, pend.Status)
	assert.Equal(t, "Ana", pend.Tecnico)
	assert.Equal(t, "Ana", f.pends.items[80].Tecnico, "assignee follows the hand-over")

	triagem := f.triagens.rows[80]
	require.NotNil(t, triagem.DataAceite)
	assert.Equal(t, aceite, *triagem.DataAceite, "existing accept date is preserved")
	require.NotNil(t, triagem.TecnicoResponsavel)
	assert.Equal(t, "Ana", *triagem.TecnicoResponsavel)

	require.Len(t, f.historicos.entries, 2)
	assert.Equal(t, domain.KindAguardandoCliente, f.historicos.entries[0].Kind)
	assert.True(t, lastEntry(t, f).IsStatusChange())
}

func TestAguardarClienteSeedsDataAceite(t *testing.T) {
	f := newFluxoFixture(t, domain.StatusEmAnalise)

	_, err := f.svc.AguardarCliente(context.Background(), 80, "Ana", "Ana")
	require.NoError(t, err)

	triagem := f.triagens.rows[80]
	require.NotNil(t, triagem)
	require.NotNil(t, triagem.DataAceite, "parking before any accept still records one")
	assert.Equal(t, f.now, *triagem.DataAceite)
}

func TestRejeitar(t *testing.T) {
	f := newFluxoFixture(t, domain.StatusTriagem)

	pend, err := f.svc.Rejeitar(context.Background(), 80, "Fora de escopo", "Carlos")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusRejeitada, pend.Status)

	triagem := f.triagens.rows[80]
	require.NotNil(t, triagem)
	require.NotNil(t, triagem.MotivoRejeicao)
	assert.Equal(t, "Fora de escopo", *triagem.MotivoRejeicao)
	require.NotNil(t, triagem.DataRejeicao)

	require.Len(t, f.historicos.entries, 2)
	first := f.historicos.entries[0]
	assert.Equal(t, domain.KindRejeitada, first.Kind)
	assert.Equal(t, "motivo_rejeicao", *first.CampoAlterado)
	assert.True(t, lastEntry(t, f).IsStatusChange())
}

func TestRejeitarRequiresMotivo(t *testing.T) {
	f := newFluxoFixture(t, domain.StatusTriagem)

	_, err := f.svc.Rejeitar(context.Background(), 80, "   ", "Carlos")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", util.ToDomainError(err).Code)
	assert.Empty(t, f.historicos.entries)
}

func TestResolver(t *testing.T) {
	f := newFluxoFixture(t, domain.StatusEmTeste)
	solucao := "Reprocessar a remessa"

	pend, err := f.svc.Resolver(context.Background(), 80, &solucao, "Ana")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusResolvido, pend.Status)
	require.NotNil(t, pend.SolucaoOrientacao)
	assert.Equal(t, solucao, *pend.SolucaoOrientacao)

	require.Len(t, f.historicos.entries, 2)
	assert.Equal(t, domain.KindResolvida, f.historicos.entries[0].Kind)
	assert.True(t, lastEntry(t, f).IsStatusChange())
}

func TestResolverSeedsResponsavel(t *testing.T) {
	f := newFluxoFixture(t, domain.StatusEmTeste)
	f.pends.items[80].Tecnico = "Ana"

	_, err := f.svc.Resolver(context.Background(), 80, nil, "Ana")
	require.NoError(t, err)

	triagem := f.triagens.rows[80]
	require.NotNil(t, triagem)
	require.NotNil(t, triagem.TecnicoResponsavel)
	assert.Equal(t, "Ana", *triagem.TecnicoResponsavel)
}

func TestResolverKeepsResponsavel(t *testing.T) {
	f := newFluxoFixture(t, domain.StatusEmAndamento)
	f.pends.items[80].Tecnico = "Bruno"
	responsavel := "Ana"
	f.triagens.rows[80] = &domain.Triagem{PendenciaID: 80, TecnicoResponsavel: &responsavel}

	_, err := f.svc.Resolver(context.Background(), 80, nil, "Bruno")
	require.NoError(t, err)

	triagem := f.triagens.rows[80]
	require.NotNil(t, triagem.TecnicoResponsavel)
	assert.Equal(t, "Ana", *triagem.TecnicoResponsavel, "responsável on record is not overwritten")
}

func TestTerminalStatusAcceptsNothing(t *testing.T) {
	for _, status := range []domain.Status{domain.StatusResolvido, domain.StatusRejeitada} {
		f := newFluxoFixture(t, status)

		_, err := f.svc.Designar(context.Background(), 80, "Ana", "Carlos")
		require.Error(t, err, "status %s", status)
		assert.Equal(t, "INVALID_TRANSITION", util.ToDomainError(err).Code)

		_, err = f.svc.Resolver(context.Background(), 80, nil, "Ana")
		require.Error(t, err)
		assert.Empty(t, f.historicos.entries)
	}
}

func TestInvalidTransitionRejected(t *testing.T) {
	f := newFluxoFixture(t, domain.StatusTriagem)

	_, err := f.svc.EnviarParaTestes(context.Background(), 80, "Ana", "Ana")
	require.Error(t, err)
	assert.Equal(t, "INVALID_TRANSITION", util.ToDomainError(err).Code)
	assert.Equal(t, domain.StatusTriagem, f.pends.items[80].Status, "status untouched")
}
