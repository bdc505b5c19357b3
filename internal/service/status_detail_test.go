package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cs-pendencias/pendencia-service/internal/domain"
)

func TestDeriveStatusDetailPrefersTriagem(t *testing.T) {
	triado := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	tecnico := "Ana"
	pend := &domain.Pendencia{ID: 80, Status: domain.StatusAguardandoAceite}
	triagem := &domain.Triagem{PendenciaID: 80, TecnicoTriagem: &tecnico, DataTriagem: &triado}

	detail := DeriveStatusDetail(pend, triagem, nil)

	assert.Equal(t, "Ana", detail.Tecnico)
	require.NotNil(t, detail.Quando)
	assert.Equal(t, triado, *detail.Quando)
	assert.Equal(t, "Designada para Ana", detail.Resumo)
}

func TestDeriveStatusDetailFallsBackToLedger(t *testing.T) {
	created := time.Date(2024, 6, 2, 14, 0, 0, 0, time.UTC)
	tecnico := "Bruno"
	pend := &domain.Pendencia{ID: 80, Status: domain.StatusAguardandoAceite}
	entries := []domain.Historico{{
		PendenciaID: 80,
		Kind:        domain.KindDesignada,
		Usuario:     "Carlos",
		ValorNovo:   &tecnico,
		CreatedAt:   created,
	}}

	detail := DeriveStatusDetail(pend, nil, entries)

	assert.Equal(t, "Bruno", detail.Tecnico)
	require.NotNil(t, detail.Quando)
	assert.Equal(t, created, *detail.Quando)
}

func TestDeriveStatusDetailUsesLatestEvent(t *testing.T) {
	base := time.Date(2024, 6, 2, 14, 0, 0, 0, time.UTC)
	primeiro, segundo := "Ana", "Bruno"
	pend := &domain.Pendencia{ID: 80, Status: domain.StatusEmTeste}
	entries := []domain.Historico{
		{Kind: domain.KindEnviadaTeste, ValorNovo: &segundo, CreatedAt: base.Add(2 * time.Hour)},
		{Kind: domain.KindEnviadaTeste, ValorNovo: &primeiro, CreatedAt: base},
	}

	detail := DeriveStatusDetail(pend, nil, entries)

	assert.Equal(t, "Bruno", detail.Tecnico, "latest event wins")
	assert.Equal(t, base.Add(2*time.Hour), *detail.Quando)
}

func TestDeriveStatusDetailRejeitada(t *testing.T) {
	rejeitada := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	motivo := "Fora de escopo"
	pend := &domain.Pendencia{ID: 80, Status: domain.StatusRejeitada}
	triagem := &domain.Triagem{PendenciaID: 80, DataRejeicao: &rejeitada, MotivoRejeicao: &motivo}

	detail := DeriveStatusDetail(pend, triagem, nil)

	assert.Equal(t, "Pendência rejeitada", detail.Resumo)
	assert.Equal(t, motivo, detail.Observacao)
	assert.Equal(t, rejeitada, *detail.Quando)
}

func TestDeriveStatusDetailResolvido(t *testing.T) {
	solucao := "Atualizar para a versão 2.14"
	pend := &domain.Pendencia{ID: 80, Status: domain.StatusResolvido, SolucaoOrientacao: &solucao}

	detail := DeriveStatusDetail(pend, nil, nil)

	assert.Equal(t, "Pendência resolvida", detail.Resumo)
	assert.Equal(t, solucao, detail.Observacao)
	assert.Nil(t, detail.Quando)
}

func TestDeriveStatusDetailMissingTecnico(t *testing.T) {
	pend := &domain.Pendencia{ID: 80, Status: domain.StatusAguardandoAceite}

	detail := DeriveStatusDetail(pend, nil, nil)

	assert.Equal(t, "Designada para —", detail.Resumo)
	assert.Empty(t, detail.Tecnico)
}
