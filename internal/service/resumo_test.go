package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cs-pendencias/pendencia-service/internal/domain"
)

func TestBuildResumoSuporteSections(t *testing.T) {
	relato := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	situacao := "Relatório fecha com total divergente"
	etapas := "Abrir o relatório mensal com filtro por cidade"
	pend := &domain.Pendencia{
		ID:               80,
		Tipo:             domain.TipoSuporte,
		Prioridade:       domain.PrioridadeAlta,
		Tecnico:          "Ana",
		Descricao:        "Divergência no fechamento",
		DataRelato:       &relato,
		Situacao:         &situacao,
		EtapasReproducao: &etapas,
	}
	cliente := &domain.Cliente{IDCliente: 12, Nome: "Prefeitura de Itu"}
	modulo := &domain.Modulo{ID: 3, Nome: "Tributos"}

	resumo := BuildResumo(pend, cliente, modulo)

	assert.Contains(t, resumo, "Pendência: ID-00080")
	assert.Contains(t, resumo, "Cliente: Prefeitura de Itu")
	assert.Contains(t, resumo, "Módulo: Tributos")
	assert.Contains(t, resumo, "Data do relato: 10/03/2026")
	assert.Contains(t, resumo, "## Situação")
	assert.Contains(t, resumo, "## Etapas para reprodução")
	assert.NotContains(t, resumo, "## Escopo")
}

func TestBuildResumoImplantacaoSections(t *testing.T) {
	escopo := "Migrar cadastro de contribuintes"
	objetivo := "Entrar em produção até abril"
	pend := &domain.Pendencia{
		ID:         81,
		Tipo:       domain.TipoImplantacao,
		Prioridade: domain.PrioridadeMedia,
		Descricao:  "Implantação do módulo",
		Escopo:     &escopo,
		Objetivo:   &objetivo,
	}

	resumo := BuildResumo(pend, nil, nil)

	assert.Contains(t, resumo, "## Escopo")
	assert.Contains(t, resumo, "## Objetivo")
	assert.NotContains(t, resumo, "## Situação")
	assert.NotContains(t, resumo, "Cliente:")
}

func TestBuildNotificacaoTruncatesDescricao(t *testing.T) {
	pend := &domain.Pendencia{
		ID:         82,
		Tipo:       domain.TipoOutro,
		Prioridade: domain.PrioridadeCritica,
		Descricao:  strings.Repeat("á", 200),
	}

	msg := BuildNotificacao(pend, "Nova pendência designada:")

	assert.True(t, strings.HasPrefix(msg, "🔴 "))
	assert.Contains(t, msg, "ID-00082")
	assert.Contains(t, msg, "Prioridade: Critica")
	assert.True(t, strings.HasSuffix(msg, "..."))
}

func TestBuildNotificacaoPerTipoExtra(t *testing.T) {
	situacao := "Erro intermitente no cálculo"
	pend := &domain.Pendencia{
		ID:         84,
		Tipo:       domain.TipoSuporte,
		Prioridade: domain.PrioridadeBaixa,
		Descricao:  "Cálculo divergente",
		Situacao:   &situacao,
	}

	msg := BuildNotificacao(pend, "Nova pendência designada:")

	assert.True(t, strings.HasPrefix(msg, "🟢 "))
	assert.Contains(t, msg, "Tipo: Suporte")
	assert.True(t, strings.HasSuffix(msg, situacao))
}

func TestBuildTituloCard(t *testing.T) {
	pend := &domain.Pendencia{ID: 83, Descricao: "Erro ao emitir guia"}
	cliente := &domain.Cliente{Nome: "Câmara de Sorocaba"}

	assert.Equal(t, "ID-00083 - Câmara de Sorocaba - Erro ao emitir guia", BuildTituloCard(pend, cliente))
	assert.Equal(t, "ID-00083 - Erro ao emitir guia", BuildTituloCard(pend, nil))
}
