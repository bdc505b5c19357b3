package ledger

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cs-pendencias/pendencia-service/internal/domain"
)

func strPtr(s string) *string { return &s }

func entryAt(offset time.Duration, usuario, acao string) domain.Historico {
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	return domain.Historico{
		PendenciaID: 80,
		Kind:        domain.KindCampoAlterado,
		Acao:        acao,
		Usuario:     usuario,
		CreatedAt:   base.Add(offset),
	}
}

func sampleLedger(n int) []domain.Historico {
	entries := make([]domain.Historico, 0, n)
	for i := 0; i < n; i++ {
		entries = append(entries, entryAt(time.Duration(i)*time.Hour, fmt.Sprintf("tecnico-%d", i%3), fmt.Sprintf("Ação %d", i)))
	}
	return entries
}

func TestSortAscDesc(t *testing.T) {
	entries := []domain.Historico{
		entryAt(2*time.Hour, "ana", "segunda"),
		entryAt(0, "bia", "primeira"),
		entryAt(4*time.Hour, "caio", "terceira"),
	}

	asc := SortAsc(entries)
	require.Len(t, asc, 3)
	assert.Equal(t, "primeira", asc[0].Acao)
	assert.Equal(t, "terceira", asc[2].Acao)

	desc := SortDesc(entries)
	assert.Equal(t, "terceira", desc[0].Acao)
	assert.Equal(t, "primeira", desc[2].Acao)

	// input order is preserved
	assert.Equal(t, "segunda", entries[0].Acao)
}

func TestFilterIsPureNarrowing(t *testing.T) {
	entries := sampleLedger(12)

	assert.Len(t, Filter(entries, ""), len(entries), "empty term keeps everything")
	assert.Len(t, Filter(entries, "   "), len(entries))

	filtered := Filter(entries, "tecnico-1")
	assert.LessOrEqual(t, len(filtered), len(entries))
	for _, entry := range filtered {
		assert.Contains(t, entry.Usuario, "tecnico-1")
	}
}

func TestFilterMatchesAnyTextField(t *testing.T) {
	entry := domain.Historico{
		Usuario:       "Ana Souza",
		Acao:          "Status alterado para Em Andamento",
		CampoAlterado: strPtr("status"),
		ValorAnterior: strPtr("Aguardando Aceite"),
		ValorNovo:     strPtr("Em Andamento"),
	}
	entries := []domain.Historico{entry}

	assert.Len(t, Filter(entries, "ana souza"), 1, "usuario, case-insensitive")
	assert.Len(t, Filter(entries, "ALTERADO"), 1, "acao")
	assert.Len(t, Filter(entries, "status"), 1, "campo_alterado")
	assert.Len(t, Filter(entries, "aceite"), 1, "valor_anterior")
	assert.Len(t, Filter(entries, "andamento"), 1, "valor_novo")
	assert.Empty(t, Filter(entries, "rejeitada"))
}

func TestFilterNilFields(t *testing.T) {
	entries := []domain.Historico{{Usuario: "ana", Acao: "criada"}}
	assert.Empty(t, Filter(entries, "xyz"))
	assert.Len(t, Filter(entries, "criada"), 1)
}

func TestPaginateReconstructsLedger(t *testing.T) {
	entries := sampleLedger(37)

	for _, size := range PageSizes {
		var rebuilt []domain.Historico
		page := 1
		for {
			p := Paginate(entries, page, size)
			rebuilt = append(rebuilt, p.Items...)
			if page >= p.MaxPage {
				break
			}
			page++
		}
		require.Len(t, rebuilt, len(entries), "page size %d", size)
		for i := range entries {
			assert.Equal(t, entries[i].Acao, rebuilt[i].Acao)
		}
	}
}

func TestPaginateClampsBeyondLastPage(t *testing.T) {
	entries := sampleLedger(25)

	last := Paginate(entries, 3, 10)
	beyond := Paginate(entries, 99, 10)

	assert.Equal(t, 3, beyond.Page)
	assert.Equal(t, last.Items, beyond.Items)
	assert.Equal(t, 21, beyond.StartIndex)
	assert.Equal(t, 25, beyond.EndIndex)
}

func TestPaginateDefaults(t *testing.T) {
	entries := sampleLedger(30)

	p := Paginate(entries, 0, 7)
	assert.Equal(t, DefaultPageSize, p.PageSize, "unknown size falls back")
	assert.Equal(t, 1, p.Page)
	assert.Len(t, p.Items, DefaultPageSize)

	empty := Paginate(nil, 1, 10)
	assert.Equal(t, 0, empty.Total)
	assert.Equal(t, 1, empty.MaxPage)
	assert.Zero(t, empty.StartIndex)
	assert.Zero(t, empty.EndIndex)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, EmphasisAnalise, Classify(domain.Historico{Kind: domain.KindAceitaAnalise}))
	assert.Equal(t, EmphasisResolucao, Classify(domain.Historico{Kind: domain.KindAceitaResolucao}))
	assert.Equal(t, EmphasisRejeitada, Classify(domain.Historico{Kind: domain.KindRejeitada}))
	assert.Equal(t, EmphasisNone, Classify(domain.Historico{Kind: domain.KindStatusAlterado}))
	assert.Equal(t, EmphasisNone, Classify(domain.Historico{Kind: domain.KindCampoAlterado}))
}
