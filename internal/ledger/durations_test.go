package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cs-pendencias/pendencia-service/internal/domain"
)

func statusEvent(ts time.Time, from, to domain.Status) domain.Historico {
	campo := domain.CampoStatus
	anterior := string(from)
	novo := string(to)
	return domain.Historico{
		Kind:          domain.KindStatusAlterado,
		Acao:          "Status alterado para " + novo,
		Usuario:       "ana",
		CampoAlterado: &campo,
		ValorAnterior: &anterior,
		ValorNovo:     &novo,
		CreatedAt:     ts,
	}
}

func TestReconstructScenario(t *testing.T) {
	// Triagem for 2 days, Aguardando Aceite for 1 day, Em Andamento for
	// 3 days and still open.
	relato := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	now := relato.Add(6 * 24 * time.Hour)
	pend := &domain.Pendencia{Status: domain.StatusEmAndamento, DataRelato: &relato}

	entries := []domain.Historico{
		statusEvent(relato.Add(2*24*time.Hour), domain.StatusTriagem, domain.StatusAguardandoAceite),
		statusEvent(relato.Add(3*24*time.Hour), domain.StatusAguardandoAceite, domain.StatusEmAndamento),
	}

	durations := Reconstruct(pend, entries, now)

	assert.Equal(t, 2*24*time.Hour, durations[domain.StatusTriagem])
	assert.Equal(t, 1*24*time.Hour, durations[domain.StatusAguardandoAceite])
	assert.Equal(t, 3*24*time.Hour, durations[domain.StatusEmAndamento])
	assert.Zero(t, durations[domain.StatusEmTeste])
	assert.Equal(t, now.Sub(relato), durations.Total())
}

func TestReconstructSumIdentity(t *testing.T) {
	relato := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	now := relato.Add(90 * time.Hour)
	pend := &domain.Pendencia{Status: domain.StatusEmTeste, DataRelato: &relato}

	entries := []domain.Historico{
		statusEvent(relato.Add(4*time.Hour), domain.StatusTriagem, domain.StatusAguardandoAceite),
		statusEvent(relato.Add(10*time.Hour), domain.StatusAguardandoAceite, domain.StatusEmAnalise),
		statusEvent(relato.Add(30*time.Hour), domain.StatusEmAnalise, domain.StatusEmAndamento),
		statusEvent(relato.Add(72*time.Hour), domain.StatusEmAndamento, domain.StatusEmTeste),
	}

	durations := Reconstruct(pend, entries, now)
	assert.Equal(t, now.Sub(relato), durations.Total())
}

func TestReconstructEmptyLedger(t *testing.T) {
	relato := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	now := relato.Add(36 * time.Hour)
	pend := &domain.Pendencia{Status: domain.StatusEmAndamento, DataRelato: &relato}

	durations := Reconstruct(pend, nil, now)

	require.Len(t, durations, 1, "everything lands on the current status")
	assert.Equal(t, now.Sub(relato), durations[domain.StatusEmAndamento])
}

func TestReconstructStopsAtResolution(t *testing.T) {
	relato := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	resolved := relato.Add(48 * time.Hour)
	now := relato.Add(400 * time.Hour)
	pend := &domain.Pendencia{Status: domain.StatusResolvido, DataRelato: &relato}

	campo := domain.CampoStatus
	anterior := string(domain.StatusEmAndamento)
	novo := string(domain.StatusResolvido)
	entries := []domain.Historico{
		statusEvent(relato.Add(24*time.Hour), domain.StatusTriagem, domain.StatusEmAndamento),
		{
			Kind:          domain.KindResolvida,
			Acao:          "Pendência resolvida",
			Usuario:       "ana",
			CampoAlterado: &campo,
			ValorAnterior: &anterior,
			ValorNovo:     &novo,
			CreatedAt:     resolved,
		},
	}

	durations := Reconstruct(pend, entries, now)

	assert.Equal(t, 24*time.Hour, durations[domain.StatusTriagem])
	assert.Equal(t, 24*time.Hour, durations[domain.StatusEmAndamento])
	assert.Equal(t, resolved.Sub(relato), durations.Total(), "time after resolution is not counted")
}

func TestReconstructClampsNegativeIntervals(t *testing.T) {
	relato := time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)
	now := relato.Add(10 * time.Hour)
	pend := &domain.Pendencia{Status: domain.StatusAguardandoAceite, DataRelato: &relato}

	// event timestamped before the report date (clock skew)
	entries := []domain.Historico{
		statusEvent(relato.Add(-2*time.Hour), domain.StatusTriagem, domain.StatusAguardandoAceite),
	}

	durations := Reconstruct(pend, entries, now)
	assert.Zero(t, durations[domain.StatusTriagem])
	assert.Equal(t, now.Sub(relato.Add(-2*time.Hour)), durations[domain.StatusAguardandoAceite])
}

func TestReconstructSeedsFromFirstEvent(t *testing.T) {
	// no data_relato: the first event timestamp opens the timeline and
	// its valor_anterior names the opening status
	first := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	now := first.Add(5 * time.Hour)
	pend := &domain.Pendencia{Status: domain.StatusEmAnalise}

	entries := []domain.Historico{
		statusEvent(first.Add(2*time.Hour), domain.StatusTriagem, domain.StatusEmAnalise),
	}
	// a non-status entry earlier than the status event
	entries = append(entries, domain.Historico{
		Kind:      domain.KindCampoAlterado,
		Acao:      "Campo tecnico alterado",
		Usuario:   "ana",
		CreatedAt: first,
	})

	durations := Reconstruct(pend, entries, now)
	assert.Equal(t, 2*time.Hour, durations[domain.StatusTriagem])
	assert.Equal(t, 3*time.Hour, durations[domain.StatusEmAnalise])
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "20 s", Humanize(20*time.Second))
	assert.Equal(t, "1 min", Humanize(45*time.Second), "45s rounds up to the minute")
	assert.Equal(t, "2 min", Humanize(2*time.Minute))
	assert.Equal(t, "3 h", Humanize(3*time.Hour))
	assert.Equal(t, "1 dia", Humanize(24*time.Hour))
	assert.Equal(t, "3 dias", Humanize(72*time.Hour))
	// thresholds round to the nearest unit, largest unit >= 1 wins
	assert.Equal(t, "1 dia", Humanize(13*time.Hour))
	assert.Equal(t, "0 s", Humanize(0))
	assert.Equal(t, "0 s", Humanize(-time.Minute))
}

func TestSegments(t *testing.T) {
	durations := Durations{
		domain.StatusTriagem:     48 * time.Hour,
		domain.StatusEmAndamento: 48 * time.Hour,
	}

	segments := Segments(durations)
	require.Len(t, segments, len(TimelineStatuses))

	byStatus := map[domain.Status]Segment{}
	for _, seg := range segments {
		byStatus[seg.Status] = seg
	}

	assert.InDelta(t, 50, byStatus[domain.StatusTriagem].Percent, 0.01)
	assert.InDelta(t, 50, byStatus[domain.StatusEmAndamento].Percent, 0.01)
	assert.Equal(t, 0.5, byStatus[domain.StatusEmTeste].Percent, "zero buckets keep the visibility floor")
	assert.Equal(t, "2 dias", byStatus[domain.StatusTriagem].Label)
	assert.Equal(t, "#6B7280", byStatus[domain.StatusTriagem].Color)
}

func TestStatusColorFallback(t *testing.T) {
	assert.Equal(t, "#10B981", StatusColor(domain.StatusResolvido))
	assert.Equal(t, "#607D8B", StatusColor(domain.Status("desconhecido")))
}
