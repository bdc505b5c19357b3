package ledger

import (
	"fmt"
	"math"
	"time"

	"github.com/cs-pendencias/pendencia-service/internal/domain"
)

// TimelineStatuses are the statuses rendered as timeline segments, in
// display order. Resolvido marks the end of the timeline and has no
// duration of its own.
var TimelineStatuses = []domain.Status{
	domain.StatusTriagem,
	domain.StatusAguardandoAceite,
	domain.StatusEmAnalise,
	domain.StatusEmAndamento,
	domain.StatusAguardandoCliente,
	domain.StatusEmTeste,
	domain.StatusRejeitada,
}

var statusColors = map[domain.Status]string{
	domain.StatusTriagem:           "#6B7280",
	domain.StatusAguardandoAceite:  "#D97706",
	domain.StatusEmAnalise:         "#2563EB",
	domain.StatusEmAndamento:       "#0EA5E9",
	domain.StatusAguardandoCliente: "#EAB308",
	domain.StatusEmTeste:           "#9333EA",
	domain.StatusResolvido:         "#10B981",
	domain.StatusRejeitada:         "#EF4444",
}

const fallbackColor = "#607D8B"

// StatusColor returns the fixed color of a status.
func StatusColor(s domain.Status) string {
	if color, ok := statusColors[s]; ok {
		return color
	}
	return fallbackColor
}

// Durations holds the wall-clock time spent in each status.
type Durations map[domain.Status]time.Duration

// Total sums every bucket.
func (d Durations) Total() time.Duration {
	var total time.Duration
	for _, dur := range d {
		total += dur
	}
	return total
}

// Reconstruct partitions the time from the pendência's report date to
// its resolution (or now) into per-status buckets, walking the status
// change events of the ledger in chronological order. It is a pure
// function recomputed on every read; it holds no cache and tolerates an
// empty ledger, attributing the whole elapsed time to the current
// status. Negative intervals from clock skew are clamped to zero.
func Reconstruct(pend *domain.Pendencia, entries []domain.Historico, now time.Time) Durations {
	asc := SortAsc(entries)

	statusEvents := make([]domain.Historico, 0, len(asc))
	for _, entry := range asc {
		if entry.IsStatusChange() {
			statusEvents = append(statusEvents, entry)
		}
	}

	durations := Durations{}

	current := seedStatus(pend, statusEvents)
	prev := seedTimestamp(pend, asc, now)

	for _, event := range statusEvents {
		durations.add(current, event.CreatedAt.Sub(prev))
		if event.ValorNovo != nil && *event.ValorNovo != "" {
			current = domain.Status(*event.ValorNovo)
		}
		prev = event.CreatedAt
	}

	end := now
	if resolved := resolutionTime(asc); resolved != nil {
		end = *resolved
	}
	durations.add(current, end.Sub(prev))

	return durations
}

func (d Durations) add(status domain.Status, dur time.Duration) {
	if !status.Valid() {
		return
	}
	if dur < 0 {
		dur = 0
	}
	d[status] += dur
}

func seedStatus(pend *domain.Pendencia, statusEvents []domain.Historico) domain.Status {
	if len(statusEvents) > 0 {
		first := statusEvents[0]
		if first.ValorAnterior != nil && *first.ValorAnterior != "" {
			return domain.Status(*first.ValorAnterior)
		}
		if first.ValorNovo != nil && *first.ValorNovo != "" {
			return domain.Status(*first.ValorNovo)
		}
	}
	if pend != nil && pend.Status != "" {
		return pend.Status
	}
	return domain.StatusTriagem
}

func seedTimestamp(pend *domain.Pendencia, asc []domain.Historico, now time.Time) time.Time {
	if pend != nil && pend.DataRelato != nil {
		return *pend.DataRelato
	}
	if len(asc) > 0 {
		return asc[0].CreatedAt
	}
	return now
}

func resolutionTime(asc []domain.Historico) *time.Time {
	for _, entry := range asc {
		if entry.Kind == domain.KindResolvida {
			ts := entry.CreatedAt
			return &ts
		}
		if entry.IsStatusChange() && entry.ValorNovo != nil && domain.Status(*entry.ValorNovo) == domain.StatusResolvido {
			ts := entry.CreatedAt
			return &ts
		}
	}
	return nil
}

// Segment is one proportional slice of the timeline bar.
type Segment struct {
	Status   domain.Status
	Duration time.Duration
	Label    string
	Percent  float64
	Color    string
}

// Segments renders the buckets as proportional segments. Zero-duration
// statuses keep a 0.5% floor so they remain visible and labeled.
func Segments(durations Durations) []Segment {
	total := durations.Total()
	segments := make([]Segment, 0, len(TimelineStatuses))
	for _, status := range TimelineStatuses {
		dur := durations[status]
		percent := 0.5
		if total > 0 {
			percent = math.Round(float64(dur) / float64(total) * 100)
			if percent < 0.5 {
				percent = 0.5
			}
		}
		segments = append(segments, Segment{
			Status:   status,
			Duration: dur,
			Label:    Humanize(dur),
			Percent:  percent,
			Color:    StatusColor(status),
		})
	}
	return segments
}

// Humanize renders a duration with the largest unit whose rounded value
// reaches 1: seconds, minutes, hours, then days. Each step rounds to
// the nearest unit.
func Humanize(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	sec := int64(math.Round(d.Seconds()))
	min := int64(math.Round(float64(sec) / 60))
	hr := int64(math.Round(float64(min) / 60))
	day := int64(math.Round(float64(hr) / 24))
	switch {
	case day >= 1:
		if day > 1 {
			return fmt.Sprintf("%d dias", day)
		}
		return "1 dia"
	case hr >= 1:
		return fmt.Sprintf("%d h", hr)
	case min >= 1:
		return fmt.Sprintf("%d min", min)
	default:
		return fmt.Sprintf("%d s", sec)
	}
}
