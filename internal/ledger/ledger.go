// Package ledger reads the append-only history of a pendência: it
// orders, filters and paginates entries for display, and reconstructs
// how long the pendência spent in each status.
package ledger

import (
	"sort"
	"strings"

	"github.com/cs-pendencias/pendencia-service/internal/domain"
)

// PageSizes are the page sizes the history table offers.
var PageSizes = []int{10, 25, 50}

// DefaultPageSize is used when the requested size is not offered.
const DefaultPageSize = 10

// SortAsc returns the entries in chronological order. The input is not
// modified.
func SortAsc(entries []domain.Historico) []domain.Historico {
	sorted := append([]domain.Historico(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	return sorted
}

// SortDesc returns the entries most recent first, for display.
func SortDesc(entries []domain.Historico) []domain.Historico {
	sorted := append([]domain.Historico(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[j].CreatedAt.Before(sorted[i].CreatedAt)
	})
	return sorted
}

// Filter keeps entries whose usuario, acao, campo_alterado,
// valor_anterior or valor_novo contains term, case-insensitively. An
// empty term keeps everything.
func Filter(entries []domain.Historico, term string) []domain.Historico {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return entries
	}
	filtered := make([]domain.Historico, 0, len(entries))
	for _, entry := range entries {
		if entryMatches(entry, term) {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

func entryMatches(entry domain.Historico, term string) bool {
	fields := []string{
		entry.Usuario,
		entry.Acao,
		strDeref(entry.CampoAlterado),
		strDeref(entry.ValorAnterior),
		strDeref(entry.ValorNovo),
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func strDeref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Page is one slice of the filtered ledger.
type Page struct {
	Items    []domain.Historico
	Total    int
	Page     int
	PageSize int
	MaxPage  int
	// StartIndex/EndIndex are 1-based display bounds ("11–20 de 37");
	// both are zero when the ledger is empty.
	StartIndex int
	EndIndex   int
}

// Paginate slices entries into the requested page. Sizes outside
// PageSizes fall back to DefaultPageSize, and a page beyond the last
// one clamps to the last page.
func Paginate(entries []domain.Historico, page, pageSize int) Page {
	if !validPageSize(pageSize) {
		pageSize = DefaultPageSize
	}
	total := len(entries)
	maxPage := (total + pageSize - 1) / pageSize
	if maxPage < 1 {
		maxPage = 1
	}
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if end > total {
		end = total
	}
	result := Page{
		Items:    entries[start:end],
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		MaxPage:  maxPage,
	}
	if total > 0 {
		result.StartIndex = start + 1
		result.EndIndex = end
	}
	return result
}

func validPageSize(size int) bool {
	for _, candidate := range PageSizes {
		if size == candidate {
			return true
		}
	}
	return false
}

// Emphasis is a purely cosmetic category used to highlight rows.
type Emphasis string

const (
	EmphasisNone      Emphasis = ""
	EmphasisAnalise   Emphasis = "analise"
	EmphasisResolucao Emphasis = "resolucao"
	EmphasisRejeitada Emphasis = "rejeitada"
)

// Classify assigns the display emphasis of an entry.
func Classify(entry domain.Historico) Emphasis {
	switch entry.Kind {
	case domain.KindAceitaAnalise:
		return EmphasisAnalise
	case domain.KindAceitaResolucao:
		return EmphasisResolucao
	case domain.KindRejeitada:
		return EmphasisRejeitada
	}
	return EmphasisNone
}
