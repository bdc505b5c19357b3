package domain

import "time"

// EventKind is the closed discriminator for history entries. Earlier
// versions of the system inferred the event type by substring-matching
// the free-text acao label; the kind column makes that explicit.
type EventKind string

const (
	KindDesignada         EventKind = "designada"
	KindAceitaAnalise     EventKind = "aceita_analise"
	KindAceitaResolucao   EventKind = "aceita_resolucao"
	KindEnviadaTeste      EventKind = "enviada_teste"
	KindAguardandoCliente EventKind = "aguardando_cliente"
	KindRejeitada         EventKind = "rejeitada"
	KindResolvida         EventKind = "resolvida"
	KindStatusAlterado    EventKind = "status_alterado"
	KindCampoAlterado     EventKind = "campo_alterado"
)

// CampoStatus is the campo_alterado value used by every status change.
const CampoStatus = "status"

// Historico is an immutable ledger entry. Rows are only ever appended;
// the pendência and triagem records hold current values, this table
// holds who did what and when.
type Historico struct {
	ID            int64
	PendenciaID   int64
	Kind          EventKind
	Acao          string
	Usuario       string
	CampoAlterado *string
	ValorAnterior *string
	ValorNovo     *string
	CreatedAt     time.Time
}

// IsStatusChange reports whether the entry records a status transition.
func (h Historico) IsStatusChange() bool {
	if h.CampoAlterado != nil && *h.CampoAlterado == CampoStatus {
		return true
	}
	return h.Kind == KindStatusAlterado
}
