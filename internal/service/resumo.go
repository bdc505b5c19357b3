package service

import (
	"fmt"
	"strings"

	"github.com/cs-pendencias/pendencia-service/internal/domain"
)

// BuildResumo renders the descriptive block shared by the Trello card
// description and the O.S. printout. Sections vary by tipo: defects
// carry reproduction data, implantations carry scope data.
func BuildResumo(pend *domain.Pendencia, cliente *domain.Cliente, modulo *domain.Modulo) string {
	var b strings.Builder

	writeLine(&b, "Pendência", domain.FormatPendIDInt(pend.ID))
	if cliente != nil {
		writeLine(&b, "Cliente", cliente.Nome)
	}
	if modulo != nil {
		writeLine(&b, "Módulo", modulo.Nome)
	}
	writeLine(&b, "Tipo", string(pend.Tipo))
	writeLine(&b, "Prioridade", string(pend.Prioridade))
	if pend.Tecnico != "" {
		writeLine(&b, "Técnico", pend.Tecnico)
	}
	if pend.DataRelato != nil {
		writeLine(&b, "Data do relato", pend.DataRelato.Format("02/01/2006"))
	}
	if pend.PrevisaoConclusao != nil {
		writeLine(&b, "Previsão de conclusão", pend.PrevisaoConclusao.Format("02/01/2006"))
	}

	b.WriteString("\n")
	writeBlock(&b, "Descrição", pend.Descricao)

	switch pend.Tipo {
	case domain.TipoProgramacao, domain.TipoSuporte:
		writeOptBlock(&b, "Situação", pend.Situacao)
		writeOptBlock(&b, "Etapas para reprodução", pend.EtapasReproducao)
		writeOptBlock(&b, "Frequência", pend.Frequencia)
		writeOptBlock(&b, "Informações adicionais", pend.InformacoesAdicionais)
	case domain.TipoImplantacao, domain.TipoAtualizacao:
		writeOptBlock(&b, "Escopo", pend.Escopo)
		writeOptBlock(&b, "Objetivo", pend.Objetivo)
		writeOptBlock(&b, "Recursos necessários", pend.RecursosNecessarios)
	default:
		writeOptBlock(&b, "Informações adicionais", pend.InformacoesAdicionais)
	}

	if pend.SolucaoOrientacao != nil && *pend.SolucaoOrientacao != "" {
		writeOptBlock(&b, "Solução / Orientação", pend.SolucaoOrientacao)
	}

	return strings.TrimRight(b.String(), "\n")
}

// BuildNotificacao renders the short WhatsApp message sent when a
// pendência lands on a technician. The header carries the priority
// emoji; the tail adds one per-tipo context line when present.
func BuildNotificacao(pend *domain.Pendencia, titulo string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s\n", prioridadeEmoji(pend.Prioridade), titulo, domain.FormatPendIDInt(pend.ID))
	fmt.Fprintf(&b, "Tipo: %s\n", pend.Tipo)
	fmt.Fprintf(&b, "Prioridade: %s\n", pend.Prioridade)
	b.WriteString(truncate(pend.Descricao, 140))

	var extra *string
	switch pend.Tipo {
	case domain.TipoProgramacao, domain.TipoSuporte:
		extra = pend.Situacao
	case domain.TipoImplantacao, domain.TipoAtualizacao:
		extra = pend.Escopo
	}
	if extra != nil && strings.TrimSpace(*extra) != "" {
		b.WriteString("\n")
		b.WriteString(truncate(*extra, 100))
	}
	return b.String()
}

func prioridadeEmoji(p domain.Prioridade) string {
	switch p {
	case domain.PrioridadeCritica:
		return "🔴"
	case domain.PrioridadeAlta:
		return "🟠"
	case domain.PrioridadeMedia:
		return "🟡"
	default:
		return "🟢"
	}
}

// BuildTituloCard renders the Trello card title.
func BuildTituloCard(pend *domain.Pendencia, cliente *domain.Cliente) string {
	titulo := domain.FormatPendIDInt(pend.ID)
	if cliente != nil {
		titulo += " - " + cliente.Nome
	}
	resumo := truncate(pend.Descricao, 60)
	if resumo != "" {
		titulo += " - " + resumo
	}
	return titulo
}

// truncate cuts at rune boundaries so accented text never breaks.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

func writeLine(b *strings.Builder, label, value string) {
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteString("\n")
}

func writeBlock(b *strings.Builder, label, value string) {
	b.WriteString("## ")
	b.WriteString(label)
	b.WriteString("\n")
	b.WriteString(strings.TrimSpace(value))
	b.WriteString("\n\n")
}

func writeOptBlock(b *strings.Builder, label string, value *string) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return
	}
	writeBlock(b, label, *value)
}
