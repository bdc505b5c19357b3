package domain

import "time"

// Funcao represents the role of a technician inside the support team.
type Funcao string

const (
	FuncaoAdm        Funcao = "Adm"
	FuncaoSupervisor Funcao = "Supervisor"
	FuncaoGerente    Funcao = "Gerente"
	FuncaoTecnico    Funcao = "Tecnico"
)

// Gestor reports whether the role sees the whole triage queue instead of
// only its own assignments.
func (f Funcao) Gestor() bool {
	return f == FuncaoAdm || f == FuncaoSupervisor || f == FuncaoGerente
}

// Usuario is a technician account. Technicians are referenced elsewhere
// by display name (tecnico, tecnico_triagem, ...), not by id.
type Usuario struct {
	ID          int64
	Nome        string
	FoneCelular *string
	Funcao      Funcao
	SenhaHash   string
	Ativo       bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
