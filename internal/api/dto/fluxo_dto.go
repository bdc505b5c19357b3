package dto

// DesignarRequest payload.
type DesignarRequest struct {
	TecnicoTriagem string `json:"tecnico_triagem"`
}

// TecnicoRequest payload for acceptance and hand-over steps. An empty
// body means the authenticated usuário takes the work.
type TecnicoRequest struct {
	Tecnico string `json:"tecnico"`
}

// RejeitarRequest payload.
type RejeitarRequest struct {
	Motivo string `json:"motivo_rejeicao"`
}

// ResolverRequest payload.
type ResolverRequest struct {
	SolucaoOrientacao *string `json:"solucao_orientacao"`
}
