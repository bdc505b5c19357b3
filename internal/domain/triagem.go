package domain

import "time"

// Triagem carries the flow-control data of a pendência: who reported it,
// who triages it and who resolves it. At most one row exists per
// pendência; it is created lazily the first time a transition needs it.
type Triagem struct {
	PendenciaID        int64
	TecnicoRelato      *string
	TecnicoTriagem     *string
	TecnicoResponsavel *string
	DataTriagem        *time.Time
	DataAceite         *time.Time
	DataRejeicao       *time.Time
	MotivoRejeicao     *string
}
