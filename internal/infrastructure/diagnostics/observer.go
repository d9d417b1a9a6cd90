// Package diagnostics conecta los eventos del motor de conferencia con el logger estructurado.
package diagnostics

import (
	"github.com/jhoicas/conferencia-nfe/internal/domain/conference"
	"github.com/jhoicas/conferencia-nfe/pkg/logger"
)

// Observer escribe cada evento del motor como una entrada de log en nivel debug.
type Observer struct {
	log *logger.Logger
}

var _ conference.LevelObserver = (*Observer)(nil)

// NewObserver construye el observador. Con log nil se usa un logger descartable.
func NewObserver(log *logger.Logger) *Observer {
	if log == nil {
		log = logger.Nop()
	}
	return &Observer{log: log}
}

// Observe implementa conference.Observer.
func (o *Observer) Observe(e conference.Event) {
	o.log.Debug().
		Str("stage", e.Stage).
		Fields(e.Fields).
		Msg(e.Message)
}

// Enabled es falso salvo con el logger en nivel debug o más detallado.
func (o *Observer) Enabled() bool {
	return o.log.Debug().Enabled()
}
