// internal/platform/ui/presenter.go
package ui

import (
	"time"

	"arlo/internal/core/ports"
)

// Presenter muestra el progreso de una búsqueda en la terminal.
// Recibe los eventos del pipeline como cualquier otro observer.
type Presenter interface {
	ports.Notifier

	// Info muestra un mensaje informativo
	Info(msg string)

	// Warning muestra una advertencia
	Warning(msg string)

	// Error muestra un error
	Error(msg string)
}

// SourceProgress representa el progreso de una fuente específica
type SourceProgress struct {
	Name     string
	Status   Status
	Bytes    int
	Message  string
	Duration time.Duration
}
