// internal/core/ports/notifier.go
package ports

import (
	"context"
	"time"
)

// Notifier es el port para notificaciones de eventos del sistema.
// Implementa el patrón Observer para desacoplar el pipeline de búsqueda
// de la presentación (terminal, métricas, etc.).
type Notifier interface {
	// Notify envía una notificación para un evento
	Notify(ctx context.Context, event Event) error

	// Close cierra el notifier y libera recursos
	Close() error
}

// Event representa un evento del sistema.
type Event struct {
	// Type tipo de evento
	Type EventType

	// Timestamp momento del evento
	Timestamp time.Time

	// Source fuente que generó el evento ("orchestrator" para eventos globales)
	Source string

	// RunID ejecución a la que pertenece el evento
	RunID string

	// Data datos específicos del evento
	Data any
}

// EventType define los tipos de eventos del sistema.
type EventType string

const (
	// Search events
	EventTypeSearchStarted   EventType = "search.started"
	EventTypeSearchCompleted EventType = "search.completed"
	EventTypeSearchAborted   EventType = "search.aborted"

	// Source events
	EventTypeSourceStarted   EventType = "source.started"
	EventTypeSourceCompleted EventType = "source.completed"
	EventTypeSourceFailed    EventType = "source.failed"
	EventTypeSourceTimeout   EventType = "source.timeout"
)

// NewEvent crea un nuevo evento.
func NewEvent(eventType EventType, source, runID string, data any) Event {
	return Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    source,
		RunID:     runID,
		Data:      data,
	}
}

// SearchStartedEvent datos para el inicio de una búsqueda.
type SearchStartedEvent struct {
	Keyword string
	Sources []string
	Timeout time.Duration
}

// SourceFinishedEvent datos para la finalización (exitosa o no) de una fuente.
type SourceFinishedEvent struct {
	Bytes    int
	Message  string
	Duration time.Duration
}

// SearchCompletedEvent datos para el fin de una búsqueda.
type SearchCompletedEvent struct {
	Succeeded int
	Failed    int
	Records   int
	Duration  time.Duration
}
