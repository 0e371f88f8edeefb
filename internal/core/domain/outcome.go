// internal/core/domain/outcome.go
package domain

import "time"

// OutcomeStatus es la etiqueta del variante FetchOutcome.
type OutcomeStatus int

const (
	// OutcomePending es el valor cero: la tarea todavía no produjo resultado.
	OutcomePending OutcomeStatus = iota

	// OutcomeSuccess indica que la tarea terminó a tiempo con un payload completo.
	OutcomeSuccess

	// OutcomeFailure indica error de conexión, de lectura o cancelación por deadline.
	OutcomeFailure
)

func (s OutcomeStatus) String() string {
	switch s {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	default:
		return "pending"
	}
}

// FetchOutcome es el resultado de una Fetch Task para una Source.
// Solo se construye con Succeeded o Failed; payload y mensaje nunca coexisten.
type FetchOutcome struct {
	source   string
	status   OutcomeStatus
	payload  []byte
	message  string
	duration time.Duration
}

// Succeeded construye un resultado exitoso con el cuerpo crudo de la respuesta.
func Succeeded(source string, payload []byte, d time.Duration) FetchOutcome {
	return FetchOutcome{
		source:   source,
		status:   OutcomeSuccess,
		payload:  payload,
		duration: d,
	}
}

// Failed construye un resultado fallido con un mensaje descriptivo.
func Failed(source, message string, d time.Duration) FetchOutcome {
	if message == "" {
		message = "unknown failure"
	}
	return FetchOutcome{
		source:   source,
		status:   OutcomeFailure,
		message:  message,
		duration: d,
	}
}

// Source retorna el nombre de la fuente que produjo el resultado.
func (o FetchOutcome) Source() string { return o.source }

// Status retorna la etiqueta del variante.
func (o FetchOutcome) Status() OutcomeStatus { return o.status }

// IsSuccess indica si el resultado trae payload.
func (o FetchOutcome) IsSuccess() bool { return o.status == OutcomeSuccess }

// Payload retorna el cuerpo crudo solo para resultados exitosos.
func (o FetchOutcome) Payload() ([]byte, bool) {
	if o.status != OutcomeSuccess {
		return nil, false
	}
	return o.payload, true
}

// Message retorna el motivo del fallo; vacío salvo en OutcomeFailure.
func (o FetchOutcome) Message() string { return o.message }

// Duration retorna cuánto tardó la tarea.
func (o FetchOutcome) Duration() time.Duration { return o.duration }
