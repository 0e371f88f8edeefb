// internal/core/domain/search_result.go
package domain

import "time"

// SearchResult agrupa todo lo producido por una ejecución del pipeline.
type SearchResult struct {
	// ID identificador único de la ejecución
	ID string

	// Keyword término buscado, sin codificar
	Keyword string

	// Outcomes un resultado por fuente, en el orden de configuración
	Outcomes []FetchOutcome

	// Records registros deduplicados, ordenados por ID
	Records []Record

	// Payload forma serializada de Records (arreglo JSON)
	Payload []byte

	StartTime time.Time
	EndTime   time.Time
}

// Duration retorna la duración total de la ejecución.
func (r *SearchResult) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

// Failed retorna los resultados fallidos.
func (r *SearchResult) Failed() []FetchOutcome {
	var failed []FetchOutcome
	for _, o := range r.Outcomes {
		if !o.IsSuccess() {
			failed = append(failed, o)
		}
	}
	return failed
}

// Succeeded cuenta las fuentes que respondieron a tiempo.
func (r *SearchResult) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.IsSuccess() {
			n++
		}
	}
	return n
}
