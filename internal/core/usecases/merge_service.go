// internal/core/usecases/merge_service.go
package usecases

import (
	"bytes"
	"encoding/json"
	"fmt"

	"arlo/internal/core/domain"
	"arlo/internal/platform/logx"
)

// MergeService combina los payloads de cada fuente en un único conjunto
// deduplicado por identificador.
// Corre en una sola goroutine, después de que terminó toda la fase de descarga.
type MergeService struct {
	logger  logx.Logger
	idField string
}

// MergeStats resume qué se descartó durante un Merge.
type MergeStats struct {
	SourcesSkipped  int // fuentes con Failure
	PayloadsInvalid int // payloads que no son un arreglo JSON
	NonObjects      int // elementos que no son objetos
	MissingID       int // objetos sin identificador de texto no vacío
	Duplicates      int // objetos cuyo identificador ya estaba presente
	Kept            int
}

// NewMergeService crea una nueva instancia del servicio de merge.
// Un idField vacío usa domain.DefaultIDField.
func NewMergeService(logger logx.Logger, idField string) *MergeService {
	if logger == nil {
		logger = logx.NewNop()
	}
	if idField == "" {
		idField = domain.DefaultIDField
	}
	return &MergeService{
		logger:  logger.With("component", "merge-service"),
		idField: idField,
	}
}

// IDField retorna el campo usado para deduplicar.
func (m *MergeService) IDField() string {
	return m.idField
}

// Merge procesa los resultados en orden de fuente y, dentro de cada fuente, en
// orden de arreglo. La primera aparición de cada identificador gana; las
// siguientes se descartan completas, sin combinar campos.
func (m *MergeService) Merge(outcomes []domain.FetchOutcome) (*domain.MergedSet, MergeStats) {
	set := domain.NewMergedSet()
	var stats MergeStats

	for _, outcome := range outcomes {
		payload, ok := outcome.Payload()
		if !ok {
			stats.SourcesSkipped++
			m.logger.Debug("skipping failed source", "source", outcome.Source(), "reason", outcome.Message())
			continue
		}

		values, err := parseArray(payload)
		if err != nil {
			stats.PayloadsInvalid++
			m.logger.Warn("source payload is not a JSON array, ignoring",
				"source", outcome.Source(),
				"error", err.Error(),
			)
			continue
		}

		kept := 0
		for _, raw := range values {
			fields, isObject := decodeObject(raw)
			if !isObject {
				stats.NonObjects++
				continue
			}

			id, ok := extractID(fields, m.idField)
			if !ok {
				stats.MissingID++
				continue
			}

			if !set.Insert(domain.Record{ID: id, Fields: fields}) {
				stats.Duplicates++
				continue
			}
			kept++
		}

		m.logger.Debug("source merged",
			"source", outcome.Source(),
			"entries", len(values),
			"kept", kept,
		)
	}

	stats.Kept = set.Len()
	m.logger.Debug("merge completed",
		"records", stats.Kept,
		"duplicates", stats.Duplicates,
		"non_objects", stats.NonObjects,
		"missing_id", stats.MissingID,
		"invalid_payloads", stats.PayloadsInvalid,
	)
	return set, stats
}

// Serialize emite los registros ordenados por identificador como arreglo JSON.
// Un conjunto vacío produce [].
func (m *MergeService) Serialize(set *domain.MergedSet, pretty bool) ([]byte, error) {
	records := []domain.Record{}
	if set != nil {
		records = set.Records()
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSerializeFailed, err)
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// parseArray decodifica un payload como secuencia de valores JSON.
func parseArray(payload []byte) ([]json.RawMessage, error) {
	var values []json.RawMessage
	if err := json.Unmarshal(payload, &values); err != nil {
		return nil, err
	}
	return values, nil
}

// decodeObject retorna los campos de raw si es un objeto JSON.
func decodeObject(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, false
	}
	return fields, true
}

// extractID lee field como string JSON no vacío.
func extractID(fields map[string]json.RawMessage, field string) (string, bool) {
	raw, ok := fields[field]
	if !ok {
		return "", false
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '"' {
		return "", false
	}

	var id string
	if err := json.Unmarshal(trimmed, &id); err != nil || id == "" {
		return "", false
	}
	return id, true
}
