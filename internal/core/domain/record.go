// internal/core/domain/record.go
package domain

import (
	"bytes"
	"encoding/json"
	"sort"
)

// DefaultIDField es el campo que identifica un registro entre fuentes.
const DefaultIDField = "imdbId"

// Record es un objeto JSON decodificado del payload de una fuente.
// Fields conserva cada valor sin interpretar; ID es el identificador ya extraído.
type Record struct {
	ID     string
	Fields map[string]json.RawMessage
}

// MarshalJSON re-serializa el objeto original campo por campo.
func (r Record) MarshalJSON() ([]byte, error) {
	if r.Fields == nil {
		return []byte("{}"), nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r.Fields); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// MergedSet mapea identificador -> Record. La primera inserción de cada clave gana.
// No es seguro para uso concurrente: se construye en una sola goroutine.
type MergedSet struct {
	records map[string]Record
}

// NewMergedSet crea un conjunto vacío.
func NewMergedSet() *MergedSet {
	return &MergedSet{records: make(map[string]Record)}
}

// Insert agrega r si su ID no está presente. Retorna false si fue descartado
// (ID vacío o duplicado).
func (m *MergedSet) Insert(r Record) bool {
	if r.ID == "" {
		return false
	}
	if _, exists := m.records[r.ID]; exists {
		return false
	}
	m.records[r.ID] = r
	return true
}

// Get retorna el registro con ese ID.
func (m *MergedSet) Get(id string) (Record, bool) {
	r, ok := m.records[id]
	return r, ok
}

// Len retorna la cantidad de identificadores únicos.
func (m *MergedSet) Len() int { return len(m.records) }

// Records retorna los registros ordenados de forma ascendente por ID.
// Nunca retorna nil, para que la serialización produzca [] y no null.
func (m *MergedSet) Records() []Record {
	ids := make([]string, 0, len(m.records))
	for id := range m.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]Record, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.records[id])
	}
	return out
}
