// internal/adapters/output/json.go
package output

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"arlo/internal/core/domain"
)

// WriteJSON escribe el arreglo JSON seguido de un salto de línea.
func WriteJSON(w io.Writer, payload []byte) error {
	if len(payload) == 0 {
		payload = []byte("[]")
	}
	buf := make([]byte, 0, len(payload)+1)
	buf = append(buf, bytes.TrimRight(payload, "\n")...)
	buf = append(buf, '\n')
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

// OutputJSON exporta el resultado a un archivo. Escribe primero a un
// temporal en el mismo directorio y luego renombra, de modo que un lector
// nunca ve un archivo a medio escribir.
func OutputJSON(path string, result *domain.SearchResult) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.CreateTemp(dir, ".arlo-*.json")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	tmp := f.Name()

	if err := WriteJSON(f, result.Payload); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close output file: %w", err)
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to set output permissions: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to move output file into place: %w", err)
	}

	return nil
}
