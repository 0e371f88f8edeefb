// internal/core/domain/source.go
package domain

import (
	"fmt"
	"strings"
)

// Source representa un proveedor de datos ya resuelto para una búsqueda:
// un nombre opaco más la URL completa a consultar. Es inmutable.
type Source struct {
	name string
	url  string
}

// NewSource crea una Source. Nombre y URL son obligatorios.
func NewSource(name, url string) (Source, error) {
	name = strings.TrimSpace(name)
	url = strings.TrimSpace(url)
	if name == "" {
		return Source{}, ErrEmptySourceName
	}
	if url == "" {
		return Source{}, fmt.Errorf("%w: %s", ErrEmptySourceURL, name)
	}
	return Source{name: name, url: url}, nil
}

// Name retorna el identificador de la fuente.
func (s Source) Name() string { return s.name }

// URL retorna el destino de la consulta.
func (s Source) URL() string { return s.url }

func (s Source) String() string { return s.name + " (" + s.url + ")" }
