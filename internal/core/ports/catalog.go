// internal/core/ports/catalog.go
package ports

import "arlo/internal/core/domain"

// SourceCatalog construye las fuentes concretas para una palabra clave.
// La codificación de la palabra clave y el armado de URLs viven detrás de este port.
type SourceCatalog interface {
	// Build retorna una Source por proveedor habilitado, en orden de configuración
	Build(keyword string) ([]domain.Source, error)
}
