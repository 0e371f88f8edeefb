// internal/platform/registry/helpers.go
package registry

import (
	"net/url"
	"strings"

	"arlo/internal/platform/validator"
)

// EncodeKeyword aplica codificación de formulario al término: los espacios
// se convierten en '+', y '&', '=', '?' y no-ASCII se escapan con '%XX'.
func EncodeKeyword(keyword string) string {
	return url.QueryEscape(keyword)
}

// Expand reemplaza cada aparición del placeholder por el término ya codificado.
func Expand(template, keyword string) string {
	return strings.ReplaceAll(template, validator.Placeholder, EncodeKeyword(keyword))
}

// DefaultTemplate es la plantilla del servicio de búsqueda público para un proveedor.
func DefaultTemplate(provider string) string {
	return "http://arlo.vsfs.org/" + provider + "/?search=" + validator.Placeholder
}
