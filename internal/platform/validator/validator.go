// internal/platform/validator/validator.go
package validator

import (
	"net"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Placeholder es el marcador que las plantillas de fuente reemplazan por la palabra clave.
const Placeholder = "{keyword}"

// MaxKeywordLength limita el término de búsqueda aceptado.
const MaxKeywordLength = 256

var (
	sourceNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_\-]{0,62}$`)
	envSafeRegex    = regexp.MustCompile(`[^A-Z0-9]+`)
)

// Keyword validators

// IsKeyword verifica que un término de búsqueda sea utilizable:
// no vacío, acotado en longitud y sin caracteres de control.
func IsKeyword(keyword string) bool {
	if IsEmpty(keyword) || !MaxLength(keyword, MaxKeywordLength) {
		return false
	}
	for _, r := range keyword {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// NormalizeKeyword elimina espacios en los extremos. El interior se respeta.
func NormalizeKeyword(keyword string) string {
	return strings.TrimSpace(keyword)
}

// Source validators

// IsSourceName valida un nombre de fuente: minúsculas, dígitos, '-' y '_'.
func IsSourceName(name string) bool {
	return sourceNameRegex.MatchString(name)
}

// EnvName convierte un nombre de fuente en el segmento usado en variables de entorno.
// "the-movie.db" -> "THE_MOVIE_DB".
func EnvName(name string) string {
	return strings.Trim(envSafeRegex.ReplaceAllString(strings.ToUpper(name), "_"), "_")
}

// IsTemplate verifica que una plantilla de URL contenga el placeholder y que,
// una vez expandida, sea una URL http(s) válida.
func IsTemplate(template string) bool {
	if !strings.Contains(template, Placeholder) {
		return false
	}
	expanded := strings.ReplaceAll(template, Placeholder, "probe")
	return IsHTTPURL(expanded)
}

// URL validators

// IsURL verifica si un string es una URL válida.
func IsURL(urlStr string) bool {
	if len(urlStr) == 0 {
		return false
	}

	parsed, err := url.Parse(urlStr)
	if err != nil {
		return false
	}

	// Debe tener scheme y host
	return parsed.Scheme != "" && parsed.Host != ""
}

// IsHTTPURL verifica que la URL sea válida y use http o https.
func IsHTTPURL(urlStr string) bool {
	if !IsURL(urlStr) {
		return false
	}
	parsed, _ := url.Parse(urlStr)
	scheme := strings.ToLower(parsed.Scheme)
	return scheme == "http" || scheme == "https"
}

// IsProxyURL acepta proxies http, https y socks5.
func IsProxyURL(urlStr string) bool {
	if !IsURL(urlStr) {
		return false
	}
	parsed, _ := url.Parse(urlStr)
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "socks5", "socks5h":
		return true
	default:
		return false
	}
}

// NormalizeURL normaliza una URL a su forma canónica.
func NormalizeURL(urlStr string) string {
	urlStr = strings.TrimSpace(urlStr)

	parsed, err := url.Parse(urlStr)
	if err != nil {
		return urlStr
	}

	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Host = strings.ToLower(parsed.Host)

	// Remover puertos por defecto
	if parsed.Scheme == "http" && strings.HasSuffix(parsed.Host, ":80") {
		parsed.Host = strings.TrimSuffix(parsed.Host, ":80")
	}
	if parsed.Scheme == "https" && strings.HasSuffix(parsed.Host, ":443") {
		parsed.Host = strings.TrimSuffix(parsed.Host, ":443")
	}

	// Path y query son case-sensitive: no se tocan
	return parsed.String()
}

// Network validators

// IsListenAddr valida una dirección host:port para el modo servidor.
// El host puede omitirse (":8080").
func IsListenAddr(addr string) bool {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}
	if host != "" && net.ParseIP(host) == nil && !isHostname(host) {
		return false
	}
	return IsPort(port)
}

// IsPort valida que un puerto esté en el rango válido [1-65535].
func IsPort(portStr string) bool {
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return false
	}
	return port >= 1 && port <= 65535
}

func isHostname(host string) bool {
	if len(host) > 253 {
		return false
	}
	for _, label := range strings.Split(host, ".") {
		if label == "" || len(label) > 63 {
			return false
		}
		for _, r := range label {
			if !(r == '-' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
				return false
			}
		}
	}
	return true
}

// Generic validators

// IsEmpty verifica si un string está vacío o solo contiene espacios.
func IsEmpty(s string) bool {
	return len(strings.TrimSpace(s)) == 0
}

// MaxLength verifica que un string no exceda una longitud máxima.
func MaxLength(s string, max int) bool {
	return len(s) <= max
}
