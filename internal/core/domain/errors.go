// internal/core/domain/errors.go
package domain

import "errors"

// Errores de dominio comunes.
var (
	// Source errors
	ErrEmptySourceName = errors.New("source name cannot be empty")
	ErrEmptySourceURL  = errors.New("source url cannot be empty")
	ErrNoSources       = errors.New("no sources configured")

	// Search errors
	ErrEmptyKeyword = errors.New("keyword cannot be empty")
	ErrAborted      = errors.New("search aborted")

	// Output errors
	ErrSerializeFailed = errors.New("failed to serialize merged records")
)
