// internal/platform/ui/noop_presenter.go
package ui

import (
	"context"

	"arlo/internal/core/ports"
)

// NoopPresenter es una implementación vacía del Presenter
// que no produce ninguna salida. Útil para modo quiet o servidor.
type NoopPresenter struct{}

// NewNoopPresenter crea una instancia del presenter sin salida
func NewNoopPresenter() *NoopPresenter {
	return &NoopPresenter{}
}

// Notify no hace nada
func (n *NoopPresenter) Notify(ctx context.Context, event ports.Event) error { return nil }

// Info no hace nada
func (n *NoopPresenter) Info(msg string) {}

// Warning no hace nada
func (n *NoopPresenter) Warning(msg string) {}

// Error no hace nada
func (n *NoopPresenter) Error(msg string) {}

// Close no hace nada
func (n *NoopPresenter) Close() error {
	return nil
}
