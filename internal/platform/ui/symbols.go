// internal/platform/ui/symbols.go
package ui

import "github.com/pterm/pterm"

// Status representa el estado de una fuente
type Status int

const (
	StatusPending Status = iota
	StatusRunning
	StatusSuccess
	StatusTimeout
	StatusError
)

// String convierte el status a string
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusSuccess:
		return "success"
	case StatusTimeout:
		return "timeout"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Symbol retorna el símbolo Unicode para cada estado
func (s Status) Symbol() string {
	switch s {
	case StatusPending:
		return "⏸"
	case StatusRunning:
		return "⣾"
	case StatusSuccess:
		return "✓"
	case StatusTimeout:
		return "⏱"
	case StatusError:
		return "✗"
	default:
		return "?"
	}
}

// Style retorna el estilo de la paleta para cada estado
func (s Status) Style() pterm.RGBStyle {
	switch s {
	case StatusRunning:
		return StyleActive
	case StatusSuccess:
		return StyleSuccess
	case StatusTimeout:
		return StyleWarning
	case StatusError:
		return StyleError
	default:
		return StyleSecondary
	}
}

// Icons globales para diferentes elementos de la UI
var (
	IconSearch  = "🔎"
	IconSources = "🔌"
	IconTime    = "⏱"
	IconRecords = "🎬"
	IconSuccess = "✓"
	IconError   = "✗"
)

// Separadores
var (
	SeparatorHeavy = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"
	SeparatorLight = "────────────────────────────────────────────"
)
