// internal/platform/ui/colors.go
package ui

import "github.com/pterm/pterm"

// Paleta "sala oscura": tonos de proyector sobre fondo negro

// Colores primarios
var (
	// MarqueeAmber - Luces de marquesina, headers y elementos principales
	MarqueeAmber = pterm.NewRGB(255, 176, 59)

	// CurtainRed - Telón, errores
	CurtainRed = pterm.NewRGB(200, 40, 50)

	// PopcornGold - Advertencias y timeouts
	PopcornGold = pterm.NewRGB(240, 200, 80)

	// AisleGray - Texto secundario, elementos pendientes
	AisleGray = pterm.NewRGB(110, 110, 110)

	// ProjectorCyan - Haz del proyector, éxito
	ProjectorCyan = pterm.NewRGB(0, 206, 209)

	// ReelOrange - Rollo girando, fuentes en curso
	ReelOrange = pterm.NewRGB(255, 120, 40)
)

// Estilos preconfigurados para diferentes contextos
var (
	StylePrimary   = MarqueeAmber.ToRGBStyle()
	StyleSuccess   = ProjectorCyan.ToRGBStyle()
	StyleWarning   = PopcornGold.ToRGBStyle()
	StyleError     = CurtainRed.ToRGBStyle()
	StyleSecondary = AisleGray.ToRGBStyle()
	StyleActive    = ReelOrange.ToRGBStyle()
)
