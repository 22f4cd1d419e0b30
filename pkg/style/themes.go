package style

import (
	"github.com/charmbracelet/lipgloss"
)

// Colors adapt to light and dark terminals
var (
	PrimaryColor   = lipgloss.AdaptiveColor{Light: "#8B5A2B", Dark: "#D2A679"} // roast
	SecondaryColor = lipgloss.AdaptiveColor{Light: "#6C757D", Dark: "#A0A8B0"}

	SuccessColor = lipgloss.AdaptiveColor{Light: "#2E8B57", Dark: "#5FD38D"}
	ErrorColor   = lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#FF6B6B"}
	WarningColor = lipgloss.AdaptiveColor{Light: "#D98E04", Dark: "#FFD166"}
	InfoColor    = lipgloss.AdaptiveColor{Light: "#1B7F99", Dark: "#56C5E0"}

	HeadingColor = lipgloss.AdaptiveColor{Light: "#2B1D14", Dark: "#F5EDE3"}
	MutedColor   = lipgloss.AdaptiveColor{Light: "#7A6F66", Dark: "#B3A89E"}
	SurfaceColor = lipgloss.AdaptiveColor{Light: "#F5EDE3", Dark: "#2B211B"}
)

// Install step colors
var (
	BuildColor    = lipgloss.AdaptiveColor{Light: "#7C4DFF", Dark: "#B39DDB"}
	TreeColor     = lipgloss.AdaptiveColor{Light: "#0288D1", Dark: "#4FC3F7"}
	BinariesColor = lipgloss.AdaptiveColor{Light: "#00897B", Dark: "#4DB6AC"}
	HookColor     = lipgloss.AdaptiveColor{Light: "#EF6C00", Dark: "#FFB74D"}
)
