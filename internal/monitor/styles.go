package monitor

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	colorGreen  = lipgloss.Color("42")
	colorYellow = lipgloss.Color("214")
	colorRed    = lipgloss.Color("196")
	colorBlue   = lipgloss.Color("39")
	colorGray   = lipgloss.Color("245")
	colorWhite  = lipgloss.Color("255")
	colorBorder = lipgloss.Color("240")
)

// Styles defines the visual styles for the monitor dashboard
type Styles struct {
	Box lipgloss.Style

	Title     lipgloss.Style
	Header    lipgloss.Style
	Text      lipgloss.Style
	Muted     lipgloss.Style
	Faint     lipgloss.Style
	TabActive lipgloss.Style
	TabIdle   lipgloss.Style

	// Status colors keyed by the status string written in the snapshot
	Status map[string]lipgloss.Style
}

// DefaultStyles returns the default style configuration
func DefaultStyles() Styles {
	green := lipgloss.NewStyle().Foreground(colorGreen)
	return Styles{
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite),

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorGray),

		Text: lipgloss.NewStyle().
			Foreground(colorWhite),

		Muted: lipgloss.NewStyle().
			Foreground(colorGray),

		Faint: lipgloss.NewStyle().
			Faint(true),

		TabActive: lipgloss.NewStyle().
			Bold(true).
			Background(lipgloss.Color("236")).
			Foreground(colorWhite).
			Padding(0, 1),

		TabIdle: lipgloss.NewStyle().
			Foreground(colorGray).
			Padding(0, 1),

		Status: map[string]lipgloss.Style{
			"online":  green,
			"active":  green,
			"ok":      green,
			"running": lipgloss.NewStyle().Foreground(colorBlue),
			"idle":    lipgloss.NewStyle().Foreground(colorYellow),
			"offline": lipgloss.NewStyle().Foreground(colorRed),
		},
	}
}

// StyleStatus returns styled status text
func (s Styles) StyleStatus(status string) string {
	if style, ok := s.Status[status]; ok {
		return style.Render(status)
	}
	return s.Text.Render(status)
}
