package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorBlue  = lipgloss.Color("#4f8cff")
	colorGreen = lipgloss.Color("#2fd576")
	colorRed   = lipgloss.Color("#ff6b6b")
	colorWhite = lipgloss.Color("#e6edf3")
	colorGray  = lipgloss.Color("#9aa4b2")
)

// Styles holds the lipgloss styles for the dashboard.
type Styles struct {
	Header       lipgloss.Style
	Item         lipgloss.Style
	SelectedItem lipgloss.Style
	GaugeOK      lipgloss.Style
	GaugeAlert   lipgloss.Style
	Status       lipgloss.Style
	Help         lipgloss.Style
}

// DefaultStyles returns the default style configuration.
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue).
			MarginBottom(1),

		Item: lipgloss.NewStyle().
			Foreground(colorGray),

		SelectedItem: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite),

		GaugeOK: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorGreen),

		GaugeAlert: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorRed),

		Status: lipgloss.NewStyle().
			Foreground(colorRed),

		Help: lipgloss.NewStyle().
			Foreground(colorGray).
			MarginTop(1),
	}
}
