// Package styles provides the colour palette and lipgloss styles of the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is the palette. Each colour has a light and a dark variant and
// lipgloss picks one from the terminal background.
type Theme struct {
	Primary    lipgloss.AdaptiveColor
	Secondary  lipgloss.AdaptiveColor
	Foreground lipgloss.AdaptiveColor
	Muted      lipgloss.AdaptiveColor
	Error      lipgloss.AdaptiveColor
	Border     lipgloss.AdaptiveColor

	// Bar is the status bar background.
	Bar lipgloss.AdaptiveColor
}

// DefaultTheme returns the default palette.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.AdaptiveColor{Light: "#6D28D9", Dark: "#A78BFA"},
		Secondary:  lipgloss.AdaptiveColor{Light: "#0E7490", Dark: "#67E8F9"},
		Foreground: lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#E5E7EB"},
		Muted:      lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"},
		Error:      lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#FCA5A5"},
		Border:     lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#4B5563"},
		Bar:        lipgloss.AdaptiveColor{Light: "#F3F4F6", Dark: "#111827"},
	}
}

// Styles are the rendered styles built from a Theme.
type Styles struct {
	theme *Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style
	Help     lipgloss.Style
	Border   lipgloss.Style

	// InputField frames the composer and the path input.
	InputField lipgloss.Style

	StatusBar lipgloss.Style

	// Banner renders a transient error in the status bar.
	Banner lipgloss.Style

	UserLabel  lipgloss.Style
	ModelLabel lipgloss.Style

	// Citation renders the page markers under a reply.
	Citation lipgloss.Style
}

// NewStyles builds styles from theme, or from DefaultTheme when nil.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	text := lipgloss.NewStyle().Foreground(theme.Foreground)
	muted := lipgloss.NewStyle().Foreground(theme.Muted)
	rounded := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)

	return &Styles{
		theme: theme,

		Title:    lipgloss.NewStyle().Bold(true).Foreground(theme.Primary),
		Subtitle: lipgloss.NewStyle().Bold(true).Foreground(theme.Secondary),
		Normal:   text,
		Muted:    muted,
		Selected: lipgloss.NewStyle().Bold(true).Foreground(theme.Primary),
		Error:    lipgloss.NewStyle().Foreground(theme.Error),
		Help:     muted,
		Border:   rounded,

		InputField: rounded.Padding(0, 1),

		StatusBar: muted.Background(theme.Bar).Padding(0, 1),
		Banner:    lipgloss.NewStyle().Bold(true).Foreground(theme.Error),

		UserLabel:  lipgloss.NewStyle().Bold(true).Foreground(theme.Secondary),
		ModelLabel: lipgloss.NewStyle().Bold(true).Foreground(theme.Primary),
		Citation:   muted.Italic(true),
	}
}

// DefaultStyles returns styles for the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the palette the styles were built from.
func (s *Styles) Theme() *Theme {
	return s.theme
}
