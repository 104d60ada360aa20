// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour palette for the TUI.
type Theme struct {
	// Accent marks headings and the user's questions.
	Accent lipgloss.Color

	// Answer colours model answers.
	Answer lipgloss.Color

	// Source colours source filenames and scores.
	Source lipgloss.Color

	// Text is the default text colour.
	Text lipgloss.Color

	// Dim is for hints and secondary text.
	Dim lipgloss.Color

	// Fallback colours canonical "I don't know" answers.
	Fallback lipgloss.Color

	// Error indicates problems.
	Error lipgloss.Color

	// Border is the border colour.
	Border lipgloss.Color

	// Bar is the status bar background.
	Bar lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:   lipgloss.Color("#89B4FA"),
		Answer:   lipgloss.Color("#CDD6F4"),
		Source:   lipgloss.Color("#94E2D5"),
		Text:     lipgloss.Color("#BAC2DE"),
		Dim:      lipgloss.Color("#6C7086"),
		Fallback: lipgloss.Color("#F9E2AF"),
		Error:    lipgloss.Color("#F38BA8"),
		Border:   lipgloss.Color("#45475A"),
		Bar:      lipgloss.Color("#181825"),
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	Title      lipgloss.Style
	Question   lipgloss.Style
	Answer     lipgloss.Style
	Fallback   lipgloss.Style
	Source     lipgloss.Style
	Normal     lipgloss.Style
	Muted      lipgloss.Style
	Selected   lipgloss.Style
	Error      lipgloss.Style
	InputField lipgloss.Style
	StatusBar  lipgloss.Style
	Border     lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Accent),

		Question: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Accent),

		Answer: lipgloss.NewStyle().
			Foreground(theme.Answer),

		Fallback: lipgloss.NewStyle().
			Italic(true).
			Foreground(theme.Fallback),

		Source: lipgloss.NewStyle().
			Foreground(theme.Source),

		Normal: lipgloss.NewStyle().
			Foreground(theme.Text),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Dim),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Answer).
			Background(theme.Border),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Dim).
			Background(theme.Bar).
			Padding(0, 1),

		Border: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}
