// Package tui holds the styles and terminal checks used to print command
// results.
package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.ANSIColor(termenv.ANSIBrightWhite)).
			Bold(true)

	NameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3a96dd")).
			Bold(true)

	VersionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.ANSIColor(termenv.ANSIBrightGreen))

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#767676"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.ANSIColor(termenv.ANSIBrightGreen)).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.ANSIColor(termenv.ANSIBrightYellow))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff0000")).
			Bold(true)
)

// Paint renders text with style only when colorize is set.
func Paint(style lipgloss.Style, text string, colorize bool) string {
	if !colorize {
		return text
	}
	return style.Render(text)
}
