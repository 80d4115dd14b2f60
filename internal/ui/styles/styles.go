package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	accent     = lipgloss.Color("#7D56F4")
	accentSoft = lipgloss.Color("#9D86FF")
	green      = lipgloss.Color("#43BF6D")
	amber      = lipgloss.Color("#E5C07B")
	red        = lipgloss.Color("#E06C75")
	grey       = lipgloss.Color("#AAAAAA")
)

var (
	// Text styles
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(accent).
		Padding(0, 1)

	Info = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#DEDEDE"))

	Muted = lipgloss.NewStyle().
		Foreground(grey).
		Italic(true)

	Heading = lipgloss.NewStyle().
		Bold(true).
		Foreground(accentSoft)

	Key = lipgloss.NewStyle().
		Foreground(accent).
		Bold(true)

	// Outcome styles
	Success = lipgloss.NewStyle().Foreground(green)
	Exists  = lipgloss.NewStyle().Foreground(amber)
	Failure = lipgloss.NewStyle().Foreground(red)
)

// Layout helpers
func Header(width int, title string) string {
	return Title.
		Width(width).
		Align(lipgloss.Center).
		Render(title)
}

func ContentBox(width int, content string, padding int) string {
	return lipgloss.NewStyle().
		Width(width).
		Padding(padding).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#555555")).
		Render(content)
}

func CenteredText(width int, text string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(text)
}

// Rule draws a horizontal line of the given width
func Rule(width int, heavy bool) string {
	char := "─"
	if heavy {
		char = "═"
	}
	return Muted.UnsetItalic().Render(strings.Repeat(char, width))
}
