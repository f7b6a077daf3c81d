package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("250")).
			Padding(0, 1)

	pathStyles = map[string]lipgloss.Style{
		"full":           lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		"reflow":         lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		"fresh":          lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		"hidden_dismiss": lipgloss.NewStyle().Foreground(lipgloss.Color("141")),
	}

	hiddenStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	noteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
)

// renderStatusBar renders the profile, path and summary line.
func renderStatusBar(profile, path, summary string, width int) string {
	pathText := path
	if style, ok := pathStyles[path]; ok {
		pathText = style.Render(path)
	}
	parts := []string{"profile:" + profile, "path:" + pathText, summary}
	return statusBarStyle.Width(width).Render(strings.Join(parts, "  "))
}
