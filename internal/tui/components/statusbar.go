package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/my2ndangelic/mapletrack/internal/tui/theme"
)

// RenderStatusBar renders the bottom status bar with key hints on the left
// and data freshness on the right.
func RenderStatusBar(width int, origin, dataAge string, refreshing, autoRefresh bool) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	left := base.Render(" [?]help  [/]search  [r]efresh  [q]uit")

	var right strings.Builder
	switch {
	case refreshing:
		right.WriteString(accent.Render("refreshing "))
	case autoRefresh:
		right.WriteString(dim.Render("auto "))
	}
	if origin != "" {
		right.WriteString(base.Render(origin))
		right.WriteString(dim.Render(" · "))
	}
	if dataAge != "" {
		right.WriteString(base.Render(dataAge + " "))
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right.String())
	if padding < 0 {
		padding = 0
	}
	return left + base.Render(strings.Repeat(" ", padding)) + right.String()
}
