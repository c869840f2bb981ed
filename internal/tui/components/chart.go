package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/my2ndangelic/mapletrack/internal/tui/theme"
)

// Bar is one labelled value of a horizontal bar chart.
type Bar struct {
	Label string
	Value int
}

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	var buf strings.Builder
	for _, v := range values {
		idx := int((v - lo) / span * float64(len(blocks)-1))
		idx = max(0, min(idx, len(blocks)-1))
		buf.WriteRune(blocks[idx])
	}
	return lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(buf.String())
}

// HBarChart renders one bar per line, scaled to the largest value.
func HBarChart(bars []Bar, color lipgloss.Color, width int) string {
	if len(bars) == 0 {
		return ""
	}
	t := theme.Active

	labelW, peak, valueW := 0, 0, 1
	for _, b := range bars {
		labelW = max(labelW, lipgloss.Width(b.Label))
		peak = max(peak, b.Value)
		valueW = max(valueW, len(fmt.Sprint(b.Value)))
	}
	barMax := width - labelW - valueW - 2
	if barMax < 4 {
		barMax = 4
	}
	if peak == 0 {
		peak = 1
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	lines := make([]string, len(bars))
	for i, b := range bars {
		n := b.Value * barMax / peak
		if b.Value > 0 && n == 0 {
			n = 1
		}
		lines[i] = labelStyle.Render(fmt.Sprintf("%-*s", labelW, b.Label)) +
			spaceStyle.Render(" ") +
			barStyle.Render(strings.Repeat("█", n)) +
			spaceStyle.Render(strings.Repeat(" ", barMax-n+1)) +
			valueStyle.Render(fmt.Sprintf("%*d", valueW, b.Value))
	}
	return strings.Join(lines, "\n")
}
