package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/my2ndangelic/mapletrack/internal/cli"
	"github.com/my2ndangelic/mapletrack/internal/model"
	"github.com/my2ndangelic/mapletrack/internal/tui/components"
	"github.com/my2ndangelic/mapletrack/internal/tui/theme"
)

func (a App) renderOverviewTab(cw, h int) string {
	t := theme.Active
	s := a.summary

	highest := "-"
	if s.HighestIGN != "" {
		highest = fmt.Sprintf("%s (%d)", s.HighestIGN, s.HighestLevel)
	}
	warnNote := ""
	if s.Warnings > 0 {
		warnNote = fmt.Sprintf("%d warnings", s.Warnings)
	}

	cards := components.MetricCardRow([]components.Metric{
		{Label: "Characters", Value: cli.FormatNumber(int64(s.Characters)), Note: warnNote},
		{Label: "Total Level", Value: cli.FormatNumber(int64(s.TotalLevel)), Note: "avg " + cli.FormatAverage(s.AverageLevel)},
		{Label: "Highest", Value: highest},
		{Label: "Arcane Force", Value: cli.FormatNumber(int64(s.ArcaneForce))},
		{Label: "Sacred Force", Value: cli.FormatNumber(int64(s.SacredForce))},
		{Label: "Maxed Symbols", Value: cli.FormatNumber(int64(s.MaxedSymbols))},
	}, cw)

	halves := components.LayoutRow(cw, 2)
	factions := components.ContentCard("Factions",
		components.HBarChart(factionBars(s), t.Accent, components.CardInnerWidth(halves[0])), halves[0])

	levels := levelValues(a.roster)
	levelBody := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render("No characters")
	if len(levels) > 0 {
		inner := components.CardInnerWidth(halves[1])
		if len(levels) > inner {
			levels = levels[:inner]
		}
		levelBody = components.Sparkline(levels, t.Blue) + "\n" +
			lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).
				Render(fmt.Sprintf("%d → %d", int(levels[0]), int(levels[len(levels)-1])))
	}
	levelCard := components.ContentCard("Levels (highest first)", levelBody, halves[1])

	var b strings.Builder
	b.WriteString(cards)
	b.WriteString("\n")
	b.WriteString(components.CardRow([]string{factions, levelCard}))
	b.WriteString("\n")

	used := lipgloss.Height(b.String())
	b.WriteString(a.renderTableArea(0, cw, max(h-used, minContentHeight)))
	return b.String()
}

// factionBars orders factions by count, then name.
func factionBars(s model.RosterSummary) []components.Bar {
	bars := make([]components.Bar, 0, len(s.Factions))
	for name, n := range s.Factions {
		bars = append(bars, components.Bar{Label: name, Value: n})
	}
	sort.Slice(bars, func(i, j int) bool {
		if bars[i].Value != bars[j].Value {
			return bars[i].Value > bars[j].Value
		}
		return bars[i].Label < bars[j].Label
	})
	return bars
}

// levelValues returns every level, highest first.
func levelValues(r *model.Roster) []float64 {
	if r == nil {
		return nil
	}
	out := make([]float64, 0, len(r.Characters))
	for _, c := range r.Characters {
		out = append(out, float64(c.Level))
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(out)))
	return out
}
