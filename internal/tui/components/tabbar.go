package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/my2ndangelic/mapletrack/internal/tui/theme"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name   string
	Key    rune
	KeyPos int // position of the shortcut letter in the name (-1 if not in name)
}

// Tabs defines all available tabs. The page tabs follow the web navigation.
var Tabs = []Tab{
	{Name: "Overview", Key: 'o', KeyPos: 0},
	{Name: "Progression", Key: 'p', KeyPos: 0},
	{Name: "Equipment", Key: 'e', KeyPos: 0},
	{Name: "Accessories", Key: 'a', KeyPos: 0},
	{Name: "Cash", Key: 'c', KeyPos: 0},
	{Name: "Arcane", Key: 'n', KeyPos: 4},
	{Name: "Sacred", Key: 's', KeyPos: 0},
	{Name: "Grand Sacred", Key: 'd', KeyPos: 4},
	{Name: "Inner Ability", Key: 'i', KeyPos: 0},
	{Name: "Settings", Key: 'x', KeyPos: -1},
}

// TabsPerRow is how many tabs share one line of the tab bar.
const TabsPerRow = 5

func renderTab(tab Tab, active bool) string {
	t := theme.Active

	if active {
		return lipgloss.NewStyle().
			Foreground(t.AccentBright).
			Background(t.SurfaceHover).
			Bold(true).
			Padding(0, 1).
			Render(tab.Name)
	}

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	key := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	space := base.Render(" ")

	if tab.KeyPos >= 0 && tab.KeyPos < len(tab.Name) {
		return space +
			base.Render(tab.Name[:tab.KeyPos]) +
			key.Render(string(tab.Name[tab.KeyPos])) +
			base.Render(tab.Name[tab.KeyPos+1:]) +
			space
	}
	return space + base.Render(tab.Name) +
		dim.Render("[") + key.Render(string(tab.Key)) + dim.Render("]") + space
}

// TabVisualWidth returns the rendered width of a tab.
func TabVisualWidth(tab Tab, active bool) int {
	return lipgloss.Width(renderTab(tab, active))
}

// RenderTabBar renders the tab bar in rows of TabsPerRow.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active
	sep := lipgloss.NewStyle().Background(t.Surface).Render(" ")
	rowStyle := lipgloss.NewStyle().Background(t.Surface).Width(width)

	var rows []string
	for start := 0; start < len(Tabs); start += TabsPerRow {
		end := start + TabsPerRow
		if end > len(Tabs) {
			end = len(Tabs)
		}
		parts := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			parts = append(parts, renderTab(Tabs[i], i == activeIdx))
		}
		rows = append(rows, rowStyle.Render(strings.Join(parts, sep)))
	}
	return strings.Join(rows, "\n")
}

// TabAt returns the tab under column x of tab bar row y, or -1.
func TabAt(x, y, activeIdx int) int {
	start := y * TabsPerRow
	if y < 0 || start >= len(Tabs) {
		return -1
	}
	end := start + TabsPerRow
	if end > len(Tabs) {
		end = len(Tabs)
	}
	pos := 0
	for i := start; i < end; i++ {
		w := TabVisualWidth(Tabs[i], i == activeIdx)
		if x >= pos && x < pos+w {
			return i
		}
		pos += w + 1
	}
	return -1
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
