package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/my2ndangelic/mapletrack/internal/model"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
	ColorBlue      = lipgloss.Color("#4385BE")
	ColorPurple    = lipgloss.Color("#8B7EC8")
	ColorYellow    = lipgloss.Color("#D0A215")
	ColorMagenta   = lipgloss.Color("#CE5D97")
	ColorCyan      = lipgloss.Color("#24837B")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	warnStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// classColors maps table cell classes to terminal colors.
var classColors = map[string]lipgloss.Color{
	"symbol-max":            ColorGreen,
	"pet-snack-yes":         ColorGreen,
	"equipment-princess-no": ColorMagenta,
	"equipment-deimos":      ColorRed,
	"equipment-evolving":    ColorOrange,
	"equipment-absolab":     ColorBlue,
	"equipment-root-abyss":  ColorRed,
	"equipment-arcane":      ColorPurple,
	"equipment-pitched":     ColorPurple,
	"equipment-dawn":        ColorYellow,
	"equipment-gollux":      ColorOrange,
	"equipment-boss":        ColorBlue,
	"attack-speed":          ColorYellow,
	"boss-damage":           ColorRed,
	"buff-duration":         ColorGreen,
	"cooldown-skip":         ColorCyan,
	"meso-obtain":           ColorYellow,
	"item-drop":             ColorBlue,
	"passive-skill":         ColorPurple,
	"abnormal-status":       ColorMagenta,
	"warrior":               ColorRed,
	"magician":              ColorBlue,
	"bowman":                ColorGreen,
	"thief":                 ColorPurple,
	"pirate":                ColorOrange,
	"thief-pirate":          ColorMagenta,
}

// CellStyle returns the style for a cell class. Unknown classes use the value style.
func CellStyle(class string) lipgloss.Style {
	if c, ok := classColors[class]; ok {
		return lipgloss.NewStyle().Foreground(c)
	}
	return valueStyle
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	width := 55
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(width).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderTable renders a bordered table. Cells are colored by class; every
// column after the first is right-aligned when it holds numbers only.
func RenderTable(t model.Table) string {
	numCols := len(t.Headers)
	if numCols == 0 {
		return ""
	}

	widths := make([]int, numCols)
	numeric := make([]bool, numCols)
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
		numeric[i] = i > 0
	}
	for _, row := range t.Rows {
		for i, cell := range row.Cells {
			if i >= numCols {
				break
			}
			if w := lipgloss.Width(cell.Text); w > widths[i] {
				widths[i] = w
			}
			if cell.Text != "" && !isNumber(cell.Text) {
				numeric[i] = false
			}
		}
	}

	var b strings.Builder

	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	rule := func(left, mid, right string) {
		b.WriteString(dimStyle.Render(left))
		for i, w := range widths {
			b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render(mid))
			}
		}
		b.WriteString(dimStyle.Render(right))
		b.WriteString("\n")
	}

	rule("╭", "┬", "╮")

	b.WriteString(dimStyle.Render("│"))
	for i, h := range t.Headers {
		b.WriteString(headerStyle.Render(pad(h, widths[i], numeric[i])))
		if i < numCols-1 {
			b.WriteString(dimStyle.Render("│"))
		}
	}
	b.WriteString(dimStyle.Render("│"))
	b.WriteString("\n")
	rule("├", "┼", "┤")

	for _, row := range t.Rows {
		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			var cell model.Cell
			if i < len(row.Cells) {
				cell = row.Cells[i]
			}
			b.WriteString(CellStyle(cell.Class).Render(pad(cell.Text, widths[i], numeric[i])))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
	}
	if len(t.Rows) == 0 {
		b.WriteString(dimStyle.Render("│"))
		b.WriteString(mutedStyle.Render(pad("no data", totalWidth(widths)-2, false)))
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
	}

	rule("╰", "┴", "╯")
	return b.String()
}

// RenderKeyValues renders aligned "key  value" lines under a heading.
func RenderKeyValues(heading string, pairs [][2]string) string {
	keyWidth := 0
	for _, p := range pairs {
		if w := lipgloss.Width(p[0]); w > keyWidth {
			keyWidth = w
		}
	}
	var b strings.Builder
	if heading != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(heading))
		b.WriteString("\n")
	}
	for _, p := range pairs {
		fmt.Fprintf(&b, "  %s  %s\n", mutedStyle.Render(fmt.Sprintf("%-*s", keyWidth, p[0])), valueStyle.Render(p[1]))
	}
	return b.String()
}

// RenderWarnings renders warning lines in the warning color.
func RenderWarnings(warnings []string) string {
	var b strings.Builder
	for _, w := range warnings {
		b.WriteString(warnStyle.Render("  ! " + w))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderProgressBar renders a simple text progress bar.
func RenderProgressBar(current, total int, width int) string {
	if total <= 0 {
		return ""
	}

	pct := float64(current) / float64(total)
	if pct > 1 {
		pct = 1
	}

	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %s/%s",
		mutedStyle.Render(bar),
		FormatNumber(int64(current)),
		FormatNumber(int64(total)),
	)
}

func pad(s string, w int, right bool) string {
	gap := w - lipgloss.Width(s)
	if gap < 0 {
		gap = 0
	}
	if right {
		return " " + strings.Repeat(" ", gap) + s + " "
	}
	return " " + s + strings.Repeat(" ", gap) + " "
}

func totalWidth(widths []int) int {
	n := 0
	for _, w := range widths {
		n += w + 3
	}
	return n - 1
}

func isNumber(s string) bool {
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' && r != ',' && r != '-' {
			return false
		}
	}
	return s != ""
}
