package components

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"

	"github.com/my2ndangelic/mapletrack/internal/model"
	"github.com/my2ndangelic/mapletrack/internal/tui/theme"
)

// maxColumnWidth caps long item names.
const maxColumnWidth = 26

// TableView renders a model.Table inside a fixed box. The first column
// stays pinned while ColOffset scrolls the rest.
type TableView struct {
	Table     model.Table
	Cursor    int // selected row, -1 for none
	Offset    int // first visible row
	ColOffset int // first scrolled column after the pinned one
	Width     int
	Height    int // rows including the header
}

// ColumnWidths measures each column, capped at maxColumnWidth.
func ColumnWidths(t model.Table) []int {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, r := range t.Rows {
		for i, c := range r.Cells {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(c.Text))
			}
		}
	}
	for i := range widths {
		widths[i] = min(widths[i], maxColumnWidth)
	}
	return widths
}

// visibleColumns returns the column indexes that fit in width.
func (v TableView) visibleColumns(widths []int) []int {
	if len(widths) == 0 {
		return nil
	}
	cols := []int{0}
	used := widths[0]
	for i := 1 + max(v.ColOffset, 0); i < len(widths); i++ {
		if used+2+widths[i] > v.Width {
			break
		}
		cols = append(cols, i)
		used += 2 + widths[i]
	}
	return cols
}

// ClampOffset keeps cursor inside the visible window and returns the new offset.
func ClampOffset(cursor, offset, visible int) int {
	if visible < 1 {
		visible = 1
	}
	if cursor < offset {
		offset = cursor
	}
	if cursor >= offset+visible {
		offset = cursor - visible + 1
	}
	return max(offset, 0)
}

// Render draws the header and the visible rows.
func (v TableView) Render() string {
	t := theme.Active

	if len(v.Table.Headers) == 0 {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	cellStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	widths := ColumnWidths(v.Table)
	cols := v.visibleColumns(widths)
	numeric := numericColumns(v.Table)

	var b strings.Builder
	for n, i := range cols {
		if n > 0 {
			b.WriteString(spaceStyle.Render("  "))
		}
		b.WriteString(headerStyle.Render(fit(v.Table.Headers[i], widths[i], numeric[i])))
	}

	if len(v.Table.Rows) == 0 {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("No data"))
		return b.String()
	}

	visible := max(v.Height-1, 1)
	end := min(v.Offset+visible, len(v.Table.Rows))
	for r := v.Offset; r < end; r++ {
		row := v.Table.Rows[r]
		selected := r == v.Cursor
		b.WriteString("\n")
		for n, i := range cols {
			style := cellStyle
			text := ""
			if i < len(row.Cells) {
				text = row.Cells[i].Text
				if c, ok := t.ClassColor(row.Cells[i].Class); ok {
					style = style.Foreground(c)
				}
			}
			sep := spaceStyle
			if selected {
				style = style.Background(t.SurfaceHover).Bold(true)
				sep = sep.Background(t.SurfaceHover)
			}
			if n > 0 {
				b.WriteString(sep.Render("  "))
			}
			b.WriteString(style.Render(fit(text, widths[i], numeric[i])))
		}
	}
	return b.String()
}

// HiddenColumns reports how many columns did not fit.
func (v TableView) HiddenColumns() int {
	return len(v.Table.Headers) - len(v.visibleColumns(ColumnWidths(v.Table)))
}

func fit(s string, w int, right bool) string {
	if lipgloss.Width(s) > w {
		r := []rune(s)
		for len(r) > 0 && lipgloss.Width(string(r))+1 > w {
			r = r[:len(r)-1]
		}
		s = string(r) + "…"
	}
	padding := strings.Repeat(" ", max(w-lipgloss.Width(s), 0))
	if right {
		return padding + s
	}
	return s + padding
}

// numericColumns marks columns whose non-empty cells are all numbers.
func numericColumns(t model.Table) []bool {
	out := make([]bool, len(t.Headers))
	for i := range out {
		seen := false
		numeric := true
		for _, r := range t.Rows {
			if i >= len(r.Cells) || r.Cells[i].Text == "" {
				continue
			}
			seen = true
			if !isNumeric(r.Cells[i].Text) {
				numeric = false
				break
			}
		}
		out[i] = seen && numeric
	}
	return out
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '.' && r != ',' && r != '-' {
			return false
		}
	}
	return s != ""
}
