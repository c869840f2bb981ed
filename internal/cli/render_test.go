package cli

import (
	"strings"
	"testing"

	"github.com/my2ndangelic/mapletrack/internal/model"
)

func TestRenderTable(t *testing.T) {
	tbl := model.Table{
		Title:   "Arcane Symbols",
		Headers: []string{"Character", "Level", "Arcana"},
		Rows: []model.Row{
			{IGN: "Alpha", Cells: []model.Cell{{Text: "Alpha"}, {Text: "275"}, {Text: "20", Class: "symbol-max"}}},
			{IGN: "Beta", Cells: []model.Cell{{Text: "Beta"}, {Text: "260"}}},
		},
	}
	out := RenderTable(tbl)
	for _, want := range []string{"Arcane Symbols", "Character", "Alpha", "275", "Beta"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	// title + top + header + separator + 2 rows + bottom
	if lines := strings.Count(out, "\n"); lines != 7 {
		t.Errorf("line count = %d, want 7", lines)
	}
}

func TestRenderTable_Empty(t *testing.T) {
	if out := RenderTable(model.Table{}); out != "" {
		t.Errorf("RenderTable(no headers) = %q, want empty", out)
	}
	out := RenderTable(model.Table{Headers: []string{"Character"}})
	if !strings.Contains(out, "no data") {
		t.Errorf("empty table output missing placeholder:\n%s", out)
	}
}

func TestPad(t *testing.T) {
	if got := pad("12", 4, true); got != "   12 " {
		t.Errorf("pad right = %q", got)
	}
	if got := pad("ab", 4, false); got != " ab   " {
		t.Errorf("pad left = %q", got)
	}
}
