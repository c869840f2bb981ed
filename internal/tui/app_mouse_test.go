package tui

import (
	"testing"

	"github.com/my2ndangelic/mapletrack/internal/tui/components"
)

func TestTabAtXMatchesTabWidths(t *testing.T) {
	for active := 0; active < len(components.Tabs); active++ {
		a := App{activeTab: active}

		for row := 0; row*components.TabsPerRow < len(components.Tabs); row++ {
			pos := 0
			start := row * components.TabsPerRow
			end := min(start+components.TabsPerRow, len(components.Tabs))
			for i := start; i < end; i++ {
				w := tabWidthForTest(i, active)
				x := pos + w/2
				if got := a.tabAt(x, row); got != i {
					t.Fatalf("active=%d row=%d x=%d -> tab=%d, want %d", active, row, x, got, i)
				}
				pos += w + 1 // separator
			}
		}
	}
}

func TestTabAtOutsideBar(t *testing.T) {
	a := App{}
	if got := a.tabAt(2, 2); got != -1 {
		t.Errorf("tabAt(2, 2) = %d, want -1", got)
	}
	if got := a.tabAt(500, 0); got != -1 {
		t.Errorf("tabAt(500, 0) = %d, want -1", got)
	}
}

func tabWidthForTest(tabIdx, activeIdx int) int {
	tab := components.Tabs[tabIdx]
	w := len(tab.Name) + 2 // horizontal padding in tab renderer
	if tabIdx != activeIdx && tab.KeyPos < 0 {
		w += 3 // inactive Settings adds "[x]"
	}
	return w
}
