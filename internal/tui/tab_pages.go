package tui

import (
	"fmt"

	"github.com/my2ndangelic/mapletrack/internal/model"
	"github.com/my2ndangelic/mapletrack/internal/tui/components"
)

func (a App) renderPageTab(idx, cw, h int) string {
	return a.renderTableArea(idx, cw, h)
}

// renderTableArea draws a page table, with the selected character's details
// beside it (or instead of it on narrow terminals) when detail is on.
func (a App) renderTableArea(idx, cw, h int) string {
	if idx >= len(a.tables) {
		return ""
	}
	tbl := a.tables[idx]
	st := a.views[idx]

	sel, hasSel := a.selectedCharacter(idx)
	if st.detail && hasSel {
		if cw < detailMinWidth {
			return components.FocusedCard(sel.IGN, renderCharacterDetail(sel, a.roster, cw), cw)
		}
		leftW := cw / 2
		rightW := cw - leftW
		left := a.tableCard(tbl, st, leftW, h, false)
		right := components.FocusedCard(sel.IGN, renderCharacterDetail(sel, a.roster, rightW), rightW)
		return components.CardRow([]string{left, right})
	}
	return a.tableCard(tbl, st, cw, h, true)
}

func (a App) tableCard(tbl model.Table, st tableState, w, h int, focused bool) string {
	// card border (2) + title (1)
	bodyH := max(h-3, 2)
	view := components.TableView{
		Table:     tbl,
		Cursor:    st.cursor,
		Offset:    components.ClampOffset(st.cursor, st.offset, bodyH-1),
		ColOffset: st.colOffset,
		Width:     components.CardInnerWidth(w),
		Height:    bodyH,
	}

	title := fmt.Sprintf("%s (%d)", tbl.Title, len(tbl.Rows))
	if hidden := view.HiddenColumns(); hidden > 0 {
		title += fmt.Sprintf("  [h/l] %d more columns", hidden)
	}
	if focused {
		return components.FocusedCard(title, view.Render(), w)
	}
	return components.ContentCard(title, view.Render(), w)
}

// selectedCharacter returns the character under the cursor of a page tab.
func (a App) selectedCharacter(idx int) (model.Character, bool) {
	if a.roster == nil || idx >= len(a.tables) {
		return model.Character{}, false
	}
	rows := a.tables[idx].Rows
	cur := a.views[idx].cursor
	if cur < 0 || cur >= len(rows) {
		return model.Character{}, false
	}
	for _, c := range a.roster.Characters {
		if c.IGN == rows[cur].IGN {
			return c, true
		}
	}
	return model.Character{}, false
}
