package model

// Cell is one rendered table cell. Class carries the styling hint.
type Cell struct {
	Text  string `json:"text"`
	Class string `json:"class,omitempty"`
}

// Row is one table row keyed by the character it describes.
type Row struct {
	IGN   string `json:"ign"`
	Cells []Cell `json:"cells"`
}

// Table is a display-independent view of one logical table.
type Table struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Headers []string `json:"headers"`
	Rows    []Row    `json:"rows"`
}

// Column returns the index of the named header, or -1.
func (t Table) Column(header string) int {
	for i, h := range t.Headers {
		if h == header {
			return i
		}
	}
	return -1
}

// Texts returns the plain-text rows, one slice per row.
func (t Table) Texts() [][]string {
	out := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		row := make([]string, len(r.Cells))
		for j, c := range r.Cells {
			row[j] = c.Text
		}
		out[i] = row
	}
	return out
}
