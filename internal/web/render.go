package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/my2ndangelic/mapletrack/internal/model"
	"github.com/my2ndangelic/mapletrack/internal/pipeline"
)

//go:embed assets
var assets embed.FS

// Stylesheet file names.
const (
	LightStylesheet = "style.css"
	DarkStylesheet  = "style-dark.css"
)

var funcMap = template.FuncMap{
	"fn": func(value any) string {
		switch e := value.(type) {
		case float32:
			return humanize.CommafWithDigits(float64(e), 1)
		case float64:
			return humanize.CommafWithDigits(e, 1)
		case int:
			return humanize.Comma(int64(e))
		case int64:
			return humanize.Comma(e)
		}
		return ""
	},
	"ago": func(t time.Time) string {
		if t.IsZero() {
			return "never"
		}
		return humanize.Time(t)
	},
}

var pageTmpl = template.Must(template.New("layout.html").Funcs(funcMap).ParseFS(assets, "assets/layout.html"))

// NavItem is one navigation button.
type NavItem struct {
	Title  string
	Href   string
	Active bool
}

// PageData is everything the layout template renders.
type PageData struct {
	Title       string
	Nav         []NavItem
	Table       model.Table
	Summary     model.RosterSummary
	ShowSummary bool
	Warnings    []string
	Error       string
	Dark        bool
	Static      bool
	Stylesheet  string
	ToggleHref  string
	GeneratedAt time.Time
}

// NewPageData builds the view of one page. Static pages link to
// "<name>.html" files; served pages link to routes. A nil roster renders
// the page with an empty table.
func NewPageData(page pipeline.Page, roster *model.Roster, dark, static bool) PageData {
	if roster == nil {
		roster = &model.Roster{}
	}
	d := PageData{
		Title:       page.Title,
		Table:       page.Build(roster),
		Warnings:    roster.Warnings,
		Dark:        dark,
		Static:      static,
		GeneratedAt: time.Now(),
	}
	if page.Name == "overview" {
		d.Summary = pipeline.Summarize(roster)
		d.ShowSummary = true
	}

	sheet := LightStylesheet
	if dark {
		sheet = DarkStylesheet
	}
	if static {
		d.Stylesheet = sheet
	} else {
		d.Stylesheet = "/static/" + sheet
		d.ToggleHref = fmt.Sprintf("/theme?dark=%t&next=%s", !dark, page.Path())
	}

	for _, p := range pipeline.Pages {
		href := p.Path()
		if static {
			href = p.Name + ".html"
		}
		d.Nav = append(d.Nav, NavItem{Title: p.Title, Href: href, Active: p.Name == page.Name})
	}
	return d
}

// RenderPage writes one HTML page.
func RenderPage(w io.Writer, data PageData) error {
	if err := pageTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("rendering %s: %w", data.Title, err)
	}
	return nil
}

// Stylesheet returns the contents of an embedded stylesheet.
func Stylesheet(name string) ([]byte, error) {
	return fs.ReadFile(assets, "assets/"+name)
}
