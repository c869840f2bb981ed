package pipeline

import (
	"errors"
	"strings"

	"github.com/my2ndangelic/mapletrack/internal/config"
	"github.com/my2ndangelic/mapletrack/internal/model"
)

// ErrUnknownPage is returned by ResolvePage for a path no page serves.
var ErrUnknownPage = errors.New("unknown page")

// Page is one routable view of the roster.
type Page struct {
	Name    string
	Title   string
	Paths   []string // first entry is canonical
	Summary string
	Build   func(*model.Roster) model.Table
}

// Path returns the canonical route of p.
func (p Page) Path() string { return p.Paths[0] }

func symbolPage(kind config.SymbolKind, path string) Page {
	return Page{
		Name:    string(kind),
		Title:   kind.Title() + " Symbols",
		Paths:   []string{path},
		Summary: "Per-region " + kind.Title() + " symbol levels",
		Build:   func(r *model.Roster) model.Table { return SymbolTable(r, kind) },
	}
}

// Pages lists every page in navigation order.
var Pages = []Page{
	{Name: "overview", Title: "Overview", Paths: []string{"/overview", "/"},
		Summary: "Level, symbol force, stats and Grand Sacred bonuses", Build: OverviewTable},
	{Name: "progression", Title: "Progression", Paths: []string{"/progression"},
		Summary: "Faction, archetype, class and main stat", Build: ProgressionTable},
	{Name: "equipment", Title: "Equipment", Paths: []string{"/equipment", "/armor"},
		Summary: "Armor by slot with set highlighting", Build: EquipmentTable},
	{Name: "accessory", Title: "Accessories", Paths: []string{"/accessory"},
		Summary: "Accessories by slot with set highlighting", Build: AccessoryTable},
	{Name: "cash", Title: "Cash", Paths: []string{"/cash"},
		Summary: "Cash shop items", Build: CashTable},
	symbolPage(config.Arcane, "/arcane"),
	symbolPage(config.Sacred, "/sacred"),
	symbolPage(config.GrandSacred, "/grandsacred"),
	{Name: "innerability", Title: "Inner Ability", Paths: []string{"/innerability"},
		Summary: "Inner ability presets", Build: InnerAbilityTable},
}

// The about page lists Pages, so it is registered after initialization.
func init() {
	Pages = append(Pages, Page{Name: "about", Title: "About", Paths: []string{"/about"},
		Summary: "What this tracker shows", Build: AboutTable})
}

// ResolvePage maps a request path to its page. Trailing slashes, a ".html"
// suffix and "/index.html" are accepted.
func ResolvePage(path string) (Page, error) {
	p := strings.ToLower(strings.TrimSpace(path))
	if p == "" {
		p = "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	p = strings.TrimSuffix(p, ".html")
	if p == "/index" {
		p = "/"
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = "/"
		}
	}
	for _, pg := range Pages {
		for _, alias := range pg.Paths {
			if alias == p {
				return pg, nil
			}
		}
	}
	return Page{}, ErrUnknownPage
}

// LookupPage returns the page with the given name.
func LookupPage(name string) (Page, bool) {
	for _, pg := range Pages {
		if strings.EqualFold(pg.Name, name) {
			return pg, true
		}
	}
	return Page{}, false
}

// AboutTable lists the pages and what each one shows.
func AboutTable(*model.Roster) model.Table {
	t := model.Table{
		ID:      "aboutTable",
		Title:   "About",
		Headers: []string{"Page", "Path", "Shows"},
	}
	for _, pg := range Pages {
		t.Rows = append(t.Rows, model.Row{Cells: []model.Cell{
			{Text: pg.Title}, {Text: pg.Path()}, {Text: pg.Summary},
		}})
	}
	return t
}
