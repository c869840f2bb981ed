package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/my2ndangelic/mapletrack/internal/config"
	"github.com/my2ndangelic/mapletrack/internal/model"
	"github.com/my2ndangelic/mapletrack/internal/pipeline"
)

func testRoster() *model.Roster {
	ds := &model.Dataset{
		Accounts: []model.Account{
			{IGN: "Alpha", Level: 260, JobName: "Bishop"},
			{IGN: "Beta", Level: 275, JobName: "Hero"},
			{IGN: "Gamma", Level: 250, JobName: "Hero"},
		},
		Jobs: []model.Job{
			{JobName: "Hero", Faction: "Explorer", Archetype: "Warrior", MainStat: "STR"},
			{JobName: "Bishop", Faction: "Explorer", Archetype: "Magician", MainStat: "INT"},
		},
		Symbols: []model.SymbolRecord{{
			IGN:  "Beta",
			Kind: config.Arcane,
			Levels: []model.SymbolLevel{
				{Region: "Vanishing Journey", Level: 20},
				{Region: "Chu Chu Island", Level: 13},
			},
		}},
		InnerAbility: []model.InnerAbilityRecord{{
			IGN:     "Beta",
			Presets: [3][3]string{{"Boss+20%", "STR+30", ""}, {"Meso+20%"}, {}},
		}},
	}
	return pipeline.Build(ds, pipeline.Options{Sort: pipeline.SortByClass})
}

func newTestApp(t *testing.T) App {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	a := NewApp(pipeline.LoadOptions{DataDir: "data"}, pipeline.Options{Sort: pipeline.SortByClass})
	a.needSetup = false
	a.width, a.height = 140, 40

	m, _ := a.Update(DataLoadedMsg{Roster: testRoster()})
	return m.(App)
}

func press(t *testing.T, a App, keys ...string) App {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ := a.Update(msg)
		a = m.(App)
	}
	return a
}

func TestDataLoadedBuildsTables(t *testing.T) {
	a := newTestApp(t)

	if !a.loaded {
		t.Fatal("app should be loaded")
	}
	if len(a.tables) != len(pageTabs) {
		t.Fatalf("tables = %d, want %d", len(a.tables), len(pageTabs))
	}
	if got := a.summary.Characters; got != 3 {
		t.Errorf("summary characters = %d, want 3", got)
	}
	if got := a.tables[0].Rows[0].IGN; got != "Beta" {
		t.Errorf("first overview row = %q, want Beta", got)
	}
	if got := len(a.tables[5].Rows); got != 1 {
		t.Errorf("arcane rows = %d, want 1", got)
	}
}

func TestKeyNavigation(t *testing.T) {
	a := newTestApp(t)

	a = press(t, a, "p")
	if a.activeTab != 1 {
		t.Fatalf("activeTab = %d, want 1", a.activeTab)
	}
	a = press(t, a, "j", "j", "j")
	if got := a.views[1].cursor; got != 2 {
		t.Errorf("cursor = %d, want 2 (clamped)", got)
	}
	a = press(t, a, "g")
	if got := a.views[1].cursor; got != 0 {
		t.Errorf("cursor after g = %d, want 0", got)
	}

	a = press(t, a, "enter")
	if !a.views[1].detail {
		t.Fatal("enter should open details")
	}
	if c, ok := a.selectedCharacter(1); !ok || c.IGN != "Beta" {
		t.Errorf("selected = %q, %v; want Beta", c.IGN, ok)
	}
	a = press(t, a, "esc")
	if a.views[1].detail {
		t.Error("esc should close details")
	}

	a = press(t, a, "x")
	if a.activeTab != settingsTab {
		t.Errorf("activeTab = %d, want settings", a.activeTab)
	}
}

func TestSearchFiltersEveryTab(t *testing.T) {
	a := newTestApp(t)

	a = press(t, a, "/", "al", "enter")
	if a.searchQuery != "al" {
		t.Fatalf("searchQuery = %q, want al", a.searchQuery)
	}
	if got := len(a.tables[0].Rows); got != 1 || a.tables[0].Rows[0].IGN != "Alpha" {
		t.Errorf("filtered overview = %v", a.tables[0].Rows)
	}
	if got := len(a.tables[5].Rows); got != 0 {
		t.Errorf("filtered arcane rows = %d, want 0", got)
	}

	a = press(t, a, "esc")
	if a.searchQuery != "" || len(a.tables[0].Rows) != 3 {
		t.Errorf("esc should clear search, got %q with %d rows", a.searchQuery, len(a.tables[0].Rows))
	}
}

func TestFilterTable(t *testing.T) {
	tbl := model.Table{Rows: []model.Row{{IGN: "Alpha"}, {IGN: "beta"}, {IGN: "Alphabet"}}}
	if got := len(filterTable(tbl, "ALPHA").Rows); got != 2 {
		t.Errorf("rows = %d, want 2", got)
	}
	if got := len(filterTable(tbl, "").Rows); got != 3 {
		t.Errorf("empty query rows = %d, want 3", got)
	}
}

func TestSetupFormShownWithoutConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	a := NewApp(pipeline.LoadOptions{DataDir: "data"}, pipeline.Options{})
	if !a.needSetup {
		t.Fatal("needSetup should be true without a config file")
	}
	m, _ := a.Update(DataLoadedMsg{Roster: testRoster()})
	a = m.(App)
	if a.setupForm == nil {
		t.Fatal("setup form should start after data loads")
	}
}

func TestLoadErrorKeepsPreviousRoster(t *testing.T) {
	a := newTestApp(t)
	m, _ := a.Update(RefreshDataMsg{Err: errTest})
	a = m.(App)
	if a.roster == nil || a.loadErr == nil {
		t.Fatalf("roster = %v, loadErr = %v", a.roster, a.loadErr)
	}
	if !strings.Contains(a.renderFilterRow(140), "reload failed") {
		t.Error("filter row should flag the failed reload")
	}
}

func TestViewRendersActiveTab(t *testing.T) {
	a := newTestApp(t)
	out := a.View()
	for _, want := range []string{"Overview", "Beta", "Arcane Force"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}

	a = press(t, a, "n", "enter")
	out = a.View()
	if !strings.Contains(out, "Vanishing Journey") || !strings.Contains(out, "20/20") {
		t.Errorf("arcane detail missing region bar:\n%s", out)
	}
}

func TestRenderCharacterDetail(t *testing.T) {
	r := testRoster()
	var beta model.Character
	for _, c := range r.Characters {
		if c.IGN == "Beta" {
			beta = c
		}
	}
	out := renderCharacterDetail(beta, r, 80)
	for _, want := range []string{"Warrior", "Arcane", "Chu Chu Island", "Inner Ability", "Boss+20%"} {
		if !strings.Contains(out, want) {
			t.Errorf("detail missing %q", want)
		}
	}
}

func TestSettingsRejectsBadSort(t *testing.T) {
	a := newTestApp(t)
	a = press(t, a, "x")
	a.settings.cursor = settingsFieldSort

	m, _ := a.settingsStartEdit()
	a = m.(App)
	a.settings.input.SetValue("bogus")
	a = press(t, a, "enter")
	if a.settings.saveErr == nil {
		t.Fatal("expected validation error for bogus sort")
	}
	if a.settings.editing {
		t.Error("enter should leave edit mode")
	}
}

var errTest = errors.New("boom")
