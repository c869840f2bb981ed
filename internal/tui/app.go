// Package tui provides the interactive Bubble Tea dashboard for mapletrack.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/my2ndangelic/mapletrack/internal/cli"
	"github.com/my2ndangelic/mapletrack/internal/config"
	"github.com/my2ndangelic/mapletrack/internal/model"
	"github.com/my2ndangelic/mapletrack/internal/pipeline"
	"github.com/my2ndangelic/mapletrack/internal/tui/components"
	"github.com/my2ndangelic/mapletrack/internal/tui/theme"
)

// DataLoadedMsg is sent when the data pipeline finishes.
type DataLoadedMsg struct {
	Report   *pipeline.LoadReport
	Roster   *model.Roster
	Err      error
	LoadTime time.Duration
}

// ProgressMsg reports file parsing progress.
type ProgressMsg struct {
	Current int
	Total   int
}

// RefreshDataMsg is sent when a background data refresh completes.
type RefreshDataMsg DataLoadedMsg

// pageTabs maps tab indexes to page names. The settings tab follows them.
var pageTabs = []string{
	"overview", "progression", "equipment", "accessory", "cash",
	"arcane", "sacred", "grandsacred", "innerability",
}

var settingsTab = len(pageTabs)

// tableState is the cursor and scroll position of one page tab.
type tableState struct {
	cursor    int
	offset    int
	colOffset int
	detail    bool
}

// App is the root Bubble Tea model.
type App struct {
	// Data
	opts     pipeline.LoadOptions
	build    pipeline.Options
	roster   *model.Roster
	report   *pipeline.LoadReport
	summary  model.RosterSummary
	tables   []model.Table
	loadErr  error
	loaded   bool
	loadTime time.Duration

	// Auto-refresh state
	autoRefresh     bool
	refreshInterval time.Duration
	lastRefresh     time.Time
	refreshing      bool

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	views     []tableState

	// Search narrows every page tab by IGN
	searching   bool
	searchInput textinput.Model
	searchQuery string

	settings settingsState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *setupValues
	needSetup bool

	// Loading, fed by the loader goroutine
	spinner     spinner.Model
	progress    int
	progressMax int
	loadSub     chan tea.Msg
}

const (
	minTerminalWidth = 80
	maxContentWidth  = 180
	detailMinWidth   = 120 // below this the detail pane replaces the table

	// Scroll navigation
	scrollOverhead    = 10
	minHalfPageScroll = 1
	minContentHeight  = 5
)

// loadConfigOrDefault loads config, returning defaults on error so the
// dashboard can always start.
func loadConfigOrDefault() config.Config {
	cfg, err := config.Load()
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

// NewApp creates a new TUI app model.
func NewApp(opts pipeline.LoadOptions, build pipeline.Options) App {
	cfg := loadConfigOrDefault()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	refreshInterval := time.Duration(cfg.TUI.RefreshIntervalSec) * time.Second
	if refreshInterval < 10*time.Second {
		refreshInterval = 30 * time.Second
	}

	return App{
		opts:            opts,
		build:           build,
		needSetup:       !config.Exists(),
		autoRefresh:     cfg.TUI.AutoRefresh,
		refreshInterval: refreshInterval,
		views:           make([]tableState, len(pageTabs)),
		spinner:         sp,
		loadSub:         make(chan tea.Msg, 1),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.opts, a.build, a.loadSub),
		a.spinner.Tick,
		tickCmd(),
	)
}

// applyData stores a load result and rebuilds the tab tables.
func (a *App) applyData(msg DataLoadedMsg) {
	a.loadTime = msg.LoadTime
	a.lastRefresh = time.Now()
	a.loadErr = msg.Err
	if msg.Err != nil {
		return
	}
	a.report = msg.Report
	a.roster = msg.Roster
	a.recompute()
}

func (a *App) recompute() {
	if a.roster == nil {
		return
	}
	a.summary = pipeline.Summarize(a.roster)
	a.tables = make([]model.Table, len(pageTabs))
	for i, name := range pageTabs {
		page, ok := pipeline.LookupPage(name)
		if !ok {
			continue
		}
		a.tables[i] = filterTable(page.Build(a.roster), a.searchQuery)
	}
	for i := range a.views {
		rows := len(a.tables[i].Rows)
		if a.views[i].cursor >= rows {
			a.views[i].cursor = rows - 1
		}
		if a.views[i].cursor < 0 {
			a.views[i].cursor = 0
		}
	}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || (a.needSetup && a.setupForm != nil) {
			return a, nil
		}
		return a.updateMouse(msg)

	case tea.KeyMsg:
		return a.updateKey(msg)

	case DataLoadedMsg:
		a.loaded = true
		a.applyData(msg)

		if a.needSetup {
			characters := 0
			if a.roster != nil {
				characters = len(a.roster.Characters)
			}
			a.setupVals = newSetupValues(loadConfigOrDefault())
			a.setupForm = newSetupForm(characters, a.opts.Origin(), a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case ProgressMsg:
		a.progress = msg.Current
		a.progressMax = msg.Total
		return a, waitForLoadMsg(a.loadSub)

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		if a.loaded && a.autoRefresh && !a.refreshing && time.Since(a.lastRefresh) >= a.refreshInterval {
			a.refreshing = true
			cmds = append(cmds, refreshDataCmd(a.opts, a.build))
		}
		return a, tea.Batch(cmds...)

	case RefreshDataMsg:
		a.refreshing = false
		a.applyData(DataLoadedMsg(msg))
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		a.moveCursor(-1)
	case tea.MouseButtonWheelDown:
		a.moveCursor(1)
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return a, nil
		}
		if tab := a.tabAt(msg.X, msg.Y); tab >= 0 {
			a.activeTab = tab
		}
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}
	if !a.loaded {
		return a, nil
	}

	// First-run setup wizard intercepts all keys
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.activeTab == settingsTab && a.settings.editing {
		return a.updateSettingsInput(msg)
	}
	if a.searching {
		return a.updateSearch(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	if a.activeTab == settingsTab {
		switch key {
		case "j", "down":
			if a.settings.cursor < settingsFieldCount-1 {
				a.settings.cursor++
			}
			return a, nil
		case "k", "up":
			if a.settings.cursor > 0 {
				a.settings.cursor--
			}
			return a, nil
		case "enter":
			return a.settingsStartEdit()
		}
	} else if a.activeTab < len(a.views) {
		v := &a.views[a.activeTab]
		switch key {
		case "/":
			a.searching = true
			a.searchInput = newSearchInput()
			a.searchInput.SetValue(a.searchQuery)
			a.searchInput.Focus()
			return a, a.searchInput.Cursor.BlinkCmd()
		case "j", "down":
			a.moveCursor(1)
			return a, nil
		case "k", "up":
			a.moveCursor(-1)
			return a, nil
		case "g", "home":
			v.cursor, v.offset = 0, 0
			return a, nil
		case "G", "end":
			v.cursor = max(len(a.tables[a.activeTab].Rows)-1, 0)
			return a, nil
		case "ctrl+d":
			a.moveCursor(max((a.height-scrollOverhead)/2, minHalfPageScroll))
			return a, nil
		case "ctrl+u":
			a.moveCursor(-max((a.height-scrollOverhead)/2, minHalfPageScroll))
			return a, nil
		case "l":
			v.colOffset++
			return a, nil
		case "h":
			if v.colOffset > 0 {
				v.colOffset--
			}
			return a, nil
		case "enter":
			v.detail = !v.detail
			return a, nil
		case "esc":
			if v.detail {
				v.detail = false
				return a, nil
			}
			if a.searchQuery != "" {
				a.searchQuery = ""
				a.recompute()
			}
			return a, nil
		case "q":
			if v.detail {
				v.detail = false
				return a, nil
			}
		}
	}

	if key == "q" {
		return a, tea.Quit
	}

	if key == "r" && !a.refreshing {
		a.refreshing = true
		return a, refreshDataCmd(a.opts, a.build)
	}

	if key == "R" {
		a.autoRefresh = !a.autoRefresh
		cfg := loadConfigOrDefault()
		cfg.TUI.AutoRefresh = a.autoRefresh
		_ = config.Save(cfg)
		return a, nil
	}

	switch key {
	case "left", "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
	default:
		if len(key) == 1 {
			if idx := components.TabIdxByKey(rune(key[0])); idx >= 0 {
				a.activeTab = idx
			}
		}
	}
	return a, nil
}

// moveCursor shifts the selected row of the active page tab by delta.
func (a *App) moveCursor(delta int) {
	if a.activeTab >= len(a.views) || a.activeTab >= len(a.tables) {
		return
	}
	v := &a.views[a.activeTab]
	rows := len(a.tables[a.activeTab].Rows)
	v.cursor = max(0, min(v.cursor+delta, rows-1))
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		reload := a.saveSetupConfig()
		a.needSetup = false
		a.setupForm = nil
		if reload {
			a.refreshing = true
			return a, refreshDataCmd(a.opts, a.build)
		}
		return a, nil
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// tabAt maps a click in the tab bar to a tab index, or -1.
func (a App) tabAt(x, y int) int {
	rows := (len(components.Tabs) + components.TabsPerRow - 1) / components.TabsPerRow
	if y < 0 || y >= rows {
		return -1
	}
	return components.TabAt(x, y, a.activeTab)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  mapletrack needs at least %d columns.\n",
		a.width, minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spinnerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	countStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◆ mapletrack"))
	b.WriteString(subtitleStyle.Render(" · " + a.opts.Origin()))
	b.WriteString("\n\n")

	if a.progressMax > 0 {
		barW := max(min(40, a.width-30), 20)
		pct := float64(a.progress) / float64(a.progressMax)
		b.WriteString(spinnerStyle.Render(a.spinner.View()))
		b.WriteString(subtitleStyle.Render(" Parsing data files\n\n"))
		b.WriteString(components.ProgressBar(pct, barW))
		b.WriteString("\n")
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progress))))
		b.WriteString(subtitleStyle.Render(" / "))
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progressMax))))
	} else {
		b.WriteString(spinnerStyle.Render(a.spinner.View()))
		b.WriteString(subtitleStyle.Render(" Looking for data files..."))
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings [][2]string
	}{
		{"Navigation", [][2]string{
			{"o p e a c", "Overview, Progression, Equipment, Accessories, Cash"},
			{"n s d i x", "Arcane, Sacred, Grand Sacred, Inner Ability, Settings"},
			{"← → tab", "Previous / Next tab"},
			{"j k", "Move selection"},
			{"g G", "First / Last character"},
			{"h l", "Scroll columns"},
			{"^d ^u", "Half-page scroll"},
		}},
		{"Actions", [][2]string{
			{"/", "Search by IGN"},
			{"Enter", "Character details"},
			{"Esc", "Back / Clear search"},
			{"r", "Reload data"},
			{"R", "Toggle auto-refresh"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◆ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, s := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(s.title))
		b.WriteString("\n")
		for _, bind := range s.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind[0])),
				descStyle.Render(bind[1]))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w) + "\n" + a.renderFilterRow(w)

	dataAge := ""
	if !a.lastRefresh.IsZero() {
		dataAge = fmt.Sprintf("loaded in %.1fs", a.loadTime.Seconds())
	}
	statusBar := components.RenderStatusBar(w, a.opts.Origin(), dataAge, a.refreshing, a.autoRefresh)

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch {
	case a.loadErr != nil && a.roster == nil:
		content = components.ContentCard("Error",
			lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Render(a.loadErr.Error()), cw)
	case a.activeTab == settingsTab:
		content = a.renderSettingsTab(cw)
	case a.activeTab == 0:
		content = a.renderOverviewTab(cw, contentH)
	default:
		content = a.renderPageTab(a.activeTab, cw, contentH)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// renderFilterRow shows the active sort, filters and search below the tabs.
func (a App) renderFilterRow(w int) string {
	t := theme.Active
	pill := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	s := pill.Render(" sort ") + accent.Render(string(a.build.Sort))
	if a.build.Filter.Job != "" {
		s += pill.Render(" │ job ") + accent.Render(a.build.Filter.Job)
	}
	if a.build.Filter.Faction != "" {
		s += pill.Render(" │ faction ") + accent.Render(a.build.Filter.Faction)
	}
	if a.searching {
		s += pill.Render(" │ ") + a.searchInput.View()
	} else if a.searchQuery != "" {
		s += pill.Render(" │ search ") + accent.Render(a.searchQuery)
	}
	if a.loadErr != nil && a.roster != nil {
		s += pill.Render(" │ ") + lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface).Render("reload failed")
	}
	return lipgloss.NewStyle().Background(t.Surface).Width(w).Render(s)
}

// ─── Helpers ────────────────────────────────────────────────────

type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// loadData runs the shared loader and builds the roster.
func loadData(opts pipeline.LoadOptions, build pipeline.Options) DataLoadedMsg {
	start := time.Now()
	rep, err := pipeline.LoadData(context.Background(), opts)
	if err != nil {
		return DataLoadedMsg{Err: err, LoadTime: time.Since(start)}
	}
	roster := pipeline.Build(&rep.Dataset, build)
	roster.Warnings = append(append([]string(nil), rep.Warnings...), roster.Warnings...)
	return DataLoadedMsg{Report: rep, Roster: roster, LoadTime: time.Since(start)}
}

// loadDataCmd starts the loader in a background goroutine. It streams
// ProgressMsg updates and a final DataLoadedMsg through sub.
func loadDataCmd(opts pipeline.LoadOptions, build pipeline.Options, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			// Non-blocking send so workers aren't stalled; the next update catches up.
			opts.Progress = func(current, total int) {
				select {
				case sub <- ProgressMsg{Current: current, Total: total}:
				default:
				}
			}
			sub <- loadData(opts, build)
		}()
		return <-sub
	}
}

// waitForLoadMsg blocks until the next message arrives from the loader goroutine.
func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

// refreshDataCmd reloads data in the background without progress UI.
func refreshDataCmd(opts pipeline.LoadOptions, build pipeline.Options) tea.Cmd {
	return func() tea.Msg {
		opts.Progress = nil
		return RefreshDataMsg(loadData(opts, build))
	}
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}

// ─── Search ─────────────────────────────────────────────────────

func newSearchInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "IGN"
	ti.Prompt = "/"
	ti.CharLimit = 64
	ti.Width = 24
	return ti
}

// updateSearch handles key events while the search input is focused.
func (a App) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.searchQuery = strings.TrimSpace(a.searchInput.Value())
		a.searching = false
		for i := range a.views {
			a.views[i].cursor, a.views[i].offset = 0, 0
		}
		a.recompute()
		return a, nil
	case "esc":
		a.searching = false
		return a, nil
	}

	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	return a, cmd
}

// filterTable keeps the rows whose IGN contains query, ignoring case.
func filterTable(t model.Table, query string) model.Table {
	if query == "" {
		return t
	}
	q := strings.ToLower(query)
	rows := make([]model.Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		if strings.Contains(strings.ToLower(r.IGN), q) {
			rows = append(rows, r)
		}
	}
	t.Rows = rows
	return t
}
