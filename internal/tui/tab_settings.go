package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/my2ndangelic/mapletrack/internal/cli"
	"github.com/my2ndangelic/mapletrack/internal/config"
	"github.com/my2ndangelic/mapletrack/internal/pipeline"
	"github.com/my2ndangelic/mapletrack/internal/source"
	"github.com/my2ndangelic/mapletrack/internal/tui/components"
	"github.com/my2ndangelic/mapletrack/internal/tui/theme"
)

const (
	settingsFieldDataDir = iota
	settingsFieldDataURL
	settingsFieldFormat
	settingsFieldSort
	settingsFieldTheme
	settingsFieldDarkMode
	settingsFieldAutoRefresh
	settingsFieldRefreshInterval
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool
	saveErr error // last save or validation failure
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 50
	return ti
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	cfg := loadConfigOrDefault()
	a.settings.editing = true
	a.settings.saved = false

	ti := newSettingsInput()
	switch a.settings.cursor {
	case settingsFieldDataDir:
		ti.Placeholder = "data"
		ti.SetValue(cfg.General.DataDir)
	case settingsFieldDataURL:
		ti.Placeholder = "https://example.com/data/ (empty to use the directory)"
		ti.SetValue(cfg.General.DataURL)
	case settingsFieldFormat:
		ti.Placeholder = "auto, csv or yaml"
		ti.SetValue(cfg.General.Format)
	case settingsFieldSort:
		ti.Placeholder = "class or level"
		ti.SetValue(cfg.General.Sort)
	case settingsFieldTheme:
		ti.Placeholder = strings.Join(theme.Names(), ", ")
		ti.SetValue(cfg.Appearance.Theme)
	case settingsFieldDarkMode:
		ti.Placeholder = "true or false"
		ti.SetValue(strconv.FormatBool(cfg.Appearance.DarkMode))
	case settingsFieldAutoRefresh:
		ti.Placeholder = "true or false"
		ti.SetValue(strconv.FormatBool(a.autoRefresh))
	case settingsFieldRefreshInterval:
		ti.Placeholder = "30 (seconds, minimum 10)"
		ti.SetValue(strconv.Itoa(int(a.refreshInterval.Seconds())))
	}

	ti.Focus()
	a.settings.input = ti
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		reload := a.settingsSave()
		a.settings.editing = false
		a.settings.saved = a.settings.saveErr == nil
		if reload && !a.refreshing {
			a.refreshing = true
			return a, refreshDataCmd(a.opts, a.build)
		}
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "y", "on":
		return true, nil
	case "no", "n", "off":
		return false, nil
	}
	return strconv.ParseBool(s)
}

// settingsSave validates and persists the edited field. It returns true
// when the data source or sort changed.
func (a *App) settingsSave() bool {
	cfg := loadConfigOrDefault()
	val := strings.TrimSpace(a.settings.input.Value())
	a.settings.saveErr = nil

	switch a.settings.cursor {
	case settingsFieldDataDir:
		cfg.General.DataDir = val
	case settingsFieldDataURL:
		if err := validateDataURL(val); err != nil {
			a.settings.saveErr = err
			return false
		}
		cfg.General.DataURL = val
	case settingsFieldFormat:
		f, err := source.ParseFormat(val)
		if err != nil {
			a.settings.saveErr = err
			return false
		}
		cfg.General.Format = string(f)
	case settingsFieldSort:
		m, err := pipeline.ParseSortMode(val)
		if err != nil {
			a.settings.saveErr = err
			return false
		}
		cfg.General.Sort = string(m)
	case settingsFieldTheme:
		if theme.ByName(val).Name != val {
			a.settings.saveErr = fmt.Errorf("unknown theme %q", val)
			return false
		}
		cfg.Appearance.Theme = val
		theme.SetActive(val)
	case settingsFieldDarkMode:
		b, err := parseBool(val)
		if err != nil {
			a.settings.saveErr = fmt.Errorf("dark mode: %w", err)
			return false
		}
		cfg.Appearance.DarkMode = b
	case settingsFieldAutoRefresh:
		b, err := parseBool(val)
		if err != nil {
			a.settings.saveErr = fmt.Errorf("auto refresh: %w", err)
			return false
		}
		cfg.TUI.AutoRefresh = b
		a.autoRefresh = b
	case settingsFieldRefreshInterval:
		n, err := strconv.Atoi(val)
		if err != nil || n < 10 {
			a.settings.saveErr = fmt.Errorf("refresh interval must be at least 10 seconds")
			return false
		}
		cfg.TUI.RefreshIntervalSec = n
		a.refreshInterval = time.Duration(n) * time.Second
	}

	if err := config.Save(cfg); err != nil {
		a.settings.saveErr = err
		return false
	}
	if a.settings.cursor <= settingsFieldSort {
		return a.applyDataSettings(cfg)
	}
	return false
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	cfg := loadConfigOrDefault()

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceHover).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	greenStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceHover)

	orNotSet := func(s string) string {
		if s == "" {
			return "(not set)"
		}
		return s
	}

	fields := []struct{ label, value string }{
		{"Data Directory", orNotSet(cfg.General.DataDir)},
		{"Data URL", orNotSet(cfg.General.DataURL)},
		{"Format", cfg.General.Format},
		{"Sort", cfg.General.Sort},
		{"Theme", cfg.Appearance.Theme},
		{"Dark Web Pages", strconv.FormatBool(cfg.Appearance.DarkMode)},
		{"Auto Refresh", strconv.FormatBool(a.autoRefresh)},
		{"Refresh Interval", fmt.Sprintf("%ds", int(a.refreshInterval.Seconds()))},
	}

	innerW := components.CardInnerWidth(cw)
	var form strings.Builder
	for i, f := range fields {
		if a.settings.editing && i == a.settings.cursor {
			form.WriteString(markerStyle.Render("▸ "))
			form.WriteString(accentStyle.Render(fmt.Sprintf("%-18s ", f.label)))
			form.WriteString(a.settings.input.View())
			form.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			line := markerStyle.Render("▸ ") +
				selectedLabelStyle.Render(fmt.Sprintf("%-18s ", f.label+":")) +
				selectedStyle.Render(f.value)
			form.WriteString(line)
			if pad := innerW - lipgloss.Width(line); pad > 0 {
				form.WriteString(lipgloss.NewStyle().Background(t.SurfaceHover).Render(strings.Repeat(" ", pad)))
			}
		} else {
			form.WriteString(labelStyle.Render("  "))
			form.WriteString(labelStyle.Render(fmt.Sprintf("%-18s ", f.label+":")))
			form.WriteString(valueStyle.Render(f.value))
		}
		form.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		form.WriteString("\n")
		form.WriteString(lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface).
			Render(fmt.Sprintf("Not saved: %s", a.settings.saveErr)))
	} else if a.settings.saved {
		form.WriteString("\n")
		form.WriteString(greenStyle.Render("Saved!"))
	}
	form.WriteString("\n")
	form.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	var info strings.Builder
	infoLine := func(label, value string) {
		info.WriteString(labelStyle.Render(fmt.Sprintf("%-18s", label)) + valueStyle.Render(value) + "\n")
	}
	infoLine("Source:", a.opts.Origin())
	if a.report != nil {
		infoLine("Format:", string(a.report.Format))
		infoLine("Files parsed:", fmt.Sprintf("%d of %d", a.report.ParsedFiles, a.report.TotalFiles))
		if a.report.Cached {
			infoLine("Cache:", fmt.Sprintf("%d hits, %d reparsed", a.report.CacheHits, a.report.Reparsed))
		}
	}
	infoLine("Characters:", cli.FormatNumber(int64(a.summary.Characters)))
	infoLine("Load time:", fmt.Sprintf("%.1fs", a.loadTime.Seconds()))
	info.WriteString(labelStyle.Render(fmt.Sprintf("%-18s", "Config file:")) + valueStyle.Render(config.ConfigPath()))

	return components.FocusedCard("Settings", form.String(), cw) + "\n" +
		components.ContentCard("Data", info.String(), cw)
}
