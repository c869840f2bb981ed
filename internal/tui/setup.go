package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/my2ndangelic/mapletrack/internal/config"
	"github.com/my2ndangelic/mapletrack/internal/pipeline"
	"github.com/my2ndangelic/mapletrack/internal/remote"
	"github.com/my2ndangelic/mapletrack/internal/source"
	"github.com/my2ndangelic/mapletrack/internal/tui/theme"
)

// setupValues holds the answers of the setup form.
type setupValues struct {
	DataDir  string
	DataURL  string
	Format   string
	Sort     string
	Theme    string
	DarkMode bool
}

func newSetupValues(cfg config.Config) *setupValues {
	return &setupValues{
		DataDir:  cfg.General.DataDir,
		DataURL:  cfg.General.DataURL,
		Format:   cfg.General.Format,
		Sort:     cfg.General.Sort,
		Theme:    cfg.Appearance.Theme,
		DarkMode: cfg.Appearance.DarkMode,
	}
}

// apply copies the answers into cfg.
func (v *setupValues) apply(cfg *config.Config) {
	cfg.General.DataDir = strings.TrimSpace(v.DataDir)
	cfg.General.DataURL = strings.TrimSpace(v.DataURL)
	cfg.General.Format = v.Format
	cfg.General.Sort = v.Sort
	cfg.Appearance.Theme = v.Theme
	cfg.Appearance.DarkMode = v.DarkMode
}

func validateDataURL(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	_, err := remote.NewClient(s)
	return err
}

// newSetupForm builds the first-run form. characters < 0 omits the
// found-characters line.
func newSetupForm(characters int, origin string, vals *setupValues) *huh.Form {
	welcome := "Let's set up where your character data lives."
	if characters >= 0 {
		welcome = fmt.Sprintf("Found %d characters in %s.\n\n%s", characters, origin, welcome)
	}

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, th := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(th.Name, th.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to mapletrack").
				Description(welcome),
			huh.NewInput().
				Title("Data directory").
				Description("Folder with account.csv, joblist.csv and the symbol files, or database.yaml.").
				Value(&vals.DataDir),
			huh.NewInput().
				Title("Data URL").
				Description("Optional. A web-hosted data folder; it wins over the directory.").
				Placeholder("https://example.com/data/").
				Validate(validateDataURL).
				Value(&vals.DataURL),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Data format").
				Options(
					huh.NewOption("Detect", string(source.FormatAuto)),
					huh.NewOption("CSV", string(source.FormatCSV)),
					huh.NewOption("YAML", string(source.FormatYAML)),
				).
				Value(&vals.Format),
			huh.NewSelect[string]().
				Title("Sort order").
				Options(
					huh.NewOption("Level, then faction and archetype", string(pipeline.SortByClass)),
					huh.NewOption("Level only", string(pipeline.SortByLevel)),
				).
				Value(&vals.Sort),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Dashboard theme").
				Options(themeOpts...).
				Value(&vals.Theme),
			huh.NewConfirm().
				Title("Dark web pages by default?").
				Affirmative("Dark").
				Negative("Light").
				Value(&vals.DarkMode),
		),
	).WithShowHelp(true)
}

// saveSetupConfig writes the form answers and reports whether the data
// source changed.
func (a *App) saveSetupConfig() bool {
	cfg := loadConfigOrDefault()
	a.setupVals.apply(&cfg)
	_ = config.Save(cfg)
	theme.SetActive(cfg.Appearance.Theme)
	return a.applyDataSettings(cfg)
}

// applyDataSettings points the app at the configured data source. It
// returns true when a reload is needed.
func (a *App) applyDataSettings(cfg config.Config) bool {
	changed := false
	if dir := config.ResolveDataDir(cfg); dir != "" && dir != a.opts.DataDir {
		a.opts.DataDir = dir
		changed = true
	}
	if u := config.ResolveDataURL(cfg); u != a.opts.DataURL {
		a.opts.DataURL = u
		changed = true
	}
	if f, err := source.ParseFormat(cfg.General.Format); err == nil && f != a.opts.Format {
		a.opts.Format = f
		changed = true
	}
	if m, err := pipeline.ParseSortMode(cfg.General.Sort); err == nil && m != a.build.Sort {
		a.build.Sort = m
		changed = true
	}
	return changed
}

// RunSetup runs the setup form on the terminal and saves the answers.
// It returns false when the user aborted.
func RunSetup() (bool, error) {
	cfg := loadConfigOrDefault()
	vals := newSetupValues(cfg)

	if err := newSetupForm(-1, "", vals).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}

	vals.apply(&cfg)
	if err := config.Save(cfg); err != nil {
		return false, fmt.Errorf("saving config: %w", err)
	}
	return true, nil
}
