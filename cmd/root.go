// Package cmd implements the mapletrack CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/my2ndangelic/mapletrack/internal/cli"
	"github.com/my2ndangelic/mapletrack/internal/config"
	"github.com/my2ndangelic/mapletrack/internal/model"
	"github.com/my2ndangelic/mapletrack/internal/pipeline"
	"github.com/my2ndangelic/mapletrack/internal/source"
)

var (
	flagDataDir string
	flagDataURL string
	flagFormat  string
	flagQuiet   bool
	flagNoCache bool
	flagSort    string
	flagJob     string
	flagFaction string
	flagJSON    bool
	flagDebug   bool
)

// appConfig is the loaded config file, with defaults for missing values.
var appConfig = config.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:               "mapletrack",
	Short:             "MapleStory character tracker",
	Long:              "Track MapleStory characters: levels, symbols, equipment and inner abilities from CSV or YAML data.",
	PersistentPreRunE: prepare,
	RunE:              runPage("overview"),
	SilenceUsage:      true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagDataDir, "data-dir", "d", "data", "Data directory with CSV or YAML files")
	pf.StringVar(&flagDataURL, "data-url", "", "Load data files from this base URL instead of --data-dir")
	pf.StringVarP(&flagFormat, "format", "f", "auto", "Data format: auto, csv or yaml")
	pf.BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output and warnings")
	pf.BoolVar(&flagNoCache, "no-cache", false, "Skip SQLite cache, reparse everything")
	pf.StringVarP(&flagSort, "sort", "s", "class", "Sort order: class or level")
	pf.StringVarP(&flagJob, "job", "j", "", "Filter to job (substring match)")
	pf.StringVar(&flagFaction, "faction", "", "Filter to faction")
	pf.BoolVar(&flagJSON, "json", false, "Print JSON instead of a table")
	pf.BoolVar(&flagDebug, "debug", false, "Verbose server logging")
}

// prepare loads .env and the config file, then fills every flag the user
// did not set from the environment or config.
func prepare(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	appConfig = cfg

	flags := cmd.Flags()
	if !flags.Changed("data-dir") {
		if dir := config.ResolveDataDir(cfg); dir != "" {
			flagDataDir = dir
		}
	}
	if !flags.Changed("data-url") {
		flagDataURL = config.ResolveDataURL(cfg)
	}
	if !flags.Changed("format") && cfg.General.Format != "" {
		flagFormat = cfg.General.Format
	}
	if !flags.Changed("sort") && cfg.General.Sort != "" {
		flagSort = cfg.General.Sort
	}
	return nil
}

func loadOptions() (pipeline.LoadOptions, error) {
	format, err := source.ParseFormat(flagFormat)
	if err != nil {
		return pipeline.LoadOptions{}, err
	}
	return pipeline.LoadOptions{
		DataDir:  flagDataDir,
		DataURL:  flagDataURL,
		Format:   format,
		UseCache: !flagNoCache,
	}, nil
}

func buildOptions() (pipeline.Options, error) {
	mode, err := pipeline.ParseSortMode(flagSort)
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		Sort:   mode,
		Filter: pipeline.Filter{Job: flagJob, Faction: flagFaction},
	}, nil
}

// loadRoster is the shared data loading path used by all table commands.
func loadRoster(ctx context.Context) (*model.Roster, *pipeline.LoadReport, error) {
	opts, err := loadOptions()
	if err != nil {
		return nil, nil, err
	}
	build, err := buildOptions()
	if err != nil {
		return nil, nil, err
	}

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Loading %s...\n", opts.Origin())
	}
	opts.Progress = func(current, total int) {
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "\r  Parsing %s", cli.RenderProgressBar(current, total, 20))
		}
	}

	rep, err := pipeline.LoadData(ctx, opts)
	if err != nil {
		return nil, nil, err
	}

	if !flagQuiet {
		switch {
		case rep.TotalFiles == 0:
			fmt.Fprintf(os.Stderr, "\r  No data files found in %s\n", rep.Origin)
		case rep.Cached && rep.Reparsed == 0:
			fmt.Fprintf(os.Stderr, "\r  Loaded %d %s files from cache    \n", rep.TotalFiles, rep.Format)
		case rep.Cached:
			fmt.Fprintf(os.Stderr, "\r  %d cached + %d reparsed %s files    \n", rep.CacheHits, rep.Reparsed, rep.Format)
		default:
			fmt.Fprintf(os.Stderr, "\r  Parsed %d %s files    \n", rep.ParsedFiles, rep.Format)
		}
		if rep.CacheErr != nil {
			fmt.Fprintf(os.Stderr, "  Cache unavailable (%v), did a full parse\n", rep.CacheErr)
		}
	}

	roster := pipeline.Build(&rep.Dataset, build)
	if !flagQuiet {
		for _, e := range rep.Errors {
			fmt.Fprintf(os.Stderr, "  error: %v\n", e)
		}
		warnings := append(append([]string(nil), rep.Warnings...), roster.Warnings...)
		fmt.Fprint(os.Stderr, cli.RenderWarnings(warnings))
	}
	return roster, rep, nil
}
