package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/my2ndangelic/mapletrack/internal/cli"
	"github.com/my2ndangelic/mapletrack/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := appConfig

	status := "using defaults (no config file)"
	if config.Exists() {
		status = "loaded"
	}
	orNotSet := func(s string) string {
		if s == "" {
			return "not set"
		}
		return s
	}

	fmt.Println()
	printSection("Config", [][2]string{
		{"File", config.ConfigPath()},
		{"Status", status},
	})
	printSection("General", [][2]string{
		{"Data directory", flagDataDir},
		{"Data URL", orNotSet(flagDataURL)},
		{"Format", flagFormat},
		{"Sort", flagSort},
	})
	printSection("Appearance", [][2]string{
		{"Theme", cfg.Appearance.Theme},
		{"Dark web pages", fmt.Sprint(cfg.Appearance.DarkMode)},
	})
	printSection("Server", [][2]string{
		{"Address", cfg.Server.Addr},
		{"Poll interval", cfg.Server.PollEvery().String()},
		{"Events buffer", fmt.Sprint(cfg.Server.EventsBuffer)},
	})
	printSection("Dashboard", [][2]string{
		{"Auto refresh", fmt.Sprint(cfg.TUI.AutoRefresh)},
		{"Refresh interval", fmt.Sprintf("%ds", cfg.TUI.RefreshIntervalSec)},
	})

	var symbols [][2]string
	for _, kind := range config.SymbolKinds {
		spec, ok := config.LookupSymbol(kind)
		if !ok {
			continue
		}
		symbols = append(symbols, [2]string{kind.Title(), fmt.Sprintf(
			"force %d+%d/lvl, stat %d+%d/lvl, max %d, %d regions",
			spec.BaseForce, spec.ForcePerLevel, spec.BaseStat, spec.StatPerLevel, spec.MaxLevel, len(spec.Regions))})
	}
	b := config.GrandSacredBonus()
	symbols = append(symbols, [2]string{"Grand Sacred bonus", fmt.Sprintf(
		"EXP %g+%g, meso %g+%g, drop %g+%g", b.BaseExp, b.ExpPerLevel, b.BaseMeso, b.MesoPerLvl, b.BaseDrop, b.DropPerLvl)})
	printSection("Symbols", symbols)

	if len(cfg.StatScale) > 0 {
		jobs := make([]string, 0, len(cfg.StatScale))
		for job := range cfg.StatScale {
			jobs = append(jobs, job)
		}
		sort.Strings(jobs)
		var scales [][2]string
		for _, job := range jobs {
			s := cfg.StatScale[job]
			scales = append(scales, [2]string{job, fmt.Sprintf("×%d ÷%d", s.Multiplier, s.Divisor)})
		}
		printSection("Stat scale overrides", scales)
	}

	fmt.Println("  Run `mapletrack setup` to reconfigure.")
	return nil
}

// printSection prints a key/value block followed by a blank line.
func printSection(heading string, pairs [][2]string) {
	fmt.Print(cli.RenderKeyValues(heading, pairs))
	fmt.Println()
}
