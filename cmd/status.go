package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/my2ndangelic/mapletrack/internal/cli"
	"github.com/my2ndangelic/mapletrack/internal/model"
	"github.com/my2ndangelic/mapletrack/internal/pipeline"
	"github.com/my2ndangelic/mapletrack/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show roster totals and level changes since the last run",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	// Read the previous levels before loading refreshes the cache.
	var previous map[string]model.Account
	cacheEntries := -1
	if !flagNoCache && flagDataURL == "" {
		if cache, err := store.Open(pipeline.CachePath()); err == nil {
			previous, _ = cache.CachedAccounts()
			_ = cache.Close()
		}
	}

	roster, rep, err := loadRoster(cmd.Context())
	if err != nil {
		return err
	}

	if !flagNoCache && flagDataURL == "" {
		if cache, err := store.Open(pipeline.CachePath()); err == nil {
			cacheEntries, _ = cache.EntryCount()
			_ = cache.Close()
		}
	}

	s := pipeline.Summarize(roster)
	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("MAPLETRACK STATUS"))
	fmt.Println()

	pairs := [][2]string{
		{"Source", rep.Origin},
		{"Format", string(rep.Format)},
		{"Files", fmt.Sprintf("%d parsed, %d failed", rep.ParsedFiles, rep.FileErrors)},
	}
	if cacheEntries >= 0 {
		size := ""
		if st, err := os.Stat(pipeline.CachePath()); err == nil {
			size = ", " + cli.FormatBytes(st.Size())
		}
		pairs = append(pairs, [2]string{"Cache", fmt.Sprintf("%d files%s", cacheEntries, size)})
	}
	fmt.Print(cli.RenderKeyValues("Data", pairs))
	fmt.Println()

	totals := [][2]string{
		{"Characters", cli.FormatNumber(int64(s.Characters))},
		{"Total level", cli.FormatNumber(int64(s.TotalLevel))},
		{"Average level", cli.FormatAverage(s.AverageLevel)},
		{"Highest", fmt.Sprintf("%s (%s)", s.HighestIGN, cli.FormatLevel(s.HighestLevel))},
		{"Arcane force", cli.FormatNumber(int64(s.ArcaneForce))},
		{"Sacred force", cli.FormatNumber(int64(s.SacredForce))},
		{"Maxed symbols", cli.FormatNumber(int64(s.MaxedSymbols))},
		{"Warnings", cli.FormatNumber(int64(s.Warnings))},
	}
	fmt.Print(cli.RenderKeyValues("Roster", totals))
	fmt.Println()

	if len(s.Factions) > 0 {
		names := make([]string, 0, len(s.Factions))
		for f := range s.Factions {
			names = append(names, f)
		}
		sort.Slice(names, func(i, j int) bool {
			if s.Factions[names[i]] != s.Factions[names[j]] {
				return s.Factions[names[i]] > s.Factions[names[j]]
			}
			return names[i] < names[j]
		})
		rows := make([][2]string, len(names))
		for i, f := range names {
			rows[i] = [2]string{f, cli.FormatRatio(s.Factions[f], s.Characters)}
		}
		fmt.Print(cli.RenderKeyValues("Factions", rows))
		fmt.Println()
	}

	if ups := levelUps(previous, roster.Characters); len(ups) > 0 {
		fmt.Print(cli.RenderKeyValues("Level ups since last run", ups))
		fmt.Println()
	}
	return nil
}

// levelUps lists characters whose level rose since the cached account list.
func levelUps(previous map[string]model.Account, chars []model.Character) [][2]string {
	if len(previous) == 0 {
		return nil
	}
	var out [][2]string
	for _, c := range chars {
		old, ok := previous[c.IGN]
		if !ok || old.Level <= 0 || c.Level <= old.Level {
			continue
		}
		out = append(out, [2]string{c.IGN, fmt.Sprintf("%d -> %d (+%d)", old.Level, c.Level, c.Level-old.Level)})
	}
	return out
}
