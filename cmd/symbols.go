package cmd

import (
	"github.com/spf13/cobra"

	"github.com/my2ndangelic/mapletrack/internal/config"
	"github.com/my2ndangelic/mapletrack/internal/model"
	"github.com/my2ndangelic/mapletrack/internal/pipeline"
)

var symbolsCmd = &cobra.Command{
	Use:       "symbols [arcane|sacred|grandsacred]",
	Short:     "Show per-region symbol levels",
	Long:      "Show per-region symbol levels. Without an argument every symbol kind is shown.",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"arcane", "sacred", "grandsacred"},
	RunE:      runSymbols,
}

func init() {
	rootCmd.AddCommand(symbolsCmd)
}

func runSymbols(cmd *cobra.Command, args []string) error {
	kinds := config.SymbolKinds
	if len(args) == 1 {
		kind, err := config.ParseSymbolKind(args[0])
		if err != nil {
			return err
		}
		kinds = []config.SymbolKind{kind}
	}

	roster, _, err := loadRoster(cmd.Context())
	if err != nil {
		return err
	}

	tables := make([]model.Table, 0, len(kinds))
	for _, k := range kinds {
		tables = append(tables, pipeline.SymbolTable(roster, k))
	}
	return printTables(tables...)
}
