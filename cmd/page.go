package cmd

import (
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/my2ndangelic/mapletrack/internal/cli"
	"github.com/my2ndangelic/mapletrack/internal/model"
	"github.com/my2ndangelic/mapletrack/internal/pipeline"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// runPage returns a command that prints the table of a named page.
func runPage(name string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		page, ok := pipeline.LookupPage(name)
		if !ok {
			return fmt.Errorf("%w: %s", pipeline.ErrUnknownPage, name)
		}
		roster, _, err := loadRoster(cmd.Context())
		if err != nil {
			return err
		}
		return printTables(page.Build(roster))
	}
}

// printTables writes tables as JSON with --json, or as terminal tables.
func printTables(tables ...model.Table) error {
	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if len(tables) == 1 {
			return enc.Encode(tables[0])
		}
		return enc.Encode(tables)
	}

	fmt.Println()
	for _, t := range tables {
		fmt.Print(cli.RenderTable(t))
		fmt.Println()
	}
	return nil
}
