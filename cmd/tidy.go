package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/my2ndangelic/mapletrack/internal/source"
)

var flagTidyAscending bool

var tidyCmd = &cobra.Command{
	Use:   "tidy",
	Short: "Sort account.csv by level and reorder the other CSV files to match",
	RunE:  runTidy,
}

func init() {
	tidyCmd.Flags().BoolVar(&flagTidyAscending, "ascending", false, "Sort lowest level first")
	rootCmd.AddCommand(tidyCmd)
}

func runTidy(_ *cobra.Command, _ []string) error {
	report, err := source.TidyDir(flagDataDir, flagTidyAscending)
	if err != nil {
		return fmt.Errorf("tidying %s: %w", flagDataDir, err)
	}

	order := "descending"
	if flagTidyAscending {
		order = "ascending"
	}
	fmt.Printf("  Sorted accounts by level (%s)\n", order)
	fmt.Printf("  Rewrote: %s\n", strings.Join(report.Sorted, ", "))
	if len(report.Missing) > 0 && !flagQuiet {
		fmt.Printf("  Not found: %s\n", strings.Join(report.Missing, ", "))
	}
	return nil
}
