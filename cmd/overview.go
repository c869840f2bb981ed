package cmd

import "github.com/spf13/cobra"

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Show levels, symbol force, stats and Grand Sacred bonuses",
	RunE:  runPage("overview"),
}

func init() {
	rootCmd.AddCommand(overviewCmd)
}
