package cmd

import "github.com/spf13/cobra"

var progressionCmd = &cobra.Command{
	Use:   "progression",
	Short: "Show faction, archetype, class and main stat per character",
	RunE:  runPage("progression"),
}

func init() {
	rootCmd.AddCommand(progressionCmd)
}
