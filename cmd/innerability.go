package cmd

import "github.com/spf13/cobra"

var innerAbilityCmd = &cobra.Command{
	Use:     "innerability",
	Aliases: []string{"ia"},
	Short:   "Show inner ability presets",
	RunE:    runPage("innerability"),
}

func init() {
	rootCmd.AddCommand(innerAbilityCmd)
}
