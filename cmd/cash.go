package cmd

import "github.com/spf13/cobra"

var cashCmd = &cobra.Command{
	Use:   "cash",
	Short: "Show cash shop items per character",
	RunE:  runPage("cash"),
}

func init() {
	rootCmd.AddCommand(cashCmd)
}
