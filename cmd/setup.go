package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/my2ndangelic/mapletrack/internal/config"
	"github.com/my2ndangelic/mapletrack/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	saved, err := tui.RunSetup()
	if err != nil {
		return err
	}
	if !saved {
		fmt.Println("  Setup cancelled, nothing saved.")
		return nil
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `mapletrack setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
