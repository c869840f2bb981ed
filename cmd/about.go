package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/my2ndangelic/mapletrack/internal/cli"
	"github.com/my2ndangelic/mapletrack/internal/pipeline"
)

var aboutCmd = &cobra.Command{
	Use:   "about",
	Short: "Describe the available pages",
	RunE:  runAbout,
}

func init() {
	rootCmd.AddCommand(aboutCmd)
}

func runAbout(_ *cobra.Command, _ []string) error {
	tbl := pipeline.AboutTable(nil)
	if flagJSON {
		return printTables(tbl)
	}
	fmt.Println()
	fmt.Println(cli.RenderTitle("MAPLESTORY TRACKER"))
	fmt.Println()
	fmt.Println("  Levels, symbols, equipment and inner abilities of every character,")
	fmt.Println("  read from account.csv and friends or from database.yaml.")
	fmt.Println()
	fmt.Print(cli.RenderTable(tbl))
	fmt.Println()
	return nil
}
