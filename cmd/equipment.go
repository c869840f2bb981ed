package cmd

import (
	"github.com/spf13/cobra"
)

var flagAccessory bool

var equipmentCmd = &cobra.Command{
	Use:     "equipment",
	Aliases: []string{"armor"},
	Short:   "Show equipped armor, or accessories with --accessory",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagAccessory {
			return runPage("accessory")(cmd, args)
		}
		return runPage("equipment")(cmd, args)
	},
}

func init() {
	equipmentCmd.Flags().BoolVarP(&flagAccessory, "accessory", "a", false, "Show accessories instead of armor")
	rootCmd.AddCommand(equipmentCmd)
}
