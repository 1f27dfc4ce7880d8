// ABOUTME: CLI command for rolling macro adherence.
// ABOUTME: Mean actuals vs mean targets over a trailing window.
package main

import (
	"github.com/spf13/cobra"
)

var adherenceDays int

var adherenceCmd = &cobra.Command{
	Use:   "adherence",
	Short: "Show average actuals vs targets for the last N days",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		a, err := store.MacroAdherence(adherenceDays)
		if err != nil {
			return err
		}
		return printJSON(a)
	},
}

func init() {
	adherenceCmd.Flags().IntVar(&adherenceDays, "days", 7, "window size in days")
	rootCmd.AddCommand(adherenceCmd)
}
