// ABOUTME: CLI command for listing food entries on a date.
// ABOUTME: Ordered by meal, then food name.
package main

import (
	"github.com/spf13/cobra"
)

var logCmd = &cobra.Command{
	Use:   "log <date>",
	Short: "List food entries for a date (YYYY-MM-DD)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.NutritionLog(args[0])
		if err != nil {
			return err
		}
		return printJSON(entries)
	},
}

func init() {
	rootCmd.AddCommand(logCmd)
}
