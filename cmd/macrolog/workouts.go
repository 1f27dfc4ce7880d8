// ABOUTME: CLI command for listing workout sets in a date range.
// ABOUTME: Ordered by date, exercise, and set number.
package main

import (
	"github.com/spf13/cobra"
)

var workoutsCmd = &cobra.Command{
	Use:   "workouts <start> <end>",
	Short: "List workout sets between two dates (inclusive)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		sets, err := store.Workouts(args[0], args[1])
		if err != nil {
			return err
		}
		return printJSON(sets)
	},
}

func init() {
	rootCmd.AddCommand(workoutsCmd)
}
