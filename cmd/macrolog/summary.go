// ABOUTME: CLI command for the daily summary lookup.
// ABOUTME: Prints the summary row for one date as JSON.
package main

import (
	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary <date>",
	Short: "Show the daily summary for a date (YYYY-MM-DD)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		summary, err := store.DailySummary(args[0])
		if err != nil {
			return err
		}
		if summary == nil {
			return printJSON(map[string]string{})
		}
		return printJSON(summary)
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}
