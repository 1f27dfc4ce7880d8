// ABOUTME: CLI command for recent personal records.
// ABOUTME: Heaviest set per exercise, ties broken by reps.
package main

import (
	"github.com/spf13/cobra"
)

var prsDays int

var prsCmd = &cobra.Command{
	Use:   "prs",
	Short: "Show the heaviest set per exercise for the last N days",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		prs, err := store.RecentPRs(prsDays)
		if err != nil {
			return err
		}
		return printJSON(prs)
	},
}

func init() {
	prsCmd.Flags().IntVar(&prsDays, "days", 30, "window size in days")
	rootCmd.AddCommand(prsCmd)
}
