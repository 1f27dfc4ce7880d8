// ABOUTME: CLI command for the recent weight trend.
// ABOUTME: Scale and trend observations over a trailing window.
package main

import (
	"github.com/spf13/cobra"
)

var weightDays int

var weightCmd = &cobra.Command{
	Use:   "weight",
	Short: "List weight observations for the last N days",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		obs, err := store.WeightTrend(weightDays)
		if err != nil {
			return err
		}
		return printJSON(obs)
	},
}

func init() {
	weightCmd.Flags().IntVar(&weightDays, "days", 30, "window size in days")
	rootCmd.AddCommand(weightCmd)
}
