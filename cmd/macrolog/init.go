// ABOUTME: CLI command for initializing the store.
// ABOUTME: Idempotently creates tables and indexes at the configured path.
package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create or update the store schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		color.Green("✓ Store ready at %s", store.Path())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
