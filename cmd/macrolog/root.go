// ABOUTME: Root Cobra command for the macrolog CLI.
// ABOUTME: Loads config and opens the store scoped to each command run.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lberg/macrolog/internal/config"
	"github.com/lberg/macrolog/internal/storage"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "macrolog",
	Short: "Spreadsheet export ingestion for nutrition and training data",
	Long: `Macrolog ingests nutrition/fitness spreadsheet exports into a local
SQLite store, deduplicating by file content hash and replacing rows by
business key so overlapping re-exports never double-count.

QUICK START:

  $ macrolog init                          # Create the store
  $ macrolog ingest exports/food.xlsx      # Ingest a daily export
  $ macrolog ingest exports/alltime.xlsx   # Bulk exports are auto-detected
  $ macrolog summary 2024-01-15            # Validate what landed

QUERIES:

  $ macrolog log 2024-01-15                # Food entries for a day
  $ macrolog workouts 2024-01-01 2024-01-31
  $ macrolog weight --days 30
  $ macrolog adherence --days 7            # Actuals vs targets
  $ macrolog prs --days 30                 # Heaviest set per exercise
  $ macrolog history                       # Import history`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/macrolog/config.yaml)")
}

// loadConfig reads the config file named by --config or the default path.
func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}

// openStore opens the configured store for the duration of one command.
// Callers must Close it on every path.
func openStore() (*storage.DB, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	store, err := storage.Open(cfg.GetDBPath())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return store, nil
}

// printJSON writes v to stdout as indented JSON. Query output goes to
// stdout; logging goes to stderr so the streams can be split.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
