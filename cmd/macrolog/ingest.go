// ABOUTME: CLI command for ingesting a spreadsheet export file.
// ABOUTME: Thin wrapper over the engine's sole write entry point.
package main

import (
	"github.com/fatih/color"
	"github.com/lberg/macrolog/internal/ingest"
	"github.com/spf13/cobra"
)

var (
	ingestType       string
	ingestArchiveDir string
	ingestNoArchive  bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "Ingest a spreadsheet export into the store",
	Long: `Ingest a spreadsheet export. The export type is detected from the
worksheet headers; multi-sheet full-history workbooks are decomposed
automatically. Byte-identical files are skipped.

Examples:
  macrolog ingest exports/food-2024-01-15.xlsx
  macrolog ingest exports/alltime.xlsx
  macrolog ingest exports/odd-headers.xlsx --type nutrition`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		archiveDir := cfg.GetArchiveDir()
		if ingestArchiveDir != "" {
			archiveDir = ingestArchiveDir
		}
		if ingestNoArchive {
			archiveDir = ""
		}

		result, err := ingest.NewImporter(store).Ingest(args[0], ingest.Options{
			ExportType: ingestType,
			ArchiveDir: archiveDir,
		})
		if err != nil {
			return err
		}

		if result.Skipped {
			color.Yellow("— Skipped: identical content already imported (%s)", result.FileHash[:12])
			return nil
		}

		color.Green("✓ Imported %d rows as %s", result.RowsImported, result.ExportType)
		if len(result.SheetBreakdown) > 0 {
			return printJSON(result.SheetBreakdown)
		}
		return nil
	},
}

func init() {
	ingestCmd.Flags().StringVar(&ingestType, "type", "", "force export type (nutrition, workout, weight, summary)")
	ingestCmd.Flags().StringVar(&ingestArchiveDir, "archive-dir", "", "move the file here after import (overrides config)")
	ingestCmd.Flags().BoolVar(&ingestNoArchive, "no-archive", false, "leave the file in place after import")
	rootCmd.AddCommand(ingestCmd)
}
