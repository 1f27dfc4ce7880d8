// ABOUTME: The ingestion engine: hash dedup, classification, upsert, archival.
// ABOUTME: One file at a time; canonical rows and history commit in one tx.
package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lberg/macrolog/internal/models"
	"github.com/lberg/macrolog/internal/storage"
	"github.com/xuri/excelize/v2"
)

// Importer ingests spreadsheet exports into a store. It serializes the
// hash-check-then-write sequence under a mutex so two callers cannot both
// observe "not yet imported" for the same content and import it twice.
type Importer struct {
	store *storage.DB
	log   *log.Logger
	mu    sync.Mutex
}

// NewImporter creates an Importer writing to the given store.
func NewImporter(store *storage.DB) *Importer {
	return &Importer{
		store: store,
		log:   log.NewWithOptions(os.Stderr, log.Options{Prefix: "ingest"}),
	}
}

// Options adjusts a single ingestion.
type Options struct {
	// ExportType forces the single-sheet path with the given type instead
	// of header detection. Empty means auto-detect.
	ExportType string

	// ArchiveDir, when set, receives the source file after a successful
	// import. Empty leaves the file in place.
	ArchiveDir string
}

// Result reports the outcome of one ingestion.
type Result struct {
	ExportType     string         `json:"export_type"`
	RowsImported   int            `json:"rows_imported"`
	FileHash       string         `json:"file_hash"`
	FilePath       string         `json:"file_path"`
	Skipped        bool           `json:"skipped"`
	SheetBreakdown map[string]int `json:"sheet_breakdown,omitempty"`
}

// Ingest reads one spreadsheet export and loads it into the store.
//
// The file's SHA-256 content hash is the dedup identity: byte-identical
// content is skipped as a no-op regardless of file name or path. All
// canonical writes plus the history record commit in a single
// transaction, with the history record last, so a failure anywhere
// leaves the file re-ingestible rather than silently lost.
func (imp *Importer) Ingest(path string, opts Options) (*Result, error) {
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	imp.log.Info("starting ingestion", "file", path)

	hash, err := hashFile(path)
	if err != nil {
		return nil, err
	}

	imp.mu.Lock()
	defer imp.mu.Unlock()

	dup, err := imp.store.HasImport(hash)
	if err != nil {
		return nil, err
	}
	if dup {
		imp.log.Info("file already imported, skipping", "hash", hash)
		return &Result{
			ExportType: orUnknown(opts.ExportType),
			FileHash:   hash,
			FilePath:   path,
			Skipped:    true,
		}, nil
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if opts.ExportType == "" && isBulkWorkbook(f.GetSheetList()) {
		return imp.ingestBulkFile(f, path, hash, opts)
	}
	return imp.ingestSingle(f, path, hash, opts)
}

// ingestBulkFile handles a multi-sheet full-history export.
func (imp *Importer) ingestBulkFile(f *excelize.File, path, hash string, opts Options) (*Result, error) {
	imp.log.Info("detected bulk export, processing sheets")
	now := time.Now()
	source := filepath.Base(path)

	var breakdown map[string]int
	err := imp.store.WithTx(func(tx *storage.Tx) error {
		var err error
		breakdown, err = imp.ingestBulk(f, tx, source, now)
		if err != nil {
			return err
		}
		total := 0
		for _, n := range breakdown {
			total += n
		}
		return tx.RecordImport(models.NewImportRecord(models.ExportBulk, path, hash, total))
	})
	if err != nil {
		return nil, err
	}

	total := 0
	for _, n := range breakdown {
		total += n
	}
	imp.log.Info("bulk ingestion complete", "rows", total)

	if opts.ArchiveDir != "" {
		if err := imp.archive(path, opts.ArchiveDir); err != nil {
			return nil, err
		}
	}

	return &Result{
		ExportType:     string(models.ExportBulk),
		RowsImported:   total,
		FileHash:       hash,
		FilePath:       path,
		SheetBreakdown: breakdown,
	}, nil
}

// ingestSingle handles a single-sheet export: detect (or trust the
// caller's explicit type), prepare, upsert, record.
func (imp *Importer) ingestSingle(f *excelize.File, path, hash string, opts Options) (*Result, error) {
	sheet, err := readFirstSheet(f)
	if err != nil {
		return nil, err
	}
	imp.log.Info("read worksheet", "rows", len(sheet.Rows), "columns", len(sheet.Headers))

	if len(sheet.Rows) == 0 {
		// No rows, no history entry: a later corrected export under the
		// same name must stay ingestible.
		imp.log.Warn("empty worksheet", "file", path)
		return &Result{
			ExportType: orUnknown(opts.ExportType),
			FileHash:   hash,
			FilePath:   path,
		}, nil
	}

	exportType, err := imp.classify(sheet, opts.ExportType)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ds, err := prepare(exportType, sheet, filepath.Base(path), now)
	if err != nil {
		return nil, err
	}

	var rows int
	err = imp.store.WithTx(func(tx *storage.Tx) error {
		var err error
		rows, err = ds.upsert(tx)
		if err != nil {
			return err
		}
		return tx.RecordImport(models.NewImportRecord(exportType, path, hash, rows))
	})
	if err != nil {
		return nil, err
	}
	imp.log.Info("ingestion complete", "rows", rows, "type", exportType)

	if opts.ArchiveDir != "" {
		if err := imp.archive(path, opts.ArchiveDir); err != nil {
			return nil, err
		}
	}

	return &Result{
		ExportType:   string(exportType),
		RowsImported: rows,
		FileHash:     hash,
		FilePath:     path,
	}, nil
}

// classify resolves the worksheet's export type. An explicit type wins
// over detection; a mismatch is only worth a warning.
func (imp *Importer) classify(sheet *Sheet, explicit string) (models.ExportType, error) {
	if explicit != "" {
		if !models.IsValidExportType(explicit) {
			return "", fmt.Errorf("unknown export type %q", explicit)
		}
		if detected, err := DetectExportType(sheet.Headers); err == nil && string(detected) != explicit {
			imp.log.Warn("explicit type differs from detected", "explicit", explicit, "detected", detected)
		}
		return models.ExportType(explicit), nil
	}
	return DetectExportType(sheet.Headers)
}

// archive moves an ingested file into the archive directory. A name
// collision gets a timestamp suffix; existing files are never overwritten.
func (imp *Importer) archive(path, dir string) error {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("create archive directory: %w", err)
	}

	base := filepath.Base(path)
	dest := filepath.Join(dir, base)
	if _, err := os.Stat(dest); err == nil {
		ext := filepath.Ext(base)
		stem := strings.TrimSuffix(base, ext)
		ts := time.Now().Format("20060102_150405")
		dest = filepath.Join(dir, fmt.Sprintf("%s_%s%s", stem, ts, ext))
	}

	if err := moveFile(path, dest); err != nil {
		return fmt.Errorf("archive file: %w", err)
	}
	imp.log.Info("archived file", "dest", dest)
	return nil
}

// moveFile renames when possible and falls back to copy-and-remove for
// cross-device moves.
func moveFile(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}

// hashFile returns the SHA-256 hex digest of a file's raw bytes.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file for hashing: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func orUnknown(exportType string) string {
	if exportType == "" {
		return "unknown"
	}
	return exportType
}
