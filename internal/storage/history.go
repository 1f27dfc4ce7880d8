// ABOUTME: Export history lookups and inserts for file-hash deduplication.
// ABOUTME: The history row is written last, inside the import transaction.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lberg/macrolog/internal/models"
)

// HasImport reports whether a file with the given content hash has
// already been ingested. The hash is the sole dedup key; file names and
// paths are ignored.
func (d *DB) HasImport(fileHash string) (bool, error) {
	var id string
	err := d.db.QueryRow(
		"SELECT id FROM export_history WHERE file_hash = ? LIMIT 1", fileHash,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check import history: %w", err)
	}
	return true, nil
}

// RecordImport inserts the history entry for a completed ingestion.
func (t *Tx) RecordImport(rec *models.ImportRecord) error {
	_, err := t.tx.Exec(`
		INSERT INTO export_history (id, export_type, file_path, file_hash, rows_imported, imported_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID.String(),
		string(rec.ExportType),
		rec.FilePath,
		rec.FileHash,
		rec.RowsImported,
		rec.ImportedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record import: %w", err)
	}
	return nil
}

// ImportHistory returns the most recent history entries, newest first.
func (d *DB) ImportHistory(limit int) ([]*models.ImportRecord, error) {
	query := "SELECT id, export_type, file_path, file_hash, rows_imported, imported_at FROM export_history ORDER BY imported_at DESC"
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list import history: %w", err)
	}
	defer rows.Close()

	records := []*models.ImportRecord{}
	for rows.Next() {
		var rec models.ImportRecord
		var idStr, exportType, importedAt string
		if err := rows.Scan(&idStr, &exportType, &rec.FilePath, &rec.FileHash, &rec.RowsImported, &importedAt); err != nil {
			return nil, fmt.Errorf("scan import record: %w", err)
		}
		rec.ID, _ = uuid.Parse(idStr)
		rec.ExportType = models.ExportType(exportType)
		rec.ImportedAt, _ = time.Parse(time.RFC3339, importedAt)
		records = append(records, &rec)
	}
	return records, rows.Err()
}
