// ABOUTME: End-to-end ingestion tests over real workbooks and a temp store.
// ABOUTME: Covers dedup, replace semantics, bulk decomposition, archival.
package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lberg/macrolog/internal/storage"
	"github.com/xuri/excelize/v2"
)

type fixtureSheet struct {
	name string
	rows [][]interface{}
}

func writeWorkbook(t *testing.T, path string, sheets ...fixtureSheet) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sh.name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
		} else {
			if _, err := f.NewSheet(sh.name); err != nil {
				t.Fatalf("create sheet %s: %v", sh.name, err)
			}
		}
		for r := range sh.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetSheetRow(sh.name, cell, &sh.rows[r]); err != nil {
				t.Fatalf("set row: %v", err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
}

func newTestStore(t *testing.T) *storage.DB {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func nutritionFixture(t *testing.T, dir, name, calories string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	writeWorkbook(t, path, fixtureSheet{
		name: "Food Log",
		rows: [][]interface{}{
			{"Date", "Meal", "Food Name", "Calories", "Protein", "Carbs", "Fat"},
			{"2024-01-01", "Breakfast", "Oatmeal", calories, "10", "54", "5"},
		},
	})
	return path
}

func TestIngestNutritionExport(t *testing.T) {
	store := newTestStore(t)
	imp := NewImporter(store)
	path := nutritionFixture(t, t.TempDir(), "food.xlsx", "300")

	result, err := imp.Ingest(path, Options{})
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if result.Skipped {
		t.Error("first ingest should not be skipped")
	}
	if result.ExportType != "nutrition" {
		t.Errorf("export type: got %s, want nutrition", result.ExportType)
	}
	if result.RowsImported != 1 {
		t.Errorf("rows imported: got %d, want 1", result.RowsImported)
	}
	if len(result.FileHash) != 64 {
		t.Errorf("expected sha-256 hex hash, got %q", result.FileHash)
	}

	entries, err := store.NutritionLog("2024-01-01")
	if err != nil {
		t.Fatalf("NutritionLog failed: %v", err)
	}
	if len(entries) != 1 || entries[0].FoodName != "Oatmeal" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
	if entries[0].Source != "food.xlsx" {
		t.Errorf("source: got %q", entries[0].Source)
	}
}

// Ingesting identical content twice is a no-op, regardless of file name.
func TestIngestIdempotence(t *testing.T) {
	store := newTestStore(t)
	imp := NewImporter(store)
	dir := t.TempDir()
	path := nutritionFixture(t, dir, "food.xlsx", "300")

	first, err := imp.Ingest(path, Options{})
	if err != nil {
		t.Fatalf("first ingest failed: %v", err)
	}

	// Same bytes under a different name.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	renamed := filepath.Join(dir, "renamed.xlsx")
	if err := os.WriteFile(renamed, data, 0600); err != nil {
		t.Fatalf("copy fixture: %v", err)
	}

	second, err := imp.Ingest(renamed, Options{})
	if err != nil {
		t.Fatalf("second ingest failed: %v", err)
	}
	if !second.Skipped {
		t.Error("second ingest should be skipped")
	}
	if second.RowsImported != 0 {
		t.Errorf("skipped ingest imported %d rows", second.RowsImported)
	}
	if second.FileHash != first.FileHash {
		t.Errorf("hash mismatch: %s vs %s", first.FileHash, second.FileHash)
	}

	entries, err := store.NutritionLog("2024-01-01")
	if err != nil {
		t.Fatalf("NutritionLog failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 entry after duplicate ingest, got %d", len(entries))
	}
}

// A row sharing a business key replaces the existing row in place.
func TestIngestUpsertReplace(t *testing.T) {
	store := newTestStore(t)
	imp := NewImporter(store)
	dir := t.TempDir()

	if _, err := imp.Ingest(nutritionFixture(t, dir, "a.xlsx", "300"), Options{}); err != nil {
		t.Fatalf("first ingest failed: %v", err)
	}
	if _, err := imp.Ingest(nutritionFixture(t, dir, "b.xlsx", "310"), Options{}); err != nil {
		t.Fatalf("second ingest failed: %v", err)
	}

	entries, err := store.NutritionLog("2024-01-01")
	if err != nil {
		t.Fatalf("NutritionLog failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly 1 row, got %d", len(entries))
	}
	if entries[0].Calories == nil || *entries[0].Calories != 310 {
		t.Errorf("last write should win: got %v", entries[0].Calories)
	}
}

func TestIngestDetectionFailureLeavesFileUnarchived(t *testing.T) {
	store := newTestStore(t)
	imp := NewImporter(store)
	dir := t.TempDir()
	archive := filepath.Join(dir, "archive")

	path := filepath.Join(dir, "mystery.xlsx")
	writeWorkbook(t, path, fixtureSheet{
		name: "Mystery",
		rows: [][]interface{}{
			{"Foo", "Bar"},
			{"1", "2"},
		},
	})

	_, err := imp.Ingest(path, Options{ArchiveDir: archive})
	if err == nil {
		t.Fatal("expected a detection error")
	}
	if !strings.Contains(err.Error(), "Foo") {
		t.Errorf("error should name the offending headers: %v", err)
	}
	if _, statErr := os.Stat(path); statErr != nil {
		t.Errorf("file should remain in place after detection failure: %v", statErr)
	}

	records, err := store.ImportHistory(0)
	if err != nil {
		t.Fatalf("ImportHistory failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("no history should be recorded for a failed ingest, got %d", len(records))
	}
}

func TestIngestExplicitTypeOverridesDetection(t *testing.T) {
	store := newTestStore(t)
	imp := NewImporter(store)

	// Headers that would detect as summary, forced to nutrition.
	path := filepath.Join(t.TempDir(), "forced.xlsx")
	writeWorkbook(t, path, fixtureSheet{
		name: "Data",
		rows: [][]interface{}{
			{"Date", "Calories", "Protein", "Calorie Target", "Expenditure"},
			{"2024-01-01", "2100", "150", "2200", "2650"},
		},
	})

	result, err := imp.Ingest(path, Options{ExportType: "nutrition"})
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if result.ExportType != "nutrition" {
		t.Errorf("explicit type should win: got %s", result.ExportType)
	}

	entries, err := store.NutritionLog("2024-01-01")
	if err != nil {
		t.Fatalf("NutritionLog failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected a nutrition row, got %d", len(entries))
	}
}

func TestIngestRejectsBogusExplicitType(t *testing.T) {
	store := newTestStore(t)
	imp := NewImporter(store)
	path := nutritionFixture(t, t.TempDir(), "food.xlsx", "300")

	if _, err := imp.Ingest(path, Options{ExportType: "pilates"}); err == nil {
		t.Fatal("expected an error for an unknown explicit type")
	}
}

func TestIngestEmptyWorksheet(t *testing.T) {
	store := newTestStore(t)
	imp := NewImporter(store)

	path := filepath.Join(t.TempDir(), "empty.xlsx")
	writeWorkbook(t, path, fixtureSheet{
		name: "Food Log",
		rows: [][]interface{}{
			{"Date", "Meal", "Calories", "Protein", "Carbs", "Fat"},
		},
	})

	result, err := imp.Ingest(path, Options{})
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if result.RowsImported != 0 || result.Skipped {
		t.Errorf("unexpected result: %+v", result)
	}

	// No history entry: the file stays re-ingestible once corrected.
	records, err := store.ImportHistory(0)
	if err != nil {
		t.Fatalf("ImportHistory failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("empty workbook should not be recorded, got %d entries", len(records))
	}
}

func TestIngestArchivesFile(t *testing.T) {
	store := newTestStore(t)
	imp := NewImporter(store)
	dir := t.TempDir()
	archive := filepath.Join(dir, "archive")

	path := nutritionFixture(t, dir, "food.xlsx", "300")
	if _, err := imp.Ingest(path, Options{ArchiveDir: archive}); err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("source file should have been moved")
	}
	if _, err := os.Stat(filepath.Join(archive, "food.xlsx")); err != nil {
		t.Errorf("archived file missing: %v", err)
	}
}

func TestIngestArchiveCollisionGetsSuffix(t *testing.T) {
	store := newTestStore(t)
	imp := NewImporter(store)
	dir := t.TempDir()
	archive := filepath.Join(dir, "archive")

	if err := os.MkdirAll(archive, 0750); err != nil {
		t.Fatalf("mkdir archive: %v", err)
	}
	if err := os.WriteFile(filepath.Join(archive, "food.xlsx"), []byte("occupied"), 0600); err != nil {
		t.Fatalf("seed archive: %v", err)
	}

	path := nutritionFixture(t, dir, "food.xlsx", "300")
	if _, err := imp.Ingest(path, Options{ArchiveDir: archive}); err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	// The occupant is untouched and the new file got a suffixed name.
	data, err := os.ReadFile(filepath.Join(archive, "food.xlsx"))
	if err != nil || string(data) != "occupied" {
		t.Errorf("existing archive file was overwritten")
	}
	matches, err := filepath.Glob(filepath.Join(archive, "food_*.xlsx"))
	if err != nil || len(matches) != 1 {
		t.Errorf("expected one suffixed archive file, got %v", matches)
	}
}
