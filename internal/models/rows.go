// ABOUTME: Canonical row structs, one per table in the analytical store.
// ABOUTME: Dates are ISO-8601 day strings; optional fields are pointers.
package models

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the canonical day format used for every date column.
const DateLayout = "2006-01-02"

// NutritionEntry is one logged food, keyed by (date, meal, food name).
type NutritionEntry struct {
	Date        string    `json:"date"`
	Meal        string    `json:"meal"`
	FoodName    string    `json:"food_name"`
	Calories    *float64  `json:"calories,omitempty"`
	ProteinG    *float64  `json:"protein_g,omitempty"`
	CarbsG      *float64  `json:"carbs_g,omitempty"`
	FatG        *float64  `json:"fat_g,omitempty"`
	FiberG      *float64  `json:"fiber_g,omitempty"`
	SodiumMg    *float64  `json:"sodium_mg,omitempty"`
	FoodDetails *string   `json:"food_details,omitempty"`
	Source      string    `json:"source,omitempty"`
	ImportedAt  time.Time `json:"imported_at"`
}

// WorkoutSet is one set of one exercise, keyed by (date, exercise, set number).
type WorkoutSet struct {
	Date         string    `json:"date"`
	ExerciseName string    `json:"exercise_name"`
	SetNumber    int       `json:"set_number"`
	WorkoutName  *string   `json:"workout_name,omitempty"`
	DurationMin  *float64  `json:"duration_min,omitempty"`
	Reps         *int      `json:"reps,omitempty"`
	WeightKg     *float64  `json:"weight_kg,omitempty"`
	RPE          *float64  `json:"rpe,omitempty"`
	Notes        *string   `json:"notes,omitempty"`
	Source       string    `json:"source,omitempty"`
	ImportedAt   time.Time `json:"imported_at"`
}

// WeightObservation is at most one row per date. Scale-only or trend-only
// observations are legal; the missing side stays nil.
type WeightObservation struct {
	Date          string    `json:"date"`
	ScaleWeightKg *float64  `json:"scale_weight_kg,omitempty"`
	TrendWeightKg *float64  `json:"trend_weight_kg,omitempty"`
	Source        string    `json:"source,omitempty"`
	ImportedAt    time.Time `json:"imported_at"`
}

// DailySummary is exactly one row per date, filled in incrementally:
// macro totals from one sheet, expenditure from another, targets resolved
// from the nutrition program history.
type DailySummary struct {
	Date            string    `json:"date"`
	TotalCalories   *float64  `json:"total_calories,omitempty"`
	TotalProteinG   *float64  `json:"total_protein_g,omitempty"`
	TotalCarbsG     *float64  `json:"total_carbs_g,omitempty"`
	TotalFatG       *float64  `json:"total_fat_g,omitempty"`
	CalorieTarget   *float64  `json:"calorie_target,omitempty"`
	ProteinTargetG  *float64  `json:"protein_target_g,omitempty"`
	ExpenditureKcal *float64  `json:"expenditure_kcal,omitempty"`
	Source          string    `json:"source,omitempty"`
	ImportedAt      time.Time `json:"imported_at"`
}

// ImportRecord is the history entry written once per distinct file content.
// FileHash is the sole dedup key.
type ImportRecord struct {
	ID           uuid.UUID  `json:"id"`
	ExportType   ExportType `json:"export_type"`
	FilePath     string     `json:"file_path"`
	FileHash     string     `json:"file_hash"`
	RowsImported int        `json:"rows_imported"`
	ImportedAt   time.Time  `json:"imported_at"`
}

// NewImportRecord creates an ImportRecord with a generated id, stamped now.
func NewImportRecord(exportType ExportType, filePath, fileHash string, rows int) *ImportRecord {
	return &ImportRecord{
		ID:           uuid.New(),
		ExportType:   exportType,
		FilePath:     filePath,
		FileHash:     fileHash,
		RowsImported: rows,
		ImportedAt:   time.Now(),
	}
}
