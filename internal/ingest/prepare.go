// ABOUTME: Per-type preparers mapping normalized worksheets onto canonical rows.
// ABOUTME: Pure transformations; dispatch is an exhaustive switch over the enum.
package ingest

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/lberg/macrolog/internal/models"
	"github.com/lberg/macrolog/internal/storage"
)

// Header→field maps per export type. Aliases cover the variation between
// export modes ("Name" vs "Food Name", "Set" vs "Set Number", totals
// prefixed or not). Unmapped headers are dropped from typed fields.
var (
	nutritionColMap = map[string]string{
		"Date":      "date",
		"Meal":      "meal",
		"Calories":  "calories",
		"Protein":   "protein_g",
		"Carbs":     "carbs_g",
		"Fat":       "fat_g",
		"Fiber":     "fiber_g",
		"Sodium":    "sodium_mg",
		"Food Name": "food_name",
		"Name":      "food_name",
	}

	setNumberHeaders = []string{"Set Number", "Set"}

	summaryColMap = map[string]func(*models.DailySummary, *float64){
		"Calories":       func(s *models.DailySummary, v *float64) { s.TotalCalories = v },
		"Total Calories": func(s *models.DailySummary, v *float64) { s.TotalCalories = v },
		"Protein":        func(s *models.DailySummary, v *float64) { s.TotalProteinG = v },
		"Total Protein":  func(s *models.DailySummary, v *float64) { s.TotalProteinG = v },
		"Carbs":          func(s *models.DailySummary, v *float64) { s.TotalCarbsG = v },
		"Total Carbs":    func(s *models.DailySummary, v *float64) { s.TotalCarbsG = v },
		"Fat":            func(s *models.DailySummary, v *float64) { s.TotalFatG = v },
		"Total Fat":      func(s *models.DailySummary, v *float64) { s.TotalFatG = v },
		"Calorie Target": func(s *models.DailySummary, v *float64) { s.CalorieTarget = v },
		"Protein Target": func(s *models.DailySummary, v *float64) { s.ProteinTargetG = v },
		"Expenditure":    func(s *models.DailySummary, v *float64) { s.ExpenditureKcal = v },
	}
)

// dataset holds the prepared rows of exactly one export type.
type dataset struct {
	exportType models.ExportType
	nutrition  []models.NutritionEntry
	workouts   []models.WorkoutSet
	weights    []models.WeightObservation
	summaries  []models.DailySummary
}

// prepare maps a normalized worksheet into canonical rows for one export
// type. An export type outside the enum's domain is a programming error
// and fails loudly rather than being skipped.
func prepare(exportType models.ExportType, s *Sheet, source string, now time.Time) (*dataset, error) {
	ds := &dataset{exportType: exportType}
	switch exportType {
	case models.ExportNutrition:
		ds.nutrition = prepareNutrition(s, source, now)
	case models.ExportWorkout:
		ds.workouts = prepareWorkouts(s, source, now)
	case models.ExportWeight:
		ds.weights = prepareWeights(s, source, now)
	case models.ExportSummary:
		ds.summaries = prepareSummaries(s, source, now)
	default:
		return nil, fmt.Errorf("no preparer registered for export type %q", exportType)
	}
	return ds, nil
}

// upsert writes the dataset's rows through the transaction and returns
// the row count.
func (ds *dataset) upsert(tx *storage.Tx) (int, error) {
	switch ds.exportType {
	case models.ExportNutrition:
		return tx.UpsertNutrition(ds.nutrition)
	case models.ExportWorkout:
		return tx.UpsertWorkouts(ds.workouts)
	case models.ExportWeight:
		return tx.UpsertWeights(ds.weights)
	case models.ExportSummary:
		return tx.UpsertSummaries(ds.summaries)
	default:
		return 0, fmt.Errorf("no writer registered for export type %q", ds.exportType)
	}
}

// prepareNutrition maps food rows. Values under unrecognized headers are
// kept losslessly as a JSON blob in food_details. Rows whose date cell
// cannot be parsed have no primary key and are dropped.
func prepareNutrition(s *Sheet, source string, now time.Time) []models.NutritionEntry {
	var entries []models.NutritionEntry
	for _, row := range s.Rows {
		date, err := parseDate(row["Date"])
		if err != nil {
			continue
		}

		e := models.NutritionEntry{
			Date:       date.Format(models.DateLayout),
			Meal:       defaultUnknown(row["Meal"]),
			FoodName:   "Unknown",
			Source:     source,
			ImportedAt: now,
		}
		if v, ok := row["Food Name"]; ok {
			e.FoodName = v
		} else if v, ok := row["Name"]; ok {
			e.FoodName = v
		}

		e.Calories = floatCell(row, "Calories")
		e.ProteinG = floatCell(row, "Protein")
		e.CarbsG = floatCell(row, "Carbs")
		e.FatG = floatCell(row, "Fat")
		e.FiberG = floatCell(row, "Fiber")
		e.SodiumMg = floatCell(row, "Sodium")

		if extras := collectExtras(row, nutritionColMap); extras != nil {
			e.FoodDetails = extras
		}

		entries = append(entries, e)
	}
	return entries
}

// prepareWorkouts maps exercise set rows. When the source omits a set
// number column, sets get a 1-based position within the batch.
func prepareWorkouts(s *Sheet, source string, now time.Time) []models.WorkoutSet {
	hasSetColumn := false
	for _, h := range setNumberHeaders {
		if s.HasHeader(h) {
			hasSetColumn = true
		}
	}

	var sets []models.WorkoutSet
	for _, row := range s.Rows {
		date, err := parseDate(row["Date"])
		if err != nil {
			continue
		}

		set := models.WorkoutSet{
			Date:         date.Format(models.DateLayout),
			ExerciseName: defaultUnknown(row["Exercise Name"]),
			SetNumber:    len(sets) + 1,
			Source:       source,
			ImportedAt:   now,
		}
		if hasSetColumn {
			for _, h := range setNumberHeaders {
				if n, ok := parseInt(row[h]); ok {
					set.SetNumber = n
					break
				}
			}
		}

		set.WorkoutName = strCell(row, "Workout Name")
		set.DurationMin = floatCell(row, "Duration")
		if n, ok := parseInt(row["Reps"]); ok {
			set.Reps = &n
		}
		set.WeightKg = floatCell(row, "Weight")
		set.RPE = floatCell(row, "RPE")
		set.Notes = strCell(row, "Notes")

		sets = append(sets, set)
	}
	return sets
}

// prepareWeights maps scale/trend weight rows keyed by date.
func prepareWeights(s *Sheet, source string, now time.Time) []models.WeightObservation {
	var obs []models.WeightObservation
	for _, row := range s.Rows {
		date, err := parseDate(row["Date"])
		if err != nil {
			continue
		}
		obs = append(obs, models.WeightObservation{
			Date:          date.Format(models.DateLayout),
			ScaleWeightKg: floatCell(row, "Scale Weight"),
			TrendWeightKg: floatCell(row, "Trend Weight"),
			Source:        source,
			ImportedAt:    now,
		})
	}
	return obs
}

// prepareSummaries maps per-day macro totals and targets.
func prepareSummaries(s *Sheet, source string, now time.Time) []models.DailySummary {
	var summaries []models.DailySummary
	for _, row := range s.Rows {
		date, err := parseDate(row["Date"])
		if err != nil {
			continue
		}
		sum := models.DailySummary{
			Date:       date.Format(models.DateLayout),
			Source:     source,
			ImportedAt: now,
		}
		for header, set := range summaryColMap {
			if v := floatCell(row, header); v != nil {
				set(&sum, v)
			}
		}
		summaries = append(summaries, sum)
	}
	return summaries
}

// collectExtras serializes cells under headers outside the column map
// into a JSON object, so no exported information is discarded.
func collectExtras(row map[string]string, colMap map[string]string) *string {
	extras := map[string]string{}
	for header, value := range row {
		if _, known := colMap[header]; !known {
			extras[header] = value
		}
	}
	if len(extras) == 0 {
		return nil
	}
	blob, err := json.Marshal(extras)
	if err != nil {
		return nil
	}
	s := string(blob)
	return &s
}

func defaultUnknown(v string) string {
	if v == "" {
		return "Unknown"
	}
	return v
}

func floatCell(row map[string]string, header string) *float64 {
	if v, ok := parseFloat(row[header]); ok {
		return &v
	}
	return nil
}

func strCell(row map[string]string, header string) *string {
	if v, ok := row[header]; ok && v != "" {
		return &v
	}
	return nil
}
