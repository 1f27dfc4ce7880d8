// ABOUTME: Transactional INSERT OR REPLACE writers for the canonical tables.
// ABOUTME: Replace-by-business-key makes overlapping re-exports idempotent.
package storage

import (
	"fmt"
	"time"

	"github.com/lberg/macrolog/internal/models"
)

// UpsertNutrition writes nutrition entries, replacing any existing row
// with the same (date, meal, food_name) key. Returns the row count.
func (t *Tx) UpsertNutrition(entries []models.NutritionEntry) (int, error) {
	stmt, err := t.tx.Prepare(`
		INSERT OR REPLACE INTO nutrition_log
			(date, meal, calories, protein_g, carbs_g, fat_g, fiber_g,
			 sodium_mg, food_name, food_details, source, imported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare nutrition upsert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		_, err := stmt.Exec(
			e.Date, e.Meal, e.Calories, e.ProteinG, e.CarbsG, e.FatG,
			e.FiberG, e.SodiumMg, e.FoodName, e.FoodDetails, e.Source,
			e.ImportedAt.Format(time.RFC3339),
		)
		if err != nil {
			return 0, fmt.Errorf("upsert nutrition row %s/%s/%s: %w", e.Date, e.Meal, e.FoodName, err)
		}
	}
	return len(entries), nil
}

// UpsertWorkouts writes workout sets, replacing any existing row with the
// same (date, exercise_name, set_number) key.
func (t *Tx) UpsertWorkouts(sets []models.WorkoutSet) (int, error) {
	stmt, err := t.tx.Prepare(`
		INSERT OR REPLACE INTO workouts
			(date, workout_name, duration_min, exercise_name, set_number,
			 reps, weight_kg, rpe, notes, source, imported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare workout upsert: %w", err)
	}
	defer stmt.Close()

	for _, s := range sets {
		_, err := stmt.Exec(
			s.Date, s.WorkoutName, s.DurationMin, s.ExerciseName,
			s.SetNumber, s.Reps, s.WeightKg, s.RPE, s.Notes, s.Source,
			s.ImportedAt.Format(time.RFC3339),
		)
		if err != nil {
			return 0, fmt.Errorf("upsert workout row %s/%s/%d: %w", s.Date, s.ExerciseName, s.SetNumber, err)
		}
	}
	return len(sets), nil
}

// UpsertWeights writes weight observations keyed by date.
func (t *Tx) UpsertWeights(obs []models.WeightObservation) (int, error) {
	stmt, err := t.tx.Prepare(`
		INSERT OR REPLACE INTO weight_log
			(date, scale_weight_kg, trend_weight_kg, source, imported_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare weight upsert: %w", err)
	}
	defer stmt.Close()

	for _, o := range obs {
		_, err := stmt.Exec(
			o.Date, o.ScaleWeightKg, o.TrendWeightKg, o.Source,
			o.ImportedAt.Format(time.RFC3339),
		)
		if err != nil {
			return 0, fmt.Errorf("upsert weight row %s: %w", o.Date, err)
		}
	}
	return len(obs), nil
}

// UpsertSummaries writes daily summaries keyed by date.
func (t *Tx) UpsertSummaries(summaries []models.DailySummary) (int, error) {
	stmt, err := t.tx.Prepare(`
		INSERT OR REPLACE INTO daily_summary
			(date, total_calories, total_protein_g, total_carbs_g, total_fat_g,
			 calorie_target, protein_target_g, expenditure_kcal, source, imported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare summary upsert: %w", err)
	}
	defer stmt.Close()

	for _, s := range summaries {
		_, err := stmt.Exec(
			s.Date, s.TotalCalories, s.TotalProteinG, s.TotalCarbsG,
			s.TotalFatG, s.CalorieTarget, s.ProteinTargetG,
			s.ExpenditureKcal, s.Source, s.ImportedAt.Format(time.RFC3339),
		)
		if err != nil {
			return 0, fmt.Errorf("upsert summary row %s: %w", s.Date, err)
		}
	}
	return len(summaries), nil
}

// UpdateExpenditure sets expenditure_kcal on an existing daily_summary row.
// It never inserts; a date with no summary row is reported as not updated.
func (t *Tx) UpdateExpenditure(date string, kcal float64) (bool, error) {
	res, err := t.tx.Exec(
		"UPDATE daily_summary SET expenditure_kcal = ? WHERE date = ?",
		kcal, date,
	)
	if err != nil {
		return false, fmt.Errorf("update expenditure for %s: %w", date, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update expenditure for %s: %w", date, err)
	}
	return n > 0, nil
}

// UpdateTargets sets the resolved calorie and protein targets on an
// existing daily_summary row.
func (t *Tx) UpdateTargets(date string, calories, proteinG float64) (bool, error) {
	res, err := t.tx.Exec(
		"UPDATE daily_summary SET calorie_target = ?, protein_target_g = ? WHERE date = ?",
		calories, proteinG, date,
	)
	if err != nil {
		return false, fmt.Errorf("update targets for %s: %w", date, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update targets for %s: %w", date, err)
	}
	return n > 0, nil
}

// SummaryDates returns every date present in daily_summary, ascending.
func (t *Tx) SummaryDates() ([]string, error) {
	rows, err := t.tx.Query("SELECT date FROM daily_summary ORDER BY date")
	if err != nil {
		return nil, fmt.Errorf("list summary dates: %w", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan summary date: %w", err)
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}
