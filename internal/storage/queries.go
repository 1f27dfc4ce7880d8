// ABOUTME: Read-side aggregations used to validate and report on ingested data.
// ABOUTME: Pure reads; empty result sets come back as empty collections.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lberg/macrolog/internal/models"
)

// DailySummary returns the summary row for a date, or nil when none exists.
func (d *DB) DailySummary(date string) (*models.DailySummary, error) {
	row := d.db.QueryRow(`
		SELECT date, total_calories, total_protein_g, total_carbs_g, total_fat_g,
		       calorie_target, protein_target_g, expenditure_kcal, source, imported_at
		FROM daily_summary WHERE date = ? LIMIT 1`, date)

	s, err := scanSummary(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get daily summary: %w", err)
	}
	return s, nil
}

// NutritionLog returns all food entries for a date, ordered by meal then food.
func (d *DB) NutritionLog(date string) ([]models.NutritionEntry, error) {
	rows, err := d.db.Query(`
		SELECT date, meal, calories, protein_g, carbs_g, fat_g, fiber_g,
		       sodium_mg, food_name, food_details, source, imported_at
		FROM nutrition_log WHERE date = ? ORDER BY meal, food_name`, date)
	if err != nil {
		return nil, fmt.Errorf("list nutrition log: %w", err)
	}
	defer rows.Close()

	entries := []models.NutritionEntry{}
	for rows.Next() {
		var e models.NutritionEntry
		var importedAt string
		err := rows.Scan(&e.Date, &e.Meal, &e.Calories, &e.ProteinG, &e.CarbsG,
			&e.FatG, &e.FiberG, &e.SodiumMg, &e.FoodName, &e.FoodDetails,
			&e.Source, &importedAt)
		if err != nil {
			return nil, fmt.Errorf("scan nutrition entry: %w", err)
		}
		e.ImportedAt, _ = time.Parse(time.RFC3339, importedAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Workouts returns workout sets within [start, end], ordered by date,
// exercise, and set number.
func (d *DB) Workouts(start, end string) ([]models.WorkoutSet, error) {
	rows, err := d.db.Query(`
		SELECT date, workout_name, duration_min, exercise_name, set_number,
		       reps, weight_kg, rpe, notes, source, imported_at
		FROM workouts WHERE date BETWEEN ? AND ?
		ORDER BY date, exercise_name, set_number`, start, end)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	defer rows.Close()

	sets := []models.WorkoutSet{}
	for rows.Next() {
		var s models.WorkoutSet
		var importedAt string
		err := rows.Scan(&s.Date, &s.WorkoutName, &s.DurationMin,
			&s.ExerciseName, &s.SetNumber, &s.Reps, &s.WeightKg, &s.RPE,
			&s.Notes, &s.Source, &importedAt)
		if err != nil {
			return nil, fmt.Errorf("scan workout set: %w", err)
		}
		s.ImportedAt, _ = time.Parse(time.RFC3339, importedAt)
		sets = append(sets, s)
	}
	return sets, rows.Err()
}

// WeightTrend returns weight observations for the most recent N days,
// ordered by date ascending.
func (d *DB) WeightTrend(days int) ([]models.WeightObservation, error) {
	start := time.Now().AddDate(0, 0, -days).Format(models.DateLayout)
	rows, err := d.db.Query(`
		SELECT date, scale_weight_kg, trend_weight_kg, source, imported_at
		FROM weight_log WHERE date >= ? ORDER BY date ASC`, start)
	if err != nil {
		return nil, fmt.Errorf("list weight trend: %w", err)
	}
	defer rows.Close()

	obs := []models.WeightObservation{}
	for rows.Next() {
		var o models.WeightObservation
		var importedAt string
		err := rows.Scan(&o.Date, &o.ScaleWeightKg, &o.TrendWeightKg, &o.Source, &importedAt)
		if err != nil {
			return nil, fmt.Errorf("scan weight observation: %w", err)
		}
		o.ImportedAt, _ = time.Parse(time.RFC3339, importedAt)
		obs = append(obs, o)
	}
	return obs, rows.Err()
}

// Adherence summarizes actuals against targets over a rolling window.
// AdherencePct is mean actual calories over mean calorie target, nil when
// the window holds no target.
type Adherence struct {
	DaysTracked       int      `json:"days_tracked"`
	AvgCalories       *float64 `json:"avg_calories,omitempty"`
	AvgProteinG       *float64 `json:"avg_protein_g,omitempty"`
	AvgCarbsG         *float64 `json:"avg_carbs_g,omitempty"`
	AvgFatG           *float64 `json:"avg_fat_g,omitempty"`
	AvgCalorieTarget  *float64 `json:"avg_calorie_target,omitempty"`
	AvgProteinTargetG *float64 `json:"avg_protein_target_g,omitempty"`
	AdherencePct      *float64 `json:"adherence_pct,omitempty"`
}

// MacroAdherence returns mean actuals and targets over the last N days.
func (d *DB) MacroAdherence(days int) (*Adherence, error) {
	start := time.Now().AddDate(0, 0, -days).Format(models.DateLayout)
	row := d.db.QueryRow(`
		SELECT COUNT(*),
		       AVG(total_calories),
		       AVG(total_protein_g),
		       AVG(total_carbs_g),
		       AVG(total_fat_g),
		       AVG(calorie_target),
		       AVG(protein_target_g)
		FROM daily_summary WHERE date >= ?`, start)

	var a Adherence
	err := row.Scan(&a.DaysTracked, &a.AvgCalories, &a.AvgProteinG,
		&a.AvgCarbsG, &a.AvgFatG, &a.AvgCalorieTarget, &a.AvgProteinTargetG)
	if err != nil {
		return nil, fmt.Errorf("compute adherence: %w", err)
	}

	if a.AvgCalorieTarget != nil && *a.AvgCalorieTarget > 0 && a.AvgCalories != nil {
		pct := *a.AvgCalories / *a.AvgCalorieTarget * 100
		a.AdherencePct = &pct
	}
	return &a, nil
}

// PersonalRecord is the single heaviest set for one exercise in a window.
type PersonalRecord struct {
	ExerciseName string  `json:"exercise_name"`
	MaxWeightKg  float64 `json:"max_weight_kg"`
	RepsAtMax    *int    `json:"reps_at_max,omitempty"`
	Date         string  `json:"date"`
}

// RecentPRs returns, per exercise, the heaviest set recorded in the last
// N days. Ties on weight are broken by higher reps.
func (d *DB) RecentPRs(days int) ([]PersonalRecord, error) {
	start := time.Now().AddDate(0, 0, -days).Format(models.DateLayout)
	rows, err := d.db.Query(`
		WITH ranked AS (
			SELECT exercise_name, weight_kg, reps, date,
			       ROW_NUMBER() OVER (
			           PARTITION BY exercise_name
			           ORDER BY weight_kg DESC, reps DESC
			       ) AS rn
			FROM workouts
			WHERE date >= ? AND weight_kg IS NOT NULL
		)
		SELECT exercise_name, weight_kg, reps, date
		FROM ranked WHERE rn = 1
		ORDER BY weight_kg DESC`, start)
	if err != nil {
		return nil, fmt.Errorf("list personal records: %w", err)
	}
	defer rows.Close()

	prs := []PersonalRecord{}
	for rows.Next() {
		var pr PersonalRecord
		if err := rows.Scan(&pr.ExerciseName, &pr.MaxWeightKg, &pr.RepsAtMax, &pr.Date); err != nil {
			return nil, fmt.Errorf("scan personal record: %w", err)
		}
		prs = append(prs, pr)
	}
	return prs, rows.Err()
}

// scanSummary adapts a row scan into a DailySummary.
func scanSummary(scan func(dest ...interface{}) error) (*models.DailySummary, error) {
	var s models.DailySummary
	var importedAt string
	err := scan(&s.Date, &s.TotalCalories, &s.TotalProteinG, &s.TotalCarbsG,
		&s.TotalFatG, &s.CalorieTarget, &s.ProteinTargetG, &s.ExpenditureKcal,
		&s.Source, &importedAt)
	if err != nil {
		return nil, err
	}
	s.ImportedAt, _ = time.Parse(time.RFC3339, importedAt)
	return &s, nil
}
