// ABOUTME: Tests for the read-side validation queries.
// ABOUTME: Empty stores yield empty collections; windows use today's date.
package storage

import (
	"testing"
	"time"

	"github.com/lberg/macrolog/internal/models"
)

func today(offset int) string {
	return time.Now().AddDate(0, 0, offset).Format(models.DateLayout)
}

func TestQueriesTolerateEmptyStore(t *testing.T) {
	db := setupTestDB(t)

	if s, err := db.DailySummary("2024-01-01"); err != nil || s != nil {
		t.Errorf("DailySummary: got %+v, %v", s, err)
	}
	if entries, err := db.NutritionLog("2024-01-01"); err != nil || len(entries) != 0 {
		t.Errorf("NutritionLog: got %+v, %v", entries, err)
	}
	if sets, err := db.Workouts("2024-01-01", "2024-12-31"); err != nil || len(sets) != 0 {
		t.Errorf("Workouts: got %+v, %v", sets, err)
	}
	if obs, err := db.WeightTrend(30); err != nil || len(obs) != 0 {
		t.Errorf("WeightTrend: got %+v, %v", obs, err)
	}
	if prs, err := db.RecentPRs(30); err != nil || len(prs) != 0 {
		t.Errorf("RecentPRs: got %+v, %v", prs, err)
	}

	a, err := db.MacroAdherence(7)
	if err != nil {
		t.Fatalf("MacroAdherence: %v", err)
	}
	if a.DaysTracked != 0 || a.AdherencePct != nil {
		t.Errorf("empty adherence: %+v", a)
	}
}

func TestMacroAdherence(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now()

	err := db.WithTx(func(tx *Tx) error {
		_, err := tx.UpsertSummaries([]models.DailySummary{
			{Date: today(-1), TotalCalories: f64(2000), CalorieTarget: f64(2000), ImportedAt: now},
			{Date: today(-2), TotalCalories: f64(2200), CalorieTarget: f64(2000), ImportedAt: now},
		})
		return err
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	a, err := db.MacroAdherence(7)
	if err != nil {
		t.Fatalf("MacroAdherence: %v", err)
	}
	if a.DaysTracked != 2 {
		t.Errorf("days tracked: got %d, want 2", a.DaysTracked)
	}
	if a.AdherencePct == nil || *a.AdherencePct != 105 {
		t.Errorf("adherence pct: got %v, want 105", a.AdherencePct)
	}
}

func TestMacroAdherenceNilWithoutTargets(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now()

	err := db.WithTx(func(tx *Tx) error {
		_, err := tx.UpsertSummaries([]models.DailySummary{
			{Date: today(-1), TotalCalories: f64(2000), ImportedAt: now},
		})
		return err
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	a, err := db.MacroAdherence(7)
	if err != nil {
		t.Fatalf("MacroAdherence: %v", err)
	}
	if a.AdherencePct != nil {
		t.Errorf("adherence with no target should be nil, got %v", *a.AdherencePct)
	}
}

func TestRecentPRsTieBreakOnReps(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now()
	reps3, reps5, reps8 := 3, 5, 8

	err := db.WithTx(func(tx *Tx) error {
		_, err := tx.UpsertWorkouts([]models.WorkoutSet{
			{Date: today(-3), ExerciseName: "Squat", SetNumber: 1, Reps: &reps3, WeightKg: f64(140), ImportedAt: now},
			{Date: today(-2), ExerciseName: "Squat", SetNumber: 1, Reps: &reps5, WeightKg: f64(140), ImportedAt: now},
			{Date: today(-1), ExerciseName: "Squat", SetNumber: 2, Reps: &reps8, WeightKg: f64(120), ImportedAt: now},
			{Date: today(-1), ExerciseName: "Bench Press", SetNumber: 1, Reps: &reps5, WeightKg: f64(90), ImportedAt: now},
		})
		return err
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	prs, err := db.RecentPRs(30)
	if err != nil {
		t.Fatalf("RecentPRs: %v", err)
	}
	if len(prs) != 2 {
		t.Fatalf("expected 2 PRs, got %d", len(prs))
	}

	// Ordered heaviest first; the squat tie resolves to the 5-rep set.
	if prs[0].ExerciseName != "Squat" || prs[0].MaxWeightKg != 140 {
		t.Errorf("top PR wrong: %+v", prs[0])
	}
	if prs[0].RepsAtMax == nil || *prs[0].RepsAtMax != 5 {
		t.Errorf("tie should break to higher reps: %+v", prs[0])
	}
	if prs[1].ExerciseName != "Bench Press" {
		t.Errorf("second PR wrong: %+v", prs[1])
	}
}

func TestWorkoutsOrdering(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now()

	err := db.WithTx(func(tx *Tx) error {
		_, err := tx.UpsertWorkouts([]models.WorkoutSet{
			{Date: "2024-01-02", ExerciseName: "Squat", SetNumber: 2, ImportedAt: now},
			{Date: "2024-01-01", ExerciseName: "Squat", SetNumber: 1, ImportedAt: now},
			{Date: "2024-01-02", ExerciseName: "Squat", SetNumber: 1, ImportedAt: now},
		})
		return err
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	sets, err := db.Workouts("2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatalf("Workouts: %v", err)
	}
	if len(sets) != 3 {
		t.Fatalf("expected 3 sets, got %d", len(sets))
	}
	if sets[0].Date != "2024-01-01" || sets[1].SetNumber != 1 || sets[2].SetNumber != 2 {
		t.Errorf("ordering wrong: %+v", sets)
	}
}
