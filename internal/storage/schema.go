// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Five canonical tables plus date and file-hash indexes.
package storage

// initSchema creates the canonical tables if they do not exist. Rows are
// only ever inserted or replaced by the ingestion engine, never deleted.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS nutrition_log (
		date         TEXT NOT NULL,
		meal         TEXT NOT NULL,
		calories     REAL,
		protein_g    REAL,
		carbs_g      REAL,
		fat_g        REAL,
		fiber_g      REAL,
		sodium_mg    REAL,
		food_name    TEXT NOT NULL,
		food_details TEXT,
		source       TEXT,
		imported_at  DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (date, meal, food_name)
	);

	CREATE TABLE IF NOT EXISTS workouts (
		date          TEXT NOT NULL,
		workout_name  TEXT,
		duration_min  REAL,
		exercise_name TEXT NOT NULL,
		set_number    INTEGER NOT NULL,
		reps          INTEGER,
		weight_kg     REAL,
		rpe           REAL,
		notes         TEXT,
		source        TEXT,
		imported_at   DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (date, exercise_name, set_number)
	);

	CREATE TABLE IF NOT EXISTS weight_log (
		date            TEXT PRIMARY KEY,
		scale_weight_kg REAL,
		trend_weight_kg REAL,
		source          TEXT,
		imported_at     DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS daily_summary (
		date             TEXT PRIMARY KEY,
		total_calories   REAL,
		total_protein_g  REAL,
		total_carbs_g    REAL,
		total_fat_g      REAL,
		calorie_target   REAL,
		protein_target_g REAL,
		expenditure_kcal REAL,
		source           TEXT,
		imported_at      DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS export_history (
		id            TEXT PRIMARY KEY,
		export_type   TEXT NOT NULL,
		file_path     TEXT NOT NULL,
		file_hash     TEXT NOT NULL,
		rows_imported INTEGER DEFAULT 0,
		imported_at   DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_nutrition_log_date ON nutrition_log(date);
	CREATE INDEX IF NOT EXISTS idx_workouts_date ON workouts(date);
	CREATE INDEX IF NOT EXISTS idx_weight_log_date ON weight_log(date);
	CREATE INDEX IF NOT EXISTS idx_daily_summary_date ON daily_summary(date);
	CREATE INDEX IF NOT EXISTS idx_export_history_hash ON export_history(file_hash);
	`

	_, err := d.db.Exec(schema)
	return err
}
