// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Defines habits, daily_logs (unique on date+habit), and sleep_data (unique on date).
package storage

// initSchema creates or updates the database schema.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS habits (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL CHECK (category IN ('night', 'morning')),
		input_type TEXT NOT NULL,
		config TEXT,
		display_order INTEGER NOT NULL DEFAULT 0,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS daily_logs (
		date TEXT NOT NULL,
		habit_id TEXT NOT NULL,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (date, habit_id),
		FOREIGN KEY (habit_id) REFERENCES habits(id)
	);

	CREATE TABLE IF NOT EXISTS sleep_data (
		date TEXT PRIMARY KEY,
		sleep_score INTEGER,
		readiness_score INTEGER,
		total_sleep_minutes INTEGER,
		deep_sleep_minutes INTEGER,
		rem_sleep_minutes INTEGER,
		light_sleep_minutes INTEGER,
		awake_minutes INTEGER,
		bedtime_start TEXT,
		bedtime_end TEXT,
		efficiency INTEGER,
		latency_minutes INTEGER,
		raw_json TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_habits_category_order ON habits(category, display_order);
	CREATE INDEX IF NOT EXISTS idx_daily_logs_habit ON daily_logs(habit_id);
	`

	_, err := d.db.Exec(schema)
	return err
}
