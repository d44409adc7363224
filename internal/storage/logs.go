// ABOUTME: Daily log operations for SQLite storage.
// ABOUTME: Upserts keyed on (date, habit_id); logs are cleared per date, never singly.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/harperreed/nightly/internal/models"
)

const upsertLogQuery = `
	INSERT INTO daily_logs (date, habit_id, value, updated_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(date, habit_id) DO UPDATE SET
		value = excluded.value,
		updated_at = excluded.updated_at
`

// UpsertLog creates or overwrites the log for (date, habitID).
func (d *DB) UpsertLog(date, habitID, value string) error {
	_, err := d.db.Exec(upsertLogQuery, date, habitID, value, time.Now().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert log: %w", err)
	}
	return nil
}

// GetLogsForDate returns the raw values logged on date, keyed by habit id.
func (d *DB) GetLogsForDate(date string) (models.DailyLogMap, error) {
	rows, err := d.db.Query(`SELECT habit_id, value FROM daily_logs WHERE date = ?`, date)
	if err != nil {
		return nil, fmt.Errorf("get logs: %w", err)
	}
	defer rows.Close()

	logs := models.DailyLogMap{}
	for rows.Next() {
		var habitID, value string
		if err := rows.Scan(&habitID, &value); err != nil {
			return nil, fmt.Errorf("scan log: %w", err)
		}
		logs[habitID] = value
	}
	return logs, rows.Err()
}

// ListLogsSince returns every log on or after date, oldest first.
func (d *DB) ListLogsSince(date string) ([]*models.DailyLog, error) {
	rows, err := d.db.Query(`
		SELECT date, habit_id, value, updated_at
		FROM daily_logs
		WHERE date >= ?
		ORDER BY date ASC, habit_id ASC`, date)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.DailyLog
	for rows.Next() {
		var l models.DailyLog
		var updated sql.NullString
		if err := rows.Scan(&l.Date, &l.HabitID, &l.Value, &updated); err != nil {
			return nil, fmt.Errorf("scan log: %w", err)
		}
		if updated.Valid {
			l.Updated, _ = time.Parse(time.RFC3339, updated.String)
		}
		logs = append(logs, &l)
	}
	return logs, rows.Err()
}

// CopyLogs upserts every log of fromDate onto toDate and returns how many were copied.
func (d *DB) CopyLogs(fromDate, toDate string) (int, error) {
	var copied int
	err := d.withTx(func(tx *sql.Tx) error {
		result, err := tx.Exec(`
			INSERT INTO daily_logs (date, habit_id, value, updated_at)
			SELECT ?, habit_id, value, ?
			FROM daily_logs
			WHERE date = ?
			ON CONFLICT(date, habit_id) DO UPDATE SET
				value = excluded.value,
				updated_at = excluded.updated_at`,
			toDate, time.Now().Format(time.RFC3339), fromDate)
		if err != nil {
			return fmt.Errorf("copy logs: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("copy logs: %w", err)
		}
		copied = int(n)
		return nil
	})
	return copied, err
}

// ClearLogs removes every log for date and returns how many were removed.
func (d *DB) ClearLogs(date string) (int, error) {
	result, err := d.db.Exec(`DELETE FROM daily_logs WHERE date = ?`, date)
	if err != nil {
		return 0, fmt.Errorf("clear logs: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear logs: %w", err)
	}
	return int(n), nil
}
