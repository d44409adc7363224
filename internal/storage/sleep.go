// ABOUTME: Sleep record operations for SQLite storage.
// ABOUTME: Records are replaced by delete + insert, never patched field by field.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/nightly/internal/models"
)

const sleepColumns = `date, sleep_score, readiness_score, total_sleep_minutes, deep_sleep_minutes,
	rem_sleep_minutes, light_sleep_minutes, awake_minutes, bedtime_start, bedtime_end,
	efficiency, latency_minutes, raw_json, created_at`

// GetSleepRecord returns the record for date, or ErrNotFound.
func (d *DB) GetSleepRecord(date string) (*models.SleepRecord, error) {
	row := d.db.QueryRow(`SELECT `+sleepColumns+` FROM sleep_data WHERE date = ?`, date)
	rec, err := scanSleepRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get sleep record: %w", err)
	}
	return rec, nil
}

// ListSleepRecordsSince returns records dated on or after date, oldest first.
func (d *DB) ListSleepRecordsSince(date string) ([]*models.SleepRecord, error) {
	rows, err := d.db.Query(`SELECT `+sleepColumns+` FROM sleep_data WHERE date >= ? ORDER BY date ASC`, date)
	if err != nil {
		return nil, fmt.Errorf("list sleep records: %w", err)
	}
	defer rows.Close()

	var records []*models.SleepRecord
	for rows.Next() {
		rec, err := scanSleepRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sleep record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// DeleteSleepRecord removes the record for date. Deleting a missing record is not an error.
func (d *DB) DeleteSleepRecord(date string) error {
	if _, err := d.db.Exec(`DELETE FROM sleep_data WHERE date = ?`, date); err != nil {
		return fmt.Errorf("delete sleep record: %w", err)
	}
	return nil
}

// InsertSleepRecord stores a new record. It fails if one already exists for the date.
func (d *DB) InsertSleepRecord(rec *models.SleepRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	var raw interface{}
	if len(rec.RawJSON) > 0 {
		raw = string(rec.RawJSON)
	}

	_, err := d.db.Exec(`
		INSERT INTO sleep_data (`+sleepColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Date,
		rec.SleepScore,
		rec.ReadinessScore,
		rec.TotalSleepMinutes,
		rec.DeepSleepMinutes,
		rec.RemSleepMinutes,
		rec.LightSleepMinutes,
		rec.AwakeMinutes,
		rec.BedtimeStart,
		rec.BedtimeEnd,
		rec.Efficiency,
		rec.LatencyMinutes,
		raw,
		rec.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert sleep record: %w", err)
	}
	return nil
}

func scanSleepRow(row rowScanner) (*models.SleepRecord, error) {
	var rec models.SleepRecord
	var sleepScore, readiness, total, deep, rem, light, awake, efficiency, latency sql.NullInt64
	var bedStart, bedEnd, raw, createdAt sql.NullString

	err := row.Scan(&rec.Date, &sleepScore, &readiness, &total, &deep, &rem, &light, &awake,
		&bedStart, &bedEnd, &efficiency, &latency, &raw, &createdAt)
	if err != nil {
		return nil, err
	}

	rec.SleepScore = nullInt(sleepScore)
	rec.ReadinessScore = nullInt(readiness)
	rec.TotalSleepMinutes = nullInt(total)
	rec.DeepSleepMinutes = nullInt(deep)
	rec.RemSleepMinutes = nullInt(rem)
	rec.LightSleepMinutes = nullInt(light)
	rec.AwakeMinutes = nullInt(awake)
	rec.Efficiency = nullInt(efficiency)
	rec.LatencyMinutes = nullInt(latency)
	rec.BedtimeStart = nullString(bedStart)
	rec.BedtimeEnd = nullString(bedEnd)
	if raw.Valid && raw.String != "" {
		rec.RawJSON = []byte(raw.String)
	}
	if createdAt.Valid {
		rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt.String)
	}

	return &rec, nil
}

func nullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
