// ABOUTME: Export and import functionality for nightly data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harperreed/nightly/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportData represents the full export format for nightly data.
type ExportData struct {
	Version    string                `json:"version" yaml:"version"`
	ExportedAt time.Time             `json:"exported_at" yaml:"exported_at"`
	Tool       string                `json:"tool" yaml:"tool"`
	Habits     []*models.Habit       `json:"habits" yaml:"habits"`
	Logs       []*models.DailyLog    `json:"logs" yaml:"logs"`
	Sleep      []*models.SleepRecord `json:"sleep" yaml:"sleep"`
}

// allTime is the lower bound used to list every dated row.
const allTime = "0000-00-00"

// GetAllData retrieves all data for export, including inactive habits.
func (d *DB) GetAllData() (*ExportData, error) {
	habits, err := d.ListHabits(nil, true)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}

	logs, err := d.ListLogsSince(allTime)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}

	sleep, err := d.ListSleepRecordsSince(allTime)
	if err != nil {
		return nil, fmt.Errorf("list sleep records: %w", err)
	}

	return &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now(),
		Tool:       "nightly",
		Habits:     habits,
		Logs:       logs,
		Sleep:      sleep,
	}, nil
}

// ImportData imports an export in one transaction. Habits keep their ids and display order.
func (d *DB) ImportData(data *ExportData) error {
	return d.withTx(func(tx *sql.Tx) error {
		for _, h := range data.Habits {
			config, err := encodeConfig(h.Config)
			if err != nil {
				return fmt.Errorf("import habit: %w", err)
			}
			_, err = tx.Exec(`
				INSERT INTO habits (`+habitColumns+`)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				h.ID.String(), h.Name, string(h.Category), string(h.InputType), config,
				h.DisplayOrder, h.IsActive, h.CreatedAt.Format(time.RFC3339),
			)
			if err != nil {
				return fmt.Errorf("import habit %s: %w", h.Name, err)
			}
		}

		for _, l := range data.Logs {
			updated := l.Updated
			if updated.IsZero() {
				updated = time.Now()
			}
			if _, err := tx.Exec(upsertLogQuery, l.Date, l.HabitID, l.Value, updated.Format(time.RFC3339)); err != nil {
				return fmt.Errorf("import log %s/%s: %w", l.Date, l.HabitID, err)
			}
		}

		for _, rec := range data.Sleep {
			if _, err := tx.Exec(`DELETE FROM sleep_data WHERE date = ?`, rec.Date); err != nil {
				return fmt.Errorf("import sleep %s: %w", rec.Date, err)
			}
			var raw interface{}
			if len(rec.RawJSON) > 0 {
				raw = string(rec.RawJSON)
			}
			createdAt := rec.CreatedAt
			if createdAt.IsZero() {
				createdAt = time.Now()
			}
			_, err := tx.Exec(`
				INSERT INTO sleep_data (`+sleepColumns+`)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				rec.Date, rec.SleepScore, rec.ReadinessScore, rec.TotalSleepMinutes,
				rec.DeepSleepMinutes, rec.RemSleepMinutes, rec.LightSleepMinutes, rec.AwakeMinutes,
				rec.BedtimeStart, rec.BedtimeEnd, rec.Efficiency, rec.LatencyMinutes,
				raw, createdAt.Format(time.RFC3339),
			)
			if err != nil {
				return fmt.Errorf("import sleep %s: %w", rec.Date, err)
			}
		}
		return nil
	})
}

// ExportJSON exports all data as JSON.
func (d *DB) ExportJSON() ([]byte, error) {
	data, err := d.GetAllData()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ImportJSON imports data from JSON bytes.
func (d *DB) ImportJSON(data []byte) error {
	var exportData ExportData
	if err := json.Unmarshal(data, &exportData); err != nil {
		return fmt.Errorf("unmarshal JSON: %w", err)
	}
	return d.ImportData(&exportData)
}

type yamlDay struct {
	Date   string            `yaml:"date"`
	Sleep  *yamlSleep        `yaml:"sleep,omitempty"`
	Habits map[string]string `yaml:"habits,omitempty"`
}

type yamlSleep struct {
	Score     *int `yaml:"score,omitempty"`
	Readiness *int `yaml:"readiness,omitempty"`
	Total     *int `yaml:"total_minutes,omitempty"`
	Deep      *int `yaml:"deep_minutes,omitempty"`
	Rem       *int `yaml:"rem_minutes,omitempty"`
}

// ExportYAML exports data as YAML grouped by day, with habit values rendered for humans.
func (d *DB) ExportYAML() ([]byte, error) {
	data, err := d.GetAllData()
	if err != nil {
		return nil, err
	}

	days := groupByDay(data)

	out := struct {
		Version    string          `yaml:"version"`
		ExportedAt string          `yaml:"exported_at"`
		Tool       string          `yaml:"tool"`
		Habits     []*models.Habit `yaml:"habits"`
		Days       []yamlDay       `yaml:"days"`
	}{
		Version:    data.Version,
		ExportedAt: data.ExportedAt.Format(time.RFC3339),
		Tool:       data.Tool,
		Habits:     data.Habits,
		Days:       days,
	}

	return yaml.Marshal(out)
}

func groupByDay(data *ExportData) []yamlDay {
	habitsByID := make(map[string]*models.Habit, len(data.Habits))
	for _, h := range data.Habits {
		habitsByID[h.ID.String()] = h
	}

	byDate := map[string]*yamlDay{}
	var order []string
	day := func(date string) *yamlDay {
		if d, ok := byDate[date]; ok {
			return d
		}
		d := &yamlDay{Date: date}
		byDate[date] = d
		order = append(order, date)
		return d
	}

	for _, rec := range data.Sleep {
		day(rec.Date).Sleep = &yamlSleep{
			Score:     rec.SleepScore,
			Readiness: rec.ReadinessScore,
			Total:     rec.TotalSleepMinutes,
			Deep:      rec.DeepSleepMinutes,
			Rem:       rec.RemSleepMinutes,
		}
	}
	for _, l := range data.Logs {
		h, ok := habitsByID[l.HabitID]
		if !ok {
			continue
		}
		yd := day(l.Date)
		if yd.Habits == nil {
			yd.Habits = map[string]string{}
		}
		yd.Habits[h.Name] = models.FormatLogValue(models.DecodeLogValue(l.Value, h.InputType))
	}

	sort.Strings(order)
	days := make([]yamlDay, 0, len(order))
	for _, date := range order {
		days = append(days, *byDate[date])
	}
	return days
}

// ExportMarkdown exports a sleep table and a habit table per day since the given date.
// An empty since exports everything.
func (d *DB) ExportMarkdown(since string) (string, error) {
	if since == "" {
		since = allTime
	}

	records, err := d.ListSleepRecordsSince(since)
	if err != nil {
		return "", err
	}
	habits, err := d.ListHabits(nil, true)
	if err != nil {
		return "", err
	}
	logs, err := d.ListLogsSince(since)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	now := time.Now()

	sb.WriteString(fmt.Sprintf("# Nightly Export - %s\n\n", now.Format(models.DateFormat)))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	sb.WriteString("## Sleep\n\n")
	sb.WriteString("| Date | Score | Readiness | Total | Deep | REM | Light |\n")
	sb.WriteString("|------|-------|-----------|-------|------|-----|-------|\n")
	for _, r := range records {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s | %s |\n",
			r.Date, mdInt(r.SleepScore), mdInt(r.ReadinessScore), mdInt(r.TotalSleepMinutes),
			mdInt(r.DeepSleepMinutes), mdInt(r.RemSleepMinutes), mdInt(r.LightSleepMinutes)))
	}

	habitsByID := make(map[string]*models.Habit, len(habits))
	for _, h := range habits {
		habitsByID[h.ID.String()] = h
	}

	if len(logs) > 0 {
		sb.WriteString("\n## Habits\n\n")
		sb.WriteString("| Date | Habit | Value |\n")
		sb.WriteString("|------|-------|-------|\n")
		for _, l := range logs {
			h, ok := habitsByID[l.HabitID]
			if !ok {
				continue
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n",
				l.Date, h.Name, models.FormatLogValue(models.DecodeLogValue(l.Value, h.InputType))))
		}
	}

	return sb.String(), nil
}

func mdInt(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}
