// ABOUTME: Assembles one day's sleep record and habit logs for display.
// ABOUTME: Shared by the CLI log view, the MCP get_day tool, and the today resource.
package storage

import (
	"errors"
	"fmt"

	"github.com/harperreed/nightly/internal/models"
)

// DayEntry is one active habit and what was logged for it.
type DayEntry struct {
	Habit   *models.Habit   `json:"habit"`
	Logged  bool            `json:"logged"`
	Raw     string          `json:"raw,omitempty"`
	Value   models.LogValue `json:"value"`
	Display string          `json:"display"`
}

// DayView is everything recorded for a date.
type DayView struct {
	Date    string              `json:"date"`
	Sleep   *models.SleepRecord `json:"sleep"`
	Night   []DayEntry          `json:"night"`
	Morning []DayEntry          `json:"morning"`
}

// LoadDay reads the sleep record, active habits, and logs for date.
// A missing sleep record leaves Sleep nil; unlogged habits carry their zero value.
func LoadDay(repo Repository, date string) (*DayView, error) {
	view := &DayView{Date: date, Night: []DayEntry{}, Morning: []DayEntry{}}

	rec, err := repo.GetSleepRecord(date)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("load sleep record: %w", err)
	}
	view.Sleep = rec

	habits, err := repo.ListHabits(nil, false)
	if err != nil {
		return nil, fmt.Errorf("load habits: %w", err)
	}
	logs, err := repo.GetLogsForDate(date)
	if err != nil {
		return nil, fmt.Errorf("load logs: %w", err)
	}

	for _, h := range habits {
		raw, logged := logs[h.ID.String()]
		v := models.DecodeLogValue(raw, h.InputType)
		entry := DayEntry{
			Habit:   h,
			Logged:  logged,
			Raw:     raw,
			Value:   v,
			Display: "-",
		}
		if logged {
			entry.Display = models.FormatLogValue(v)
		}
		if h.Category == models.CategoryMorning {
			view.Morning = append(view.Morning, entry)
		} else {
			view.Night = append(view.Night, entry)
		}
	}
	return view, nil
}
