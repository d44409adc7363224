// ABOUTME: SleepRecord and DailyLog models.
// ABOUTME: SleepRecord is the canonical per-date sleep metrics row built by sync.
package models

import (
	"encoding/json"
	"time"
)

// DailyLog is one habit answer for one calendar date, stored as text.
type DailyLog struct {
	Date    string    `json:"date" yaml:"date"`
	HabitID string    `json:"habit_id" yaml:"habit_id"`
	Value   string    `json:"value" yaml:"value"`
	Updated time.Time `json:"updated_at" yaml:"updated_at"`
}

// DailyLogMap maps habit id to stored value text for a single date.
type DailyLogMap map[string]string

// SleepRecord holds the reconciled sleep metrics for one calendar date.
// Measurement fields are nil when the provider did not report them.
type SleepRecord struct {
	Date              string          `json:"date" yaml:"date"`
	SleepScore        *int            `json:"sleep_score" yaml:"sleep_score"`
	ReadinessScore    *int            `json:"readiness_score" yaml:"readiness_score"`
	TotalSleepMinutes *int            `json:"total_sleep_minutes" yaml:"total_sleep_minutes"`
	DeepSleepMinutes  *int            `json:"deep_sleep_minutes" yaml:"deep_sleep_minutes"`
	RemSleepMinutes   *int            `json:"rem_sleep_minutes" yaml:"rem_sleep_minutes"`
	LightSleepMinutes *int            `json:"light_sleep_minutes" yaml:"light_sleep_minutes"`
	AwakeMinutes      *int            `json:"awake_minutes" yaml:"awake_minutes"`
	BedtimeStart      *string         `json:"bedtime_start" yaml:"bedtime_start"`
	BedtimeEnd        *string         `json:"bedtime_end" yaml:"bedtime_end"`
	Efficiency        *int            `json:"efficiency" yaml:"efficiency"`
	LatencyMinutes    *int            `json:"latency_minutes" yaml:"latency_minutes"`
	RawJSON           json.RawMessage `json:"raw_json,omitempty" yaml:"-"`
	CreatedAt         time.Time       `json:"created_at" yaml:"created_at"`
}

// IntPtr returns a pointer to an int.
func IntPtr(i int) *int {
	return &i
}

// StringPtr returns a pointer to a string.
func StringPtr(s string) *string {
	return &s
}
