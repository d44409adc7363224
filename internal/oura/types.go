// ABOUTME: Wire types for the Oura v2 usercollection endpoints.
// ABOUTME: Fields the reconciler does not read are kept in the raw snapshot only.
package oura

// DailyScore is one document from daily_sleep or daily_readiness.
type DailyScore struct {
	ID           string         `json:"id,omitempty"`
	Day          string         `json:"day"`
	Score        *int           `json:"score"`
	Contributors map[string]int `json:"contributors,omitempty"`
	Timestamp    string         `json:"timestamp,omitempty"`
}

// SleepPeriod is one document from the sleep endpoint. Durations are in seconds.
type SleepPeriod struct {
	ID                 string `json:"id,omitempty"`
	Day                string `json:"day"`
	Type               string `json:"type"`
	BedtimeStart       string `json:"bedtime_start,omitempty"`
	BedtimeEnd         string `json:"bedtime_end,omitempty"`
	TotalSleepDuration *int   `json:"total_sleep_duration"`
	DeepSleepDuration  *int   `json:"deep_sleep_duration"`
	RemSleepDuration   *int   `json:"rem_sleep_duration"`
	LightSleepDuration *int   `json:"light_sleep_duration"`
	AwakeTime          *int   `json:"awake_time"`
	Efficiency         *int   `json:"efficiency"`
	Latency            *int   `json:"latency"`
}

// Period types reported by the sleep endpoint.
const (
	PeriodLongSleep = "long_sleep"
	PeriodSleep     = "sleep"
	PeriodLateNap   = "late_nap"
	PeriodRest      = "rest"
)

type envelope[T any] struct {
	Data      []T     `json:"data"`
	NextToken *string `json:"next_token"`
}
