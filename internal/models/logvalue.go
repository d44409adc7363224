// ABOUTME: Tagged-union LogValue types and the codec for the daily_logs value column.
// ABOUTME: Decoding never fails; malformed stored text degrades to the type's zero value.
package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// LogValue is one habit answer. The set of implementations is closed.
type LogValue interface {
	InputType() InputType
	isLogValue()
}

// Toggle is a plain yes/no answer.
type Toggle bool

// ToggleTime is a yes/no answer with the time it happened.
type ToggleTime struct {
	Enabled bool   `json:"enabled"`
	Time    string `json:"time"`
}

// ToggleTimeDuration is a yes/no answer with a start time and duration in minutes.
type ToggleTimeDuration struct {
	Enabled  bool   `json:"enabled"`
	Time     string `json:"time"`
	Duration int    `json:"duration"`
}

// ToggleQuantityTime is a yes/no answer with a count and a time.
type ToggleQuantityTime struct {
	Enabled  bool   `json:"enabled"`
	Quantity int    `json:"quantity"`
	Time     string `json:"time"`
}

// DurationRating is a duration in minutes with a rating.
type DurationRating struct {
	Duration int `json:"duration"`
	Rating   int `json:"rating"`
}

// Rating is an integer score from 1 to the habit's max.
type Rating int

// Level is one label of an ordered label set.
type Level string

// ClockTime is an HH:MM time of day.
type ClockTime string

func (Toggle) InputType() InputType             { return InputToggle }
func (ToggleTime) InputType() InputType         { return InputToggleTime }
func (ToggleTimeDuration) InputType() InputType { return InputToggleTimeDuration }
func (ToggleQuantityTime) InputType() InputType { return InputToggleQuantityTime }
func (DurationRating) InputType() InputType     { return InputDurationRating }
func (Rating) InputType() InputType             { return InputRating }
func (Level) InputType() InputType              { return InputRating3Level }
func (ClockTime) InputType() InputType          { return InputTime }

func (Toggle) isLogValue()             {}
func (ToggleTime) isLogValue()         {}
func (ToggleTimeDuration) isLogValue() {}
func (ToggleQuantityTime) isLogValue() {}
func (DurationRating) isLogValue()     {}
func (Rating) isLogValue()             {}
func (Level) isLogValue()              {}
func (ClockTime) isLogValue()          {}

// ZeroLogValue returns the default value for an input type, or nil for an unknown type.
func ZeroLogValue(t InputType) LogValue {
	switch t {
	case InputToggle:
		return Toggle(false)
	case InputToggleTime:
		return ToggleTime{}
	case InputToggleTimeDuration:
		return ToggleTimeDuration{}
	case InputToggleQuantityTime:
		return ToggleQuantityTime{}
	case InputDurationRating:
		return DurationRating{}
	case InputRating:
		return Rating(0)
	case InputRating3Level:
		return Level("")
	case InputTime:
		return ClockTime("")
	default:
		return nil
	}
}

// DecodeLogValue interprets stored text according to the habit's input type.
func DecodeLogValue(raw string, t InputType) LogValue {
	if raw == "" {
		return ZeroLogValue(t)
	}

	switch t {
	case InputToggle:
		return Toggle(raw == "true")
	case InputToggleTime:
		var v ToggleTime
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return ToggleTime{}
		}
		return v
	case InputToggleTimeDuration:
		var v ToggleTimeDuration
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return ToggleTimeDuration{}
		}
		return v
	case InputToggleQuantityTime:
		var v ToggleQuantityTime
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return ToggleQuantityTime{}
		}
		return v
	case InputDurationRating:
		var v DurationRating
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return DurationRating{}
		}
		return v
	case InputRating:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return Rating(0)
		}
		return Rating(n)
	case InputRating3Level:
		return Level(raw)
	case InputTime:
		if !IsClockTime(raw) {
			return ClockTime("")
		}
		return ClockTime(raw)
	default:
		return nil
	}
}

// EncodeLogValue renders a value into its stored text form.
func EncodeLogValue(v LogValue) (string, error) {
	switch val := v.(type) {
	case Toggle:
		return strconv.FormatBool(bool(val)), nil
	case ToggleTime, ToggleTimeDuration, ToggleQuantityTime, DurationRating:
		data, err := json.Marshal(val)
		if err != nil {
			return "", fmt.Errorf("encode %s: %w", v.InputType(), err)
		}
		return string(data), nil
	case Rating:
		return strconv.Itoa(int(val)), nil
	case Level:
		return string(val), nil
	case ClockTime:
		return string(val), nil
	case nil:
		return "", fmt.Errorf("encode: nil value")
	default:
		return "", fmt.Errorf("encode: unsupported value %T", v)
	}
}

// Enabled reports the on/off signal of a value. Only toggle-family values can be on.
func Enabled(v LogValue) bool {
	switch val := v.(type) {
	case Toggle:
		return bool(val)
	case ToggleTime:
		return val.Enabled
	case ToggleTimeDuration:
		return val.Enabled
	case ToggleQuantityTime:
		return val.Enabled
	default:
		return false
	}
}

// IsEnabled reports whether stored text counts as "on" for correlation purposes.
func IsEnabled(t InputType, raw string) bool {
	if raw == "" || !t.IsToggle() {
		return false
	}
	return Enabled(DecodeLogValue(raw, t))
}

// FormatLogValue renders a value for humans.
func FormatLogValue(v LogValue) string {
	yesNo := func(b bool) string {
		if b {
			return "yes"
		}
		return "no"
	}
	withTime := func(s, t string) string {
		if t == "" {
			return s
		}
		return s + " @ " + t
	}

	switch val := v.(type) {
	case Toggle:
		return yesNo(bool(val))
	case ToggleTime:
		if !val.Enabled {
			return "no"
		}
		return withTime("yes", val.Time)
	case ToggleTimeDuration:
		if !val.Enabled {
			return "no"
		}
		return fmt.Sprintf("%s, %d min", withTime("yes", val.Time), val.Duration)
	case ToggleQuantityTime:
		if !val.Enabled {
			return "no"
		}
		return withTime(fmt.Sprintf("yes x%d", val.Quantity), val.Time)
	case DurationRating:
		return fmt.Sprintf("%d min, rated %d", val.Duration, val.Rating)
	case Rating:
		if val == 0 {
			return "-"
		}
		return strconv.Itoa(int(val))
	case Level:
		if val == "" {
			return "-"
		}
		return string(val)
	case ClockTime:
		if val == "" {
			return "-"
		}
		return string(val)
	default:
		return "-"
	}
}
