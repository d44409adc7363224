// ABOUTME: Habit model with Category and InputType enums.
// ABOUTME: Defines the eight answer shapes and per-type config defaults.
package models

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// DateFormat is the calendar-date layout used for log and sleep keys.
const DateFormat = "2006-01-02"

// Category groups habits for presentation.
type Category string

const (
	CategoryNight   Category = "night"
	CategoryMorning Category = "morning"
)

// IsValidCategory checks if a string is a valid category.
func IsValidCategory(s string) bool {
	return s == string(CategoryNight) || s == string(CategoryMorning)
}

// InputType is the answer shape of a habit.
type InputType string

const (
	InputToggle             InputType = "toggle"
	InputToggleTime         InputType = "toggle_time"
	InputToggleTimeDuration InputType = "toggle_time_duration"
	InputToggleQuantityTime InputType = "toggle_quantity_time"
	InputDurationRating     InputType = "duration_rating"
	InputRating             InputType = "rating"
	InputRating3Level       InputType = "rating_3level"
	InputTime               InputType = "time"
)

// AllInputTypes lists every valid input type.
var AllInputTypes = []InputType{
	InputToggle, InputToggleTime, InputToggleTimeDuration, InputToggleQuantityTime,
	InputDurationRating, InputRating, InputRating3Level, InputTime,
}

// ToggleInputTypes are the types with a well-defined on/off signal.
var ToggleInputTypes = []InputType{
	InputToggle, InputToggleTime, InputToggleTimeDuration, InputToggleQuantityTime,
}

// IsValidInputType checks if a string is a valid input type.
func IsValidInputType(s string) bool {
	for _, it := range AllInputTypes {
		if string(it) == s {
			return true
		}
	}
	return false
}

// IsToggle reports whether the input type belongs to the toggle family.
func (t InputType) IsToggle() bool {
	for _, it := range ToggleInputTypes {
		if it == t {
			return true
		}
	}
	return false
}

const (
	DefaultRatingMax = 5
)

// DefaultLevelOptions is the label set used by rating_3level habits without config.
var DefaultLevelOptions = []string{"Low", "Medium", "High"}

// HabitConfig holds the variant-specific settings of a habit.
type HabitConfig struct {
	Max     int      `json:"max,omitempty" yaml:"max,omitempty"`
	Options []string `json:"options,omitempty" yaml:"options,omitempty"`
}

// DefaultConfig returns the config a new habit of the given type starts with.
func DefaultConfig(t InputType) *HabitConfig {
	switch t {
	case InputRating, InputDurationRating:
		return &HabitConfig{Max: DefaultRatingMax}
	case InputRating3Level:
		opts := make([]string, len(DefaultLevelOptions))
		copy(opts, DefaultLevelOptions)
		return &HabitConfig{Options: opts}
	default:
		return nil
	}
}

// Habit is a user-defined trackable item.
type Habit struct {
	ID           uuid.UUID    `json:"id" yaml:"id"`
	Name         string       `json:"name" yaml:"name"`
	Category     Category     `json:"category" yaml:"category"`
	InputType    InputType    `json:"input_type" yaml:"input_type"`
	Config       *HabitConfig `json:"config,omitempty" yaml:"config,omitempty"`
	DisplayOrder int          `json:"display_order" yaml:"display_order"`
	IsActive     bool         `json:"is_active" yaml:"is_active"`
	CreatedAt    time.Time    `json:"created_at" yaml:"created_at"`
}

// NewHabit creates an active Habit with a generated UUID and the default config for its type.
// DisplayOrder is assigned by the store on create.
func NewHabit(name string, category Category, inputType InputType) *Habit {
	return &Habit{
		ID:        uuid.New(),
		Name:      name,
		Category:  category,
		InputType: inputType,
		Config:    DefaultConfig(inputType),
		IsActive:  true,
		CreatedAt: time.Now(),
	}
}

// WithConfig replaces the habit's config.
func (h *Habit) WithConfig(cfg *HabitConfig) *Habit {
	h.Config = cfg
	return h
}

// RatingMax returns the configured maximum rating, defaulting to 5.
func (h *Habit) RatingMax() int {
	if h.Config != nil && h.Config.Max > 0 {
		return h.Config.Max
	}
	return DefaultRatingMax
}

// LevelOptions returns the configured label set, defaulting to Low/Medium/High.
func (h *Habit) LevelOptions() []string {
	if h.Config != nil && len(h.Config.Options) > 0 {
		return h.Config.Options
	}
	return DefaultLevelOptions
}

var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// IsClockTime checks for an HH:MM 24-hour time.
func IsClockTime(s string) bool {
	return clockPattern.MatchString(s)
}

// ValidateValue checks a typed value against the habit's input type and config.
func (h *Habit) ValidateValue(v LogValue) error {
	if v == nil {
		return fmt.Errorf("missing value for %s", h.Name)
	}
	if v.InputType() != h.InputType {
		return fmt.Errorf("value of type %s does not fit %s habit %q", v.InputType(), h.InputType, h.Name)
	}

	checkTime := func(t string) error {
		if t != "" && !IsClockTime(t) {
			return fmt.Errorf("invalid time %q (use HH:MM)", t)
		}
		return nil
	}

	switch val := v.(type) {
	case Toggle:
		return nil
	case ToggleTime:
		return checkTime(val.Time)
	case ToggleTimeDuration:
		if val.Duration < 0 {
			return fmt.Errorf("duration must not be negative")
		}
		return checkTime(val.Time)
	case ToggleQuantityTime:
		if val.Quantity < 0 {
			return fmt.Errorf("quantity must not be negative")
		}
		return checkTime(val.Time)
	case DurationRating:
		if val.Duration < 0 {
			return fmt.Errorf("duration must not be negative")
		}
		if val.Rating < 1 || val.Rating > h.RatingMax() {
			return fmt.Errorf("rating must be between 1 and %d", h.RatingMax())
		}
	case Rating:
		if int(val) < 1 || int(val) > h.RatingMax() {
			return fmt.Errorf("rating must be between 1 and %d", h.RatingMax())
		}
	case Level:
		for _, opt := range h.LevelOptions() {
			if opt == string(val) {
				return nil
			}
		}
		return fmt.Errorf("level must be one of %v", h.LevelOptions())
	case ClockTime:
		if !IsClockTime(string(val)) {
			return fmt.Errorf("invalid time %q (use HH:MM)", string(val))
		}
	}
	return nil
}
