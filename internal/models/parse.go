// ABOUTME: Builds typed LogValues from human-friendly command arguments.
// ABOUTME: Used by the CLI and MCP tools before encoding a log.
package models

import (
	"fmt"
	"strconv"
	"strings"
)

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "y", "true", "on", "1":
		return true, nil
	case "no", "n", "false", "off", "0":
		return false, nil
	}
	return false, fmt.Errorf("expected yes or no, got %q", s)
}

func parseInt(name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", name, s)
	}
	return n, nil
}

// ParseLogInput converts arguments such as ["yes", "22:30", "45"] into a value for the habit.
// The result is validated against the habit's config.
func ParseLogInput(h *Habit, args []string) (LogValue, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("missing value for %s", h.Name)
	}

	var v LogValue
	switch h.InputType {
	case InputToggle:
		on, err := parseBool(args[0])
		if err != nil {
			return nil, err
		}
		v = Toggle(on)

	case InputToggleTime:
		on, err := parseBool(args[0])
		if err != nil {
			return nil, err
		}
		tv := ToggleTime{Enabled: on}
		if on && len(args) > 1 {
			tv.Time = args[1]
		}
		v = tv

	case InputToggleTimeDuration:
		on, err := parseBool(args[0])
		if err != nil {
			return nil, err
		}
		tv := ToggleTimeDuration{Enabled: on}
		if on && len(args) > 1 {
			tv.Time = args[1]
		}
		if on && len(args) > 2 {
			if tv.Duration, err = parseInt("duration", args[2]); err != nil {
				return nil, err
			}
		}
		v = tv

	case InputToggleQuantityTime:
		on, err := parseBool(args[0])
		if err != nil {
			return nil, err
		}
		qv := ToggleQuantityTime{Enabled: on}
		if on && len(args) > 1 {
			if qv.Quantity, err = parseInt("quantity", args[1]); err != nil {
				return nil, err
			}
		}
		if on && len(args) > 2 {
			qv.Time = args[2]
		}
		v = qv

	case InputDurationRating:
		if len(args) < 2 {
			return nil, fmt.Errorf("%s needs a duration in minutes and a rating", h.Name)
		}
		d, err := parseInt("duration", args[0])
		if err != nil {
			return nil, err
		}
		r, err := parseInt("rating", args[1])
		if err != nil {
			return nil, err
		}
		v = DurationRating{Duration: d, Rating: r}

	case InputRating:
		r, err := parseInt("rating", args[0])
		if err != nil {
			return nil, err
		}
		v = Rating(r)

	case InputRating3Level:
		label := strings.Join(args, " ")
		for _, opt := range h.LevelOptions() {
			if strings.EqualFold(opt, label) {
				label = opt
				break
			}
		}
		v = Level(label)

	case InputTime:
		v = ClockTime(args[0])

	default:
		return nil, fmt.Errorf("unknown input type: %s", h.InputType)
	}

	if err := h.ValidateValue(v); err != nil {
		return nil, err
	}
	return v, nil
}
