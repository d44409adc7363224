// ABOUTME: Date argument parsing for CLI commands.
// ABOUTME: Accepts YYYY-MM-DD, today, yesterday, or natural language like "last friday".
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/nightly/internal/models"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var dateParser = newDateParser()

func newDateParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// nowFunc is swapped in tests.
var nowFunc = time.Now

// parseDate resolves a date argument relative to now. Empty means today.
func parseDate(s string) (string, error) {
	now := nowFunc()
	s = strings.TrimSpace(strings.ToLower(s))

	switch s {
	case "", "today", "tonight":
		return now.Format(models.DateFormat), nil
	case "yesterday", "last night":
		return now.AddDate(0, 0, -1).Format(models.DateFormat), nil
	}

	if t, err := time.Parse(models.DateFormat, s); err == nil {
		return t.Format(models.DateFormat), nil
	}

	r, err := dateParser.Parse(s, now)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", s, err)
	}
	if r == nil {
		return "", fmt.Errorf("invalid date %q (use YYYY-MM-DD, today, yesterday, or e.g. \"last friday\")", s)
	}
	// The parser matches substrings; the whole argument must be the date.
	if r.Index != 0 || strings.TrimSpace(r.Text) != s {
		return "", fmt.Errorf("invalid date %q: only %q looks like a date", s, strings.TrimSpace(r.Text))
	}
	return r.Time.Format(models.DateFormat), nil
}

// dateArg returns the parsed first argument, or today when there is none.
func dateArg(args []string) (string, error) {
	if len(args) == 0 {
		return parseDate("")
	}
	return parseDate(args[0])
}

// previousDay returns the day before date.
func previousDay(date string) (string, error) {
	t, err := time.Parse(models.DateFormat, date)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t.AddDate(0, 0, -1).Format(models.DateFormat), nil
}
