// ABOUTME: Sequential multi-day sync built on SyncDate.
// ABOUTME: One failing date does not stop the rest of the range.
package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/nightly/internal/models"
	"go.uber.org/zap"
)

// DateResult is the outcome of syncing one date in a range.
type DateResult struct {
	Date   string
	Record *models.SleepRecord
	Err    error
}

// SyncRange syncs every date in [from, to] in order and reports each outcome.
// It stops early only when ctx is cancelled.
func (r *Reconciler) SyncRange(ctx context.Context, from, to string) ([]DateResult, error) {
	start, err := time.Parse(models.DateFormat, from)
	if err != nil {
		return nil, fmt.Errorf("parse from date %q: %w", from, err)
	}
	end, err := time.Parse(models.DateFormat, to)
	if err != nil {
		return nil, fmt.Errorf("parse to date %q: %w", to, err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("from date %s is after to date %s", from, to)
	}

	var results []DateResult
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		date := d.Format(models.DateFormat)
		rec, err := r.SyncDate(ctx, date)
		if err != nil {
			r.logger.Warn("sleep sync failed", zap.String("date", date), zap.Error(err))
		}
		results = append(results, DateResult{Date: date, Record: rec, Err: err})
	}
	return results, nil
}
