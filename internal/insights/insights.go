// ABOUTME: Read-only analytics over stored sleep records and habit logs.
// ABOUTME: Engine loads a trailing window concurrently, then reduces it in memory.
package insights

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/nightly/internal/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Default trailing windows in days.
const (
	DefaultCorrelationDays = 90
	DefaultTrendDays       = 30
)

// Store is the read side of storage.Repository used by the engine.
type Store interface {
	ListSleepRecordsSince(date string) ([]*models.SleepRecord, error)
	ListHabitsByInputTypes(types []models.InputType) ([]*models.Habit, error)
	ListLogsSince(date string) ([]*models.DailyLog, error)
}

// Engine computes correlations and trends.
type Engine struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewEngine creates an Engine reading from store.
func NewEngine(store Store, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{store: store, logger: logger, now: time.Now}
}

// since returns the first date inside a trailing window of days.
func (e *Engine) since(days int) string {
	return e.now().AddDate(0, 0, -days).Format(models.DateFormat)
}

// Correlations compares sleep on days each toggle habit was on against days it was off.
// days <= 0 uses DefaultCorrelationDays.
func (e *Engine) Correlations(ctx context.Context, days int) ([]CorrelationResult, error) {
	if days <= 0 {
		days = DefaultCorrelationDays
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	since := e.since(days)

	var (
		records []*models.SleepRecord
		habits  []*models.Habit
		logs    []*models.DailyLog
		g       errgroup.Group
	)
	g.Go(func() error {
		var err error
		if records, err = e.store.ListSleepRecordsSince(since); err != nil {
			return fmt.Errorf("load sleep records: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if habits, err = e.store.ListHabitsByInputTypes(models.ToggleInputTypes); err != nil {
			return fmt.Errorf("load habits: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if logs, err = e.store.ListLogsSince(since); err != nil {
			return fmt.Errorf("load logs: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := ComputeCorrelations(habits, records, logs)
	e.logger.Debug("correlations computed",
		zap.String("since", since),
		zap.Int("habits", len(habits)),
		zap.Int("nights", len(records)),
		zap.Int("results", len(results)),
	)
	return results, nil
}

// Trends returns one point per stored night in the trailing window, oldest first.
// days <= 0 uses DefaultTrendDays.
func (e *Engine) Trends(ctx context.Context, days int) ([]TrendPoint, error) {
	if days <= 0 {
		days = DefaultTrendDays
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records, err := e.store.ListSleepRecordsSince(e.since(days))
	if err != nil {
		return nil, fmt.Errorf("load sleep records: %w", err)
	}
	return BuildTrends(records), nil
}
