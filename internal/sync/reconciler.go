// ABOUTME: Reconciles one day of Oura sleep data into the local sleep_data table.
// ABOUTME: Fetches scores and periods concurrently, picks the main period, and replaces the record.
package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/harperreed/nightly/internal/models"
	"github.com/harperreed/nightly/internal/oura"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultWindowDays is how far back sleep periods are fetched for a target date.
// Oura may file the main sleep under the previous day, so it never drops below 2.
const DefaultWindowDays = 2

// Fetcher is the subset of the Oura client the reconciler needs.
type Fetcher interface {
	DailySleep(ctx context.Context, start, end string) ([]oura.DailyScore, error)
	DailyReadiness(ctx context.Context, start, end string) ([]oura.DailyScore, error)
	SleepPeriods(ctx context.Context, start, end string) ([]oura.SleepPeriod, error)
}

// SleepStore persists reconciled records.
type SleepStore interface {
	DeleteSleepRecord(date string) error
	InsertSleepRecord(rec *models.SleepRecord) error
}

// Options configures a Reconciler.
type Options struct {
	WindowDays int
	Logger     *zap.Logger
}

// Reconciler turns provider data for a date into a stored SleepRecord.
type Reconciler struct {
	fetcher    Fetcher
	store      SleepStore
	windowDays int
	logger     *zap.Logger
}

// NewReconciler creates a Reconciler. WindowDays below 2 is raised to 2.
func NewReconciler(fetcher Fetcher, store SleepStore, opts Options) *Reconciler {
	window := opts.WindowDays
	if window < DefaultWindowDays {
		window = DefaultWindowDays
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{
		fetcher:    fetcher,
		store:      store,
		windowDays: window,
		logger:     logger,
	}
}

// rawSnapshot is the provider data stored alongside each record.
type rawSnapshot struct {
	SleepScores     []oura.DailyScore  `json:"sleepScores"`
	ReadinessScores []oura.DailyScore  `json:"readinessScores"`
	SleepPeriods    []oura.SleepPeriod `json:"sleepPeriods"`
}

// Reconcile syncs date and returns the stored record, or nil on any failure.
// Failures are logged, not returned.
func (r *Reconciler) Reconcile(ctx context.Context, date string) *models.SleepRecord {
	rec, err := r.SyncDate(ctx, date)
	if err != nil {
		r.logger.Error("sleep sync failed", zap.String("date", date), zap.Error(err))
		return nil
	}
	return rec
}

// SyncDate fetches provider data for date and replaces the stored record.
// Nothing is written unless all three fetches succeed.
func (r *Reconciler) SyncDate(ctx context.Context, date string) (*models.SleepRecord, error) {
	day, err := time.Parse(models.DateFormat, date)
	if err != nil {
		return nil, fmt.Errorf("parse date %q: %w", date, err)
	}
	windowStart := day.AddDate(0, 0, -r.windowDays).Format(models.DateFormat)

	var snap rawSnapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		scores, err := r.fetcher.DailySleep(gctx, date, date)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", oura.EndpointDailySleep, err)
		}
		snap.SleepScores = scores
		return nil
	})
	g.Go(func() error {
		scores, err := r.fetcher.DailyReadiness(gctx, date, date)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", oura.EndpointDailyReadiness, err)
		}
		snap.ReadinessScores = scores
		return nil
	})
	g.Go(func() error {
		periods, err := r.fetcher.SleepPeriods(gctx, windowStart, date)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", oura.EndpointSleep, err)
		}
		snap.SleepPeriods = periods
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rec, err := r.buildRecord(date, day, &snap)
	if err != nil {
		return nil, err
	}

	if err := r.store.DeleteSleepRecord(date); err != nil {
		return nil, fmt.Errorf("replace sleep record: %w", err)
	}
	if err := r.store.InsertSleepRecord(rec); err != nil {
		return nil, fmt.Errorf("replace sleep record: %w", err)
	}

	r.logger.Info("sleep synced",
		zap.String("date", date),
		zap.Int("sleep_periods", len(snap.SleepPeriods)),
		zap.Bool("has_score", rec.SleepScore != nil),
	)
	return rec, nil
}

func (r *Reconciler) buildRecord(date string, day time.Time, snap *rawSnapshot) (*models.SleepRecord, error) {
	raw, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode raw snapshot: %w", err)
	}

	rec := &models.SleepRecord{
		Date:           date,
		SleepScore:     ScoreForDay(snap.SleepScores, date),
		ReadinessScore: ScoreForDay(snap.ReadinessScores, date),
		RawJSON:        raw,
	}

	prev := day.AddDate(0, 0, -1).Format(models.DateFormat)
	if main := SelectMainPeriod(snap.SleepPeriods, date, prev); main != nil {
		rec.TotalSleepMinutes = secondsToMinutes(main.TotalSleepDuration)
		rec.DeepSleepMinutes = secondsToMinutes(main.DeepSleepDuration)
		rec.RemSleepMinutes = secondsToMinutes(main.RemSleepDuration)
		rec.LightSleepMinutes = secondsToMinutes(main.LightSleepDuration)
		rec.AwakeMinutes = secondsToMinutes(main.AwakeTime)
		rec.LatencyMinutes = secondsToMinutes(main.Latency)
		rec.Efficiency = main.Efficiency
		if main.BedtimeStart != "" {
			rec.BedtimeStart = models.StringPtr(main.BedtimeStart)
		}
		if main.BedtimeEnd != "" {
			rec.BedtimeEnd = models.StringPtr(main.BedtimeEnd)
		}
	}
	return rec, nil
}

// ScoreForDay returns the score of the entry for date, else of the first entry.
func ScoreForDay(scores []oura.DailyScore, date string) *int {
	for _, s := range scores {
		if s.Day == date {
			return s.Score
		}
	}
	if len(scores) > 0 {
		return scores[0].Score
	}
	return nil
}

// SelectMainPeriod picks the period that represents the night ending on date.
//
// Candidates are the periods whose day is date, else those whose day is prevDate,
// else all of them. Among candidates long_sleep periods win; the most recent day wins
// after that, with ties going to the later period in provider order.
func SelectMainPeriod(periods []oura.SleepPeriod, date, prevDate string) *oura.SleepPeriod {
	candidates := filterByDay(periods, date)
	if len(candidates) == 0 {
		candidates = filterByDay(periods, prevDate)
	}
	if len(candidates) == 0 {
		candidates = make([]int, len(periods))
		for i := range periods {
			candidates[i] = i
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	var long []int
	for _, i := range candidates {
		if periods[i].Type == oura.PeriodLongSleep {
			long = append(long, i)
		}
	}
	if len(long) > 0 {
		candidates = long
	}

	best := candidates[0]
	for _, i := range candidates[1:] {
		if periods[i].Day >= periods[best].Day {
			best = i
		}
	}
	p := periods[best]
	return &p
}

func filterByDay(periods []oura.SleepPeriod, day string) []int {
	var idx []int
	for i, p := range periods {
		if p.Day == day {
			idx = append(idx, i)
		}
	}
	return idx
}

// secondsToMinutes rounds half up. A nil duration stays nil.
func secondsToMinutes(seconds *int) *int {
	if seconds == nil {
		return nil
	}
	m := int(math.Floor(float64(*seconds)/60 + 0.5))
	return &m
}
