// ABOUTME: Shared test helpers for sync package tests.
// ABOUTME: Provides a scripted fetcher, a failing store, and database setup.

package sync

import (
	"context"
	"errors"
	"path/filepath"
	gosync "sync"
	"testing"

	"github.com/harperreed/nightly/internal/models"
	"github.com/harperreed/nightly/internal/oura"
	"github.com/harperreed/nightly/internal/storage"
	"github.com/stretchr/testify/require"
)

// fakeFetcher returns canned provider data and records the ranges it was asked for.
type fakeFetcher struct {
	mu        gosync.Mutex
	sleep     []oura.DailyScore
	readiness []oura.DailyScore
	periods   []oura.SleepPeriod
	errOn     string
	calls     map[string][2]string
}

func (f *fakeFetcher) record(endpoint, start, end string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string][2]string{}
	}
	f.calls[endpoint] = [2]string{start, end}
	if f.errOn == endpoint {
		return &oura.APIError{Status: 500, Body: "upstream down"}
	}
	return nil
}

func (f *fakeFetcher) DailySleep(_ context.Context, start, end string) ([]oura.DailyScore, error) {
	if err := f.record(oura.EndpointDailySleep, start, end); err != nil {
		return nil, err
	}
	return f.sleep, nil
}

func (f *fakeFetcher) DailyReadiness(_ context.Context, start, end string) ([]oura.DailyScore, error) {
	if err := f.record(oura.EndpointDailyReadiness, start, end); err != nil {
		return nil, err
	}
	return f.readiness, nil
}

func (f *fakeFetcher) SleepPeriods(_ context.Context, start, end string) ([]oura.SleepPeriod, error) {
	if err := f.record(oura.EndpointSleep, start, end); err != nil {
		return nil, err
	}
	return f.periods, nil
}

var errInsertFailed = errors.New("insert failed")

// failingInsertStore delegates deletes to a real store but fails every insert.
type failingInsertStore struct {
	*storage.DB
}

func (s failingInsertStore) InsertSleepRecord(*models.SleepRecord) error {
	return errInsertFailed
}

// setupTestDB creates a temp nightly database.
func setupTestDB(t *testing.T) *storage.DB {
	t.Helper()

	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// strPtr returns a pointer to a string.
func strPtr(s string) *string {
	return &s
}

// intPtr returns a pointer to an int.
func intPtr(i int) *int {
	return &i
}
