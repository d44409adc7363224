// ABOUTME: Copies all nightly data from one Repository into another.
// ABOUTME: Backs the backup command; the destination should start empty.

package storage

import (
	"fmt"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Habits       int
	Logs         int
	SleepRecords int
}

// MigrateData copies habits, logs, and sleep records from src to dst.
// Habits go first so log foreign keys resolve.
func MigrateData(src, dst Repository) (*MigrateSummary, error) {
	data, err := src.GetAllData()
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}

	if err := dst.ImportData(data); err != nil {
		return nil, fmt.Errorf("write destination: %w", err)
	}

	return &MigrateSummary{
		Habits:       len(data.Habits),
		Logs:         len(data.Logs),
		SleepRecords: len(data.Sleep),
	}, nil
}
