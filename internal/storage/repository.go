// ABOUTME: Repository interface for nightly data storage.
// ABOUTME: Defines the contract for habits, daily logs, and sleep records.
package storage

import (
	"github.com/harperreed/nightly/internal/models"
)

// Repository defines the storage interface for nightly data.
// This interface allows swapping implementations (e.g., for testing).
type Repository interface {
	// Habit operations
	CreateHabit(h *models.Habit) error
	GetHabit(idOrPrefix string) (*models.Habit, error)
	ListHabits(category *models.Category, includeInactive bool) ([]*models.Habit, error)
	ListHabitsByInputTypes(types []models.InputType) ([]*models.Habit, error)
	UpdateHabit(h *models.Habit) error
	DeleteHabit(idOrPrefix string) error

	// Daily log operations
	UpsertLog(date, habitID, value string) error
	GetLogsForDate(date string) (models.DailyLogMap, error)
	ListLogsSince(date string) ([]*models.DailyLog, error)
	CopyLogs(fromDate, toDate string) (int, error)
	ClearLogs(date string) (int, error)

	// Sleep record operations
	GetSleepRecord(date string) (*models.SleepRecord, error)
	ListSleepRecordsSince(date string) ([]*models.SleepRecord, error)
	DeleteSleepRecord(date string) error
	InsertSleepRecord(rec *models.SleepRecord) error

	// Export/Import
	GetAllData() (*ExportData, error)
	ImportData(data *ExportData) error

	// Lifecycle
	Close() error
}
