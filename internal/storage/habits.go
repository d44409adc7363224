// ABOUTME: Habit CRUD operations for SQLite storage.
// ABOUTME: Assigns display order per category and soft-deletes via is_active.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/nightly/internal/models"
)

const habitColumns = `id, name, category, input_type, config, display_order, is_active, created_at`

// CreateHabit stores a new habit, placing it after the last habit of its category.
// The assigned display order is written back to h.
func (d *DB) CreateHabit(h *models.Habit) error {
	config, err := encodeConfig(h.Config)
	if err != nil {
		return fmt.Errorf("create habit: %w", err)
	}

	query := `
		INSERT INTO habits (id, name, category, input_type, config, display_order, is_active, created_at)
		SELECT ?, ?, ?, ?, ?, COALESCE(MAX(display_order), 0) + 1, ?, ?
		FROM habits
		WHERE category = ?
		RETURNING display_order
	`
	err = d.db.QueryRow(query,
		h.ID.String(),
		h.Name,
		string(h.Category),
		string(h.InputType),
		config,
		h.IsActive,
		h.CreatedAt.Format(time.RFC3339),
		string(h.Category),
	).Scan(&h.DisplayOrder)
	if err != nil {
		return fmt.Errorf("create habit: %w", err)
	}
	return nil
}

// GetHabit retrieves a habit by ID, ID prefix, or exact (case-insensitive) name.
func (d *DB) GetHabit(idOrPrefix string) (*models.Habit, error) {
	id, err := d.resolveHabitID(idOrPrefix)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + habitColumns + ` FROM habits WHERE id = ?`
	return scanHabit(d.db.QueryRow(query, id))
}

// ListHabits returns habits ordered by category and display order.
func (d *DB) ListHabits(category *models.Category, includeInactive bool) ([]*models.Habit, error) {
	var where []string
	var args []interface{}

	if category != nil {
		where = append(where, "category = ?")
		args = append(args, string(*category))
	}
	if !includeInactive {
		where = append(where, "is_active = 1")
	}

	query := `SELECT ` + habitColumns + ` FROM habits`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY category DESC, display_order ASC"

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	defer rows.Close()

	return scanHabits(rows)
}

// ListHabitsByInputTypes returns active habits whose input type is one of types.
func (d *DB) ListHabitsByInputTypes(types []models.InputType) ([]*models.Habit, error) {
	if len(types) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(types))
	args := make([]interface{}, len(types))
	for i, t := range types {
		placeholders[i] = "?"
		args[i] = string(t)
	}

	query := `SELECT ` + habitColumns + ` FROM habits
		WHERE is_active = 1 AND input_type IN (` + strings.Join(placeholders, ", ") + `)
		ORDER BY category DESC, display_order ASC`

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list habits by input type: %w", err)
	}
	defer rows.Close()

	return scanHabits(rows)
}

// UpdateHabit overwrites the mutable fields of an existing habit.
func (d *DB) UpdateHabit(h *models.Habit) error {
	config, err := encodeConfig(h.Config)
	if err != nil {
		return fmt.Errorf("update habit: %w", err)
	}

	result, err := d.db.Exec(`
		UPDATE habits
		SET name = ?, category = ?, input_type = ?, config = ?, display_order = ?, is_active = ?
		WHERE id = ?`,
		h.Name, string(h.Category), string(h.InputType), config, h.DisplayOrder, h.IsActive,
		h.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update habit: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update habit: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update habit %s: %w", h.ID, ErrNotFound)
	}
	return nil
}

// DeleteHabit deactivates a habit. Its logs stay in place for history.
func (d *DB) DeleteHabit(idOrPrefix string) error {
	id, err := d.resolveHabitID(idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}

	if _, err := d.db.Exec("UPDATE habits SET is_active = 0 WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}
	return nil
}

// resolveHabitID finds the full ID from a full ID, a prefix, or a name.
func (d *DB) resolveHabitID(idOrPrefix string) (string, error) {
	if len(idOrPrefix) == 36 && strings.Count(idOrPrefix, "-") == 4 {
		return idOrPrefix, nil
	}

	query := `SELECT id FROM habits WHERE id LIKE ? || '%' OR LOWER(name) = LOWER(?)`
	rows, err := d.db.Query(query, idOrPrefix, idOrPrefix)
	if err != nil {
		return "", fmt.Errorf("resolve habit ID: %w", err)
	}
	defer rows.Close()

	var matches []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("scan habit ID: %w", err)
		}
		matches = append(matches, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("resolve habit ID: %w", err)
	}

	if len(matches) == 0 {
		return "", fmt.Errorf("habit %s: %w", idOrPrefix, ErrNotFound)
	}
	if len(matches) > 1 {
		return "", fmt.Errorf("ambiguous prefix %s: matches multiple habits", idOrPrefix)
	}
	return matches[0], nil
}

func encodeConfig(cfg *models.HabitConfig) (interface{}, error) {
	if cfg == nil {
		return nil, nil
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return string(data), nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanHabitRow(row rowScanner) (*models.Habit, error) {
	var h models.Habit
	var idStr, category, inputType, createdAt string
	var config sql.NullString

	if err := row.Scan(&idStr, &h.Name, &category, &inputType, &config, &h.DisplayOrder, &h.IsActive, &createdAt); err != nil {
		return nil, err
	}

	h.ID, _ = uuid.Parse(idStr)
	h.Category = models.Category(category)
	h.InputType = models.InputType(inputType)
	h.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if config.Valid && config.String != "" {
		var cfg models.HabitConfig
		// A corrupt config falls back to the type defaults.
		if err := json.Unmarshal([]byte(config.String), &cfg); err == nil {
			h.Config = &cfg
		}
	}

	return &h, nil
}

func scanHabit(row *sql.Row) (*models.Habit, error) {
	h, err := scanHabitRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan habit: %w", err)
	}
	return h, nil
}

func scanHabits(rows *sql.Rows) ([]*models.Habit, error) {
	var habits []*models.Habit
	for rows.Next() {
		h, err := scanHabitRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan habit: %w", err)
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}
