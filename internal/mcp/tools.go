// ABOUTME: MCP tool implementations for nightly.
// ABOUTME: Provides habit management, daily logging, sleep sync, and insights.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/nightly/internal/models"
	"github.com/harperreed/nightly/internal/oura"
	"github.com/harperreed/nightly/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_habits",
		Description: "List tracked habits, optionally filtered by category (night or morning)",
	}, s.handleListHabits)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_habit",
		Description: "Create a habit to track each night or morning",
	}, s.handleAddHabit)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_habit",
		Description: "Record a habit value for a day, e.g. values [\"yes\", \"21:30\"] for a timed toggle",
	}, s.handleLogHabit)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_day",
		Description: "Get the sleep record and every habit log for a day",
	}, s.handleGetDay)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "sync_sleep",
		Description: "Fetch sleep and readiness data from Oura for a day and store it",
	}, s.handleSyncSleep)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_correlations",
		Description: "Compare sleep on nights each yes/no habit was done against nights it was not",
	}, s.handleGetCorrelations)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_trends",
		Description: "Get nightly sleep scores and stage minutes over a trailing window",
	}, s.handleGetTrends)
}

// Tool input/output types

type listHabitsInput struct {
	Category        string `json:"category,omitempty" jsonschema:"Filter by category: night or morning"`
	IncludeInactive bool   `json:"include_inactive,omitempty" jsonschema:"Include deleted habits"`
}

type addHabitInput struct {
	Name      string   `json:"name" jsonschema:"Habit name"`
	Category  string   `json:"category" jsonschema:"night or morning"`
	InputType string   `json:"input_type" jsonschema:"One of toggle, toggle_time, toggle_time_duration, toggle_quantity_time, duration_rating, rating, rating_3level, time"`
	Max       int      `json:"max,omitempty" jsonschema:"Rating scale maximum (default 5)"`
	Options   []string `json:"options,omitempty" jsonschema:"Level names for rating_3level (default low, medium, high)"`
}

type habitOutput struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	InputType string `json:"input_type"`
	Message   string `json:"message"`
}

type logHabitInput struct {
	Habit  string   `json:"habit" jsonschema:"Habit name, ID, or ID prefix"`
	Values []string `json:"values" jsonschema:"Value arguments in order, e.g. [\"yes\", \"20:00\", \"30\"]"`
	Date   string   `json:"date,omitempty" jsonschema:"Day as YYYY-MM-DD (default today)"`
}

type logOutput struct {
	Date    string `json:"date"`
	Habit   string `json:"habit"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

type dateInput struct {
	Date string `json:"date,omitempty" jsonschema:"Day as YYYY-MM-DD (default today)"`
}

type daysInput struct {
	Days int `json:"days,omitempty" jsonschema:"Trailing window in days"`
}

// Tool handlers

func (s *Server) resolveDate(date string) (string, error) {
	if date == "" {
		return s.today(), nil
	}
	if _, err := time.Parse(models.DateFormat, date); err != nil {
		return "", fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
	}
	return date, nil
}

func (s *Server) handleListHabits(ctx context.Context, req *mcp.CallToolRequest, input listHabitsInput) (*mcp.CallToolResult, any, error) {
	var category *models.Category
	if input.Category != "" {
		if !models.IsValidCategory(input.Category) {
			return nil, nil, fmt.Errorf("unknown category: %s", input.Category)
		}
		c := models.Category(input.Category)
		category = &c
	}

	habits, err := s.repo.ListHabits(category, input.IncludeInactive)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list habits: %w", err)
	}

	if len(habits) == 0 {
		return nil, map[string]interface{}{"message": "No habits found."}, nil
	}

	return nil, map[string]interface{}{"habits": habits}, nil
}

func (s *Server) handleAddHabit(ctx context.Context, req *mcp.CallToolRequest, input addHabitInput) (*mcp.CallToolResult, habitOutput, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, habitOutput{}, fmt.Errorf("habit name is required")
	}
	if !models.IsValidCategory(input.Category) {
		return nil, habitOutput{}, fmt.Errorf("unknown category: %s", input.Category)
	}
	if !models.IsValidInputType(input.InputType) {
		return nil, habitOutput{}, fmt.Errorf("unknown input type: %s", input.InputType)
	}

	h := models.NewHabit(name, models.Category(input.Category), models.InputType(input.InputType))
	if input.Max > 0 && h.Config != nil {
		h.Config.Max = input.Max
	}
	if len(input.Options) > 0 && h.Config != nil {
		h.Config.Options = input.Options
	}

	if err := s.repo.CreateHabit(h); err != nil {
		return nil, habitOutput{}, fmt.Errorf("failed to create habit: %w", err)
	}

	return nil, habitOutput{
		ID:        h.ID.String()[:8],
		Name:      h.Name,
		Category:  string(h.Category),
		InputType: string(h.InputType),
		Message:   fmt.Sprintf("Added %s habit %q (ID: %s)", h.Category, h.Name, h.ID.String()[:8]),
	}, nil
}

func (s *Server) handleLogHabit(ctx context.Context, req *mcp.CallToolRequest, input logHabitInput) (*mcp.CallToolResult, logOutput, error) {
	date, err := s.resolveDate(input.Date)
	if err != nil {
		return nil, logOutput{}, err
	}

	h, err := s.repo.GetHabit(input.Habit)
	if err != nil {
		return nil, logOutput{}, fmt.Errorf("habit not found: %s", input.Habit)
	}
	if !h.IsActive {
		return nil, logOutput{}, fmt.Errorf("habit %s is deleted", h.Name)
	}

	v, err := models.ParseLogInput(h, input.Values)
	if err != nil {
		return nil, logOutput{}, err
	}
	raw, err := models.EncodeLogValue(v)
	if err != nil {
		return nil, logOutput{}, fmt.Errorf("failed to encode value: %w", err)
	}

	if err := s.repo.UpsertLog(date, h.ID.String(), raw); err != nil {
		return nil, logOutput{}, fmt.Errorf("failed to save log: %w", err)
	}

	display := models.FormatLogValue(v)
	return nil, logOutput{
		Date:    date,
		Habit:   h.Name,
		Value:   display,
		Message: fmt.Sprintf("Logged %s on %s: %s", h.Name, date, display),
	}, nil
}

func (s *Server) handleGetDay(ctx context.Context, req *mcp.CallToolRequest, input dateInput) (*mcp.CallToolResult, any, error) {
	date, err := s.resolveDate(input.Date)
	if err != nil {
		return nil, nil, err
	}

	view, err := storage.LoadDay(s.repo, date)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load day: %w", err)
	}
	return nil, view, nil
}

func (s *Server) handleSyncSleep(ctx context.Context, req *mcp.CallToolRequest, input dateInput) (*mcp.CallToolResult, any, error) {
	if s.syncer == nil {
		return nil, nil, oura.ErrNoToken
	}
	date, err := s.resolveDate(input.Date)
	if err != nil {
		return nil, nil, err
	}

	rec, err := s.syncer.SyncDate(ctx, date)
	if err != nil {
		var apiErr *oura.APIError
		if errors.As(err, &apiErr) {
			return nil, nil, fmt.Errorf("oura returned %d for %s", apiErr.Status, date)
		}
		return nil, nil, fmt.Errorf("failed to sync %s: %w", date, err)
	}
	return nil, rec, nil
}

func (s *Server) handleGetCorrelations(ctx context.Context, req *mcp.CallToolRequest, input daysInput) (*mcp.CallToolResult, any, error) {
	days := input.Days
	if days <= 0 {
		days = s.correlationDays
	}

	results, err := s.insights.Correlations(ctx, days)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute correlations: %w", err)
	}

	if len(results) == 0 {
		return nil, map[string]interface{}{
			"message": "Not enough data yet. Each yes/no habit needs at least 3 scored nights with and without it.",
		}, nil
	}
	return nil, map[string]interface{}{"correlations": results}, nil
}

func (s *Server) handleGetTrends(ctx context.Context, req *mcp.CallToolRequest, input daysInput) (*mcp.CallToolResult, any, error) {
	days := input.Days
	if days <= 0 {
		days = s.trendDays
	}

	points, err := s.insights.Trends(ctx, days)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load trends: %w", err)
	}
	return nil, map[string]interface{}{"trends": points}, nil
}
