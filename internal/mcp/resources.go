// ABOUTME: MCP resource implementations for nightly.
// ABOUTME: Provides nightly://today and nightly://insights resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/nightly/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	todayURI    = "nightly://today"
	insightsURI = "nightly://insights"
)

func (s *Server) registerResources() {
	// nightly://today - last night's sleep and today's habit logs
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         todayURI,
		Name:        "Today",
		Description: "Sleep record and habit logs for today",
		MIMEType:    "application/json",
	}, s.handleTodayResource)

	// nightly://insights - correlations and recent trend
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         insightsURI,
		Name:        "Sleep Insights",
		Description: "Habit correlations with sleep score plus the recent sleep trend",
		MIMEType:    "application/json",
	}, s.handleInsightsResource)
}

func jsonResource(uri string, v interface{}) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// Resource handlers

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	view, err := storage.LoadDay(s.repo, s.today())
	if err != nil {
		return nil, fmt.Errorf("failed to load today: %w", err)
	}
	return jsonResource(todayURI, view)
}

func (s *Server) handleInsightsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	correlations, err := s.insights.Correlations(ctx, s.correlationDays)
	if err != nil {
		return nil, fmt.Errorf("failed to compute correlations: %w", err)
	}
	trends, err := s.insights.Trends(ctx, s.trendDays)
	if err != nil {
		return nil, fmt.Errorf("failed to load trends: %w", err)
	}

	result := map[string]interface{}{
		"generated_at": s.now().Format(time.RFC3339),
		"correlations": correlations,
		"trends":       trends,
		"summary": map[string]int{
			"correlated_habits": len(correlations),
			"nights":            len(trends),
		},
	}
	return jsonResource(insightsURI, result)
}
