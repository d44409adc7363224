// ABOUTME: MCP server setup for the nightly sleep and habit tracker.
// ABOUTME: Wraps the MCP server with storage, sleep sync, and analytics access.
package mcp

import (
	"context"
	"time"

	"github.com/harperreed/nightly/internal/insights"
	"github.com/harperreed/nightly/internal/models"
	"github.com/harperreed/nightly/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// Syncer reconciles one day of provider data into storage.
type Syncer interface {
	SyncDate(ctx context.Context, date string) (*models.SleepRecord, error)
}

// Options configures optional server dependencies.
type Options struct {
	// Syncer is nil when no Oura token is configured; sync_sleep then reports an error.
	Syncer          Syncer
	Logger          *zap.Logger
	CorrelationDays int
	TrendDays       int
}

// Server wraps the MCP server with storage access.
type Server struct {
	mcpServer       *mcp.Server
	repo            storage.Repository
	syncer          Syncer
	insights        *insights.Engine
	logger          *zap.Logger
	correlationDays int
	trendDays       int
	now             func() time.Time
}

// NewServer creates a new MCP server with the given storage.
func NewServer(repo storage.Repository, opts Options) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "nightly",
			Version: "1.0.0",
		},
		nil,
	)

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		mcpServer:       mcpServer,
		repo:            repo,
		syncer:          opts.Syncer,
		insights:        insights.NewEngine(repo, logger),
		logger:          logger,
		correlationDays: opts.CorrelationDays,
		trendDays:       opts.TrendDays,
		now:             time.Now,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("mcp server starting")
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) today() string {
	return s.now().Format(models.DateFormat)
}
