// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server for Claude integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/nightly/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP allows AI assistants like Claude to log habits and read your sleep data
through a standardized protocol. The server communicates via stdin/stdout.

CLAUDE DESKTOP CONFIGURATION:

  Add this to your Claude Desktop config (claude_desktop_config.json):

  {
    "mcpServers": {
      "nightly": {
        "command": "nightly",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  list_habits        List tracked habits
  add_habit          Create a habit
  log_habit          Record a habit value for a day
  get_day            Sleep record and habit logs for a day
  sync_sleep         Pull a day from Oura (needs oura_token)
  get_correlations   Habit vs. sleep score comparison
  get_trends         Nightly sleep series

AVAILABLE RESOURCES:

  nightly://today      Today's sleep and habits
  nightly://insights   Correlations and recent trend`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := mcp.Options{
			Logger:          logger,
			CorrelationDays: cfg.CorrelationDays,
			TrendDays:       cfg.TrendDays,
		}
		if r, err := newReconciler(); err == nil {
			opts.Syncer = r
		}

		server, err := mcp.NewServer(db, opts)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
