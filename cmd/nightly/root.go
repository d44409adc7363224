// ABOUTME: Root Cobra command for nightly CLI.
// ABOUTME: Loads config, builds the logger, and manages the database lifecycle.
package main

import (
	"fmt"

	"github.com/harperreed/nightly/internal/config"
	"github.com/harperreed/nightly/internal/logging"
	"github.com/harperreed/nightly/internal/oura"
	"github.com/harperreed/nightly/internal/storage"
	"github.com/harperreed/nightly/internal/sync"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfg     *config.Config
	db      *storage.DB
	logger  *zap.Logger
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "nightly",
	Short: "Sleep and habit tracker",
	Long: `Nightly tracks evening and morning habits and pairs them with your Oura sleep data.

HABITS:

  Night habits are things you did before bed (alcohol, late meal, screens).
  Morning habits are how you felt after waking (energy, mood, grogginess).

  $ nightly habit add Alcohol --category night --type toggle_quantity_time
  $ nightly habit add Energy --category morning --type rating_3level
  $ nightly habit list

LOGGING:

  $ nightly log set Alcohol yes 2 21:00     # Two drinks, last at 21:00
  $ nightly log set Energy high --date yesterday
  $ nightly log show                        # Today's sleep and habits
  $ nightly log copy                        # Repeat yesterday's answers

SLEEP DATA:

  $ nightly sync                            # Pull today's Oura data
  $ nightly sync --from 2024-01-01 --to 2024-01-31
  $ nightly sleep show yesterday

INSIGHTS:

  $ nightly insights correlations           # Which habits move your sleep score
  $ nightly insights trends --days 14

MCP INTEGRATION:

  Run 'nightly mcp' to start the Model Context Protocol server for use with
  Claude Desktop or other MCP-compatible AI assistants:

  {
    "mcpServers": {
      "nightly": { "command": "nightly", "args": ["mcp"] }
    }
  }

CONFIGURATION:

  Settings live in ~/.config/nightly/config.yaml. Every key can be overridden
  with a NIGHTLY_ environment variable, e.g. NIGHTLY_OURA_TOKEN.

DATA STORAGE:

  Data is stored in SQLite at ~/.local/share/nightly/nightly.db.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip setup for commands that don't touch data
		if cmd.Name() == "help" || cmd.Name() == "install-skill" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger, err = logging.New(logging.Options{
			Level:   cfg.LogLevel,
			File:    config.ExpandPath(cfg.LogFile),
			Verbose: verbose,
		})
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}

		db, err = cfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		logger.Debug("database opened", zap.String("path", db.Path()))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logger != nil {
			_ = logger.Sync()
		}
		if db != nil {
			err := db.Close()
			db = nil
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
}

// newOuraClient builds a client from the loaded config.
func newOuraClient() *oura.Client {
	return oura.NewClient(cfg.OuraToken,
		oura.WithBaseURL(cfg.OuraBaseURL),
		oura.WithLogger(logger),
	)
}

// newReconciler returns a reconciler writing to the open database,
// or oura.ErrNoToken when no token is configured.
func newReconciler() (*sync.Reconciler, error) {
	client := newOuraClient()
	if !client.HasToken() {
		return nil, oura.ErrNoToken
	}
	return sync.NewReconciler(client, db, sync.Options{
		WindowDays: cfg.SyncWindowDays,
		Logger:     logger,
	}), nil
}
