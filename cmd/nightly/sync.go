// ABOUTME: CLI command for pulling sleep data from Oura.
// ABOUTME: Syncs one day or an inclusive date range into the local database.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/harperreed/nightly/internal/config"
	"github.com/harperreed/nightly/internal/oura"
	"github.com/spf13/cobra"
)

var (
	syncFrom string
	syncTo   string
)

var syncCmd = &cobra.Command{
	Use:     "sync [date]",
	Aliases: []string{"s"},
	Short:   "Pull sleep data from Oura",
	Long: `Fetch sleep score, readiness, and sleep stages from Oura and store them.

The record for a day replaces whatever was stored for it before. If Oura
is unreachable nothing is written and the old record is kept.

SETUP:

  Create a personal access token at https://cloud.ouraring.com and put it in
  ~/.config/nightly/config.yaml as oura_token, or export NIGHTLY_OURA_TOKEN.

EXAMPLES:

  nightly sync                                # Today
  nightly sync yesterday
  nightly sync --from 2024-01-01 --to 2024-01-31`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newReconciler()
		if err != nil {
			if errors.Is(err, oura.ErrNoToken) {
				return fmt.Errorf("%w: set oura_token in %s or NIGHTLY_OURA_TOKEN", err, config.GetConfigPath())
			}
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if syncFrom != "" || syncTo != "" {
			from, err := parseDate(syncFrom)
			if err != nil {
				return err
			}
			to, err := parseDate(syncTo)
			if err != nil {
				return err
			}

			results, err := r.SyncRange(ctx, from, to)
			failed := 0
			for _, res := range results {
				if res.Err != nil {
					failed++
					color.Red("✗ %s %v", res.Date, res.Err)
					continue
				}
				color.Green("✓ %s", res.Date)
				fmt.Printf("  %s\n", sleepSummary(res.Record))
			}
			if err != nil {
				return fmt.Errorf("sync stopped: %w", err)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d days failed to sync", failed, len(results))
			}
			return nil
		}

		date, err := dateArg(args)
		if err != nil {
			return err
		}

		rec, err := r.SyncDate(ctx, date)
		if err != nil {
			return fmt.Errorf("failed to sync %s: %w", date, err)
		}

		color.Green("✓ Synced %s", date)
		fmt.Printf("  %s\n", sleepSummary(rec))
		return nil
	},
}

func init() {
	syncCmd.Flags().StringVar(&syncFrom, "from", "", "first day of a range (default today)")
	syncCmd.Flags().StringVar(&syncTo, "to", "", "last day of a range (default today)")
	rootCmd.AddCommand(syncCmd)
}
