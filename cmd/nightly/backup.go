// ABOUTME: CLI command for copying the database into a fresh SQLite file.
// ABOUTME: The backup is a complete nightly database that can replace the original.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/harperreed/nightly/internal/storage"
	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup <file>",
	Short: "Copy all data into a new database file",
	Long: `Copy every habit, log, and sleep record into a new SQLite database.

The target file must not exist yet. To restore, point data_dir at the
backup's directory or copy it over nightly.db.

EXAMPLES:

  nightly backup ~/nightly-2024-06-01.db`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := args[0]
		if _, err := os.Stat(target); err == nil {
			return fmt.Errorf("%s already exists", target)
		}

		dst, err := storage.Open(target)
		if err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}
		defer dst.Close()

		summary, err := storage.MigrateData(db, dst)
		if err != nil {
			return fmt.Errorf("backup failed: %w", err)
		}

		color.Green("✓ Backed up to %s", target)
		fmt.Printf("  %d habits, %d logs, %d sleep records\n",
			summary.Habits, summary.Logs, summary.SleepRecords)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)
}
