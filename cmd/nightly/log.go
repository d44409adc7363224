// ABOUTME: CLI commands for daily habit logs.
// ABOUTME: Supports set, show, copy, and clear for a given day.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/nightly/internal/models"
	"github.com/harperreed/nightly/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	logDate     string
	logCopyFrom string
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Record and review daily habit answers",
	Long: `Record and review daily habit answers.

Dates accept YYYY-MM-DD, today, yesterday, or phrases like "last friday".

COMMANDS:

  set     Record one habit for a day
  show    Show sleep and every habit for a day
  copy    Copy one day's answers onto another
  clear   Remove every answer for a day`,
}

var logSetCmd = &cobra.Command{
	Use:   "set <habit> <value> [more values...]",
	Short: "Record a habit value",
	Long: `Record a habit value for a day (default today).

VALUES BY TYPE:

  toggle                 yes | no
  toggle_time            yes 21:30
  toggle_time_duration   yes 14:00 30
  toggle_quantity_time   yes 2 20:30
  duration_rating        45 4
  rating                 3
  rating_3level          high
  time                   22:45

Examples:
  nightly log set Alcohol yes 2 20:30
  nightly log set Energy high --date yesterday
  nightly log set abc12345 no`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDate(logDate)
		if err != nil {
			return err
		}

		h, err := db.GetHabit(args[0])
		if err != nil {
			return fmt.Errorf("habit not found: %s", args[0])
		}
		if !h.IsActive {
			return fmt.Errorf("habit %s is deleted", h.Name)
		}

		v, err := models.ParseLogInput(h, args[1:])
		if err != nil {
			return err
		}
		raw, err := models.EncodeLogValue(v)
		if err != nil {
			return fmt.Errorf("failed to encode value: %w", err)
		}

		if err := db.UpsertLog(date, h.ID.String(), raw); err != nil {
			logger.Warn("log write failed", zap.String("date", date), zap.String("habit", h.ID.String()), zap.Error(err))
			// Print the stored day instead of what was requested.
			if view, loadErr := storage.LoadDay(db, date); loadErr == nil {
				color.Yellow("Stored values for %s:", date)
				printDay(view)
			}
			return fmt.Errorf("failed to save log: %w", err)
		}

		color.Green("✓ Logged %s", h.Name)
		fmt.Printf("  %s %s\n", color.New(color.Faint).Sprint(date), models.FormatLogValue(v))
		return nil
	},
}

var logShowCmd = &cobra.Command{
	Use:     "show [date]",
	Aliases: []string{"day"},
	Short:   "Show a day",
	Long: `Show the sleep record and every active habit for a day (default today).

Habits with nothing logged show "-".`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := dateArg(args)
		if err != nil {
			return err
		}

		view, err := storage.LoadDay(db, date)
		if err != nil {
			return fmt.Errorf("failed to load day: %w", err)
		}

		printDay(view)
		return nil
	},
}

var logCopyCmd = &cobra.Command{
	Use:   "copy [date]",
	Short: "Copy answers from another day",
	Long: `Copy every habit answer from one day onto another (default today).
Existing answers on the target day are overwritten.

Examples:
  nightly log copy                          # yesterday -> today
  nightly log copy 2024-03-02 --from 2024-02-28`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		to, err := dateArg(args)
		if err != nil {
			return err
		}

		var from string
		if logCopyFrom != "" {
			if from, err = parseDate(logCopyFrom); err != nil {
				return err
			}
		} else if from, err = previousDay(to); err != nil {
			return err
		}

		if from == to {
			return fmt.Errorf("source and target are both %s", to)
		}

		n, err := db.CopyLogs(from, to)
		if err != nil {
			return fmt.Errorf("failed to copy logs: %w", err)
		}

		if n == 0 {
			fmt.Printf("Nothing logged on %s.\n", from)
			return nil
		}
		color.Green("✓ Copied %d answers from %s to %s", n, from, to)
		return nil
	},
}

var logClearCmd = &cobra.Command{
	Use:   "clear [date]",
	Short: "Clear a day's answers",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := dateArg(args)
		if err != nil {
			return err
		}

		n, err := db.ClearLogs(date)
		if err != nil {
			return fmt.Errorf("failed to clear logs: %w", err)
		}

		color.Yellow("✗ Cleared %d answers on %s", n, date)
		return nil
	},
}

func printDay(view *storage.DayView) {
	bold := color.New(color.Bold)
	bold.Println(view.Date)
	fmt.Println()

	printSleep(view.Sleep)

	printEntries := func(title string, entries []storage.DayEntry) {
		if len(entries) == 0 {
			return
		}
		fmt.Println()
		bold.Println(title)
		faint := color.New(color.Faint)
		for _, e := range entries {
			value := e.Display
			if !e.Logged {
				value = faint.Sprint(value)
			}
			fmt.Printf("  %s %s\n", padRight(truncate(e.Habit.Name, 24), 24), value)
		}
	}
	printEntries("Night", view.Night)
	printEntries("Morning", view.Morning)
}

func init() {
	logSetCmd.Flags().StringVarP(&logDate, "date", "d", "", "day to log (default today)")
	logCopyCmd.Flags().StringVar(&logCopyFrom, "from", "", "source day (default the day before)")

	logCmd.AddCommand(logSetCmd, logShowCmd, logCopyCmd, logClearCmd)
	rootCmd.AddCommand(logCmd)
}
