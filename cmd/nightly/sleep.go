// ABOUTME: CLI command for viewing stored sleep records.
// ABOUTME: Prints score, readiness, stages, and bedtimes for a day.
package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/nightly/internal/models"
	"github.com/harperreed/nightly/internal/storage"
	"github.com/spf13/cobra"
)

var sleepCmd = &cobra.Command{
	Use:   "sleep",
	Short: "View stored sleep data",
}

var sleepShowCmd = &cobra.Command{
	Use:   "show [date]",
	Short: "Show the sleep record for a day",
	Long: `Show the stored sleep record for a day (default today).

Run 'nightly sync' first if the day has not been pulled from Oura.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := dateArg(args)
		if err != nil {
			return err
		}

		rec, err := db.GetSleepRecord(date)
		if errors.Is(err, storage.ErrNotFound) {
			fmt.Printf("No sleep data for %s.\n", date)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to load sleep record: %w", err)
		}

		color.New(color.Bold).Println(date)
		fmt.Println()
		printSleep(rec)
		return nil
	},
}

func printSleep(rec *models.SleepRecord) {
	faint := color.New(color.Faint)
	if rec == nil {
		faint.Println("No sleep data.")
		return
	}

	row := func(label, value string) {
		fmt.Printf("  %s %s\n", padRight(label, 12), value)
	}
	row("Sleep score", intOrDash(rec.SleepScore))
	row("Readiness", intOrDash(rec.ReadinessScore))
	row("Total", minutesOrDash(rec.TotalSleepMinutes))
	row("Deep", minutesOrDash(rec.DeepSleepMinutes))
	row("REM", minutesOrDash(rec.RemSleepMinutes))
	row("Light", minutesOrDash(rec.LightSleepMinutes))
	row("Awake", minutesOrDash(rec.AwakeMinutes))
	if rec.Efficiency != nil {
		row("Efficiency", fmt.Sprintf("%d%%", *rec.Efficiency))
	}
	if rec.BedtimeStart != nil && rec.BedtimeEnd != nil {
		row("Bedtime", faint.Sprintf("%s → %s", *rec.BedtimeStart, *rec.BedtimeEnd))
	}
}

// sleepSummary is a one-line description used after syncing.
func sleepSummary(rec *models.SleepRecord) string {
	if rec == nil {
		return "no data"
	}
	parts := []string{
		"score " + intOrDash(rec.SleepScore),
		"readiness " + intOrDash(rec.ReadinessScore),
	}
	if rec.TotalSleepMinutes != nil {
		parts = append(parts, minutesOrDash(rec.TotalSleepMinutes)+" asleep")
	}
	return strings.Join(parts, ", ")
}

func intOrDash(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

func minutesOrDash(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%dh%02dm", *v/60, *v%60)
}

func init() {
	sleepCmd.AddCommand(sleepShowCmd)
	rootCmd.AddCommand(sleepCmd)
}
