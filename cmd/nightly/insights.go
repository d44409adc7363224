// ABOUTME: CLI commands for habit correlations and sleep trends.
// ABOUTME: Wraps the insights engine over the local database.
package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/nightly/internal/insights"
	"github.com/spf13/cobra"
)

var insightsDays int

var insightsCmd = &cobra.Command{
	Use:     "insights",
	Aliases: []string{"i"},
	Short:   "See how habits relate to sleep",
}

var correlationsCmd = &cobra.Command{
	Use:     "correlations",
	Aliases: []string{"corr"},
	Short:   "Compare sleep with and without each habit",
	Long: `For each yes/no habit, compare the average sleep score and deep sleep on
nights it was done against nights it was not.

A habit is listed once it has at least 3 scored nights on each side.
Results are sorted by the size of the score difference.

EXAMPLES:

  nightly insights correlations             # Last 90 days (correlation_days)
  nightly insights correlations --days 30`,
	RunE: func(cmd *cobra.Command, args []string) error {
		days := insightsDays
		if days <= 0 {
			days = cfg.CorrelationDays
		}

		engine := insights.NewEngine(db, logger)
		results, err := engine.Correlations(context.Background(), days)
		if err != nil {
			return fmt.Errorf("failed to compute correlations: %w", err)
		}

		if len(results) == 0 {
			fmt.Printf("Not enough data in the last %d days.\n", days)
			fmt.Println("Each yes/no habit needs at least 3 scored nights with and without it.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, r := range results {
			fmt.Printf("%s %s  %s\n",
				padRight(truncate(r.Habit.Name, 24), 24),
				signed(r.ScoreDiff, "score"),
				signed(r.DeepDiff, "min deep"))
			fmt.Printf("  %s\n", faint.Sprintf("with: %d nights, score %d, deep %d   without: %d nights, score %d, deep %d",
				r.SamplesWith, r.AvgScoreWith, r.AvgDeepWith,
				r.SamplesWithout, r.AvgScoreWithout, r.AvgDeepWithout))
		}
		return nil
	},
}

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show nightly sleep over time",
	Long: `Show one line per stored night: sleep score, readiness, and stage minutes.

EXAMPLES:

  nightly insights trends                   # Last 30 days (trend_days)
  nightly insights trends --days 7`,
	RunE: func(cmd *cobra.Command, args []string) error {
		days := insightsDays
		if days <= 0 {
			days = cfg.TrendDays
		}

		engine := insights.NewEngine(db, logger)
		points, err := engine.Trends(context.Background(), days)
		if err != nil {
			return fmt.Errorf("failed to load trends: %w", err)
		}

		if len(points) == 0 {
			fmt.Printf("No sleep data in the last %d days.\n", days)
			return nil
		}

		faint := color.New(color.Faint)
		fmt.Println(faint.Sprint("DATE        SCORE READY DEEP  REM   LIGHT TOTAL"))
		for _, p := range points {
			fmt.Printf("%s  %s %s %s %s %s %s\n",
				p.Date,
				padRight(intOrDash(p.SleepScore), 5),
				padRight(intOrDash(p.Readiness), 5),
				padRight(intOrDash(p.Deep), 5),
				padRight(intOrDash(p.Rem), 5),
				padRight(intOrDash(p.Light), 5),
				minutesOrDash(p.Total))
		}
		return nil
	},
}

// signed colors a difference green when positive and red when negative.
func signed(n int, unit string) string {
	s := fmt.Sprintf("%+d %s", n, unit)
	switch {
	case n > 0:
		return color.GreenString(s)
	case n < 0:
		return color.RedString(s)
	default:
		return s
	}
}

func init() {
	insightsCmd.PersistentFlags().IntVarP(&insightsDays, "days", "n", 0, "trailing window in days")
	insightsCmd.AddCommand(correlationsCmd, trendsCmd)
	rootCmd.AddCommand(insightsCmd)
}
