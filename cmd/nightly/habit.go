// ABOUTME: CLI commands for managing tracked habits.
// ABOUTME: Supports add, list, edit (including reorder), and delete.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/nightly/internal/models"
	"github.com/spf13/cobra"
)

var (
	habitCategory   string
	habitType       string
	habitMax        int
	habitOptions    []string
	habitListCat    string
	habitListAll    bool
	habitEditName   string
	habitEditOrder  int
	habitEditMax    int
	habitEditOption []string
)

var habitCmd = &cobra.Command{
	Use:     "habit",
	Aliases: []string{"h"},
	Short:   "Manage tracked habits",
	Long: `Manage the habits you answer each night and morning.

INPUT TYPES:

  toggle                 yes/no
  toggle_time            yes/no with a time (HH:MM)
  toggle_time_duration   yes/no with a start time and minutes
  toggle_quantity_time   yes/no with a count and a time
  duration_rating        minutes plus a 1..max rating
  rating                 1..max rating (default max 5)
  rating_3level          one of three labels (default Low, Medium, High)
  time                   a time of day (HH:MM)

Only the toggle types take part in sleep correlations.`,
}

var habitAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a habit",
	Long: `Add a habit to track.

Examples:
  nightly habit add Alcohol --category night --type toggle_quantity_time
  nightly habit add "Screen time" --type toggle_time
  nightly habit add Stress --category morning --type rating --max 10
  nightly habit add Energy --category morning --type rating_3level --options low,ok,great`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(strings.Join(args, " "))
		if name == "" {
			return fmt.Errorf("habit name is required")
		}
		if !models.IsValidCategory(habitCategory) {
			return fmt.Errorf("unknown category: %s (use night or morning)", habitCategory)
		}
		if !models.IsValidInputType(habitType) {
			return fmt.Errorf("unknown input type: %s\nValid types: %s", habitType, inputTypeNames())
		}

		h := models.NewHabit(name, models.Category(habitCategory), models.InputType(habitType))
		applyConfig(h, habitMax, habitOptions)

		if err := db.CreateHabit(h); err != nil {
			return fmt.Errorf("failed to create habit: %w", err)
		}

		color.Green("✓ Added %s habit %s", h.Category, h.Name)
		fmt.Printf("  %s %s\n",
			color.New(color.Faint).Sprint(h.ID.String()[:8]),
			h.InputType)
		return nil
	},
}

var habitListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List habits",
	Long: `List habits in display order.

Each line shows: ID  CATEGORY  NAME  TYPE

Use --category to show only night or morning habits, and --all to include
deleted habits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var category *models.Category
		if habitListCat != "" {
			if !models.IsValidCategory(habitListCat) {
				return fmt.Errorf("unknown category: %s", habitListCat)
			}
			c := models.Category(habitListCat)
			category = &c
		}

		habits, err := db.ListHabits(category, habitListAll)
		if err != nil {
			return fmt.Errorf("failed to list habits: %w", err)
		}

		if len(habits) == 0 {
			fmt.Println("No habits found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, h := range habits {
			status := ""
			if !h.IsActive {
				status = faint.Sprint(" (deleted)")
			}
			fmt.Printf("%s %s %s %s%s\n",
				faint.Sprint(h.ID.String()[:8]),
				padRight(string(h.Category), 8),
				padRight(truncate(h.Name, 24), 24),
				faint.Sprint(h.InputType),
				status)
		}
		return nil
	},
}

var habitEditCmd = &cobra.Command{
	Use:   "edit <id|name>",
	Short: "Edit a habit",
	Long: `Rename, reorder, or reconfigure a habit.

Examples:
  nightly habit edit Alcohol --name Drinks
  nightly habit edit abc12345 --order 1
  nightly habit edit Stress --max 10`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := db.GetHabit(args[0])
		if err != nil {
			return fmt.Errorf("habit not found: %s", args[0])
		}

		flags := cmd.Flags()
		if flags.Changed("name") {
			name := strings.TrimSpace(habitEditName)
			if name == "" {
				return fmt.Errorf("habit name is required")
			}
			h.Name = name
		}
		if flags.Changed("order") {
			h.DisplayOrder = habitEditOrder
		}
		if flags.Changed("max") || flags.Changed("options") {
			applyConfig(h, habitEditMax, habitEditOption)
		}

		if err := db.UpdateHabit(h); err != nil {
			return fmt.Errorf("failed to update habit: %w", err)
		}

		color.Green("✓ Updated %s", h.Name)
		return nil
	},
}

var habitDeleteCmd = &cobra.Command{
	Use:     "delete <id|name>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a habit",
	Long: `Delete a habit by ID, ID prefix, or name.

Deleted habits disappear from daily views but their logged history is kept
and still shows up in exports.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := db.GetHabit(args[0])
		if err != nil {
			return fmt.Errorf("habit not found: %s", args[0])
		}

		if err := db.DeleteHabit(h.ID.String()); err != nil {
			return fmt.Errorf("failed to delete habit: %w", err)
		}

		color.Yellow("✗ Deleted %s", h.Name)
		fmt.Printf("  %s\n", color.New(color.Faint).Sprint(h.ID.String()[:8]))
		return nil
	},
}

// applyConfig sets max and options on habit types that use them.
func applyConfig(h *models.Habit, maxRating int, options []string) {
	if h.Config == nil {
		return
	}
	if maxRating > 0 && h.Config.Max > 0 {
		h.Config.Max = maxRating
	}
	if len(options) > 0 && len(h.Config.Options) > 0 {
		h.Config.Options = options
	}
}

func inputTypeNames() string {
	names := make([]string, len(models.AllInputTypes))
	for i, t := range models.AllInputTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func init() {
	habitAddCmd.Flags().StringVarP(&habitCategory, "category", "c", string(models.CategoryNight), "night or morning")
	habitAddCmd.Flags().StringVarP(&habitType, "type", "t", string(models.InputToggle), "input type")
	habitAddCmd.Flags().IntVar(&habitMax, "max", 0, "rating scale maximum")
	habitAddCmd.Flags().StringSliceVar(&habitOptions, "options", nil, "labels for rating_3level")

	habitListCmd.Flags().StringVarP(&habitListCat, "category", "c", "", "filter by category")
	habitListCmd.Flags().BoolVarP(&habitListAll, "all", "a", false, "include deleted habits")

	habitEditCmd.Flags().StringVar(&habitEditName, "name", "", "new name")
	habitEditCmd.Flags().IntVar(&habitEditOrder, "order", 0, "display position")
	habitEditCmd.Flags().IntVar(&habitEditMax, "max", 0, "rating scale maximum")
	habitEditCmd.Flags().StringSliceVar(&habitEditOption, "options", nil, "labels for rating_3level")

	habitCmd.AddCommand(habitAddCmd, habitListCmd, habitEditCmd, habitDeleteCmd)
	rootCmd.AddCommand(habitCmd)
}
