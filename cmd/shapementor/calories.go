// ABOUTME: CLI commands for food and exercise calorie records.
// ABOUTME: Calories are computed from the rate tables at record time.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var foodCmd = &cobra.Command{
	Use:   "food",
	Short: "Log food and list food records",
}

var foodAddCmd = &cobra.Command{
	Use:   "add <food> <grams>",
	Short: "Log food eaten",
	Long: `Log food eaten by a user. Calories are grams × the food's kcal-per-gram
rate from the lookup table; unknown foods are rejected.

EXAMPLES:

  shapementor food add -u 1 apple 150
  shapementor lookup list food              # See known foods`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := requireUser(cmd)
		if err != nil {
			return err
		}
		grams, err := parseFloatArg("grams", args[1])
		if err != nil {
			return err
		}

		r, err := trk.AddFoodRecord(cmd.Context(), userID, args[0], grams)
		if err != nil {
			return fmt.Errorf("failed to add food: %w", err)
		}

		out := cmd.OutOrStdout()
		color.New(color.FgGreen).Fprintf(out, "✓ Added %s\n", r.Food)
		fmt.Fprintf(out, "  %s %.1fg %.1f kcal\n", faint.Sprint(r.Timestamp), r.Gram, r.Calories)
		return nil
	},
}

var foodListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List a user's food records",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := requireUser(cmd)
		if err != nil {
			return err
		}
		records, err := trk.ListFoodRecords(cmd.Context(), userID)
		if err != nil {
			return fmt.Errorf("failed to list food: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(records) == 0 {
			fmt.Fprintln(out, "No food records found.")
			return nil
		}
		for _, r := range records {
			fmt.Fprintf(out, "%s %s %8.1fg %8.1f kcal\n", faint.Sprint(r.Timestamp), padRight(r.Food, 20), r.Gram, r.Calories)
		}
		return nil
	},
}

var foodDeleteCmd = &cobra.Command{
	Use:     "delete <timestamp> <food>",
	Aliases: []string{"rm"},
	Short:   "Delete a food record",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := requireUser(cmd)
		if err != nil {
			return err
		}
		if err := trk.DeleteFoodRecord(cmd.Context(), userID, args[0], args[1]); err != nil {
			return fmt.Errorf("failed to delete food: %w", err)
		}
		color.New(color.FgYellow).Fprintf(cmd.OutOrStdout(), "✗ Deleted %s at %s\n", args[1], args[0])
		return nil
	},
}

var exerciseCmd = &cobra.Command{
	Use:     "exercise",
	Aliases: []string{"ex"},
	Short:   "Log exercise and list exercise records",
}

var exerciseAddCmd = &cobra.Command{
	Use:   "add <exercise> <minutes>",
	Short: "Log exercise done",
	Long: `Log exercise done by a user. Calories are minutes × the exercise's
kcal-per-minute rate from the lookup table; unknown exercises are rejected.

EXAMPLES:

  shapementor exercise add -u 1 running 30
  shapementor lookup list exercise          # See known exercises`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := requireUser(cmd)
		if err != nil {
			return err
		}
		minutes, err := parseFloatArg("minutes", args[1])
		if err != nil {
			return err
		}

		r, err := trk.AddExerciseRecord(cmd.Context(), userID, args[0], minutes)
		if err != nil {
			return fmt.Errorf("failed to add exercise: %w", err)
		}

		out := cmd.OutOrStdout()
		color.New(color.FgGreen).Fprintf(out, "✓ Added %s\n", r.Exercise)
		fmt.Fprintf(out, "  %s %.1f min %.1f kcal\n", faint.Sprint(r.Timestamp), r.Minute, r.Calories)
		return nil
	},
}

var exerciseListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List a user's exercise records",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := requireUser(cmd)
		if err != nil {
			return err
		}
		records, err := trk.ListExerciseRecords(cmd.Context(), userID)
		if err != nil {
			return fmt.Errorf("failed to list exercise: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(records) == 0 {
			fmt.Fprintln(out, "No exercise records found.")
			return nil
		}
		for _, r := range records {
			fmt.Fprintf(out, "%s %s %6.1f min %8.1f kcal\n", faint.Sprint(r.Timestamp), padRight(r.Exercise, 20), r.Minute, r.Calories)
		}
		return nil
	},
}

var exerciseDeleteCmd = &cobra.Command{
	Use:     "delete <timestamp> <exercise>",
	Aliases: []string{"rm"},
	Short:   "Delete an exercise record",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := requireUser(cmd)
		if err != nil {
			return err
		}
		if err := trk.DeleteExerciseRecord(cmd.Context(), userID, args[0], args[1]); err != nil {
			return fmt.Errorf("failed to delete exercise: %w", err)
		}
		color.New(color.FgYellow).Fprintf(cmd.OutOrStdout(), "✗ Deleted %s at %s\n", args[1], args[0])
		return nil
	},
}

var caloriesCmd = &cobra.Command{
	Use:   "calories",
	Short: "Show calories eaten, burned, and net for a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := requireUser(cmd)
		if err != nil {
			return err
		}
		view, err := trk.CaloriesView(cmd.Context(), userID)
		if err != nil {
			return fmt.Errorf("failed to load calories: %w", err)
		}

		var eaten, burned float64
		for _, r := range view.FoodRecords {
			eaten += r.Calories
		}
		for _, r := range view.ExerciseRecords {
			burned += r.Calories
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (%d)\n", view.User.Name, view.User.ID)
		fmt.Fprintf(out, "  Eaten:   %8.1f kcal  %s\n", eaten, faint.Sprintf("(%d records)", len(view.FoodRecords)))
		fmt.Fprintf(out, "  Burned:  %8.1f kcal  %s\n", burned, faint.Sprintf("(%d records)", len(view.ExerciseRecords)))
		fmt.Fprintf(out, "  Net:     %8.1f kcal\n", eaten-burned)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{
		foodAddCmd, foodListCmd, foodDeleteCmd,
		exerciseAddCmd, exerciseListCmd, exerciseDeleteCmd,
		caloriesCmd,
	} {
		addUserFlag(c)
	}

	foodCmd.AddCommand(foodAddCmd, foodListCmd, foodDeleteCmd)
	exerciseCmd.AddCommand(exerciseAddCmd, exerciseListCmd, exerciseDeleteCmd)
	rootCmd.AddCommand(foodCmd, exerciseCmd, caloriesCmd)
}
