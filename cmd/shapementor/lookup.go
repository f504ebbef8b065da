// ABOUTME: CLI commands for the food and exercise calorie rate tables.
// ABOUTME: List keys, read a rate, or upsert one.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/shapementor/internal/lookup"
	"github.com/spf13/cobra"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Inspect and edit calorie rate tables",
	Long: `Inspect and edit the calorie rate tables.

CATEGORIES:

  food       kcal per gram
  exercise   kcal per minute

With the default memory reference backend, edits last only for the current
process. Set reference.backend to "badger" to keep them on disk.`,
}

var lookupListCmd = &cobra.Command{
	Use:       "list <category>",
	Short:     "List known keys with their rates",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"food", "exercise"},
	RunE: func(cmd *cobra.Command, args []string) error {
		category, err := lookup.ParseCategory(args[0])
		if err != nil {
			return err
		}
		keys, err := rates.ListKeys(category)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, k := range keys {
			rate, _, err := rates.GetRate(category, k)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s %8.3f\n", padRight(k, 24), rate)
		}
		return nil
	},
}

var lookupGetCmd = &cobra.Command{
	Use:   "get <category> <key>",
	Short: "Show the rate for a key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		category, err := lookup.ParseCategory(args[0])
		if err != nil {
			return err
		}
		rate, ok, err := rates.GetRate(category, args[1])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s %q", lookup.ErrUnknownReferenceKey, category, args[1])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %g\n", args[1], rate)
		return nil
	},
}

var lookupSetCmd = &cobra.Command{
	Use:   "set <category> <key> <rate>",
	Short: "Insert or overwrite a rate",
	Long: `Insert or overwrite a rate. Existing records keep the calories they were
stored with; only new records use the new rate.

EXAMPLES:

  shapementor lookup set food kimchi 0.15
  shapementor lookup set exercise rowing 7.5`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		category, err := lookup.ParseCategory(args[0])
		if err != nil {
			return err
		}
		rate, err := parseFloatArg("rate", args[2])
		if err != nil {
			return err
		}
		if err := trk.UpsertRate(category, args[1], rate); err != nil {
			return fmt.Errorf("failed to set rate: %w", err)
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Set %s %s = %g\n", category, args[1], rate)
		return nil
	},
}

func init() {
	lookupCmd.AddCommand(lookupListCmd, lookupGetCmd, lookupSetCmd)
	rootCmd.AddCommand(lookupCmd)
}
