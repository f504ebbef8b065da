// ABOUTME: CLI commands for body metric readings and the metric catalog.
// ABOUTME: Readings are keyed by user, timestamp, and metric index.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/shapementor/internal/models"
	"github.com/spf13/cobra"
)

var (
	metricListIndex string
	metricListLimit int
	metricDefUnit   string
)

var metricCmd = &cobra.Command{
	Use:     "metric",
	Aliases: []string{"m"},
	Short:   "Record and list body metrics",
}

var metricAddCmd = &cobra.Command{
	Use:     "add <metric_index> <value>",
	Aliases: []string{"a"},
	Short:   "Record a body metric reading",
	Long: `Record a body metric reading for a user. The timestamp is the current
time in UTC, truncated to the second.

Examples:
  shapementor metric add -u 1 weight 82.5
  shapementor metric add -u 1 mood 7`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := requireUser(cmd)
		if err != nil {
			return err
		}
		value, err := parseFloatArg("value", args[1])
		if err != nil {
			return err
		}

		m, err := trk.AddBodyMetric(cmd.Context(), userID, args[0], value)
		if err != nil {
			return fmt.Errorf("failed to add metric: %w", err)
		}

		out := cmd.OutOrStdout()
		color.New(color.FgGreen).Fprintf(out, "✓ Added %s\n", m.Index)
		fmt.Fprintf(out, "  %s %.2f\n", faint.Sprint(m.Timestamp), m.Value)
		return nil
	},
}

var metricListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List a user's body metric readings",
	Long: `List a user's body metric readings, newest first.

OUTPUT FORMAT:

  Each line shows: TIMESTAMP  INDEX  VALUE  UNIT

  Pass the timestamp and index to 'metric delete' to remove a reading.

EXAMPLES:

  shapementor metric list -u 1                 # Last 20 readings
  shapementor metric list -u 1 --index weight  # Only weight
  shapementor metric list -u 1 -n 50`,
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := requireUser(cmd)
		if err != nil {
			return err
		}

		readings, err := trk.ListBodyMetrics(cmd.Context(), userID)
		if err != nil {
			return fmt.Errorf("failed to list metrics: %w", err)
		}

		out := cmd.OutOrStdout()
		shown := 0
		for i := len(readings) - 1; i >= 0; i-- {
			m := readings[i]
			if metricListIndex != "" && m.Index != metricListIndex {
				continue
			}
			if metricListLimit > 0 && shown >= metricListLimit {
				break
			}
			fmt.Fprintf(out, "%s %s %.2f %s\n",
				faint.Sprint(m.Timestamp),
				padRight(m.Index, 16),
				m.Value,
				m.Unit)
			shown++
		}
		if shown == 0 {
			fmt.Fprintln(out, "No metrics found.")
		}
		return nil
	},
}

var metricDeleteCmd = &cobra.Command{
	Use:     "delete <timestamp> <metric_index>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a body metric reading",
	Long: `Delete a body metric reading by its exact timestamp and index.

EXAMPLES:

  shapementor metric delete -u 1 "2024-03-01 08:30:00" weight

CAUTION:

  This permanently deletes the reading. There is no undo.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := requireUser(cmd)
		if err != nil {
			return err
		}
		if err := trk.DeleteBodyMetric(cmd.Context(), userID, args[0], args[1]); err != nil {
			return fmt.Errorf("failed to delete metric: %w", err)
		}
		color.New(color.FgYellow).Fprintf(cmd.OutOrStdout(), "✗ Deleted %s at %s\n", args[1], args[0])
		return nil
	},
}

var metricDefsCmd = &cobra.Command{
	Use:   "defs",
	Short: "List the metric catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		defs, err := trk.ListMetricDefinitions(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list definitions: %w", err)
		}
		out := cmd.OutOrStdout()
		for _, d := range defs {
			fmt.Fprintf(out, "%s %s %s\n", padRight(d.Index, 16), padRight(d.Name, 24), faint.Sprint(d.Unit))
		}
		return nil
	},
}

var metricDefineCmd = &cobra.Command{
	Use:   "define <metric_index> <name>",
	Short: "Add or rename a catalog entry",
	Long: `Add a metric to the catalog, or change the name and unit of an existing one.

EXAMPLES:

  shapementor metric define vo2max "VO2 max" --unit ml/kg/min`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		def := &models.MetricDefinition{Index: args[0], Name: args[1], Unit: metricDefUnit}
		if err := trk.UpsertMetricDefinition(cmd.Context(), def); err != nil {
			return fmt.Errorf("failed to define metric: %w", err)
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Defined %s\n", def.Index)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{metricAddCmd, metricListCmd, metricDeleteCmd} {
		addUserFlag(c)
	}
	metricListCmd.Flags().StringVar(&metricListIndex, "index", "", "filter by metric index")
	metricListCmd.Flags().IntVarP(&metricListLimit, "limit", "n", 20, "max number of results")
	metricDefineCmd.Flags().StringVar(&metricDefUnit, "unit", "", "unit of measurement")

	metricCmd.AddCommand(metricAddCmd, metricListCmd, metricDeleteCmd, metricDefsCmd, metricDefineCmd)
	rootCmd.AddCommand(metricCmd)
}
