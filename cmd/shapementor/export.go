// ABOUTME: CLI commands for exporting and importing a user's data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats; imports JSON.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/harperreed/shapementor/internal/storage"
	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export a user's data",
	Long: `Export a user's profile, body metrics, and calorie records.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export with metrics grouped by index
  markdown   Markdown tables (for documentation/sharing)

EXAMPLES:

  shapementor export json -u 1                   # Print JSON to stdout
  shapementor export json -u 1 -o jane.json      # Save to file
  shapementor export markdown -u 1`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]
		if format != "json" && format != "yaml" && format != "markdown" {
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", format)
		}

		userID, err := requireUser(cmd)
		if err != nil {
			return err
		}
		export, err := trk.Export(cmd.Context(), userID)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		var data []byte
		switch format {
		case "json":
			data, err = storage.ExportJSON(export)
		case "yaml":
			data, err = storage.ExportYAML(export)
		case "markdown":
			data = []byte(storage.ExportMarkdown(export))
		}
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Exported to %s\n", exportOutput)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a user's data from JSON",
	Long: `Import a user from a JSON file written by 'shapementor export json'.

The user keeps its exported ID. Importing into a database that already holds
that user ID or email fails.

EXAMPLES:

  shapementor import jane.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		var data storage.ExportData
		if err := json.Unmarshal(raw, &data); err != nil {
			return fmt.Errorf("failed to parse %s: %w", args[0], err)
		}
		if err := trk.Import(cmd.Context(), &data); err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Imported user %d from %s\n", data.User.ID, args[0])
		fmt.Fprintf(cmd.OutOrStdout(), "  %d metrics, %d food, %d exercise\n",
			len(data.BodyMetrics), len(data.FoodRecords), len(data.ExerciseRecords))
		return nil
	},
}

func init() {
	addUserFlag(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
