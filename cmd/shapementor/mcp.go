// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs the stdio MCP server over the configured tracker.
package main

import (
	"github.com/harperreed/shapementor/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout and uses the same storage and rate
tables as the other commands.

CONFIGURATION:

  {
    "mcpServers": {
      "shapementor": {
        "command": "shapementor",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  find_user                Find or create a user by email
  update_profile           Update profile fields
  add_body_metric          Record a body metric reading
  list_body_metrics        List readings, newest first
  delete_body_metric       Delete a reading
  get_latest               Latest reading per metric index
  add_food / add_exercise  Log calories in or out
  list_calories            Records plus eaten/burned/net totals
  delete_food / delete_exercise
  list_lookup_keys         Keys of a rate table
  get_rate / set_rate      Read or upsert a rate
  list_metric_definitions  The metric catalog

AVAILABLE RESOURCES:

  shapementor://lookup/food         Food rates (kcal/gram)
  shapementor://lookup/exercise     Exercise rates (kcal/minute)
  shapementor://metric_definitions  Metric catalog`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(trk)
		if err != nil {
			return err
		}
		return server.Serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
