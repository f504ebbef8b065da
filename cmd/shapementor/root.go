// ABOUTME: Root Cobra command for the shapementor CLI.
// ABOUTME: Loads config and opens storage and rate tables via PersistentPre/PostRunE.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/harperreed/shapementor/internal/config"
	"github.com/harperreed/shapementor/internal/lookup"
	"github.com/harperreed/shapementor/internal/storage"
	"github.com/harperreed/shapementor/internal/tracker"
	"github.com/spf13/cobra"
)

var (
	configPath string

	cfg    *config.Config
	logger *log.Logger
	repo   storage.Repository
	rates  *lookup.Service
	trk    *tracker.Tracker
)

var rootCmd = &cobra.Command{
	Use:   "shapementor",
	Short: "Body metrics and calorie tracker",
	Long: `ShapeMentor tracks body metrics and calories for one or more users.

WHAT IT TRACKS:

  Body metrics   weight, body_fat, bp_sys, bp_dia, heart_rate, mood, ...
                 (see 'shapementor metric defs' for the full catalog)
  Food           grams eaten; calories come from the food rate table
  Exercise       minutes done; calories come from the exercise rate table

QUICK START:

  $ shapementor user create jane@example.com     # Create user 1
  $ shapementor metric add -u 1 weight 82.5      # Log a weight reading
  $ shapementor food add -u 1 apple 150          # 150g apple, 55.5 kcal
  $ shapementor exercise add -u 1 running 30     # 30 min run, 303 kcal
  $ shapementor calories -u 1                    # Food, exercise, and net

HTTP API:

  $ shapementor serve                            # Listen on :8012

MCP INTEGRATION:

  Run 'shapementor mcp' to start the Model Context Protocol server for use
  with MCP-compatible AI assistants:

  {
    "mcpServers": {
      "shapementor": { "command": "shapementor", "args": ["mcp"] }
    }
  }

CONFIGURATION:

  Settings are read from ~/.config/shapementor/config.json, then a .env file
  in the working directory, then SHAPEMENTOR_* environment variables
  (e.g. SHAPEMENTOR_BACKEND=postgres, SHAPEMENTOR_DATABASE_URL=...).

DATA STORAGE:

  SQLite (default) stores data at ~/.local/share/shapementor/shapementor.db.
  Set backend to "postgres" and database_url to use PostgreSQL instead.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip setup for commands that don't touch data
		if cmd.Name() == "help" || cmd.Name() == "version" || cmd.Name() == "completion" {
			return nil
		}
		return openDeps(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeDeps()
	},
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.Load()
}

func openDeps(cmd *cobra.Command) error {
	var err error
	if cfg, err = loadConfig(); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if logger, err = cfg.NewLogger(os.Stderr); err != nil {
		return err
	}

	if repo, err = cfg.OpenStorage(cmd.Context()); err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	if rates, err = cfg.OpenRates(); err != nil {
		_ = repo.Close()
		repo = nil
		return fmt.Errorf("failed to open reference data: %w", err)
	}

	trk = tracker.New(repo, rates)
	logger.Debug("opened storage", "backend", repo.Backend())
	return nil
}

func closeDeps() error {
	var errs []error
	if rates != nil {
		errs = append(errs, rates.Close())
		rates = nil
	}
	if repo != nil {
		errs = append(errs, repo.Close())
		repo = nil
	}
	trk = nil
	return errors.Join(errs...)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/shapementor/config.json)")
}
