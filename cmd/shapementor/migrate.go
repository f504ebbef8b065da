// ABOUTME: CLI command for copying data between SQLite and PostgreSQL.
// ABOUTME: Source is the configured backend; destination is chosen by flags.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/shapementor/internal/storage"
	"github.com/spf13/cobra"
)

var (
	migrateTo     string
	migrateDBPath string
	migrateDSN    string
	migrateDryRun bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy all data to another storage backend",
	Long: `Copy the metric catalog, every user, and all of their records from the
configured backend into another one. User IDs are preserved.

IMPORTANT:

  - The destination must not contain any users yet
  - The source is left untouched
  - Run with --dry-run first to see what would be copied

USAGE:

  shapementor migrate --to postgres --database-url postgres://localhost/shapementor
  shapementor migrate --to sqlite --db-path ./copy.db
  shapementor migrate --to postgres --database-url ... --dry-run

AFTER MIGRATION:

  Point the config at the new backend:
    SHAPEMENTOR_BACKEND=postgres SHAPEMENTOR_DATABASE_URL=...`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		if migrateDryRun {
			color.New(color.FgYellow).Fprintln(out, "Dry run mode - no changes will be made")
			users, err := repo.ListUsers(ctx)
			if err != nil {
				return fmt.Errorf("failed to list users: %w", err)
			}
			fmt.Fprintf(out, "Would copy %d users from %s to %s\n", len(users), repo.Backend(), migrateTo)
			return nil
		}

		var dst storage.Repository
		var err error
		switch migrateTo {
		case "sqlite":
			if migrateDBPath == "" {
				return fmt.Errorf("--db-path is required for --to sqlite")
			}
			dst, err = storage.Open(migrateDBPath)
		case "postgres":
			if migrateDSN == "" {
				return fmt.Errorf("--database-url is required for --to postgres")
			}
			dst, err = storage.OpenPostgres(ctx, migrateDSN)
		default:
			return fmt.Errorf("unknown destination backend: %q (use sqlite or postgres)", migrateTo)
		}
		if err != nil {
			return fmt.Errorf("failed to open destination: %w", err)
		}
		defer dst.Close()

		hasUsers, err := storage.HasUsers(ctx, dst)
		if err != nil {
			return fmt.Errorf("failed to inspect destination: %w", err)
		}
		if hasUsers {
			return fmt.Errorf("destination %s already has users; refusing to merge", dst.Backend())
		}

		summary, err := storage.MigrateData(ctx, repo, dst)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		color.New(color.FgGreen).Fprintf(out, "✓ Migrated %s → %s\n", repo.Backend(), dst.Backend())
		fmt.Fprintf(out, "  %d definitions, %d users, %d metrics, %d food, %d exercise\n",
			summary.Definitions, summary.Users, summary.BodyMetrics, summary.FoodRecords, summary.ExerciseRecords)
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", "postgres", "destination backend (sqlite or postgres)")
	migrateCmd.Flags().StringVar(&migrateDBPath, "db-path", "", "destination SQLite file")
	migrateCmd.Flags().StringVar(&migrateDSN, "database-url", "", "destination PostgreSQL connection string")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	rootCmd.AddCommand(migrateCmd)
}
