// ABOUTME: Data migration between storage backends.
// ABOUTME: Copies the metric catalog, users, and every fact from source to destination.
package storage

import (
	"context"
	"fmt"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Definitions     int
	Users           int
	BodyMetrics     int
	FoodRecords     int
	ExerciseRecords int
}

// MigrateData copies all data from src to dst storage.
// Users keep their IDs, so the destination should hold no users before
// calling this function. Catalog entries are upserted.
func MigrateData(ctx context.Context, src, dst Repository) (*MigrateSummary, error) {
	summary := &MigrateSummary{}

	defs, err := src.ListMetricDefinitions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list source metric definitions: %w", err)
	}
	for _, def := range defs {
		if err := dst.UpsertMetricDefinition(ctx, def); err != nil {
			return nil, fmt.Errorf("upsert metric definition %s: %w", def.Index, err)
		}
		summary.Definitions++
	}

	users, err := src.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list source users: %w", err)
	}

	for _, u := range users {
		if err := dst.InsertUser(ctx, u); err != nil {
			return nil, fmt.Errorf("create user %d: %w", u.ID, err)
		}
		summary.Users++

		metrics, err := src.ListBodyMetrics(ctx, u.ID)
		if err != nil {
			return nil, fmt.Errorf("list body metrics for user %d: %w", u.ID, err)
		}
		for _, m := range metrics {
			if err := dst.AddBodyMetric(ctx, m); err != nil {
				return nil, fmt.Errorf("add body metric for user %d: %w", u.ID, err)
			}
			summary.BodyMetrics++
		}

		food, err := src.ListFoodRecords(ctx, u.ID)
		if err != nil {
			return nil, fmt.Errorf("list food records for user %d: %w", u.ID, err)
		}
		for _, r := range food {
			if err := dst.AddFoodRecord(ctx, r); err != nil {
				return nil, fmt.Errorf("add food record for user %d: %w", u.ID, err)
			}
			summary.FoodRecords++
		}

		exercise, err := src.ListExerciseRecords(ctx, u.ID)
		if err != nil {
			return nil, fmt.Errorf("list exercise records for user %d: %w", u.ID, err)
		}
		for _, r := range exercise {
			if err := dst.AddExerciseRecord(ctx, r); err != nil {
				return nil, fmt.Errorf("add exercise record for user %d: %w", u.ID, err)
			}
			summary.ExerciseRecords++
		}
	}

	return summary, nil
}

// HasUsers reports whether repo already holds any user.
func HasUsers(ctx context.Context, repo Repository) (bool, error) {
	users, err := repo.ListUsers(ctx)
	if err != nil {
		return false, err
	}
	return len(users) > 0, nil
}
