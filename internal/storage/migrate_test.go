// ABOUTME: Tests for data migration between storage backends.
// ABOUTME: Copies a populated SQLite database into an empty one and compares.
package storage

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/harperreed/shapementor/internal/models"
)

func TestMigrateData(t *testing.T) {
	ctx := context.Background()
	src := setupTestDB(t)
	jane := seedExportUser(t, src)
	bob := createTestUser(t, src, "bob@example.com")

	custom := &models.MetricDefinition{Index: "vo2max", Name: "VO2 max", Unit: "ml/kg/min"}
	if err := src.UpsertMetricDefinition(ctx, custom); err != nil {
		t.Fatalf("UpsertMetricDefinition failed: %v", err)
	}
	if err := src.AddBodyMetric(ctx, models.NewBodyMetric(bob.ID, "vo2max", 48).WithTimestamp(fixedTimestamp(0))); err != nil {
		t.Fatalf("AddBodyMetric failed: %v", err)
	}

	dst := setupTestDB(t)
	summary, err := MigrateData(ctx, src, dst)
	if err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}

	if summary.Users != 2 {
		t.Errorf("Users = %d, want 2", summary.Users)
	}
	if summary.BodyMetrics != 2 || summary.FoodRecords != 1 || summary.ExerciseRecords != 1 {
		t.Errorf("unexpected summary: %+v", summary)
	}
	if summary.Definitions != len(models.DefaultMetricDefinitions)+1 {
		t.Errorf("Definitions = %d, want %d", summary.Definitions, len(models.DefaultMetricDefinitions)+1)
	}

	srcUsers, _ := src.ListUsers(ctx)
	dstUsers, _ := dst.ListUsers(ctx)
	if diff := cmp.Diff(srcUsers, dstUsers); diff != "" {
		t.Errorf("users mismatch (-src +dst):\n%s", diff)
	}

	srcFood, _ := src.ListFoodRecords(ctx, jane.ID)
	dstFood, _ := dst.ListFoodRecords(ctx, jane.ID)
	if diff := cmp.Diff(srcFood, dstFood); diff != "" {
		t.Errorf("food mismatch (-src +dst):\n%s", diff)
	}

	// New users in the destination continue after the migrated IDs.
	next := mustUser(t, "carol@example.com")
	if err := dst.CreateUser(ctx, next); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if next.ID != bob.ID+1 {
		t.Errorf("next ID = %d, want %d", next.ID, bob.ID+1)
	}
}

func TestMigrateIntoPopulatedDestinationFails(t *testing.T) {
	ctx := context.Background()
	src := setupTestDB(t)
	createTestUser(t, src, "jane@example.com")

	dst := setupTestDB(t)
	createTestUser(t, dst, "someone@example.com")

	has, err := HasUsers(ctx, dst)
	if err != nil || !has {
		t.Fatalf("HasUsers = %v, %v; want true", has, err)
	}
	if _, err := MigrateData(ctx, src, dst); err == nil {
		t.Error("expected conflict migrating user 1 into a destination that has user 1")
	}
}
