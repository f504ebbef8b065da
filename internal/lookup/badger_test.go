// ABOUTME: Tests for the Badger-backed rate tables.
// ABOUTME: Verifies seeding, byte-wise key order, and persistence across reopen.
package lookup

import (
	"math"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBadgerServiceSeeded(t *testing.T) {
	svc, err := OpenBadgerService(t.TempDir())
	if err != nil {
		t.Fatalf("OpenBadgerService failed: %v", err)
	}
	defer svc.Close()

	keys, err := svc.ListKeys(Food)
	if err != nil {
		t.Fatalf("ListKeys failed: %v", err)
	}
	if len(keys) != len(FoodSeed) {
		t.Errorf("len(keys) = %d, want %d", len(keys), len(FoodSeed))
	}
	if !sort.StringsAreSorted(keys) {
		t.Errorf("expected byte-wise key order, got %v", keys)
	}

	got, err := svc.FoodCalories("apple", 100)
	if err != nil {
		t.Fatalf("FoodCalories failed: %v", err)
	}
	if math.Abs(got-37.0) > tolerance {
		t.Errorf("FoodCalories(apple, 100) = %v, want 37", got)
	}
}

func TestBadgerCategoriesAreSeparate(t *testing.T) {
	store, err := OpenBadger("")
	if err != nil {
		t.Fatalf("OpenBadger failed: %v", err)
	}
	defer store.Close()

	food := store.Table(Food)
	exercise := store.Table(Exercise)

	if err := food.Upsert("rice", 1.3); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := exercise.Upsert("rowing", 7); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	foodKeys, _ := food.Keys()
	if diff := cmp.Diff([]string{"rice"}, foodKeys); diff != "" {
		t.Errorf("food keys mismatch (-want +got):\n%s", diff)
	}
	if _, ok, _ := exercise.Rate("rice"); ok {
		t.Error("food key leaked into exercise table")
	}
}

func TestBadgerUpsertSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	svc, err := OpenBadgerService(dir)
	if err != nil {
		t.Fatalf("OpenBadgerService failed: %v", err)
	}
	if err := svc.Upsert(Exercise, "rowing", 7.5); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := svc.Upsert(Food, "apple", 0.52); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := svc.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := OpenBadgerService(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	rate, ok, err := reopened.GetRate(Exercise, "rowing")
	if err != nil || !ok || rate != 7.5 {
		t.Errorf("GetRate(rowing) = %v, %v, %v; want 7.5, true, nil", rate, ok, err)
	}

	// Seeding must not clobber runtime changes.
	rate, _, _ = reopened.GetRate(Food, "apple")
	if rate != 0.52 {
		t.Errorf("GetRate(apple) = %v, want 0.52", rate)
	}
}

func TestBadgerUnknownKey(t *testing.T) {
	store, err := OpenBadger("")
	if err != nil {
		t.Fatalf("OpenBadger failed: %v", err)
	}
	defer store.Close()

	rate, ok, err := store.Table(Food).Rate("missing")
	if err != nil {
		t.Fatalf("Rate returned error: %v", err)
	}
	if ok || rate != 0 {
		t.Errorf("Rate(missing) = %v, %v; want 0, false", rate, ok)
	}
}
