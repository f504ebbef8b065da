// ABOUTME: Read models combining a user with their records and reference options.
// ABOUTME: These are the documents the profile, metrics, and calories pages render.
package tracker

import (
	"context"

	"github.com/harperreed/shapementor/internal/lookup"
	"github.com/harperreed/shapementor/internal/models"
)

// MetricsView is a user's readings plus the catalog to pick from.
type MetricsView struct {
	User        *models.User               `json:"user"`
	BodyMetrics []*models.BodyMetric       `json:"body_metrics"`
	Definitions []*models.MetricDefinition `json:"metric_definitions"`
}

// CaloriesView is a user's food and exercise records plus the known keys.
type CaloriesView struct {
	User            *models.User             `json:"user"`
	FoodRecords     []*models.FoodRecord     `json:"food_records"`
	ExerciseRecords []*models.ExerciseRecord `json:"exercise_records"`
	FoodOptions     []string                 `json:"food_options"`
	ExerciseOptions []string                 `json:"exercise_options"`
}

// MetricsView loads the metrics page for userID. Lists are never nil.
func (t *Tracker) MetricsView(ctx context.Context, userID int64) (*MetricsView, error) {
	user, err := t.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	readings, err := t.repo.ListBodyMetrics(ctx, userID)
	if err != nil {
		return nil, err
	}
	defs, err := t.repo.ListMetricDefinitions(ctx)
	if err != nil {
		return nil, err
	}
	return &MetricsView{
		User:        user,
		BodyMetrics: nonNil(readings),
		Definitions: nonNil(defs),
	}, nil
}

// CaloriesView loads the calories page for userID. Lists are never nil.
func (t *Tracker) CaloriesView(ctx context.Context, userID int64) (*CaloriesView, error) {
	user, err := t.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	food, err := t.repo.ListFoodRecords(ctx, userID)
	if err != nil {
		return nil, err
	}
	exercise, err := t.repo.ListExerciseRecords(ctx, userID)
	if err != nil {
		return nil, err
	}
	foodKeys, err := t.rates.ListKeys(lookup.Food)
	if err != nil {
		return nil, err
	}
	exerciseKeys, err := t.rates.ListKeys(lookup.Exercise)
	if err != nil {
		return nil, err
	}
	return &CaloriesView{
		User:            user,
		FoodRecords:     nonNil(food),
		ExerciseRecords: nonNil(exercise),
		FoodOptions:     nonNil(foodKeys),
		ExerciseOptions: nonNil(exerciseKeys),
	}, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
