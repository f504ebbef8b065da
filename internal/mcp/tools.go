// ABOUTME: MCP tool implementations for the ShapeMentor tracker.
// ABOUTME: Provides user, body metric, calorie record, and rate table operations.
package mcp

import (
	"context"
	"fmt"

	"github.com/harperreed/shapementor/internal/lookup"
	"github.com/harperreed/shapementor/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	// users
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "find_user",
		Description: "Find a user by email, creating one if none exists",
	}, s.handleFindUser)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "update_profile",
		Description: "Update profile fields of a user; omitted fields are left unchanged",
	}, s.handleUpdateProfile)

	// body metrics
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_body_metric",
		Description: "Record a body metric reading (weight, body_fat, mood, etc.) for a user",
	}, s.handleAddBodyMetric)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_body_metrics",
		Description: "List a user's body metric readings, optionally filtered by metric index",
	}, s.handleListBodyMetrics)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_body_metric",
		Description: "Delete a body metric reading by timestamp and metric index",
	}, s.handleDeleteBodyMetric)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_latest",
		Description: "Get a user's most recent reading for one or more metric indexes",
	}, s.handleGetLatest)

	// calories
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_food",
		Description: "Log food eaten; calories are computed from the food rate table",
	}, s.handleAddFood)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_exercise",
		Description: "Log exercise done; calories are computed from the exercise rate table",
	}, s.handleAddExercise)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_calories",
		Description: "List a user's food and exercise records with calorie totals",
	}, s.handleListCalories)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_food",
		Description: "Delete a food record by timestamp and food key",
	}, s.handleDeleteFood)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_exercise",
		Description: "Delete an exercise record by timestamp and exercise key",
	}, s.handleDeleteExercise)

	// reference data
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_lookup_keys",
		Description: "List the keys of the food or exercise rate table",
	}, s.handleListLookupKeys)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_rate",
		Description: "Get the calorie rate for a food (kcal/gram) or exercise (kcal/minute)",
	}, s.handleGetRate)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "set_rate",
		Description: "Insert or overwrite a calorie rate; existing records keep their calories",
	}, s.handleSetRate)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_metric_definitions",
		Description: "List the body metric catalog with names and units",
	}, s.handleListMetricDefinitions)
}

// Tool input/output types

type findUserInput struct {
	Email string `json:"email" jsonschema:"Email address of the user"`
}

type userOutput struct {
	User    *models.User `json:"user"`
	Created bool         `json:"created"`
	Message string       `json:"message"`
}

type updateProfileInput struct {
	UserID      int64   `json:"user_id" jsonschema:"ID of the user to update"`
	UserName    *string `json:"user_name,omitempty" jsonschema:"New display name"`
	DOB         *string `json:"dob,omitempty" jsonschema:"Date of birth as YYYY-MM-DD; empty clears it"`
	Gender      *string `json:"gender,omitempty" jsonschema:"Gender; empty clears it"`
	Race        *string `json:"race,omitempty" jsonschema:"Race; empty clears it"`
	Email       *string `json:"email,omitempty" jsonschema:"New email address"`
	PhoneNumber *string `json:"phone_number,omitempty" jsonschema:"Phone number; empty clears it"`
}

type addBodyMetricInput struct {
	UserID      int64   `json:"user_id" jsonschema:"ID of the user"`
	MetricIndex string  `json:"metric_index" jsonschema:"Metric index from the catalog (weight, body_fat, mood, etc.)"`
	Value       float64 `json:"value" jsonschema:"The reading"`
}

type recordOutput struct {
	Timestamp string  `json:"timestamp"`
	Key       string  `json:"key"`
	Calories  float64 `json:"calories,omitempty"`
	Message   string  `json:"message"`
}

type listBodyMetricsInput struct {
	UserID      int64  `json:"user_id" jsonschema:"ID of the user"`
	MetricIndex string `json:"metric_index,omitempty" jsonschema:"Only return readings of this metric index"`
	Limit       int    `json:"limit,omitempty" jsonschema:"Max results, newest first (default 20)"`
}

type deleteBodyMetricInput struct {
	UserID      int64  `json:"user_id" jsonschema:"ID of the user"`
	Timestamp   string `json:"timestamp" jsonschema:"Reading timestamp as YYYY-MM-DD HH:MM:SS (UTC)"`
	MetricIndex string `json:"metric_index" jsonschema:"Metric index of the reading"`
}

type getLatestInput struct {
	UserID        int64    `json:"user_id" jsonschema:"ID of the user"`
	MetricIndexes []string `json:"metric_indexes,omitempty" jsonschema:"Metric indexes to report; all when empty"`
}

type addFoodInput struct {
	UserID int64   `json:"user_id" jsonschema:"ID of the user"`
	Food   string  `json:"food" jsonschema:"Food key from the food rate table"`
	Gram   float64 `json:"gram" jsonschema:"Amount eaten in grams"`
}

type addExerciseInput struct {
	UserID   int64   `json:"user_id" jsonschema:"ID of the user"`
	Exercise string  `json:"exercise" jsonschema:"Exercise key from the exercise rate table"`
	Minute   float64 `json:"minute" jsonschema:"Duration in minutes"`
}

type userIDInput struct {
	UserID int64 `json:"user_id" jsonschema:"ID of the user"`
}

type deleteFoodInput struct {
	UserID    int64  `json:"user_id" jsonschema:"ID of the user"`
	Timestamp string `json:"timestamp" jsonschema:"Record timestamp as YYYY-MM-DD HH:MM:SS (UTC)"`
	Food      string `json:"food" jsonschema:"Food key of the record"`
}

type deleteExerciseInput struct {
	UserID    int64  `json:"user_id" jsonschema:"ID of the user"`
	Timestamp string `json:"timestamp" jsonschema:"Record timestamp as YYYY-MM-DD HH:MM:SS (UTC)"`
	Exercise  string `json:"exercise" jsonschema:"Exercise key of the record"`
}

type categoryInput struct {
	Category string `json:"category" jsonschema:"Rate table: food or exercise"`
}

type rateInput struct {
	Category string `json:"category" jsonschema:"Rate table: food or exercise"`
	Key      string `json:"key" jsonschema:"Food or exercise key"`
}

type setRateInput struct {
	Category string  `json:"category" jsonschema:"Rate table: food or exercise"`
	Key      string  `json:"key" jsonschema:"Food or exercise key"`
	Rate     float64 `json:"rate" jsonschema:"kcal per gram for food, kcal per minute for exercise"`
}

type rateOutput struct {
	Category string  `json:"category"`
	Key      string  `json:"key"`
	Rate     float64 `json:"rate"`
	Message  string  `json:"message,omitempty"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

// Tool handlers

func (s *Server) handleFindUser(ctx context.Context, req *mcp.CallToolRequest, input findUserInput) (*mcp.CallToolResult, userOutput, error) {
	u, created, err := s.tracker.FindOrCreateUser(ctx, input.Email)
	if err != nil {
		return nil, userOutput{}, fmt.Errorf("failed to find user: %w", err)
	}

	msg := fmt.Sprintf("Found user %d (%s)", u.ID, u.Email)
	if created {
		msg = fmt.Sprintf("Created user %d (%s)", u.ID, u.Email)
	}
	return nil, userOutput{User: u, Created: created, Message: msg}, nil
}

func (s *Server) handleUpdateProfile(ctx context.Context, req *mcp.CallToolRequest, input updateProfileInput) (*mcp.CallToolResult, userOutput, error) {
	upd := &models.UserUpdate{
		Name:        input.UserName,
		DOB:         input.DOB,
		Gender:      input.Gender,
		Race:        input.Race,
		Email:       input.Email,
		PhoneNumber: input.PhoneNumber,
	}
	u, err := s.tracker.UpdateUserProfile(ctx, input.UserID, upd)
	if err != nil {
		return nil, userOutput{}, fmt.Errorf("failed to update profile: %w", err)
	}
	return nil, userOutput{User: u, Message: fmt.Sprintf("Updated user %d", u.ID)}, nil
}

func (s *Server) handleAddBodyMetric(ctx context.Context, req *mcp.CallToolRequest, input addBodyMetricInput) (*mcp.CallToolResult, recordOutput, error) {
	m, err := s.tracker.AddBodyMetric(ctx, input.UserID, input.MetricIndex, input.Value)
	if err != nil {
		return nil, recordOutput{}, fmt.Errorf("failed to add body metric: %w", err)
	}

	return nil, recordOutput{
		Timestamp: m.Timestamp.String(),
		Key:       m.Index,
		Message:   fmt.Sprintf("Added %s: %.2f at %s", m.Index, m.Value, m.Timestamp),
	}, nil
}

func (s *Server) handleListBodyMetrics(ctx context.Context, req *mcp.CallToolRequest, input listBodyMetricsInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	all, err := s.tracker.ListBodyMetrics(ctx, input.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list body metrics: %w", err)
	}

	// Storage order is oldest first; report newest first.
	var out []*models.BodyMetric
	for i := len(all) - 1; i >= 0 && len(out) < input.Limit; i-- {
		if input.MetricIndex != "" && all[i].Index != input.MetricIndex {
			continue
		}
		out = append(out, all[i])
	}

	if len(out) == 0 {
		return nil, map[string]any{"message": "No body metrics found."}, nil
	}
	return nil, map[string]any{"body_metrics": out}, nil
}

func (s *Server) handleDeleteBodyMetric(ctx context.Context, req *mcp.CallToolRequest, input deleteBodyMetricInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.tracker.DeleteBodyMetric(ctx, input.UserID, input.Timestamp, input.MetricIndex); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete body metric: %w", err)
	}
	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted %s at %s", input.MetricIndex, input.Timestamp),
	}, nil
}

func (s *Server) handleGetLatest(ctx context.Context, req *mcp.CallToolRequest, input getLatestInput) (*mcp.CallToolResult, any, error) {
	readings, err := s.tracker.ListBodyMetrics(ctx, input.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list body metrics: %w", err)
	}

	wanted := make(map[string]bool, len(input.MetricIndexes))
	for _, idx := range input.MetricIndexes {
		wanted[idx] = true
	}

	results := make(map[string]any)
	for _, m := range readings {
		if len(wanted) > 0 && !wanted[m.Index] {
			continue
		}
		// Later readings overwrite earlier ones.
		results[m.Index] = map[string]any{
			"value":     m.Value,
			"unit":      m.Unit,
			"timestamp": m.Timestamp.String(),
		}
	}
	return nil, results, nil
}

func (s *Server) handleAddFood(ctx context.Context, req *mcp.CallToolRequest, input addFoodInput) (*mcp.CallToolResult, recordOutput, error) {
	rec, err := s.tracker.AddFoodRecord(ctx, input.UserID, input.Food, input.Gram)
	if err != nil {
		return nil, recordOutput{}, fmt.Errorf("failed to add food: %w", err)
	}

	return nil, recordOutput{
		Timestamp: rec.Timestamp.String(),
		Key:       rec.Food,
		Calories:  rec.Calories,
		Message:   fmt.Sprintf("Added %.0fg %s: %.1f kcal", rec.Gram, rec.Food, rec.Calories),
	}, nil
}

func (s *Server) handleAddExercise(ctx context.Context, req *mcp.CallToolRequest, input addExerciseInput) (*mcp.CallToolResult, recordOutput, error) {
	rec, err := s.tracker.AddExerciseRecord(ctx, input.UserID, input.Exercise, input.Minute)
	if err != nil {
		return nil, recordOutput{}, fmt.Errorf("failed to add exercise: %w", err)
	}

	return nil, recordOutput{
		Timestamp: rec.Timestamp.String(),
		Key:       rec.Exercise,
		Calories:  rec.Calories,
		Message:   fmt.Sprintf("Added %.0f min %s: %.1f kcal", rec.Minute, rec.Exercise, rec.Calories),
	}, nil
}

func (s *Server) handleListCalories(ctx context.Context, req *mcp.CallToolRequest, input userIDInput) (*mcp.CallToolResult, any, error) {
	view, err := s.tracker.CaloriesView(ctx, input.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list calories: %w", err)
	}

	var eaten, burned float64
	for _, r := range view.FoodRecords {
		eaten += r.Calories
	}
	for _, r := range view.ExerciseRecords {
		burned += r.Calories
	}

	return nil, map[string]any{
		"food_records":     view.FoodRecords,
		"exercise_records": view.ExerciseRecords,
		"totals": map[string]float64{
			"eaten":  eaten,
			"burned": burned,
			"net":    eaten - burned,
		},
	}, nil
}

func (s *Server) handleDeleteFood(ctx context.Context, req *mcp.CallToolRequest, input deleteFoodInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.tracker.DeleteFoodRecord(ctx, input.UserID, input.Timestamp, input.Food); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete food: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Deleted %s at %s", input.Food, input.Timestamp)}, nil
}

func (s *Server) handleDeleteExercise(ctx context.Context, req *mcp.CallToolRequest, input deleteExerciseInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.tracker.DeleteExerciseRecord(ctx, input.UserID, input.Timestamp, input.Exercise); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete exercise: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Deleted %s at %s", input.Exercise, input.Timestamp)}, nil
}

func (s *Server) handleListLookupKeys(ctx context.Context, req *mcp.CallToolRequest, input categoryInput) (*mcp.CallToolResult, any, error) {
	category, err := lookup.ParseCategory(input.Category)
	if err != nil {
		return nil, nil, err
	}
	keys, err := s.tracker.Rates().ListKeys(category)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list keys: %w", err)
	}
	return nil, map[string]any{"category": category, "keys": keys}, nil
}

func (s *Server) handleGetRate(ctx context.Context, req *mcp.CallToolRequest, input rateInput) (*mcp.CallToolResult, rateOutput, error) {
	category, err := lookup.ParseCategory(input.Category)
	if err != nil {
		return nil, rateOutput{}, err
	}
	rate, ok, err := s.tracker.Rates().GetRate(category, input.Key)
	if err != nil {
		return nil, rateOutput{}, fmt.Errorf("failed to get rate: %w", err)
	}
	if !ok {
		return nil, rateOutput{}, fmt.Errorf("%w: %s %q", lookup.ErrUnknownReferenceKey, category, input.Key)
	}
	return nil, rateOutput{Category: string(category), Key: input.Key, Rate: rate}, nil
}

func (s *Server) handleSetRate(ctx context.Context, req *mcp.CallToolRequest, input setRateInput) (*mcp.CallToolResult, rateOutput, error) {
	category, err := lookup.ParseCategory(input.Category)
	if err != nil {
		return nil, rateOutput{}, err
	}
	if err := s.tracker.UpsertRate(category, input.Key, input.Rate); err != nil {
		return nil, rateOutput{}, fmt.Errorf("failed to set rate: %w", err)
	}
	return nil, rateOutput{
		Category: string(category),
		Key:      input.Key,
		Rate:     input.Rate,
		Message:  fmt.Sprintf("Set %s rate for %s to %g", category, input.Key, input.Rate),
	}, nil
}

func (s *Server) handleListMetricDefinitions(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, any, error) {
	defs, err := s.tracker.ListMetricDefinitions(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list metric definitions: %w", err)
	}
	return nil, map[string]any{"metric_definitions": defs}, nil
}
