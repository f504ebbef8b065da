// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Covers NewServer, tool handlers, and resource handlers over a temp SQLite tracker.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/harperreed/shapementor/internal/lookup"
	"github.com/harperreed/shapementor/internal/models"
	"github.com/harperreed/shapementor/internal/storage"
	"github.com/harperreed/shapementor/internal/tracker"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/crypto/bcrypt"
)

var baseTime = time.Date(2025, 1, 31, 8, 0, 0, 0, time.UTC)

// tickingClock advances one minute per call so consecutive records never
// share a timestamp.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	next := baseTime
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now := next
		next = next.Add(time.Minute)
		return now
	}
}

// setupTestServer creates a server over a tracker backed by a temp database.
func setupTestServer(t *testing.T) *Server {
	t.Helper()

	db, err := storage.Open(filepath.Join(t.TempDir(), "shapementor.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	tr := tracker.New(db, lookup.NewMemoryService(),
		tracker.WithHashCost(bcrypt.MinCost),
		tracker.WithClock(tickingClock()),
	)
	server, err := NewServer(tr)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server
}

func mustFindUser(t *testing.T, s *Server, email string) *models.User {
	t.Helper()
	_, out, err := s.handleFindUser(context.Background(), &mcp.CallToolRequest{}, findUserInput{Email: email})
	if err != nil {
		t.Fatalf("find_user failed: %v", err)
	}
	return out.User
}

func TestNewServer(t *testing.T) {
	server := setupTestServer(t)

	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.tracker == nil {
		t.Error("Expected non-nil tracker")
	}

	if _, err := NewServer(nil); err == nil {
		t.Error("Expected error for nil tracker")
	}
}

func TestHandleFindUser(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	_, out, err := server.handleFindUser(ctx, &mcp.CallToolRequest{}, findUserInput{Email: "jane@example.com"})
	if err != nil {
		t.Fatalf("find_user failed: %v", err)
	}
	if !out.Created || out.User.ID != 1 || out.User.Name != "jane" {
		t.Errorf("unexpected first result: %+v", out)
	}

	_, out, err = server.handleFindUser(ctx, &mcp.CallToolRequest{}, findUserInput{Email: "jane@example.com"})
	if err != nil {
		t.Fatalf("find_user failed: %v", err)
	}
	if out.Created || out.User.ID != 1 {
		t.Errorf("second lookup should find user 1, got %+v", out)
	}
	if !strings.Contains(out.Message, "Found user 1") {
		t.Errorf("Message = %q", out.Message)
	}

	if _, _, err := server.handleFindUser(ctx, &mcp.CallToolRequest{}, findUserInput{Email: " "}); err == nil {
		t.Error("Expected error for blank email")
	}
}

func TestHandleUpdateProfile(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()
	u := mustFindUser(t, server, "jane@example.com")

	name, dob := "Jane Doe", "1990-04-01"
	_, out, err := server.handleUpdateProfile(ctx, &mcp.CallToolRequest{}, updateProfileInput{
		UserID: u.ID, UserName: &name, DOB: &dob,
	})
	if err != nil {
		t.Fatalf("update_profile failed: %v", err)
	}
	if out.User.Name != name || out.User.DOB == nil || *out.User.DOB != dob || out.User.Email != u.Email {
		t.Errorf("unexpected user: %+v", out.User)
	}

	bad := "yesterday"
	if _, _, err := server.handleUpdateProfile(ctx, &mcp.CallToolRequest{}, updateProfileInput{UserID: u.ID, DOB: &bad}); err == nil {
		t.Error("Expected validation error for bad dob")
	}
	if _, _, err := server.handleUpdateProfile(ctx, &mcp.CallToolRequest{}, updateProfileInput{UserID: 99, UserName: &name}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestHandleAddBodyMetric(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()
	u := mustFindUser(t, server, "jane@example.com")

	tests := []struct {
		name      string
		input     addBodyMetricInput
		wantErr   bool
		errSubstr string
	}{
		{
			name:  "valid weight",
			input: addBodyMetricInput{UserID: u.ID, MetricIndex: "weight", Value: 82.5},
		},
		{
			name:  "valid mood",
			input: addBodyMetricInput{UserID: u.ID, MetricIndex: "mood", Value: 7},
		},
		{
			name:      "unknown metric index",
			input:     addBodyMetricInput{UserID: u.ID, MetricIndex: "wingspan", Value: 180},
			wantErr:   true,
			errSubstr: "unknown metric",
		},
		{
			name:      "missing user",
			input:     addBodyMetricInput{UserID: 42, MetricIndex: "weight", Value: 80},
			wantErr:   true,
			errSubstr: "not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, output, err := server.handleAddBodyMetric(ctx, &mcp.CallToolRequest{}, tt.input)

			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				} else if !strings.Contains(err.Error(), tt.errSubstr) {
					t.Errorf("Error %q should contain %q", err, tt.errSubstr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if output.Key != tt.input.MetricIndex {
				t.Errorf("Key = %q, want %q", output.Key, tt.input.MetricIndex)
			}
			if _, err := models.ParseTimestamp(output.Timestamp); err != nil {
				t.Errorf("Timestamp %q not in storage layout: %v", output.Timestamp, err)
			}
		})
	}
}

func TestHandleListBodyMetrics(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()
	u := mustFindUser(t, server, "jane@example.com")

	for _, in := range []addBodyMetricInput{
		{UserID: u.ID, MetricIndex: "weight", Value: 83},
		{UserID: u.ID, MetricIndex: "mood", Value: 6},
		{UserID: u.ID, MetricIndex: "weight", Value: 82},
	} {
		if _, _, err := server.handleAddBodyMetric(ctx, &mcp.CallToolRequest{}, in); err != nil {
			t.Fatalf("add failed: %v", err)
		}
	}

	_, out, err := server.handleListBodyMetrics(ctx, &mcp.CallToolRequest{}, listBodyMetricsInput{UserID: u.ID, MetricIndex: "weight"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	list := out.(map[string]any)["body_metrics"].([]*models.BodyMetric)
	if len(list) != 2 || list[0].Value != 82 || list[1].Value != 83 {
		t.Errorf("expected newest weight first, got %+v", list)
	}

	_, out, _ = server.handleListBodyMetrics(ctx, &mcp.CallToolRequest{}, listBodyMetricsInput{UserID: u.ID, Limit: 1})
	if list := out.(map[string]any)["body_metrics"].([]*models.BodyMetric); len(list) != 1 {
		t.Errorf("limit 1 returned %d", len(list))
	}
}

func TestHandleListBodyMetricsEmpty(t *testing.T) {
	server := setupTestServer(t)
	u := mustFindUser(t, server, "jane@example.com")

	_, out, err := server.handleListBodyMetrics(context.Background(), &mcp.CallToolRequest{}, listBodyMetricsInput{UserID: u.ID})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if msg := out.(map[string]any)["message"]; msg != "No body metrics found." {
		t.Errorf("message = %v", msg)
	}
}

func TestHandleDeleteBodyMetric(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()
	u := mustFindUser(t, server, "jane@example.com")

	_, added, err := server.handleAddBodyMetric(ctx, &mcp.CallToolRequest{}, addBodyMetricInput{UserID: u.ID, MetricIndex: "hrv", Value: 48})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	in := deleteBodyMetricInput{UserID: u.ID, Timestamp: added.Timestamp, MetricIndex: "hrv"}
	if _, _, err := server.handleDeleteBodyMetric(ctx, &mcp.CallToolRequest{}, in); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, _, err := server.handleDeleteBodyMetric(ctx, &mcp.CallToolRequest{}, in); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}

	in.Timestamp = "31/01/2025"
	var verr *models.ValidationError
	if _, _, err := server.handleDeleteBodyMetric(ctx, &mcp.CallToolRequest{}, in); !errors.As(err, &verr) {
		t.Errorf("bad timestamp: expected ValidationError, got %v", err)
	}
}

func TestHandleGetLatest(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()
	u := mustFindUser(t, server, "jane@example.com")

	for _, in := range []addBodyMetricInput{
		{UserID: u.ID, MetricIndex: "weight", Value: 83},
		{UserID: u.ID, MetricIndex: "weight", Value: 82},
		{UserID: u.ID, MetricIndex: "mood", Value: 7},
	} {
		if _, _, err := server.handleAddBodyMetric(ctx, &mcp.CallToolRequest{}, in); err != nil {
			t.Fatalf("add failed: %v", err)
		}
	}

	_, out, err := server.handleGetLatest(ctx, &mcp.CallToolRequest{}, getLatestInput{UserID: u.ID})
	if err != nil {
		t.Fatalf("get_latest failed: %v", err)
	}
	results := out.(map[string]any)
	if len(results) != 2 {
		t.Fatalf("expected 2 indexes, got %v", results)
	}
	weight := results["weight"].(map[string]any)
	if weight["value"] != 82.0 || weight["unit"] != "kg" {
		t.Errorf("weight = %v", weight)
	}

	_, out, _ = server.handleGetLatest(ctx, &mcp.CallToolRequest{}, getLatestInput{UserID: u.ID, MetricIndexes: []string{"mood"}})
	if results := out.(map[string]any); len(results) != 1 || results["mood"] == nil {
		t.Errorf("filtered results = %v", results)
	}
}

func TestHandleAddFoodAndExercise(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()
	u := mustFindUser(t, server, "jane@example.com")

	_, food, err := server.handleAddFood(ctx, &mcp.CallToolRequest{}, addFoodInput{UserID: u.ID, Food: "apple", Gram: 100})
	if err != nil {
		t.Fatalf("add_food failed: %v", err)
	}
	if food.Calories < 36.999 || food.Calories > 37.001 {
		t.Errorf("apple calories = %v, want 37", food.Calories)
	}

	_, ex, err := server.handleAddExercise(ctx, &mcp.CallToolRequest{}, addExerciseInput{UserID: u.ID, Exercise: "running", Minute: 30})
	if err != nil {
		t.Fatalf("add_exercise failed: %v", err)
	}
	if ex.Calories < 302.999 || ex.Calories > 303.001 {
		t.Errorf("running calories = %v, want 303", ex.Calories)
	}

	if _, _, err := server.handleAddFood(ctx, &mcp.CallToolRequest{}, addFoodInput{UserID: u.ID, Food: "dragonfruit", Gram: 50}); !errors.Is(err, lookup.ErrUnknownReferenceKey) {
		t.Errorf("unknown food: expected ErrUnknownReferenceKey, got %v", err)
	}
	if _, _, err := server.handleAddExercise(ctx, &mcp.CallToolRequest{}, addExerciseInput{UserID: u.ID, Exercise: "running", Minute: -1}); err == nil {
		t.Error("Expected error for negative minutes")
	}

	_, out, err := server.handleListCalories(ctx, &mcp.CallToolRequest{}, userIDInput{UserID: u.ID})
	if err != nil {
		t.Fatalf("list_calories failed: %v", err)
	}
	totals := out.(map[string]any)["totals"].(map[string]float64)
	if net := totals["net"]; net > -265.999 || net < -266.001 {
		t.Errorf("net = %v, want -266", net)
	}

	if _, _, err := server.handleDeleteFood(ctx, &mcp.CallToolRequest{}, deleteFoodInput{UserID: u.ID, Timestamp: food.Timestamp, Food: "apple"}); err != nil {
		t.Errorf("delete_food failed: %v", err)
	}
	if _, _, err := server.handleDeleteExercise(ctx, &mcp.CallToolRequest{}, deleteExerciseInput{UserID: u.ID, Timestamp: ex.Timestamp, Exercise: "running"}); err != nil {
		t.Errorf("delete_exercise failed: %v", err)
	}
	if _, _, err := server.handleDeleteExercise(ctx, &mcp.CallToolRequest{}, deleteExerciseInput{UserID: u.ID, Timestamp: ex.Timestamp, Exercise: "running"}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("repeat delete: expected ErrNotFound, got %v", err)
	}
}

func TestHandleLookupTools(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	_, out, err := server.handleListLookupKeys(ctx, &mcp.CallToolRequest{}, categoryInput{Category: "exercise"})
	if err != nil {
		t.Fatalf("list_lookup_keys failed: %v", err)
	}
	keys := out.(map[string]any)["keys"].([]string)
	if len(keys) != len(lookup.ExerciseSeed) || keys[0] != "running" {
		t.Errorf("unexpected keys: %v", keys)
	}

	if _, _, err := server.handleListLookupKeys(ctx, &mcp.CallToolRequest{}, categoryInput{Category: "drinks"}); !errors.Is(err, lookup.ErrUnknownCategory) {
		t.Errorf("expected ErrUnknownCategory, got %v", err)
	}

	_, rate, err := server.handleGetRate(ctx, &mcp.CallToolRequest{}, rateInput{Category: "food", Key: "banana"})
	if err != nil || rate.Rate != 0.51 {
		t.Errorf("banana rate = %+v, %v", rate, err)
	}
	if _, _, err := server.handleGetRate(ctx, &mcp.CallToolRequest{}, rateInput{Category: "food", Key: "kimchi"}); !errors.Is(err, lookup.ErrUnknownReferenceKey) {
		t.Errorf("missing key: expected ErrUnknownReferenceKey, got %v", err)
	}

	if _, _, err := server.handleSetRate(ctx, &mcp.CallToolRequest{}, setRateInput{Category: "food", Key: "kimchi", Rate: 0.15}); err != nil {
		t.Fatalf("set_rate failed: %v", err)
	}
	_, rate, err = server.handleGetRate(ctx, &mcp.CallToolRequest{}, rateInput{Category: "food", Key: "kimchi"})
	if err != nil || rate.Rate != 0.15 {
		t.Errorf("kimchi rate = %+v, %v", rate, err)
	}
	if _, _, err := server.handleSetRate(ctx, &mcp.CallToolRequest{}, setRateInput{Category: "food", Key: "kimchi", Rate: -2}); err == nil {
		t.Error("Expected error for negative rate")
	}
}

func TestHandleListMetricDefinitions(t *testing.T) {
	server := setupTestServer(t)

	_, out, err := server.handleListMetricDefinitions(context.Background(), &mcp.CallToolRequest{}, struct{}{})
	if err != nil {
		t.Fatalf("list_metric_definitions failed: %v", err)
	}
	defs := out.(map[string]any)["metric_definitions"].([]*models.MetricDefinition)
	if len(defs) == 0 {
		t.Error("Expected seeded definitions")
	}
}

func TestRateTableResources(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	tests := []struct {
		category lookup.Category
		uri      string
		unit     string
		count    int
	}{
		{lookup.Food, foodResourceURI, "kcal/gram", len(lookup.FoodSeed)},
		{lookup.Exercise, exerciseResourceURI, "kcal/minute", len(lookup.ExerciseSeed)},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			result, err := server.rateTableResource(tt.category, tt.uri)(ctx, &mcp.ReadResourceRequest{})
			if err != nil {
				t.Fatalf("read resource failed: %v", err)
			}
			if len(result.Contents) != 1 || result.Contents[0].URI != tt.uri {
				t.Fatalf("unexpected contents: %+v", result.Contents)
			}

			var doc struct {
				Unit  string      `json:"unit"`
				Rates []rateEntry `json:"rates"`
			}
			if err := json.Unmarshal([]byte(result.Contents[0].Text), &doc); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if doc.Unit != tt.unit || len(doc.Rates) != tt.count {
				t.Errorf("unit=%q rates=%d, want %q and %d", doc.Unit, len(doc.Rates), tt.unit, tt.count)
			}
		})
	}
}

func TestDefinitionsResource(t *testing.T) {
	server := setupTestServer(t)

	result, err := server.handleDefinitionsResource(context.Background(), &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("read resource failed: %v", err)
	}
	if !strings.Contains(result.Contents[0].Text, `"metric_index": "weight"`) {
		t.Errorf("weight missing from catalog: %s", result.Contents[0].Text)
	}
}

func TestToolsOverTransport(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	serverSession, err := server.mcpServer.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect failed: %v", err)
	}
	defer serverSession.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect failed: %v", err)
	}
	defer session.Close()

	tools, err := session.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("ListTools failed: %v", err)
	}
	names := make(map[string]bool)
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"find_user", "add_food", "get_rate", "list_metric_definitions"} {
		if !names[want] {
			t.Errorf("tool %q not registered", want)
		}
	}

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "find_user",
		Arguments: map[string]any{"email": "jane@example.com"},
	})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("find_user returned tool error: %+v", res.Content)
	}

	read, err := session.ReadResource(ctx, &mcp.ReadResourceParams{URI: foodResourceURI})
	if err != nil {
		t.Fatalf("ReadResource failed: %v", err)
	}
	if !strings.Contains(read.Contents[0].Text, `"apple"`) {
		t.Errorf("food resource missing apple")
	}
}
