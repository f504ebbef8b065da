// ABOUTME: Per-user export and import of tracker data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harperreed/shapementor/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportData represents the full export format for one user.
type ExportData struct {
	Version         string                   `json:"version" yaml:"version"`
	ExportedAt      time.Time                `json:"exported_at" yaml:"exported_at"`
	Tool            string                   `json:"tool" yaml:"tool"`
	User            *models.User             `json:"user" yaml:"user"`
	BodyMetrics     []*models.BodyMetric     `json:"body_metrics" yaml:"body_metrics"`
	FoodRecords     []*models.FoodRecord     `json:"food_records" yaml:"food_records"`
	ExerciseRecords []*models.ExerciseRecord `json:"exercise_records" yaml:"exercise_records"`
}

// GetUserData collects a user's profile and every fact they own.
func GetUserData(ctx context.Context, repo Repository, userID int64) (*ExportData, error) {
	user, err := repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	metrics, err := repo.ListBodyMetrics(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list body metrics: %w", err)
	}
	food, err := repo.ListFoodRecords(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list food records: %w", err)
	}
	exercise, err := repo.ListExerciseRecords(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list exercise records: %w", err)
	}

	return &ExportData{
		Version:         "1.0",
		ExportedAt:      time.Now().UTC(),
		Tool:            "shapementor",
		User:            user,
		BodyMetrics:     metrics,
		FoodRecords:     food,
		ExerciseRecords: exercise,
	}, nil
}

// ImportData writes an export into repo. The user keeps its exported ID;
// an existing ID or email fails with ErrConflict and nothing is written.
func ImportData(ctx context.Context, repo Repository, data *ExportData) error {
	if data.User == nil {
		return fmt.Errorf("import: export has no user")
	}
	if err := repo.ImportUser(ctx, data); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	return nil
}

// ImportJSON imports data from JSON bytes.
func ImportJSON(ctx context.Context, repo Repository, raw []byte) error {
	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("unmarshal JSON: %w", err)
	}
	return ImportData(ctx, repo, &data)
}

// ExportJSON renders data as indented JSON.
func ExportJSON(data *ExportData) ([]byte, error) {
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML renders data as YAML with body metrics grouped by index.
func ExportYAML(data *ExportData) ([]byte, error) {
	yamlData := struct {
		Version    string                   `yaml:"version"`
		ExportedAt string                   `yaml:"exported_at"`
		Tool       string                   `yaml:"tool"`
		User       *models.User             `yaml:"user"`
		Metrics    map[string][]yamlMetric  `yaml:"metrics"`
		Food       []*models.FoodRecord     `yaml:"food"`
		Exercise   []*models.ExerciseRecord `yaml:"exercise"`
	}{
		Version:    data.Version,
		ExportedAt: data.ExportedAt.Format(time.RFC3339),
		Tool:       data.Tool,
		User:       data.User,
		Metrics:    make(map[string][]yamlMetric),
		Food:       data.FoodRecords,
		Exercise:   data.ExerciseRecords,
	}

	for _, m := range data.BodyMetrics {
		yamlData.Metrics[m.Index] = append(yamlData.Metrics[m.Index], yamlMetric{
			Timestamp: m.Timestamp.String(),
			Value:     m.Value,
			Unit:      m.Unit,
		})
	}

	return yaml.Marshal(yamlData)
}

type yamlMetric struct {
	Timestamp string  `yaml:"timestamp"`
	Value     float64 `yaml:"value"`
	Unit      string  `yaml:"unit,omitempty"`
}

// ExportMarkdown renders data as Markdown tables.
func ExportMarkdown(data *ExportData) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# ShapeMentor Export - %s\n\n", data.User.Name)
	fmt.Fprintf(&sb, "Generated: %s\n\n", data.ExportedAt.Format(time.RFC3339))

	grouped := make(map[string][]*models.BodyMetric)
	for _, m := range data.BodyMetrics {
		grouped[m.Index] = append(grouped[m.Index], m)
	}
	indexes := make([]string, 0, len(grouped))
	for idx := range grouped {
		indexes = append(indexes, idx)
	}
	sort.Strings(indexes)

	for _, idx := range indexes {
		fmt.Fprintf(&sb, "## %s\n\n", idx)
		sb.WriteString("| Timestamp | Value |\n")
		sb.WriteString("|-----------|-------|\n")
		for _, m := range grouped[idx] {
			fmt.Fprintf(&sb, "| %s | %.2f %s |\n", m.Timestamp, m.Value, m.Unit)
		}
		sb.WriteString("\n")
	}

	if len(data.FoodRecords) > 0 {
		sb.WriteString("## Food\n\n")
		sb.WriteString("| Timestamp | Food | Grams | Calories |\n")
		sb.WriteString("|-----------|------|-------|----------|\n")
		for _, r := range data.FoodRecords {
			fmt.Fprintf(&sb, "| %s | %s | %.1f | %.1f |\n", r.Timestamp, r.Food, r.Gram, r.Calories)
		}
		sb.WriteString("\n")
	}

	if len(data.ExerciseRecords) > 0 {
		sb.WriteString("## Exercise\n\n")
		sb.WriteString("| Timestamp | Exercise | Minutes | Calories |\n")
		sb.WriteString("|-----------|----------|---------|----------|\n")
		for _, r := range data.ExerciseRecords {
			fmt.Fprintf(&sb, "| %s | %s | %.1f | %.1f |\n", r.Timestamp, r.Exercise, r.Minute, r.Calories)
		}
	}

	return sb.String()
}
