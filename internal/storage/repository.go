// ABOUTME: Repository interface for tracker data storage.
// ABOUTME: Defines the contract for users, the metric catalog, and time-stamped facts.
package storage

import (
	"context"

	"github.com/harperreed/shapementor/internal/models"
)

// Repository defines the storage interface for tracker data.
// Both the SQLite and PostgreSQL backends implement it through *DB.
type Repository interface {
	// User operations
	CreateUser(ctx context.Context, u *models.User) error
	InsertUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdateUserProfile(ctx context.Context, id int64, upd *models.UserUpdate) (*models.User, error)

	// ImportUser inserts a user with its existing ID and all of its facts
	// atomically.
	ImportUser(ctx context.Context, data *ExportData) error

	// Metric catalog
	ListMetricDefinitions(ctx context.Context) ([]*models.MetricDefinition, error)
	GetMetricDefinition(ctx context.Context, index string) (*models.MetricDefinition, error)
	UpsertMetricDefinition(ctx context.Context, def *models.MetricDefinition) error

	// Body metrics
	AddBodyMetric(ctx context.Context, m *models.BodyMetric) error
	DeleteBodyMetric(ctx context.Context, userID int64, ts models.Timestamp, index string) error
	ListBodyMetrics(ctx context.Context, userID int64) ([]*models.BodyMetric, error)

	// Food records
	AddFoodRecord(ctx context.Context, r *models.FoodRecord) error
	DeleteFoodRecord(ctx context.Context, userID int64, ts models.Timestamp, food string) error
	ListFoodRecords(ctx context.Context, userID int64) ([]*models.FoodRecord, error)

	// Exercise records
	AddExerciseRecord(ctx context.Context, r *models.ExerciseRecord) error
	DeleteExerciseRecord(ctx context.Context, userID int64, ts models.Timestamp, exercise string) error
	ListExerciseRecords(ctx context.Context, userID int64) ([]*models.ExerciseRecord, error)

	// Lifecycle
	Backend() string
	Close() error
}
