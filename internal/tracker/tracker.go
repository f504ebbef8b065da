// ABOUTME: Tracker service implementing user, body metric, and calorie operations.
// ABOUTME: Validates input, stamps records, and computes calories before storing.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/shapementor/internal/lookup"
	"github.com/harperreed/shapementor/internal/metrics"
	"github.com/harperreed/shapementor/internal/models"
	"github.com/harperreed/shapementor/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

// Tracker coordinates the repository and the calorie lookup service.
type Tracker struct {
	repo     storage.Repository
	rates    *lookup.Service
	metrics  *metrics.Metrics
	now      func() time.Time
	hashCost int
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithMetrics records tracker activity on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(t *Tracker) { t.metrics = m }
}

// WithClock replaces the clock used to stamp new records.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithHashCost sets the bcrypt cost of placeholder password hashes.
func WithHashCost(cost int) Option {
	return func(t *Tracker) { t.hashCost = cost }
}

// New creates a Tracker.
func New(repo storage.Repository, rates *lookup.Service, opts ...Option) *Tracker {
	t := &Tracker{
		repo:     repo,
		rates:    rates,
		now:      time.Now,
		hashCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Rates returns the lookup service.
func (t *Tracker) Rates() *lookup.Service {
	return t.rates
}

func (t *Tracker) stamp() models.Timestamp {
	return models.NewTimestamp(t.now())
}

// CreateUser creates an activated user for email with the next free ID.
// The password hash is a bcrypt of a random token nobody knows.
func (t *Tracker) CreateUser(ctx context.Context, email string) (*models.User, error) {
	u, err := models.NewUser(email)
	if err != nil {
		return nil, err
	}
	if u.HashedPassword, err = t.placeholderHash(); err != nil {
		return nil, err
	}
	if err := t.repo.CreateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	t.metrics.RecordCreated("user")
	return u, nil
}

// FindOrCreateUser returns the user with email, creating one when absent.
// created reports whether a new user was made.
func (t *Tracker) FindOrCreateUser(ctx context.Context, email string) (u *models.User, created bool, err error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, false, &models.ValidationError{Field: "email", Message: "must not be empty"}
	}
	u, err = t.repo.GetUserByEmail(ctx, email)
	if err == nil {
		return u, false, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, false, err
	}
	u, err = t.CreateUser(ctx, email)
	if err != nil {
		return nil, false, err
	}
	return u, true, nil
}

// GetUser returns the user with id.
func (t *Tracker) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return t.repo.GetUser(ctx, id)
}

// ListUsers returns every user.
func (t *Tracker) ListUsers(ctx context.Context) ([]*models.User, error) {
	return t.repo.ListUsers(ctx)
}

// UpdateUserProfile applies the set fields of upd to user id. A non-zero
// upd.UserID must match id.
func (t *Tracker) UpdateUserProfile(ctx context.Context, id int64, upd *models.UserUpdate) (*models.User, error) {
	if upd.UserID != 0 && upd.UserID != id {
		return nil, &models.ValidationError{
			Field:   "user_id",
			Message: fmt.Sprintf("body user_id %d does not match path id %d", upd.UserID, id),
		}
	}
	if err := upd.Validate(); err != nil {
		return nil, err
	}
	if upd.IsEmpty() {
		return t.repo.GetUser(ctx, id)
	}
	return t.repo.UpdateUserProfile(ctx, id, upd)
}

// ListMetricDefinitions returns the body metric catalog.
func (t *Tracker) ListMetricDefinitions(ctx context.Context) ([]*models.MetricDefinition, error) {
	return t.repo.ListMetricDefinitions(ctx)
}

// UpsertMetricDefinition adds or changes a catalog entry.
func (t *Tracker) UpsertMetricDefinition(ctx context.Context, def *models.MetricDefinition) error {
	def.Index = strings.TrimSpace(def.Index)
	if def.Index == "" {
		return &models.ValidationError{Field: "metric_index", Message: "must not be empty"}
	}
	if strings.TrimSpace(def.Name) == "" {
		return &models.ValidationError{Field: "metric_name", Message: "must not be empty"}
	}
	return t.repo.UpsertMetricDefinition(ctx, def)
}

// AddBodyMetric stores a reading stamped with the current time.
func (t *Tracker) AddBodyMetric(ctx context.Context, userID int64, index string, value float64) (*models.BodyMetric, error) {
	index = strings.TrimSpace(index)
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, &models.ValidationError{Field: "value", Message: "must be a finite number"}
	}
	def, err := t.repo.GetMetricDefinition(ctx, index)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, &models.ValidationError{Field: "metric_index", Message: fmt.Sprintf("unknown metric %q", index)}
	}
	if err != nil {
		return nil, err
	}

	m := models.NewBodyMetric(userID, index, value).WithTimestamp(t.stamp())
	if err := t.repo.AddBodyMetric(ctx, m); err != nil {
		return nil, err
	}
	m.Name, m.Unit = def.Name, def.Unit
	t.metrics.RecordCreated("body_metric")
	return m, nil
}

// DeleteBodyMetric removes the reading at the exact timestamp and index.
func (t *Tracker) DeleteBodyMetric(ctx context.Context, userID int64, timestamp, index string) error {
	ts, err := models.ParseTimestamp(timestamp)
	if err != nil {
		return err
	}
	if err := t.repo.DeleteBodyMetric(ctx, userID, ts, index); err != nil {
		return err
	}
	t.metrics.RecordDeleted("body_metric")
	return nil
}

// ListBodyMetrics returns a user's readings.
func (t *Tracker) ListBodyMetrics(ctx context.Context, userID int64) ([]*models.BodyMetric, error) {
	return t.repo.ListBodyMetrics(ctx, userID)
}

// AddFoodRecord computes calories for grams of food and stores the record.
func (t *Tracker) AddFoodRecord(ctx context.Context, userID int64, food string, grams float64) (*models.FoodRecord, error) {
	food = strings.TrimSpace(food)
	if err := validateQuantity("gram", grams); err != nil {
		return nil, err
	}
	calories, err := t.rates.FoodCalories(food, grams)
	if err != nil {
		t.countMiss(lookup.Food, err)
		return nil, err
	}

	r := models.NewFoodRecord(userID, food, grams, calories)
	r.Timestamp = t.stamp()
	if err := t.repo.AddFoodRecord(ctx, r); err != nil {
		return nil, err
	}
	t.metrics.RecordCreated("food")
	t.metrics.CaloriesAdded(string(lookup.Food), calories)
	return r, nil
}

// DeleteFoodRecord removes the food record at the exact timestamp.
func (t *Tracker) DeleteFoodRecord(ctx context.Context, userID int64, timestamp, food string) error {
	ts, err := models.ParseTimestamp(timestamp)
	if err != nil {
		return err
	}
	if err := t.repo.DeleteFoodRecord(ctx, userID, ts, food); err != nil {
		return err
	}
	t.metrics.RecordDeleted("food")
	return nil
}

// ListFoodRecords returns a user's food records.
func (t *Tracker) ListFoodRecords(ctx context.Context, userID int64) ([]*models.FoodRecord, error) {
	return t.repo.ListFoodRecords(ctx, userID)
}

// AddExerciseRecord computes calories for minutes of exercise and stores
// the record.
func (t *Tracker) AddExerciseRecord(ctx context.Context, userID int64, exercise string, minutes float64) (*models.ExerciseRecord, error) {
	exercise = strings.TrimSpace(exercise)
	if err := validateQuantity("minute", minutes); err != nil {
		return nil, err
	}
	calories, err := t.rates.ExerciseCalories(exercise, minutes)
	if err != nil {
		t.countMiss(lookup.Exercise, err)
		return nil, err
	}

	r := models.NewExerciseRecord(userID, exercise, minutes, calories)
	r.Timestamp = t.stamp()
	if err := t.repo.AddExerciseRecord(ctx, r); err != nil {
		return nil, err
	}
	t.metrics.RecordCreated("exercise")
	t.metrics.CaloriesAdded(string(lookup.Exercise), calories)
	return r, nil
}

// DeleteExerciseRecord removes the exercise record at the exact timestamp.
func (t *Tracker) DeleteExerciseRecord(ctx context.Context, userID int64, timestamp, exercise string) error {
	ts, err := models.ParseTimestamp(timestamp)
	if err != nil {
		return err
	}
	if err := t.repo.DeleteExerciseRecord(ctx, userID, ts, exercise); err != nil {
		return err
	}
	t.metrics.RecordDeleted("exercise")
	return nil
}

// ListExerciseRecords returns a user's exercise records.
func (t *Tracker) ListExerciseRecords(ctx context.Context, userID int64) ([]*models.ExerciseRecord, error) {
	return t.repo.ListExerciseRecords(ctx, userID)
}

// UpsertRate inserts or overwrites a reference rate.
func (t *Tracker) UpsertRate(category lookup.Category, key string, rate float64) error {
	if err := validateQuantity("rate", rate); err != nil {
		return err
	}
	if err := t.rates.Upsert(category, strings.TrimSpace(key), rate); err != nil {
		return err
	}
	t.metrics.RateUpserted(string(category))
	return nil
}

// Export collects everything stored for a user.
func (t *Tracker) Export(ctx context.Context, userID int64) (*storage.ExportData, error) {
	return storage.GetUserData(ctx, t.repo, userID)
}

// Import loads an export. Imported users get a fresh placeholder hash.
func (t *Tracker) Import(ctx context.Context, data *storage.ExportData) error {
	if data.User != nil && data.User.HashedPassword == "" {
		hash, err := t.placeholderHash()
		if err != nil {
			return err
		}
		data.User.HashedPassword = hash
	}
	return storage.ImportData(ctx, t.repo, data)
}

func (t *Tracker) countMiss(category lookup.Category, err error) {
	if errors.Is(err, lookup.ErrUnknownReferenceKey) {
		t.metrics.LookupMiss(string(category))
	}
}

func (t *Tracker) placeholderHash() (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), t.hashCost)
	if err != nil {
		return "", fmt.Errorf("hash placeholder password: %w", err)
	}
	return string(hash), nil
}

func validateQuantity(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &models.ValidationError{Field: field, Message: "must be a finite number"}
	}
	if v < 0 {
		return &models.ValidationError{Field: field, Message: "must not be negative"}
	}
	return nil
}
