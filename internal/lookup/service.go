// ABOUTME: Calorie lookup service over the food and exercise rate tables.
// ABOUTME: Computes derived calories and reports unknown keys explicitly.
package lookup

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrUnknownReferenceKey is returned when a calorie computation names a
	// key that is not in its table.
	ErrUnknownReferenceKey = errors.New("unknown reference key")
	// ErrUnknownCategory is returned for categories other than food and exercise.
	ErrUnknownCategory = errors.New("unknown category")
)

// Category selects a rate table.
type Category string

const (
	Food     Category = "food"
	Exercise Category = "exercise"
)

// Categories lists every valid category.
var Categories = []Category{Food, Exercise}

// ParseCategory validates s as a Category.
func ParseCategory(s string) (Category, error) {
	switch c := Category(strings.ToLower(strings.TrimSpace(s))); c {
	case Food, Exercise:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
}

// Service is the read/write accessor over the rate tables.
type Service struct {
	tables map[Category]Table
	closer io.Closer
}

// NewService creates a service over the given tables.
func NewService(food, exercise Table) *Service {
	return &Service{
		tables: map[Category]Table{
			Food:     food,
			Exercise: exercise,
		},
	}
}

// NewMemoryService creates a service over fresh in-memory tables holding
// the static seed data.
func NewMemoryService() *Service {
	return NewService(NewMemoryTable(FoodSeed), NewMemoryTable(ExerciseSeed))
}

// Close releases the backing store, if any.
func (s *Service) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

func (s *Service) table(category Category) (Table, error) {
	t, ok := s.tables[category]
	if !ok || t == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	return t, nil
}

// ListKeys returns the keys of the category's table.
func (s *Service) ListKeys(category Category) ([]string, error) {
	t, err := s.table(category)
	if err != nil {
		return nil, err
	}
	keys, err := t.Keys()
	if err != nil {
		return nil, fmt.Errorf("list %s keys: %w", category, err)
	}
	return keys, nil
}

// GetRate returns the rate for key. A missing key is not an error: ok is false.
func (s *Service) GetRate(category Category, key string) (float64, bool, error) {
	t, err := s.table(category)
	if err != nil {
		return 0, false, err
	}
	rate, ok, err := t.Rate(key)
	if err != nil {
		return 0, false, fmt.Errorf("get %s rate: %w", category, err)
	}
	return rate, ok, nil
}

// Upsert inserts or overwrites key. The rate is not validated.
func (s *Service) Upsert(category Category, key string, rate float64) error {
	t, err := s.table(category)
	if err != nil {
		return err
	}
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("upsert %s rate: empty key", category)
	}
	if err := t.Upsert(key, rate); err != nil {
		return fmt.Errorf("upsert %s rate: %w", category, err)
	}
	return nil
}

// FoodCalories returns grams × the food's kcal-per-gram rate.
func (s *Service) FoodCalories(food string, grams float64) (float64, error) {
	return s.calories(Food, food, grams)
}

// ExerciseCalories returns minutes × the exercise's kcal-per-minute rate.
func (s *Service) ExerciseCalories(exercise string, minutes float64) (float64, error) {
	return s.calories(Exercise, exercise, minutes)
}

func (s *Service) calories(category Category, key string, quantity float64) (float64, error) {
	rate, ok, err := s.GetRate(category, key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: %s %q", ErrUnknownReferenceKey, category, key)
	}
	return quantity * rate, nil
}
