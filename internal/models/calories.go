// ABOUTME: Food and exercise calorie records.
// ABOUTME: Each record is keyed by (user, timestamp, item) with derived calories.
package models

// FoodRecord is a food intake fact. Calories is gram × kcal-per-gram.
type FoodRecord struct {
	UserID    int64     `json:"user_id" yaml:"user_id"`
	Timestamp Timestamp `json:"timestamp" yaml:"timestamp"`
	Food      string    `json:"food" yaml:"food"`
	Gram      float64   `json:"gram" yaml:"gram"`
	Calories  float64   `json:"calories" yaml:"calories"`
}

// NewFoodRecord creates a food record stamped with the current time.
func NewFoodRecord(userID int64, food string, gram, calories float64) *FoodRecord {
	return &FoodRecord{
		UserID:    userID,
		Timestamp: Now(),
		Food:      food,
		Gram:      gram,
		Calories:  calories,
	}
}

// ExerciseRecord is an exercise session fact. Calories is minute × kcal-per-minute.
type ExerciseRecord struct {
	UserID    int64     `json:"user_id" yaml:"user_id"`
	Timestamp Timestamp `json:"timestamp" yaml:"timestamp"`
	Exercise  string    `json:"exercise" yaml:"exercise"`
	Minute    float64   `json:"minute" yaml:"minute"`
	Calories  float64   `json:"calories" yaml:"calories"`
}

// NewExerciseRecord creates an exercise record stamped with the current time.
func NewExerciseRecord(userID int64, exercise string, minute, calories float64) *ExerciseRecord {
	return &ExerciseRecord{
		UserID:    userID,
		Timestamp: Now(),
		Exercise:  exercise,
		Minute:    minute,
		Calories:  calories,
	}
}
