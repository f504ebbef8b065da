// ABOUTME: Food and exercise calorie record operations.
// ABOUTME: Records are keyed by (user_id, timestamp, item); calories is stored, not keyed.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/harperreed/shapementor/internal/models"
)

// AddFoodRecord inserts a food record for an existing user.
func (d *DB) AddFoodRecord(ctx context.Context, r *models.FoodRecord) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		if err := d.requireUser(ctx, tx, r.UserID); err != nil {
			return err
		}
		return d.insertFoodRecord(ctx, tx, r)
	})
}

func (d *DB) insertFoodRecord(ctx context.Context, q queryer, r *models.FoodRecord) error {
	_, err := q.ExecContext(ctx, d.rebind(`
		INSERT INTO food_calories (user_id, timestamp, food, gram, calories) VALUES (?, ?, ?, ?, ?)`),
		r.UserID, r.Timestamp.String(), r.Food, r.Gram, r.Calories,
	)
	if err != nil {
		return fmt.Errorf("insert food record: %w", classify(err))
	}
	return nil
}

// DeleteFoodRecord removes the food record with the exact composite key.
func (d *DB) DeleteFoodRecord(ctx context.Context, userID int64, ts models.Timestamp, food string) error {
	res, err := d.db.ExecContext(ctx, d.rebind(`
		DELETE FROM food_calories WHERE user_id = ? AND timestamp = ? AND food = ?`),
		userID, ts.String(), food,
	)
	if err != nil {
		return fmt.Errorf("delete food record: %w", err)
	}
	return requireAffected(res, fmt.Sprintf("food record %s at %s", food, ts))
}

// ListFoodRecords returns a user's food records in timestamp order.
func (d *DB) ListFoodRecords(ctx context.Context, userID int64) ([]*models.FoodRecord, error) {
	rows, err := d.db.QueryContext(ctx, d.rebind(`
		SELECT user_id, timestamp, food, gram, calories FROM food_calories
		WHERE user_id = ? ORDER BY timestamp, food`), userID)
	if err != nil {
		return nil, fmt.Errorf("list food records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []*models.FoodRecord
	for rows.Next() {
		var r models.FoodRecord
		var ts string
		if err := rows.Scan(&r.UserID, &ts, &r.Food, &r.Gram, &r.Calories); err != nil {
			return nil, fmt.Errorf("scan food record: %w", err)
		}
		if r.Timestamp, err = models.ParseTimestamp(ts); err != nil {
			return nil, fmt.Errorf("scan food record: %w", err)
		}
		records = append(records, &r)
	}
	return records, rows.Err()
}

// AddExerciseRecord inserts an exercise record for an existing user.
func (d *DB) AddExerciseRecord(ctx context.Context, r *models.ExerciseRecord) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		if err := d.requireUser(ctx, tx, r.UserID); err != nil {
			return err
		}
		return d.insertExerciseRecord(ctx, tx, r)
	})
}

func (d *DB) insertExerciseRecord(ctx context.Context, q queryer, r *models.ExerciseRecord) error {
	_, err := q.ExecContext(ctx, d.rebind(`
		INSERT INTO exercise_calories (user_id, timestamp, exercise, minute, calories) VALUES (?, ?, ?, ?, ?)`),
		r.UserID, r.Timestamp.String(), r.Exercise, r.Minute, r.Calories,
	)
	if err != nil {
		return fmt.Errorf("insert exercise record: %w", classify(err))
	}
	return nil
}

// DeleteExerciseRecord removes the exercise record with the exact composite key.
func (d *DB) DeleteExerciseRecord(ctx context.Context, userID int64, ts models.Timestamp, exercise string) error {
	res, err := d.db.ExecContext(ctx, d.rebind(`
		DELETE FROM exercise_calories WHERE user_id = ? AND timestamp = ? AND exercise = ?`),
		userID, ts.String(), exercise,
	)
	if err != nil {
		return fmt.Errorf("delete exercise record: %w", err)
	}
	return requireAffected(res, fmt.Sprintf("exercise record %s at %s", exercise, ts))
}

// ListExerciseRecords returns a user's exercise records in timestamp order.
func (d *DB) ListExerciseRecords(ctx context.Context, userID int64) ([]*models.ExerciseRecord, error) {
	rows, err := d.db.QueryContext(ctx, d.rebind(`
		SELECT user_id, timestamp, exercise, minute, calories FROM exercise_calories
		WHERE user_id = ? ORDER BY timestamp, exercise`), userID)
	if err != nil {
		return nil, fmt.Errorf("list exercise records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []*models.ExerciseRecord
	for rows.Next() {
		var r models.ExerciseRecord
		var ts string
		if err := rows.Scan(&r.UserID, &ts, &r.Exercise, &r.Minute, &r.Calories); err != nil {
			return nil, fmt.Errorf("scan exercise record: %w", err)
		}
		if r.Timestamp, err = models.ParseTimestamp(ts); err != nil {
			return nil, fmt.Errorf("scan exercise record: %w", err)
		}
		records = append(records, &r)
	}
	return records, rows.Err()
}
