// ABOUTME: Schema definition and initialization for both SQL dialects.
// ABOUTME: Defines users, the metric catalog, body metrics, and calorie records.
package storage

import (
	"context"
	"fmt"

	"github.com/harperreed/shapementor/internal/models"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id INTEGER PRIMARY KEY,
		hashed_password TEXT NOT NULL,
		activated INTEGER NOT NULL DEFAULT 1,
		user_name TEXT NOT NULL,
		dob TEXT,
		gender TEXT,
		race TEXT,
		email TEXT NOT NULL,
		phone_number TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS body_metrics_lookup (
		metric_index TEXT PRIMARY KEY,
		metric_name TEXT NOT NULL,
		metric_unit TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS body_metrics (
		user_id INTEGER NOT NULL REFERENCES users(user_id),
		timestamp TEXT NOT NULL,
		metric_index TEXT NOT NULL REFERENCES body_metrics_lookup(metric_index),
		value REAL NOT NULL,
		PRIMARY KEY (user_id, timestamp, metric_index)
	)`,
	`CREATE TABLE IF NOT EXISTS food_calories (
		user_id INTEGER NOT NULL REFERENCES users(user_id),
		timestamp TEXT NOT NULL,
		food TEXT NOT NULL,
		gram REAL NOT NULL,
		calories REAL NOT NULL,
		PRIMARY KEY (user_id, timestamp, food)
	)`,
	`CREATE TABLE IF NOT EXISTS exercise_calories (
		user_id INTEGER NOT NULL REFERENCES users(user_id),
		timestamp TEXT NOT NULL,
		exercise TEXT NOT NULL,
		minute REAL NOT NULL,
		calories REAL NOT NULL,
		PRIMARY KEY (user_id, timestamp, exercise)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id BIGINT PRIMARY KEY,
		hashed_password VARCHAR(255) NOT NULL,
		activated BOOLEAN NOT NULL DEFAULT TRUE,
		user_name VARCHAR(255) NOT NULL,
		dob VARCHAR(10),
		gender VARCHAR(50),
		race VARCHAR(50),
		email VARCHAR(255) NOT NULL,
		phone_number VARCHAR(20)
	)`,
	`CREATE TABLE IF NOT EXISTS body_metrics_lookup (
		metric_index VARCHAR(50) PRIMARY KEY,
		metric_name VARCHAR(255) NOT NULL,
		metric_unit VARCHAR(50) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS body_metrics (
		user_id BIGINT NOT NULL REFERENCES users(user_id),
		timestamp VARCHAR(19) NOT NULL,
		metric_index VARCHAR(50) NOT NULL REFERENCES body_metrics_lookup(metric_index),
		value DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (user_id, timestamp, metric_index)
	)`,
	`CREATE TABLE IF NOT EXISTS food_calories (
		user_id BIGINT NOT NULL REFERENCES users(user_id),
		timestamp VARCHAR(19) NOT NULL,
		food VARCHAR(255) NOT NULL,
		gram DOUBLE PRECISION NOT NULL,
		calories DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (user_id, timestamp, food)
	)`,
	`CREATE TABLE IF NOT EXISTS exercise_calories (
		user_id BIGINT NOT NULL REFERENCES users(user_id),
		timestamp VARCHAR(19) NOT NULL,
		exercise VARCHAR(255) NOT NULL,
		minute DOUBLE PRECISION NOT NULL,
		calories DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (user_id, timestamp, exercise)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
}

const seedDefinitionQuery = `INSERT INTO body_metrics_lookup (metric_index, metric_name, metric_unit)
	VALUES (?, ?, ?) ON CONFLICT (metric_index) DO NOTHING`

// initSchema creates missing tables and seeds the default metric catalog.
// Existing catalog rows are left as they are.
func (d *DB) initSchema(ctx context.Context) error {
	schema := sqliteSchema
	if d.dialect == dialectPostgres {
		schema = postgresSchema
	}

	for _, stmt := range schema {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}

	for _, def := range models.DefaultMetricDefinitions {
		if _, err := d.db.ExecContext(ctx, d.rebind(seedDefinitionQuery), def.Index, def.Name, def.Unit); err != nil {
			return fmt.Errorf("seed metric definition %s: %w", def.Index, err)
		}
	}
	return nil
}
