// ABOUTME: Metric catalog and body metric operations.
// ABOUTME: Readings are keyed by (user_id, timestamp, metric_index).
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/harperreed/shapementor/internal/models"
)

// ListMetricDefinitions returns the catalog ordered by index.
func (d *DB) ListMetricDefinitions(ctx context.Context) ([]*models.MetricDefinition, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT metric_index, metric_name, metric_unit FROM body_metrics_lookup ORDER BY metric_index`)
	if err != nil {
		return nil, fmt.Errorf("list metric definitions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var defs []*models.MetricDefinition
	for rows.Next() {
		var def models.MetricDefinition
		if err := rows.Scan(&def.Index, &def.Name, &def.Unit); err != nil {
			return nil, fmt.Errorf("scan metric definition: %w", err)
		}
		defs = append(defs, &def)
	}
	return defs, rows.Err()
}

// GetMetricDefinition retrieves one catalog entry.
func (d *DB) GetMetricDefinition(ctx context.Context, index string) (*models.MetricDefinition, error) {
	var def models.MetricDefinition
	err := d.db.QueryRowContext(ctx,
		d.rebind(`SELECT metric_index, metric_name, metric_unit FROM body_metrics_lookup WHERE metric_index = ?`),
		index,
	).Scan(&def.Index, &def.Name, &def.Unit)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("metric definition %q: %w", index, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get metric definition: %w", err)
	}
	return &def, nil
}

// UpsertMetricDefinition inserts def or overwrites the name and unit of an
// existing entry.
func (d *DB) UpsertMetricDefinition(ctx context.Context, def *models.MetricDefinition) error {
	_, err := d.db.ExecContext(ctx, d.rebind(`
		INSERT INTO body_metrics_lookup (metric_index, metric_name, metric_unit) VALUES (?, ?, ?)
		ON CONFLICT (metric_index) DO UPDATE SET metric_name = excluded.metric_name, metric_unit = excluded.metric_unit`),
		def.Index, def.Name, def.Unit,
	)
	if err != nil {
		return fmt.Errorf("upsert metric definition %s: %w", def.Index, err)
	}
	return nil
}

// AddBodyMetric inserts a reading for an existing user.
func (d *DB) AddBodyMetric(ctx context.Context, m *models.BodyMetric) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		if err := d.requireUser(ctx, tx, m.UserID); err != nil {
			return err
		}
		return d.insertBodyMetric(ctx, tx, m)
	})
}

func (d *DB) insertBodyMetric(ctx context.Context, q queryer, m *models.BodyMetric) error {
	_, err := q.ExecContext(ctx, d.rebind(`
		INSERT INTO body_metrics (user_id, timestamp, metric_index, value) VALUES (?, ?, ?, ?)`),
		m.UserID, m.Timestamp.String(), m.Index, m.Value,
	)
	if err != nil {
		return fmt.Errorf("insert body metric: %w", classify(err))
	}
	return nil
}

// DeleteBodyMetric removes the reading with the exact composite key.
func (d *DB) DeleteBodyMetric(ctx context.Context, userID int64, ts models.Timestamp, index string) error {
	res, err := d.db.ExecContext(ctx, d.rebind(`
		DELETE FROM body_metrics WHERE user_id = ? AND timestamp = ? AND metric_index = ?`),
		userID, ts.String(), index,
	)
	if err != nil {
		return fmt.Errorf("delete body metric: %w", err)
	}
	return requireAffected(res, fmt.Sprintf("body metric %s at %s", index, ts))
}

// ListBodyMetrics returns a user's readings in timestamp order, with the
// catalog name and unit attached.
func (d *DB) ListBodyMetrics(ctx context.Context, userID int64) ([]*models.BodyMetric, error) {
	rows, err := d.db.QueryContext(ctx, d.rebind(`
		SELECT m.user_id, m.timestamp, m.metric_index, m.value,
			COALESCE(l.metric_name, ''), COALESCE(l.metric_unit, '')
		FROM body_metrics m
		LEFT JOIN body_metrics_lookup l ON l.metric_index = m.metric_index
		WHERE m.user_id = ?
		ORDER BY m.timestamp, m.metric_index`), userID)
	if err != nil {
		return nil, fmt.Errorf("list body metrics: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var metrics []*models.BodyMetric
	for rows.Next() {
		m, err := scanBodyMetric(rows)
		if err != nil {
			return nil, fmt.Errorf("scan body metric: %w", err)
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

func scanBodyMetric(s rowScanner) (*models.BodyMetric, error) {
	var m models.BodyMetric
	var ts string
	if err := s.Scan(&m.UserID, &ts, &m.Index, &m.Value, &m.Name, &m.Unit); err != nil {
		return nil, err
	}
	parsed, err := models.ParseTimestamp(ts)
	if err != nil {
		return nil, err
	}
	m.Timestamp = parsed
	return &m, nil
}

// requireUser returns ErrNotFound unless the user exists.
func (d *DB) requireUser(ctx context.Context, q queryer, userID int64) error {
	var one int
	err := q.QueryRowContext(ctx, d.rebind(`SELECT 1 FROM users WHERE user_id = ?`), userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("check user %d: %w", userID, err)
	}
	return nil
}

// requireAffected returns ErrNotFound when a delete matched no rows.
func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
