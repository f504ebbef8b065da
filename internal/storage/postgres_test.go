// ABOUTME: Tests for the PostgreSQL dialect using go-sqlmock.
// ABOUTME: Verifies placeholder rebinding, transactions, and pgconn error mapping.
package storage

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/harperreed/shapementor/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New failed: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return &DB{db: sqlDB, dialect: dialectPostgres}, mock
}

func TestRebind(t *testing.T) {
	tests := []struct {
		dialect dialect
		in      string
		want    string
	}{
		{dialectSQLite, "SELECT * FROM t WHERE a = ? AND b = ?", "SELECT * FROM t WHERE a = ? AND b = ?"},
		{dialectPostgres, "SELECT * FROM t WHERE a = ? AND b = ?", "SELECT * FROM t WHERE a = $1 AND b = $2"},
		{dialectPostgres, "SELECT 1", "SELECT 1"},
	}

	for _, tt := range tests {
		d := &DB{dialect: tt.dialect}
		if got := d.rebind(tt.in); got != tt.want {
			t.Errorf("rebind(%q) [%s] = %q, want %q", tt.in, tt.dialect, got, tt.want)
		}
	}
}

func TestPostgresInitSchema(t *testing.T) {
	db, mock := newMockDB(t)

	for _, stmt := range postgresSchema {
		mock.ExpectExec(regexp.QuoteMeta(stmt)).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	for _, def := range models.DefaultMetricDefinitions {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO body_metrics_lookup")).
			WithArgs(def.Index, def.Name, def.Unit).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}

	if err := db.initSchema(context.Background()); err != nil {
		t.Fatalf("initSchema failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresCreateUser(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT MAX(user_id) FROM users")).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(int64(4)))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (" + userColumns + ") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)")).
		WithArgs(int64(5), "hash", true, "jane", nil, nil, nil, "jane@example.com", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	u := &models.User{Name: "jane", Email: "jane@example.com", Activated: true, HashedPassword: "hash"}
	if err := db.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if u.ID != 5 {
		t.Errorf("ID = %d, want 5", u.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresUniqueViolationIsConflict(t *testing.T) {
	db, mock := newMockDB(t)
	ts := fixedTimestamp(0)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM users WHERE user_id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO food_calories")).
		WithArgs(int64(1), ts.String(), "apple", 100.0, 37.0).
		WillReturnError(&pgconn.PgError{Code: "23505", Detail: "Key already exists"})
	mock.ExpectRollback()

	r := &models.FoodRecord{UserID: 1, Timestamp: ts, Food: "apple", Gram: 100, Calories: 37}
	err := db.AddFoodRecord(context.Background(), r)
	if !errors.Is(err, ErrConflict) {
		t.Errorf("AddFoodRecord error = %v, want ErrConflict", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresDeleteMissingIsNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	ts := fixedTimestamp(0)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM exercise_calories WHERE user_id = $1 AND timestamp = $2 AND exercise = $3")).
		WithArgs(int64(3), ts.String(), "yoga").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := db.DeleteExerciseRecord(context.Background(), 3, ts, "yoga")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteExerciseRecord error = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresOtherErrorsPassThrough(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM users WHERE user_id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO body_metrics")).
		WillReturnError(&pgconn.PgError{Code: "23503", Message: "foreign key violation"})
	mock.ExpectRollback()

	err := db.AddBodyMetric(context.Background(), models.NewBodyMetric(1, "unknown", 1))
	if err == nil || errors.Is(err, ErrConflict) {
		t.Errorf("AddBodyMetric error = %v, want a non-conflict error", err)
	}
}
