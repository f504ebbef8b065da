// ABOUTME: User CRUD operations.
// ABOUTME: New IDs are max(user_id)+1, assigned inside the inserting transaction.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/harperreed/shapementor/internal/models"
)

const userColumns = `user_id, hashed_password, activated, user_name, dob, gender, race, email, phone_number`

const insertUserQuery = `INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

// CreateUser assigns the next free ID to u and inserts it.
func (d *DB) CreateUser(ctx context.Context, u *models.User) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		var maxID sql.NullInt64
		if err := tx.QueryRowContext(ctx, `SELECT MAX(user_id) FROM users`).Scan(&maxID); err != nil {
			return fmt.Errorf("select max user id: %w", err)
		}
		u.ID = maxID.Int64 + 1

		if err := d.insertUser(ctx, tx, u); err != nil {
			u.ID = 0
			return err
		}
		return nil
	})
}

// InsertUser inserts u with its existing ID. Used by import and migration.
func (d *DB) InsertUser(ctx context.Context, u *models.User) error {
	if u.ID <= 0 {
		return fmt.Errorf("insert user: invalid id %d", u.ID)
	}
	return d.insertUser(ctx, d.db, u)
}

func (d *DB) insertUser(ctx context.Context, q queryer, u *models.User) error {
	_, err := q.ExecContext(ctx, d.rebind(insertUserQuery),
		u.ID, u.HashedPassword, u.Activated, u.Name,
		nullString(u.DOB), nullString(u.Gender), nullString(u.Race),
		u.Email, nullString(u.PhoneNumber),
	)
	if err != nil {
		return fmt.Errorf("insert user %d: %w", u.ID, classify(err))
	}
	return nil
}

// ImportUser inserts data.User with its existing ID together with every fact
// in data, in one transaction. A user already holding the ID or the email
// fails with ErrConflict.
func (d *DB) ImportUser(ctx context.Context, data *ExportData) error {
	u := data.User
	if u == nil || u.ID <= 0 {
		return fmt.Errorf("import user: missing user or invalid id")
	}
	return d.withTx(ctx, func(tx *sql.Tx) error {
		_, err := d.getUserByEmail(ctx, tx, u.Email)
		if err == nil {
			return fmt.Errorf("user with email %q: %w", strings.TrimSpace(u.Email), ErrConflict)
		}
		if !errors.Is(err, ErrNotFound) {
			return err
		}

		if err := d.insertUser(ctx, tx, u); err != nil {
			return err
		}
		for _, m := range data.BodyMetrics {
			m.UserID = u.ID
			if err := d.insertBodyMetric(ctx, tx, m); err != nil {
				return err
			}
		}
		for _, r := range data.FoodRecords {
			r.UserID = u.ID
			if err := d.insertFoodRecord(ctx, tx, r); err != nil {
				return err
			}
		}
		for _, r := range data.ExerciseRecords {
			r.UserID = u.ID
			if err := d.insertExerciseRecord(ctx, tx, r); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetUser retrieves a user by ID.
func (d *DB) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return d.getUser(ctx, d.db, id)
}

func (d *DB) getUser(ctx context.Context, q queryer, id int64) (*models.User, error) {
	row := q.QueryRowContext(ctx, d.rebind(`SELECT `+userColumns+` FROM users WHERE user_id = ?`), id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return u, nil
}

// GetUserByEmail returns the lowest-numbered user with the given email.
func (d *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return d.getUserByEmail(ctx, d.db, email)
}

func (d *DB) getUserByEmail(ctx context.Context, q queryer, email string) (*models.User, error) {
	email = strings.TrimSpace(email)
	row := q.QueryRowContext(ctx,
		d.rebind(`SELECT `+userColumns+` FROM users WHERE email = ? ORDER BY user_id LIMIT 1`), email)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user with email %q: %w", email, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// ListUsers returns every user ordered by ID.
func (d *DB) ListUsers(ctx context.Context) ([]*models.User, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUserProfile applies upd to the stored user and returns the result.
func (d *DB) UpdateUserProfile(ctx context.Context, id int64, upd *models.UserUpdate) (*models.User, error) {
	var updated *models.User
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		u, err := d.getUser(ctx, tx, id)
		if err != nil {
			return err
		}
		upd.Apply(u)

		res, err := tx.ExecContext(ctx, d.rebind(`
			UPDATE users SET user_name = ?, dob = ?, gender = ?, race = ?, email = ?, phone_number = ?
			WHERE user_id = ?`),
			u.Name, nullString(u.DOB), nullString(u.Gender), nullString(u.Race),
			u.Email, nullString(u.PhoneNumber), id,
		)
		if err != nil {
			return fmt.Errorf("update user %d: %w", id, classify(err))
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(s rowScanner) (*models.User, error) {
	var u models.User
	var dob, gender, race, phone sql.NullString
	if err := s.Scan(&u.ID, &u.HashedPassword, &u.Activated, &u.Name,
		&dob, &gender, &race, &u.Email, &phone); err != nil {
		return nil, err
	}
	u.DOB = stringPtr(dob)
	u.Gender = stringPtr(gender)
	u.Race = stringPtr(race)
	u.PhoneNumber = stringPtr(phone)
	return &u, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
