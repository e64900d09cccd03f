package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lg/calorie-tracker-go/internal/apperror"
	"lg/calorie-tracker-go/internal/models"
)

const userColumns = `id, username, email, password_hash, age, gender, height_cm, weight_kg,
	activity_level, goal_type, goal_weight_kg, daily_calorie_goal, created_at, updated_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.UserProfile, error) {
	var u models.UserProfile
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Age, &u.Gender,
		&u.HeightCm, &u.WeightKg, &u.ActivityLevel, &u.GoalType,
		&u.GoalWeightKg, &u.DailyCalorieGoal, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// execQuerier is satisfied by *sql.DB and *sql.Tx.
type execQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// CreateUser inserts u and fills in ID and timestamps.
func (db *DB) CreateUser(ctx context.Context, u *models.UserProfile) error {
	return insertUser(ctx, db.conn, u)
}

// CreateUserWithWeight inserts u and its first weight entry in one
// transaction.
func (db *DB) CreateUserWithWeight(ctx context.Context, u *models.UserProfile, e models.WeightEntry) (*models.WeightEntry, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: starting transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertUser(ctx, tx, u); err != nil {
		return nil, err
	}
	e.UserID = u.ID
	stored, err := writeWeightEntry(ctx, tx, e)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlite: committing user %q: %w", u.Username, err)
	}
	return stored, nil
}

func insertUser(ctx context.Context, q execQuerier, u *models.UserProfile) error {
	ts := now()
	res, err := q.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash, age, gender, height_cm, weight_kg,
			activity_level, goal_type, goal_weight_kg, daily_calorie_goal, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Username, u.Email, u.PasswordHash, u.Age, string(u.Gender), u.HeightCm, u.WeightKg,
		string(u.ActivityLevel), string(u.GoalType), u.GoalWeightKg, u.DailyCalorieGoal, ts, ts,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return apperror.Conflict("username or email already exists")
		case isCheckViolation(err):
			return apperror.ValidationFailed("profile", "profile value out of range")
		}
		return fmt.Errorf("sqlite: inserting user %q: %w", u.Username, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading user id: %w", err)
	}
	u.ID = id
	u.CreatedAt = ts
	u.UpdatedAt = ts
	return nil
}

func (db *DB) GetUserByUsername(ctx context.Context, username string) (*models.UserProfile, error) {
	u, err := scanUser(db.conn.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username = ?", username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", username)
		}
		return nil, fmt.Errorf("sqlite: getting user %q: %w", username, err)
	}
	return u, nil
}

func (db *DB) GetProfile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	u, err := scanUser(db.conn.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?", userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", userID)
		}
		return nil, fmt.Errorf("sqlite: getting user %d: %w", userID, err)
	}
	return u, nil
}

func (db *DB) DeleteUser(ctx context.Context, userID int64) error {
	res, err := db.conn.ExecContext(ctx, "DELETE FROM users WHERE id = ?", userID)
	if err != nil {
		return fmt.Errorf("sqlite: deleting user %d: %w", userID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound("user", userID)
	}
	return nil
}
