package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"lg/calorie-tracker-go/internal/apperror"
	"lg/calorie-tracker-go/internal/models"
)

const userColumns = `id, username, email, password_hash, age, gender, height_cm, weight_kg,
	activity_level, goal_type, goal_weight_kg, daily_calorie_goal, created_at, updated_at`

// CreateUser inserts u and fills in ID and timestamps.
func (s *Store) CreateUser(ctx context.Context, u *models.UserProfile) error {
	return insertUser(ctx, s.pool, u)
}

// CreateUserWithWeight inserts u and its first weight entry in one
// transaction.
func (s *Store) CreateUserWithWeight(ctx context.Context, u *models.UserProfile, e models.WeightEntry) (*models.WeightEntry, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("postgres: starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := insertUser(ctx, tx, u); err != nil {
		return nil, err
	}
	e.UserID = u.ID
	stored, err := s.writeWeightEntry(ctx, tx, e)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("postgres: committing user %q: %w", u.Username, err)
	}
	return stored, nil
}

func insertUser(ctx context.Context, q querier, u *models.UserProfile) error {
	err := q.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash, age, gender, height_cm, weight_kg,
			activity_level, goal_type, goal_weight_kg, daily_calorie_goal)
		 VALUES (@username, @email, @passwordHash, @age, @gender, @heightCm, @weightKg,
			@activityLevel, @goalType, @goalWeightKg, @dailyCalorieGoal)
		 RETURNING id, created_at, updated_at`,
		pgx.NamedArgs{
			"username": u.Username, "email": u.Email, "passwordHash": u.PasswordHash,
			"age": u.Age, "gender": string(u.Gender), "heightCm": u.HeightCm,
			"weightKg": u.WeightKg, "activityLevel": string(u.ActivityLevel),
			"goalType": string(u.GoalType), "goalWeightKg": u.GoalWeightKg,
			"dailyCalorieGoal": u.DailyCalorieGoal,
		},
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		switch {
		case pgErrorCode(err) == uniqueViolation:
			return apperror.Conflict("username or email already exists")
		case isOutOfRange(err):
			return apperror.ValidationFailed("profile", "profile value out of range")
		}
		return fmt.Errorf("postgres: inserting user %q: %w", u.Username, err)
	}
	return nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.UserProfile, error) {
	u, err := queryOne[models.UserProfile](ctx, s.pool, s.logger,
		"SELECT "+userColumns+" FROM users WHERE username = @username",
		pgx.NamedArgs{"username": username})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("user", username)
		}
		return nil, fmt.Errorf("postgres: getting user %q: %w", username, err)
	}
	return &u, nil
}

func (s *Store) GetProfile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	u, err := queryOne[models.UserProfile](ctx, s.pool, s.logger,
		"SELECT "+userColumns+" FROM users WHERE id = @id",
		pgx.NamedArgs{"id": userID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("user", userID)
		}
		return nil, fmt.Errorf("postgres: getting user %d: %w", userID, err)
	}
	return &u, nil
}

// DeleteUser relies on ON DELETE CASCADE for intake and weight rows.
func (s *Store) DeleteUser(ctx context.Context, userID int64) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM users WHERE id = @id", pgx.NamedArgs{"id": userID})
	if err != nil {
		return fmt.Errorf("postgres: deleting user %d: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("user", userID)
	}
	return nil
}
