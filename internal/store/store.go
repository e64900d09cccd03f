// Package store defines the persistence contract the services depend on.
// Implementations live in the postgres and sqlite subpackages.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"lg/calorie-tracker-go/internal/models"
)

// UserRepository persists user profiles. CreateUser returns an
// apperror.ErrConflict error when the username or email is taken; lookups
// return apperror.ErrNotFound.
type UserRepository interface {
	CreateUser(ctx context.Context, u *models.UserProfile) error
	// CreateUserWithWeight inserts u and its first weight entry in one
	// transaction; on any error neither row is kept. e.UserID is ignored.
	CreateUserWithWeight(ctx context.Context, u *models.UserProfile, e models.WeightEntry) (*models.WeightEntry, error)
	GetUserByUsername(ctx context.Context, username string) (*models.UserProfile, error)
	GetProfile(ctx context.Context, userID int64) (*models.UserProfile, error)
	// DeleteUser removes the user together with its intake and weight rows.
	DeleteUser(ctx context.Context, userID int64) error
}

// FoodRepository reads the reference food table.
type FoodRepository interface {
	GetFoodItem(ctx context.Context, foodID int64) (*models.FoodItem, error)
	// SearchFoods matches name or category by substring (case-insensitive).
	// An empty term returns the first rows by id.
	SearchFoods(ctx context.Context, term string, limit int) ([]models.FoodItem, error)
	// SeedFoods inserts foods only when the table is empty. Returns the
	// number inserted.
	SeedFoods(ctx context.Context, foods []models.FoodItem) (int, error)
}

// IntakeRepository stores food intake.
type IntakeRepository interface {
	// LogIntake inserts the record, or adds its quantity to the existing row
	// with the same (user, food, date, meal type). Returns the stored row.
	LogIntake(ctx context.Context, rec models.IntakeRecord) (*models.IntakeRecord, error)
	ListIntake(ctx context.Context, userID int64, date models.DateOnly) ([]models.IntakeLine, error)
	// ListIntakeRange returns lines with start <= date <= end.
	ListIntakeRange(ctx context.Context, userID int64, start, end models.DateOnly) ([]models.IntakeLine, error)
}

// WeightRepository stores weight entries.
type WeightRepository interface {
	// UpsertWeightEntry writes the entry for (user, date), overwriting weight
	// and BMI if present, and sets the profile's weight_kg in the same
	// transaction.
	UpsertWeightEntry(ctx context.Context, e models.WeightEntry) (*models.WeightEntry, error)
	ListWeightEntries(ctx context.Context, userID int64, start, end models.DateOnly) ([]models.WeightEntry, error)
}

// Store is everything the services need.
type Store interface {
	UserRepository
	FoodRepository
	IntakeRepository
	WeightRepository
	Close() error
}

// EnsureFoodCatalog seeds the sample food table if it is empty.
func EnsureFoodCatalog(ctx context.Context, s FoodRepository, logger *slog.Logger) error {
	n, err := s.SeedFoods(ctx, SampleFoods)
	if err != nil {
		return fmt.Errorf("seeding food catalog: %w", err)
	}
	if n > 0 {
		logger.Info("inserted sample food items", "count", n)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern turns a search term into a LIKE pattern matching it as a
// literal substring. Use with ESCAPE '\'.
func ContainsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
