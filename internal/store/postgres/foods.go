package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"lg/calorie-tracker-go/internal/apperror"
	"lg/calorie-tracker-go/internal/models"
	"lg/calorie-tracker-go/internal/store"
)

const foodColumns = "id, name, category, calories_per_100g, protein_g, carbs_g, fat_g"

func (s *Store) GetFoodItem(ctx context.Context, foodID int64) (*models.FoodItem, error) {
	f, err := queryOne[models.FoodItem](ctx, s.pool, s.logger,
		"SELECT "+foodColumns+" FROM food_items WHERE id = @id",
		pgx.NamedArgs{"id": foodID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("food item", foodID)
		}
		return nil, fmt.Errorf("postgres: getting food item %d: %w", foodID, err)
	}
	return &f, nil
}

func (s *Store) SearchFoods(ctx context.Context, term string, limit int) ([]models.FoodItem, error) {
	foods, err := queryMany[models.FoodItem](ctx, s.pool, s.logger,
		`SELECT `+foodColumns+` FROM food_items
		 WHERE @term = '' OR name ILIKE @pattern ESCAPE '\' OR category ILIKE @pattern ESCAPE '\'
		 ORDER BY id
		 LIMIT @limit`,
		pgx.NamedArgs{"term": term, "pattern": store.ContainsPattern(term), "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("postgres: searching foods %q: %w", term, err)
	}
	if foods == nil {
		foods = []models.FoodItem{}
	}
	return foods, nil
}

// SeedFoods inserts the catalog in one batch, inside a transaction that
// first checks the table is empty.
func (s *Store) SeedFoods(ctx context.Context, foods []models.FoodItem) (int, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("postgres: starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var count int
	if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM food_items").Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres: counting food items: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, f := range foods {
		batch.Queue(
			`INSERT INTO food_items (name, category, calories_per_100g, protein_g, carbs_g, fat_g)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			f.Name, f.Category, f.CaloriesPer100g, f.ProteinG, f.CarbsG, f.FatG)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return 0, fmt.Errorf("postgres: inserting food items: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("postgres: committing food items: %w", err)
	}
	return len(foods), nil
}
