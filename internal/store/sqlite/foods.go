package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lg/calorie-tracker-go/internal/apperror"
	"lg/calorie-tracker-go/internal/models"
	"lg/calorie-tracker-go/internal/store"
)

const foodColumns = "id, name, category, calories_per_100g, protein_g, carbs_g, fat_g"

func scanFood(row rowScanner) (models.FoodItem, error) {
	var f models.FoodItem
	err := row.Scan(&f.ID, &f.Name, &f.Category, &f.CaloriesPer100g, &f.ProteinG, &f.CarbsG, &f.FatG)
	return f, err
}

func (db *DB) GetFoodItem(ctx context.Context, foodID int64) (*models.FoodItem, error) {
	f, err := scanFood(db.conn.QueryRowContext(ctx,
		"SELECT "+foodColumns+" FROM food_items WHERE id = ?", foodID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("food item", foodID)
		}
		return nil, fmt.Errorf("sqlite: getting food item %d: %w", foodID, err)
	}
	return &f, nil
}

// SearchFoods uses LIKE, which SQLite matches case-insensitively for ASCII.
// Wildcards in term match literally.
func (db *DB) SearchFoods(ctx context.Context, term string, limit int) ([]models.FoodItem, error) {
	pattern := store.ContainsPattern(term)
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+foodColumns+` FROM food_items
		 WHERE ? = '' OR name LIKE ? ESCAPE '\' OR category LIKE ? ESCAPE '\'
		 ORDER BY id
		 LIMIT ?`,
		term, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite: searching foods %q: %w", term, err)
	}
	defer rows.Close()

	foods := []models.FoodItem{}
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning food item: %w", err)
		}
		foods = append(foods, f)
	}
	return foods, rows.Err()
}

func (db *DB) SeedFoods(ctx context.Context, foods []models.FoodItem) (int, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: starting transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM food_items").Scan(&count); err != nil {
		return 0, fmt.Errorf("sqlite: counting food items: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO food_items (name, category, calories_per_100g, protein_g, carbs_g, fat_g)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("sqlite: preparing food insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range foods {
		if _, err := stmt.ExecContext(ctx, f.Name, f.Category, f.CaloriesPer100g, f.ProteinG, f.CarbsG, f.FatG); err != nil {
			return 0, fmt.Errorf("sqlite: inserting food %q: %w", f.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlite: committing food items: %w", err)
	}
	return len(foods), nil
}
