package sqlite

import (
	"context"
	"fmt"

	"lg/calorie-tracker-go/internal/apperror"
	"lg/calorie-tracker-go/internal/models"
)

// LogIntake upserts on the (user, food, date, meal) key; a repeat adds to the
// stored quantity.
func (db *DB) LogIntake(ctx context.Context, rec models.IntakeRecord) (*models.IntakeRecord, error) {
	stored := rec
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO daily_intake (user_id, food_id, quantity_g, intake_date, meal_type, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, food_id, intake_date, meal_type)
		 DO UPDATE SET quantity_g = daily_intake.quantity_g + excluded.quantity_g
		 RETURNING id, quantity_g`,
		rec.UserID, rec.FoodID, rec.QuantityG, rec.Date.String(), string(rec.MealType), now(),
	).Scan(&stored.ID, &stored.QuantityG)
	if err != nil {
		switch {
		case isForeignKeyViolation(err):
			return nil, apperror.NotFound("user or food item", fmt.Sprintf("%d/%d", rec.UserID, rec.FoodID))
		case isCheckViolation(err):
			return nil, apperror.ValidationFailed("quantity_g", "quantity_g must be positive")
		}
		return nil, fmt.Errorf("sqlite: logging intake for user %d: %w", rec.UserID, err)
	}
	// RETURNING columns carry no declared type, so the DATETIME is read back
	// through a plain SELECT.
	if err := db.conn.QueryRowContext(ctx,
		"SELECT created_at FROM daily_intake WHERE id = ?", stored.ID,
	).Scan(&stored.CreatedAt); err != nil {
		return nil, fmt.Errorf("sqlite: reading intake %d: %w", stored.ID, err)
	}
	return &stored, nil
}

func (db *DB) ListIntake(ctx context.Context, userID int64, date models.DateOnly) ([]models.IntakeLine, error) {
	return db.ListIntakeRange(ctx, userID, date, date)
}

func (db *DB) ListIntakeRange(ctx context.Context, userID int64, start, end models.DateOnly) ([]models.IntakeLine, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT di.intake_date, di.meal_type, di.quantity_g,
			f.id, f.name, f.calories_per_100g, f.protein_g, f.carbs_g, f.fat_g
		 FROM daily_intake di
		 JOIN food_items f ON f.id = di.food_id
		 WHERE di.user_id = ? AND di.intake_date >= ? AND di.intake_date <= ?
		 ORDER BY di.intake_date, di.created_at, di.id`,
		userID, start.String(), end.String())
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing intake for user %d: %w", userID, err)
	}
	defer rows.Close()

	var lines []models.IntakeLine
	for rows.Next() {
		var (
			l    models.IntakeLine
			date string
		)
		if err := rows.Scan(&date, &l.MealType, &l.QuantityG,
			&l.FoodID, &l.FoodName, &l.CaloriesPer100g, &l.ProteinG, &l.CarbsG, &l.FatG); err != nil {
			return nil, fmt.Errorf("sqlite: scanning intake line: %w", err)
		}
		if l.Date, err = parseDate(date); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
