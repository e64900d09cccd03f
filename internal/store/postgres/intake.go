package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"lg/calorie-tracker-go/internal/apperror"
	"lg/calorie-tracker-go/internal/models"
)

// LogIntake upserts on the (user, food, date, meal) key; a repeat adds to the
// stored quantity.
func (s *Store) LogIntake(ctx context.Context, rec models.IntakeRecord) (*models.IntakeRecord, error) {
	stored, err := queryOne[models.IntakeRecord](ctx, s.pool, s.logger,
		`INSERT INTO daily_intake (user_id, food_id, quantity_g, intake_date, meal_type)
		 VALUES (@userID, @foodID, @quantityG, @date, @mealType)
		 ON CONFLICT (user_id, food_id, intake_date, meal_type)
		 DO UPDATE SET quantity_g = daily_intake.quantity_g + EXCLUDED.quantity_g
		 RETURNING id, user_id, food_id, intake_date, meal_type, quantity_g, created_at`,
		pgx.NamedArgs{
			"userID": rec.UserID, "foodID": rec.FoodID, "quantityG": rec.QuantityG,
			"date": rec.Date.String(), "mealType": string(rec.MealType),
		})
	if err != nil {
		switch {
		case pgErrorCode(err) == foreignKeyViolation:
			return nil, apperror.NotFound("user or food item", fmt.Sprintf("%d/%d", rec.UserID, rec.FoodID))
		case isOutOfRange(err):
			return nil, apperror.ValidationFailed("quantity_g", "quantity_g out of range")
		}
		return nil, fmt.Errorf("postgres: logging intake for user %d: %w", rec.UserID, err)
	}
	return &stored, nil
}

const intakeLineQuery = `SELECT di.intake_date, di.meal_type, di.quantity_g,
		f.id AS food_id, f.name AS food_name, f.calories_per_100g, f.protein_g, f.carbs_g, f.fat_g
	 FROM daily_intake di
	 JOIN food_items f ON f.id = di.food_id
	 WHERE di.user_id = @userID AND di.intake_date >= @start AND di.intake_date <= @end
	 ORDER BY di.intake_date, di.created_at, di.id`

func (s *Store) ListIntake(ctx context.Context, userID int64, date models.DateOnly) ([]models.IntakeLine, error) {
	return s.ListIntakeRange(ctx, userID, date, date)
}

func (s *Store) ListIntakeRange(ctx context.Context, userID int64, start, end models.DateOnly) ([]models.IntakeLine, error) {
	lines, err := queryMany[models.IntakeLine](ctx, s.pool, s.logger, intakeLineQuery,
		pgx.NamedArgs{"userID": userID, "start": start.String(), "end": end.String()})
	if err != nil {
		return nil, fmt.Errorf("postgres: listing intake for user %d: %w", userID, err)
	}
	return lines, nil
}
