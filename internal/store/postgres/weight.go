package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"lg/calorie-tracker-go/internal/apperror"
	"lg/calorie-tracker-go/internal/models"
)

const weightColumns = "id, user_id, weight_kg, bmi, recorded_date, notes"

// UpsertWeightEntry updates the profile weight and writes the dated entry in
// one transaction. The UNIQUE(user_id, recorded_date) constraint means a
// second entry for the same date overwrites in place.
func (s *Store) UpsertWeightEntry(ctx context.Context, e models.WeightEntry) (*models.WeightEntry, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("postgres: starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		"UPDATE users SET weight_kg = @weightKg, updated_at = now() WHERE id = @userID",
		pgx.NamedArgs{"weightKg": e.WeightKg, "userID": e.UserID})
	if err != nil {
		if isOutOfRange(err) {
			return nil, apperror.ValidationFailed("weight_kg", "weight out of range")
		}
		return nil, fmt.Errorf("postgres: updating weight for user %d: %w", e.UserID, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperror.NotFound("user", e.UserID)
	}

	stored, err := s.writeWeightEntry(ctx, tx, e)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("postgres: committing weight entry: %w", err)
	}
	return stored, nil
}

// writeWeightEntry upserts the dated entry; notes already stored survive an
// overwrite that carries none.
func (s *Store) writeWeightEntry(ctx context.Context, q querier, e models.WeightEntry) (*models.WeightEntry, error) {
	stored, err := queryOne[models.WeightEntry](ctx, q, s.logger,
		`INSERT INTO weight_tracking (user_id, weight_kg, bmi, recorded_date, notes)
		 VALUES (@userID, @weightKg, @bmi, @date, @notes)
		 ON CONFLICT (user_id, recorded_date) DO UPDATE SET
			weight_kg = EXCLUDED.weight_kg,
			bmi       = EXCLUDED.bmi,
			notes     = COALESCE(EXCLUDED.notes, weight_tracking.notes)
		 RETURNING `+weightColumns,
		pgx.NamedArgs{
			"userID": e.UserID, "weightKg": e.WeightKg, "bmi": e.BMI,
			"date": e.Date.String(), "notes": e.Notes,
		})
	if err != nil {
		if isOutOfRange(err) {
			return nil, apperror.ValidationFailed("weight_kg", "weight or BMI out of range")
		}
		return nil, fmt.Errorf("postgres: upserting weight entry for user %d: %w", e.UserID, err)
	}
	return &stored, nil
}

func (s *Store) ListWeightEntries(ctx context.Context, userID int64, start, end models.DateOnly) ([]models.WeightEntry, error) {
	entries, err := queryMany[models.WeightEntry](ctx, s.pool, s.logger,
		`SELECT `+weightColumns+` FROM weight_tracking
		 WHERE user_id = @userID AND recorded_date >= @start AND recorded_date <= @end
		 ORDER BY recorded_date ASC`,
		pgx.NamedArgs{"userID": userID, "start": start.String(), "end": end.String()})
	if err != nil {
		return nil, fmt.Errorf("postgres: listing weight entries for user %d: %w", userID, err)
	}
	if entries == nil {
		entries = []models.WeightEntry{}
	}
	return entries, nil
}
