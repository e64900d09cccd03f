package sqlite

import (
	"context"
	"fmt"

	"lg/calorie-tracker-go/internal/apperror"
	"lg/calorie-tracker-go/internal/models"
)

func (db *DB) UpsertWeightEntry(ctx context.Context, e models.WeightEntry) (*models.WeightEntry, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: starting transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE users SET weight_kg = ?, updated_at = ? WHERE id = ?",
		e.WeightKg, now(), e.UserID)
	if err != nil {
		if isCheckViolation(err) {
			return nil, apperror.ValidationFailed("weight_kg", "weight must be positive")
		}
		return nil, fmt.Errorf("sqlite: updating weight for user %d: %w", e.UserID, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("sqlite: checking rows affected: %w", err)
	} else if n == 0 {
		return nil, apperror.NotFound("user", e.UserID)
	}

	stored, err := writeWeightEntry(ctx, tx, e)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlite: committing weight entry: %w", err)
	}
	return stored, nil
}

// writeWeightEntry upserts the dated entry on UNIQUE(user_id, recorded_date).
// Notes already stored survive an overwrite that carries none.
func writeWeightEntry(ctx context.Context, q execQuerier, e models.WeightEntry) (*models.WeightEntry, error) {
	var (
		stored models.WeightEntry
		date   string
	)
	err := q.QueryRowContext(ctx,
		`INSERT INTO weight_tracking (user_id, weight_kg, bmi, recorded_date, notes)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, recorded_date) DO UPDATE SET
			weight_kg = excluded.weight_kg,
			bmi       = excluded.bmi,
			notes     = COALESCE(excluded.notes, weight_tracking.notes)
		 RETURNING id, user_id, weight_kg, bmi, recorded_date, notes`,
		e.UserID, e.WeightKg, e.BMI, e.Date.String(), e.Notes,
	).Scan(&stored.ID, &stored.UserID, &stored.WeightKg, &stored.BMI, &date, &stored.Notes)
	if err != nil {
		if isCheckViolation(err) {
			return nil, apperror.ValidationFailed("weight_kg", "weight must be positive")
		}
		return nil, fmt.Errorf("sqlite: upserting weight entry for user %d: %w", e.UserID, err)
	}
	if stored.Date, err = parseDate(date); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (db *DB) ListWeightEntries(ctx context.Context, userID int64, start, end models.DateOnly) ([]models.WeightEntry, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, weight_kg, bmi, recorded_date, notes FROM weight_tracking
		 WHERE user_id = ? AND recorded_date >= ? AND recorded_date <= ?
		 ORDER BY recorded_date ASC`,
		userID, start.String(), end.String())
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing weight entries for user %d: %w", userID, err)
	}
	defer rows.Close()

	entries := []models.WeightEntry{}
	for rows.Next() {
		var (
			e    models.WeightEntry
			date string
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.WeightKg, &e.BMI, &date, &e.Notes); err != nil {
			return nil, fmt.Errorf("sqlite: scanning weight entry: %w", err)
		}
		if e.Date, err = parseDate(date); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
