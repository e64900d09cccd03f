package sqlite

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lg/calorie-tracker-go/internal/apperror"
	"lg/calorie-tracker-go/internal/models"
	"lg/calorie-tracker-go/internal/nutrition"
	"lg/calorie-tracker-go/internal/store"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *DB, username string) *models.UserProfile {
	t.Helper()
	goal := 2200
	u := &models.UserProfile{
		Username:         username,
		Email:            username + "@example.com",
		PasswordHash:     "hash",
		Age:              30,
		Gender:           nutrition.Male,
		HeightCm:         175,
		WeightKg:         70,
		ActivityLevel:    nutrition.Moderate,
		GoalType:         nutrition.Maintain,
		DailyCalorieGoal: &goal,
	}
	require.NoError(t, db.CreateUser(context.Background(), u))
	return u
}

func seedFoods(t *testing.T, db *DB) {
	t.Helper()
	_, err := db.SeedFoods(context.Background(), store.SampleFoods)
	require.NoError(t, err)
}

func mustDate(t *testing.T, s string) models.DateOnly {
	t.Helper()
	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return d
}

/* ─── Users ──────────────────────────────────────────────────────────── */

func TestCreateUser(t *testing.T) {
	db := newTestDB(t)
	u := createTestUser(t, db, "alice")

	assert.NotZero(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	got, err := db.GetProfile(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, nutrition.Male, got.Gender)
	assert.Equal(t, nutrition.Moderate, got.ActivityLevel)
	require.NotNil(t, got.DailyCalorieGoal)
	assert.Equal(t, 2200, *got.DailyCalorieGoal)
	assert.Nil(t, got.GoalWeightKg)
}

func TestCreateUser_Duplicate(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "alice")

	dup := &models.UserProfile{
		Username: "alice", Email: "other@example.com", PasswordHash: "x",
		Age: 20, Gender: nutrition.Female, HeightCm: 160, WeightKg: 55,
		ActivityLevel: nutrition.Light, GoalType: nutrition.Lose,
	}
	err := db.CreateUser(context.Background(), dup)
	assert.True(t, errors.Is(err, apperror.ErrConflict), "got %v", err)
}

func TestCreateUserWithWeight(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := &models.UserProfile{
		Username: "bob", Email: "bob@example.com", PasswordHash: "x",
		Age: 40, Gender: nutrition.Male, HeightCm: 180, WeightKg: 90,
		ActivityLevel: nutrition.Active, GoalType: nutrition.Lose,
	}
	bmi := 27.78
	day := mustDate(t, "2026-10-01")

	entry, err := db.CreateUserWithWeight(ctx, u, models.WeightEntry{UserID: 999, WeightKg: 90, BMI: &bmi, Date: day})
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, u.ID, entry.UserID, "entry belongs to the new user")
	assert.Equal(t, day.String(), entry.Date.String())

	entries, err := db.ListWeightEntries(ctx, u.ID, day, day)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCreateUserWithWeight_RollsBackOnEntryFailure(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	newUser := func() *models.UserProfile {
		return &models.UserProfile{
			Username: "bob", Email: "bob@example.com", PasswordHash: "x",
			Age: 40, Gender: nutrition.Male, HeightCm: 180, WeightKg: 90,
			ActivityLevel: nutrition.Active, GoalType: nutrition.Maintain,
		}
	}
	day := mustDate(t, "2026-10-01")

	_, err := db.CreateUserWithWeight(ctx, newUser(), models.WeightEntry{WeightKg: -1, Date: day})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrValidation), "got %v", err)

	_, err = db.GetUserByUsername(ctx, "bob")
	assert.True(t, errors.Is(err, apperror.ErrNotFound), "user row must not survive, got %v", err)

	u := newUser()
	_, err = db.CreateUserWithWeight(ctx, u, models.WeightEntry{WeightKg: 90, Date: day})
	require.NoError(t, err, "retry after a failed registration")
	entries, err := db.ListWeightEntries(ctx, u.ID, day, day)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCreateUserWithWeight_DuplicateWritesNothing(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	createTestUser(t, db, "alice")

	dup := &models.UserProfile{
		Username: "alice", Email: "other@example.com", PasswordHash: "x",
		Age: 20, Gender: nutrition.Female, HeightCm: 160, WeightKg: 55,
		ActivityLevel: nutrition.Light, GoalType: nutrition.Maintain,
	}
	_, err := db.CreateUserWithWeight(ctx, dup, models.WeightEntry{WeightKg: 55, Date: mustDate(t, "2026-10-01")})
	assert.True(t, errors.Is(err, apperror.ErrConflict), "got %v", err)

	var n int
	require.NoError(t, db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM weight_tracking").Scan(&n))
	assert.Zero(t, n)
}

func TestGetUserByUsername_NotFound(t *testing.T) {
	db := newTestDB(t)
	_, err := db.GetUserByUsername(context.Background(), "ghost")
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestDeleteUser_Cascades(t *testing.T) {
	db := newTestDB(t)
	seedFoods(t, db)
	u := createTestUser(t, db, "alice")
	ctx := context.Background()
	day := mustDate(t, "2026-10-01")

	_, err := db.LogIntake(ctx, models.IntakeRecord{UserID: u.ID, FoodID: 1, Date: day, MealType: models.Lunch, QuantityG: 100})
	require.NoError(t, err)
	_, err = db.UpsertWeightEntry(ctx, models.WeightEntry{UserID: u.ID, WeightKg: 70, Date: day})
	require.NoError(t, err)

	require.NoError(t, db.DeleteUser(ctx, u.ID))

	var n int
	require.NoError(t, db.conn.QueryRow("SELECT COUNT(*) FROM daily_intake").Scan(&n))
	assert.Zero(t, n)
	require.NoError(t, db.conn.QueryRow("SELECT COUNT(*) FROM weight_tracking").Scan(&n))
	assert.Zero(t, n)

	assert.True(t, errors.Is(db.DeleteUser(ctx, u.ID), apperror.ErrNotFound))
}

/* ─── Foods ──────────────────────────────────────────────────────────── */

func TestSeedFoods_OnlyWhenEmpty(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	n, err := db.SeedFoods(ctx, store.SampleFoods)
	require.NoError(t, err)
	assert.Equal(t, len(store.SampleFoods), n)

	n, err = db.SeedFoods(ctx, store.SampleFoods)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSearchFoods(t *testing.T) {
	db := newTestDB(t)
	seedFoods(t, db)
	ctx := context.Background()

	foods, err := db.SearchFoods(ctx, "CHICKEN", 10)
	require.NoError(t, err)
	require.NotEmpty(t, foods)
	assert.Equal(t, "Chicken Breast", foods[0].Name)

	foods, err = db.SearchFoods(ctx, "fruit", 10)
	require.NoError(t, err)
	for _, f := range foods {
		assert.Equal(t, "Fruit", f.Category)
	}

	foods, err = db.SearchFoods(ctx, "", 5)
	require.NoError(t, err)
	assert.Len(t, foods, 5)

	foods, err = db.SearchFoods(ctx, "zzz", 10)
	require.NoError(t, err)
	assert.Empty(t, foods)
}

func TestSearchFoods_WildcardsMatchLiterally(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	_, err := db.SeedFoods(ctx, []models.FoodItem{
		{Name: "Orange Juice 100%", Category: "Drinks", CaloriesPer100g: 45},
		{Name: "Oat_Bar", Category: "Snacks", CaloriesPer100g: 400},
		{Name: "Apple", Category: "Fruit", CaloriesPer100g: 52},
	})
	require.NoError(t, err)

	tests := []struct {
		term string
		want []string
	}{
		{"%", []string{"Orange Juice 100%"}},
		{"_", []string{"Oat_Bar"}},
		{"0%", []string{"Orange Juice 100%"}},
		{"t_b", []string{"Oat_Bar"}},
		{`\`, nil},
		{"p%e", nil},
	}
	for _, tc := range tests {
		foods, err := db.SearchFoods(ctx, tc.term, 10)
		require.NoError(t, err, tc.term)
		var names []string
		for _, f := range foods {
			names = append(names, f.Name)
		}
		assert.Equal(t, tc.want, names, "SearchFoods(%q)", tc.term)
	}
}

func TestGetFoodItem_NotFound(t *testing.T) {
	db := newTestDB(t)
	_, err := db.GetFoodItem(context.Background(), 999)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

/* ─── Intake ─────────────────────────────────────────────────────────── */

func TestLogIntake_AccumulatesSameKey(t *testing.T) {
	db := newTestDB(t)
	seedFoods(t, db)
	u := createTestUser(t, db, "alice")
	ctx := context.Background()
	day := mustDate(t, "2026-10-01")

	rec := models.IntakeRecord{UserID: u.ID, FoodID: 1, Date: day, MealType: models.Breakfast, QuantityG: 100}
	first, err := db.LogIntake(ctx, rec)
	require.NoError(t, err)
	rec.QuantityG = 50
	second, err := db.LogIntake(ctx, rec)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.InDelta(t, 150, second.QuantityG, 1e-9)

	// Different meal type is a separate row.
	rec.MealType = models.Dinner
	_, err = db.LogIntake(ctx, rec)
	require.NoError(t, err)

	lines, err := db.ListIntake(ctx, u.ID, day)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "Apple", lines[0].FoodName)
	assert.Equal(t, day.String(), lines[0].Date.String())
}

func TestLogIntake_UnknownFood(t *testing.T) {
	db := newTestDB(t)
	u := createTestUser(t, db, "alice")
	_, err := db.LogIntake(context.Background(), models.IntakeRecord{
		UserID: u.ID, FoodID: 42, Date: mustDate(t, "2026-10-01"), MealType: models.Snack, QuantityG: 10,
	})
	assert.True(t, errors.Is(err, apperror.ErrNotFound), "got %v", err)
}

func TestLogIntake_OutOfRangeQuantity(t *testing.T) {
	db := newTestDB(t)
	seedFoods(t, db)
	u := createTestUser(t, db, "alice")
	_, err := db.LogIntake(context.Background(), models.IntakeRecord{
		UserID: u.ID, FoodID: 1, Date: mustDate(t, "2026-10-01"), MealType: models.Snack, QuantityG: -3,
	})
	assert.True(t, errors.Is(err, apperror.ErrValidation), "got %v", err)
}

func TestListIntakeRange_InclusiveBounds(t *testing.T) {
	db := newTestDB(t)
	seedFoods(t, db)
	u := createTestUser(t, db, "alice")
	ctx := context.Background()

	for _, d := range []string{"2026-09-30", "2026-10-01", "2026-10-07", "2026-10-08"} {
		_, err := db.LogIntake(ctx, models.IntakeRecord{UserID: u.ID, FoodID: 2, Date: mustDate(t, d), MealType: models.Lunch, QuantityG: 100})
		require.NoError(t, err)
	}

	lines, err := db.ListIntakeRange(ctx, u.ID, mustDate(t, "2026-10-01"), mustDate(t, "2026-10-07"))
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "2026-10-01", lines[0].Date.String())
	assert.Equal(t, "2026-10-07", lines[1].Date.String())
}

/* ─── Weight ─────────────────────────────────────────────────────────── */

func TestUpsertWeightEntry_SameDateOverwrites(t *testing.T) {
	db := newTestDB(t)
	u := createTestUser(t, db, "alice")
	ctx := context.Background()
	day := mustDate(t, "2026-10-01")
	note := "morning"
	bmi1, bmi2 := 22.86, 22.53

	first, err := db.UpsertWeightEntry(ctx, models.WeightEntry{UserID: u.ID, WeightKg: 70, BMI: &bmi1, Date: day, Notes: &note})
	require.NoError(t, err)
	second, err := db.UpsertWeightEntry(ctx, models.WeightEntry{UserID: u.ID, WeightKg: 69, BMI: &bmi2, Date: day})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.InDelta(t, 69, second.WeightKg, 1e-9)
	require.NotNil(t, second.BMI)
	assert.InDelta(t, 22.53, *second.BMI, 1e-9)
	require.NotNil(t, second.Notes)
	assert.Equal(t, "morning", *second.Notes)

	profile, err := db.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.InDelta(t, 69, profile.WeightKg, 1e-9)

	entries, err := db.ListWeightEntries(ctx, u.ID, day, day)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestUpsertWeightEntry_UnknownUser(t *testing.T) {
	db := newTestDB(t)
	_, err := db.UpsertWeightEntry(context.Background(), models.WeightEntry{UserID: 7, WeightKg: 70, Date: mustDate(t, "2026-10-01")})
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestUpsertWeightEntry_NonPositiveWeight(t *testing.T) {
	db := newTestDB(t)
	u := createTestUser(t, db, "alice")
	_, err := db.UpsertWeightEntry(context.Background(), models.WeightEntry{UserID: u.ID, WeightKg: 0, Date: mustDate(t, "2026-10-01")})
	assert.True(t, errors.Is(err, apperror.ErrValidation), "got %v", err)

	got, err := db.GetProfile(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, 70.0, got.WeightKg, "profile weight unchanged")
}

func TestListWeightEntries_Ascending(t *testing.T) {
	db := newTestDB(t)
	u := createTestUser(t, db, "alice")
	ctx := context.Background()

	for _, d := range []string{"2026-10-05", "2026-10-01", "2026-10-03"} {
		_, err := db.UpsertWeightEntry(ctx, models.WeightEntry{UserID: u.ID, WeightKg: 70, Date: mustDate(t, d)})
		require.NoError(t, err)
	}

	entries, err := db.ListWeightEntries(ctx, u.ID, mustDate(t, "2026-10-01"), mustDate(t, "2026-10-04"))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "2026-10-01", entries[0].Date.String())
	assert.Equal(t, "2026-10-03", entries[1].Date.String())
	assert.Nil(t, entries[0].BMI)
}
