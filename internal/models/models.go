// Package models holds the stored records shared by the stores, services and
// front ends.
package models

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"lg/calorie-tracker-go/internal/nutrition"
)

const dateLayout = "2006-01-02"

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON.
type DateOnly struct{ time.Time }

// NewDateOnly truncates t to its calendar date in UTC.
func NewDateOnly(t time.Time) DateOnly {
	return DateOnly{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (DateOnly, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return DateOnly{}, err
	}
	return DateOnly{t}, nil
}

func (d DateOnly) String() string {
	return d.Time.Format(dateLayout)
}

// AddDays returns the date n days later (or earlier for negative n).
func (d DateOnly) AddDays(n int) DateOnly {
	return DateOnly{d.Time.AddDate(0, 0, n)}
}

// After reports whether d is a later calendar date than o.
func (d DateOnly) After(o DateOnly) bool {
	return d.String() > o.String()
}

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON leaves d zero for null or "".
func (d *DateOnly) UnmarshalJSON(b []byte) error {
	if s := string(b); s == "null" || s == `""` {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(`"2006-01-02"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ScanDate implements pgtype.DateScanner so pgx can scan PostgreSQL date
// columns into DateOnly.
func (d *DateOnly) ScanDate(v pgtype.Date) error {
	if !v.Valid {
		d.Time = time.Time{}
		return nil
	}
	d.Time = v.Time
	return nil
}

// MealType values match the stored enum labels.
type MealType string

const (
	Breakfast MealType = "Breakfast"
	Lunch     MealType = "Lunch"
	Dinner    MealType = "Dinner"
	Snack     MealType = "Snack"
)

// MealTypes lists meal types in menu order.
var MealTypes = []MealType{Breakfast, Lunch, Dinner, Snack}

// Valid reports whether m is one of the four meal types.
func (m MealType) Valid() bool {
	for _, v := range MealTypes {
		if m == v {
			return true
		}
	}
	return false
}

/* ─── Domain structs ─────────────────────────────────────────────────── */

// UserProfile maps to the users table. PasswordHash is hidden from JSON.
// DailyCalorieGoal is computed once at registration and never recomputed.
type UserProfile struct {
	ID               int64                   `json:"id"                 db:"id"`
	Username         string                  `json:"username"           db:"username"`
	Email            string                  `json:"email"              db:"email"`
	PasswordHash     string                  `json:"-"                  db:"password_hash"`
	Age              int                     `json:"age"                db:"age"`
	Gender           nutrition.Gender        `json:"gender"             db:"gender"`
	HeightCm         float64                 `json:"height_cm"          db:"height_cm"`
	WeightKg         float64                 `json:"weight_kg"          db:"weight_kg"`
	ActivityLevel    nutrition.ActivityLevel `json:"activity_level"     db:"activity_level"`
	GoalType         nutrition.GoalType      `json:"goal_type"          db:"goal_type"`
	GoalWeightKg     *float64                `json:"goal_weight_kg"     db:"goal_weight_kg"`
	DailyCalorieGoal *int                    `json:"daily_calorie_goal" db:"daily_calorie_goal"`
	CreatedAt        time.Time               `json:"created_at"         db:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"         db:"updated_at"`
}

// FoodItem maps to food_items. Macro fields are per 100g.
type FoodItem struct {
	ID              int64   `json:"id"                db:"id"`
	Name            string  `json:"name"              db:"name"`
	Category        string  `json:"category"          db:"category"`
	CaloriesPer100g float64 `json:"calories_per_100g" db:"calories_per_100g"`
	ProteinG        float64 `json:"protein_g"         db:"protein_g"`
	CarbsG          float64 `json:"carbs_g"           db:"carbs_g"`
	FatG            float64 `json:"fat_g"             db:"fat_g"`
}

// Per100g returns the food's macros in nutrition form.
func (f FoodItem) Per100g() nutrition.Macros {
	return nutrition.Macros{
		Calories: f.CaloriesPer100g,
		Protein:  f.ProteinG,
		Carbs:    f.CarbsG,
		Fat:      f.FatG,
	}
}

// IntakeRecord maps to daily_intake. (UserID, FoodID, Date, MealType) is
// unique; logging the same key again adds to QuantityG.
type IntakeRecord struct {
	ID        int64     `json:"id"         db:"id"`
	UserID    int64     `json:"user_id"    db:"user_id"`
	FoodID    int64     `json:"food_id"    db:"food_id"`
	Date      DateOnly  `json:"date"       db:"intake_date"`
	MealType  MealType  `json:"meal_type"  db:"meal_type"`
	QuantityG float64   `json:"quantity_g" db:"quantity_g"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// IntakeLine is an intake record joined with its food item.
type IntakeLine struct {
	Date            DateOnly `json:"date"              db:"intake_date"`
	MealType        MealType `json:"meal_type"         db:"meal_type"`
	QuantityG       float64  `json:"quantity_g"        db:"quantity_g"`
	FoodID          int64    `json:"food_id"           db:"food_id"`
	FoodName        string   `json:"food_name"         db:"food_name"`
	CaloriesPer100g float64  `json:"calories_per_100g" db:"calories_per_100g"`
	ProteinG        float64  `json:"protein_g"         db:"protein_g"`
	CarbsG          float64  `json:"carbs_g"           db:"carbs_g"`
	FatG            float64  `json:"fat_g"             db:"fat_g"`
}

// Portion converts the line for nutrition.Summarize.
func (l IntakeLine) Portion() nutrition.Portion {
	return nutrition.Portion{
		Per100g: nutrition.Macros{
			Calories: l.CaloriesPer100g,
			Protein:  l.ProteinG,
			Carbs:    l.CarbsG,
			Fat:      l.FatG,
		},
		QuantityG: l.QuantityG,
	}
}

// WeightEntry maps to weight_tracking. One row per (UserID, Date); recording
// the same date again overwrites WeightKg and BMI.
type WeightEntry struct {
	ID       int64    `json:"id"        db:"id"`
	UserID   int64    `json:"user_id"   db:"user_id"`
	WeightKg float64  `json:"weight_kg" db:"weight_kg"`
	BMI      *float64 `json:"bmi"       db:"bmi"`
	Date     DateOnly `json:"date"      db:"recorded_date"`
	Notes    *string  `json:"notes"     db:"notes"`
}
