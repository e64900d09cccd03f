package service

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"

	"lg/calorie-tracker-go/internal/apperror"
	"lg/calorie-tracker-go/internal/models"
	"lg/calorie-tracker-go/internal/nutrition"
	"lg/calorie-tracker-go/internal/store"
	"lg/calorie-tracker-go/internal/validation"
)

// FoodSearchLimit caps SearchFoods results.
const FoodSearchLimit = 10

// IntakeStore is the slice of the store IntakeService needs.
type IntakeStore interface {
	store.UserRepository
	store.FoodRepository
	store.IntakeRepository
}

// IntakeService logs food and reports daily totals against the goal.
type IntakeService struct {
	store  IntakeStore
	logger *slog.Logger
	now    func() time.Time
}

func NewIntakeService(st IntakeStore, logger *slog.Logger) *IntakeService {
	return &IntakeService{store: st, logger: logger, now: time.Now}
}

func (s *IntakeService) today() models.DateOnly {
	return models.NewDateOnly(s.now())
}

// SearchFoods matches name or category. A blank term lists the first items.
func (s *IntakeService) SearchFoods(ctx context.Context, term string) ([]models.FoodItem, error) {
	foods, err := s.store.SearchFoods(ctx, strings.TrimSpace(term), FoodSearchLimit)
	if err != nil {
		s.logger.Error("food search failed", "term", term, "err", err)
		return nil, err
	}
	return foods, nil
}

func (s *IntakeService) Food(ctx context.Context, foodID int64) (*models.FoodItem, error) {
	return s.store.GetFoodItem(ctx, foodID)
}

// LogIntakeInput is one food log action. A zero Date means today.
type LogIntakeInput struct {
	FoodID    int64           `json:"food_id"`
	QuantityG float64         `json:"quantity_g"`
	MealType  models.MealType `json:"meal_type"`
	Date      models.DateOnly `json:"date"`
}

// LogIntake records the portion. Logging the same food, meal and date again
// adds to the stored quantity.
func (s *IntakeService) LogIntake(ctx context.Context, sess *Session, in LogIntakeInput) (*models.IntakeRecord, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}

	v := validation.Violations{}
	validation.QuantityG("quantity_g", in.QuantityG, v)
	if !in.MealType.Valid() {
		v["meal_type"] = "meal type must be Breakfast, Lunch, Dinner or Snack"
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	// Stored with two decimals.
	in.QuantityG = math.Round(in.QuantityG*100) / 100
	if in.Date.IsZero() {
		in.Date = s.today()
	}
	if in.Date.After(s.today()) {
		return nil, apperror.ValidationFailed("date", "cannot log food for a future date")
	}

	food, err := s.store.GetFoodItem(ctx, in.FoodID)
	if err != nil {
		return nil, err
	}

	rec, err := s.store.LogIntake(ctx, models.IntakeRecord{
		UserID:    sess.UserID,
		FoodID:    food.ID,
		Date:      in.Date,
		MealType:  in.MealType,
		QuantityG: in.QuantityG,
	})
	if err != nil {
		s.logger.Error("food intake logging failed", "user_id", sess.UserID, "err", err)
		return nil, err
	}
	s.logger.Info("food intake logged",
		"user_id", sess.UserID, "food_id", food.ID, "quantity_g", in.QuantityG,
		"meal_type", in.MealType, "date", in.Date.String())
	return rec, nil
}

// SummarizeDay totals the user's intake for date. ok is false when nothing was
// logged that day.
func (s *IntakeService) SummarizeDay(ctx context.Context, userID int64, date models.DateOnly) (nutrition.DaySummary, bool, error) {
	lines, err := s.store.ListIntake(ctx, userID, date)
	if err != nil {
		s.logger.Error("daily summary failed", "user_id", userID, "err", err)
		return nutrition.DaySummary{}, false, err
	}
	summary, ok := nutrition.Summarize(portions(lines))
	return summary, ok, nil
}

func portions(lines []models.IntakeLine) []nutrition.Portion {
	out := make([]nutrition.Portion, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.Portion())
	}
	return out
}

// DailyReport compares one day's intake with the goal. Without intake only
// Date and Goal are set.
type DailyReport struct {
	Date       models.DateOnly       `json:"date"`
	Goal       int                   `json:"goal"`
	HasData    bool                  `json:"has_data"`
	Summary    *nutrition.DaySummary `json:"summary,omitempty"`
	Evaluation *nutrition.Evaluation `json:"evaluation,omitempty"`
	Progress   float64               `json:"progress"`
	Ratio      *nutrition.Ratio      `json:"ratio,omitempty"`
	Lines      []models.IntakeLine   `json:"lines,omitempty"`
}

func (s *IntakeService) DailyReport(ctx context.Context, sess *Session, date models.DateOnly) (*DailyReport, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = s.today()
	}
	p, err := s.store.GetProfile(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	lines, err := s.store.ListIntake(ctx, sess.UserID, date)
	if err != nil {
		s.logger.Error("daily summary failed", "user_id", sess.UserID, "err", err)
		return nil, err
	}

	report := &DailyReport{Date: date, Goal: GoalFor(p)}
	summary, ok := nutrition.Summarize(portions(lines))
	if !ok {
		return report, nil
	}
	eval := nutrition.Evaluate(summary.TotalCalories, report.Goal)
	report.HasData = true
	report.Summary = &summary
	report.Evaluation = &eval
	report.Progress = nutrition.Progress(summary.TotalCalories, report.Goal)
	report.Lines = lines
	if ratio, ok := nutrition.MacroRatio(summary); ok {
		report.Ratio = &ratio
	}
	return report, nil
}

// DaySummaryEntry is one day of a WeekSummary.
type DaySummaryEntry struct {
	Date       models.DateOnly       `json:"date"`
	HasData    bool                  `json:"has_data"`
	Summary    *nutrition.DaySummary `json:"summary,omitempty"`
	Evaluation *nutrition.Evaluation `json:"evaluation,omitempty"`
}

// mondayOf returns the Monday of d's Mon-Sun week.
func mondayOf(d models.DateOnly) models.DateOnly {
	weekday := int(d.Weekday()) // 0=Sun
	if weekday == 0 {
		weekday = 7
	}
	return d.AddDays(1 - weekday)
}

// WeekSummary covers seven consecutive days starting at Start. Start defaults
// to the current Monday.
type WeekSummary struct {
	Start         models.DateOnly   `json:"start"`
	End           models.DateOnly   `json:"end"`
	Goal          int               `json:"goal"`
	Days          []DaySummaryEntry `json:"days"`
	TotalCalories float64           `json:"total_calories"`
	// AverageCalories is over the days with data only.
	AverageCalories float64 `json:"average_calories"`
	DaysLogged      int     `json:"days_logged"`
}

func (s *IntakeService) WeekSummary(ctx context.Context, sess *Session, weekStart models.DateOnly) (*WeekSummary, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	if weekStart.IsZero() {
		weekStart = mondayOf(s.today())
	}
	end := weekStart.AddDays(6)

	p, err := s.store.GetProfile(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	lines, err := s.store.ListIntakeRange(ctx, sess.UserID, weekStart, end)
	if err != nil {
		s.logger.Error("week summary failed", "user_id", sess.UserID, "err", err)
		return nil, err
	}

	byDate := make(map[string][]models.IntakeLine)
	for _, l := range lines {
		key := l.Date.String()
		byDate[key] = append(byDate[key], l)
	}

	week := &WeekSummary{Start: weekStart, End: end, Goal: GoalFor(p)}
	for i := 0; i < 7; i++ {
		day := weekStart.AddDays(i)
		entry := DaySummaryEntry{Date: day}
		if summary, ok := nutrition.Summarize(portions(byDate[day.String()])); ok {
			eval := nutrition.Evaluate(summary.TotalCalories, week.Goal)
			entry.HasData = true
			entry.Summary = &summary
			entry.Evaluation = &eval
			week.TotalCalories += summary.TotalCalories
			week.DaysLogged++
		}
		week.Days = append(week.Days, entry)
	}
	if week.DaysLogged > 0 {
		week.AverageCalories = week.TotalCalories / float64(week.DaysLogged)
	}
	return week, nil
}
