// Package service holds the user-facing operations shared by the interactive
// menu and the JSON API. Every user-scoped call takes an explicit *Session.
package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"lg/calorie-tracker-go/internal/apperror"
	"lg/calorie-tracker-go/internal/auth"
	"lg/calorie-tracker-go/internal/models"
	"lg/calorie-tracker-go/internal/nutrition"
	"lg/calorie-tracker-go/internal/store"
	"lg/calorie-tracker-go/internal/validation"
)

// ProfileStore is the slice of the store ProfileService needs.
type ProfileStore interface {
	store.UserRepository
	store.WeightRepository
}

// ProfileService registers users, logs them in and out, and records weight.
type ProfileService struct {
	store    ProfileStore
	hasher   auth.Hasher
	sessions *Sessions
	logger   *slog.Logger
	now      func() time.Time

	// dummyHash is verified against when the username is unknown so a failed
	// lookup costs the same as a wrong password.
	dummyHash string
}

func NewProfileService(st ProfileStore, hasher auth.Hasher, sessions *Sessions, logger *slog.Logger) (*ProfileService, error) {
	dummy, err := hasher.Hash("dummy-password-1")
	if err != nil {
		return nil, err
	}
	return &ProfileService{
		store:     st,
		hasher:    hasher,
		sessions:  sessions,
		logger:    logger,
		now:       time.Now,
		dummyHash: dummy,
	}, nil
}

func (s *ProfileService) today() models.DateOnly {
	return models.NewDateOnly(s.now())
}

// RegisterInput is the registration form. Gender, activity level and goal are
// parsed leniently (case-insensitive, "very_active" accepted).
type RegisterInput struct {
	Username      string   `json:"username"`
	Password      string   `json:"password"`
	Email         string   `json:"email"`
	Age           int      `json:"age"`
	Gender        string   `json:"gender"`
	HeightCm      float64  `json:"height_cm"`
	WeightKg      float64  `json:"weight_kg"`
	ActivityLevel string   `json:"activity_level"`
	GoalType      string   `json:"goal_type"`
	GoalWeightKg  *float64 `json:"goal_weight_kg"`
}

// Register validates the input, computes the daily calorie goal once and
// stores the profile together with an initial weight entry dated today. Both
// rows are written or neither is.
func (s *ProfileService) Register(ctx context.Context, in RegisterInput) (*models.UserProfile, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	v := validation.Violations{}
	validation.Required("username", in.Username, v)
	validation.Password("password", in.Password, v)
	validation.Email("email", in.Email, v)
	validation.Age("age", in.Age, v)
	validation.HeightCm("height_cm", in.HeightCm, v)
	validation.WeightKg("weight_kg", in.WeightKg, v)

	gender, ok := nutrition.ParseGender(in.Gender)
	if !ok {
		v["gender"] = "gender must be Male, Female or Other"
	}
	level, ok := nutrition.ParseActivityLevel(in.ActivityLevel)
	if !ok {
		v["activity_level"] = "unknown activity level"
	}
	goalType := nutrition.Maintain
	if in.GoalType != "" {
		if goalType, ok = nutrition.ParseGoalType(in.GoalType); !ok {
			v["goal_type"] = "goal must be lose, maintain or gain"
		}
	}
	if in.GoalWeightKg != nil {
		validation.WeightKg("goal_weight_kg", *in.GoalWeightKg, v)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	// Registration uses the strict lookups; the live path falls back instead.
	multiplier, ok := nutrition.Multiplier(level)
	if !ok {
		return nil, apperror.ValidationFailed("activity_level", "unknown activity level")
	}
	bmr := nutrition.BMR(in.WeightKg, in.HeightCm, in.Age, gender)
	goal := nutrition.DailyGoal(bmr*multiplier, goalType)

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperror.ValidationFailed("password", err.Error())
	}

	goalWeight := in.GoalWeightKg
	if goalType == nutrition.Maintain {
		goalWeight = nil
	}
	u := &models.UserProfile{
		Username:         in.Username,
		Email:            in.Email,
		PasswordHash:     hash,
		Age:              in.Age,
		Gender:           gender,
		HeightCm:         in.HeightCm,
		WeightKg:         in.WeightKg,
		ActivityLevel:    level,
		GoalType:         goalType,
		GoalWeightKg:     goalWeight,
		DailyCalorieGoal: &goal,
	}
	bmi, ok := nutrition.BMI(in.WeightKg, in.HeightCm)
	if !ok {
		return nil, apperror.ValidationFailed("height_cm", "height must be positive")
	}
	initial := models.WeightEntry{WeightKg: in.WeightKg, BMI: &bmi, Date: s.today()}
	if _, err := s.store.CreateUserWithWeight(ctx, u, initial); err != nil {
		s.logger.Error("user registration failed", "username", u.Username, "err", err)
		return nil, err
	}

	s.logger.Info("new user registered", "username", u.Username, "user_id", u.ID, "daily_calorie_goal", goal)
	return u, nil
}

// Login checks the credentials and opens a new session.
func (s *ProfileService) Login(ctx context.Context, username, password string) (*Session, error) {
	username = strings.TrimSpace(username)
	u, lookupErr := s.store.GetUserByUsername(ctx, username)
	if lookupErr != nil && !errors.Is(lookupErr, apperror.ErrNotFound) {
		s.logger.Error("login lookup failed", "username", username, "err", lookupErr)
		return nil, lookupErr
	}

	hashToCheck := s.dummyHash
	if lookupErr == nil {
		hashToCheck = u.PasswordHash
	}
	verifyErr := s.hasher.Verify(hashToCheck, password)

	if lookupErr != nil || verifyErr != nil {
		s.logger.Warn("failed login attempt", "username", username)
		return nil, apperror.Unauthorized("invalid username or password")
	}

	sess := &Session{
		ID:        uuid.New(),
		UserID:    u.ID,
		Username:  u.Username,
		StartedAt: s.now(),
	}
	s.sessions.Add(sess)
	s.logger.Info("user logged in", "username", u.Username)
	return sess, nil
}

// Logout ends sess. A nil session is ignored.
func (s *ProfileService) Logout(sess *Session) {
	if sess == nil {
		return
	}
	s.sessions.Remove(sess.ID)
	s.logger.Info("user logged out", "username", sess.Username)
}

// Session resolves a bearer token to its live session.
func (s *ProfileService) Session(token string) (*Session, error) {
	return s.sessions.Get(token)
}

func requireSession(sess *Session) error {
	if sess == nil {
		return apperror.Unauthorized("please login first")
	}
	return nil
}

// ProfileView is a profile with its derived health metrics.
type ProfileView struct {
	Profile        *models.UserProfile   `json:"profile"`
	BMI            float64               `json:"bmi"`
	HasBMI         bool                  `json:"has_bmi"`
	Category       nutrition.BMICategory `json:"bmi_category"`
	Recommendation string                `json:"recommendation"`
	BMR            float64               `json:"bmr"`
	DailyGoal      int                   `json:"daily_calorie_goal"`
	// RemainingKg is the distance to the goal weight; nil when maintaining or
	// no target is set.
	RemainingKg *float64 `json:"remaining_kg,omitempty"`
}

func (s *ProfileService) Profile(ctx context.Context, sess *Session) (*ProfileView, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	p, err := s.store.GetProfile(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}

	view := &ProfileView{
		Profile:   p,
		BMR:       nutrition.BMR(p.WeightKg, p.HeightCm, p.Age, p.Gender),
		DailyGoal: GoalFor(p),
		Category:  nutrition.Unknown,
	}
	if bmi, ok := nutrition.BMI(p.WeightKg, p.HeightCm); ok {
		view.BMI = bmi
		view.HasBMI = true
		view.Category = nutrition.ClassifyBMI(bmi)
	}
	view.Recommendation = nutrition.Recommend(view.Category)

	if p.GoalType != nutrition.Maintain && p.GoalWeightKg != nil {
		remaining := math.Abs(p.WeightKg - *p.GoalWeightKg)
		view.RemainingKg = &remaining
	}
	return view, nil
}

// GoalFor returns the stored daily goal, or the maintenance estimate for a
// profile that has none.
func GoalFor(p *models.UserProfile) int {
	if p.DailyCalorieGoal != nil {
		return *p.DailyCalorieGoal
	}
	bmr := nutrition.BMR(p.WeightKg, p.HeightCm, p.Age, p.Gender)
	return int(math.Round(nutrition.TDEE(bmr, p.ActivityLevel)))
}

// RecordWeight writes the weight for date and updates the profile weight.
// Recording the same date again overwrites the entry.
func (s *ProfileService) RecordWeight(ctx context.Context, sess *Session, weightKg float64, date models.DateOnly) (*models.WeightEntry, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	v := validation.Violations{}
	validation.WeightKg("weight_kg", weightKg, v)
	if err := v.Err(); err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = s.today()
	}
	if date.After(s.today()) {
		return nil, apperror.ValidationFailed("date", "cannot record weight for a future date")
	}

	p, err := s.store.GetProfile(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	return s.recordWeight(ctx, p, weightKg, date)
}

func (s *ProfileService) recordWeight(ctx context.Context, p *models.UserProfile, weightKg float64, date models.DateOnly) (*models.WeightEntry, error) {
	bmi, ok := nutrition.BMI(weightKg, p.HeightCm)
	if !ok {
		s.logger.Warn("weight tracking failed: height missing", "user_id", p.ID)
		return nil, apperror.ValidationFailed("height_cm", "cannot track weight: user height not found")
	}

	entry, err := s.store.UpsertWeightEntry(ctx, models.WeightEntry{
		UserID:   p.ID,
		WeightKg: weightKg,
		BMI:      &bmi,
		Date:     date,
	})
	if err != nil {
		s.logger.Error("weight tracking failed", "user_id", p.ID, "err", err)
		return nil, err
	}
	s.logger.Info("weight recorded", "user_id", p.ID, "weight_kg", weightKg, "bmi", bmi, "date", date.String())
	return entry, nil
}

// WeightHistory lists entries with start <= date <= end, oldest first.
func (s *ProfileService) WeightHistory(ctx context.Context, sess *Session, start, end models.DateOnly) ([]models.WeightEntry, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, apperror.ValidationFailed("start", "start date must not be after end date")
	}
	return s.store.ListWeightEntries(ctx, sess.UserID, start, end)
}
