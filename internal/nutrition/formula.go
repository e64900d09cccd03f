// Package nutrition holds the pure calorie, BMI and macro arithmetic used by the
// tracker. Nothing in here touches the database or the console; callers fetch
// records first and hand plain values in.
package nutrition

import (
	"math"
	"strings"
)

// Gender selects the Mifflin-St Jeor constant. Only Male gets +5; every other
// value (Female, Other, anything unrecognised) gets -161.
type Gender string

const (
	Male   Gender = "Male"
	Female Gender = "Female"
	Other  Gender = "Other"
)

// ActivityLevel values match the stored enum labels.
type ActivityLevel string

const (
	Sedentary  ActivityLevel = "Sedentary"
	Light      ActivityLevel = "Light"
	Moderate   ActivityLevel = "Moderate"
	Active     ActivityLevel = "Active"
	VeryActive ActivityLevel = "Very Active"
)

// GoalType is the user's weight goal.
type GoalType string

const (
	Lose     GoalType = "lose"
	Maintain GoalType = "maintain"
	Gain     GoalType = "gain"
)

// BMICategory is the result of ClassifyBMI.
type BMICategory string

const (
	Underweight BMICategory = "Underweight"
	Normal      BMICategory = "Normal"
	Overweight  BMICategory = "Overweight"
	Obese       BMICategory = "Obese"
	Unknown     BMICategory = "Unknown"
)

// fallbackMultiplier is used on the live path when the stored activity level
// is not one of the five known values.
const fallbackMultiplier = 1.2

// activityMultipliers maps activity levels to their TDEE multiplier. Also the
// source of truth for which levels registration accepts.
var activityMultipliers = map[ActivityLevel]float64{
	Sedentary:  1.2,
	Light:      1.375,
	Moderate:   1.55,
	Active:     1.725,
	VeryActive: 1.9,
}

// ActivityLevels lists the valid levels in menu order.
var ActivityLevels = []ActivityLevel{Sedentary, Light, Moderate, Active, VeryActive}

// goalAdjustments is the daily calorie offset per goal (~0.5kg/week loss,
// ~0.3kg/week gain).
var goalAdjustments = map[GoalType]int{
	Lose:     -500,
	Maintain: 0,
	Gain:     300,
}

// bmiBands are ordered, non-overlapping half-open intervals [Min, Max).
var bmiBands = []struct {
	Category BMICategory
	Min, Max float64
}{
	{Underweight, 0, 18.5},
	{Normal, 18.5, 25},
	{Overweight, 25, 30},
	{Obese, 30, 100},
}

var recommendations = map[BMICategory]string{
	Underweight: "Consider consulting a nutritionist to develop a healthy weight gain plan.",
	Normal:      "Great job! Maintain your current lifestyle and healthy eating habits.",
	Overweight:  "Consider increasing physical activity and reviewing your diet with a professional.",
	Obese:       "We recommend consulting a healthcare provider for a personalized weight management plan.",
}

const defaultRecommendation = "Consult a healthcare professional for personalized advice."

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// BMR computes basal metabolic rate (kcal/day) with the Mifflin-St Jeor
// equation, rounded to 2 decimals. Inputs are assumed already validated.
func BMR(weightKg, heightCm float64, ageYears int, g Gender) float64 {
	bmr := 10*weightKg + 6.25*heightCm - 5*float64(ageYears)
	if g == Male {
		bmr += 5
	} else {
		bmr -= 161
	}
	return round2(bmr)
}

// BMI computes body mass index rounded to 2 decimals. Returns ok=false when
// heightCm is not positive.
func BMI(weightKg, heightCm float64) (float64, bool) {
	if heightCm <= 0 {
		return 0, false
	}
	m := heightCm / 100
	return round2(weightKg / (m * m)), true
}

// ClassifyBMI looks bmi up in the category bands. Values below 0 or at/above
// 100 are Unknown.
func ClassifyBMI(bmi float64) BMICategory {
	for _, b := range bmiBands {
		if bmi >= b.Min && bmi < b.Max {
			return b.Category
		}
	}
	return Unknown
}

// Recommend returns the health recommendation for a category.
func Recommend(c BMICategory) string {
	if r, ok := recommendations[c]; ok {
		return r
	}
	return defaultRecommendation
}

// Multiplier is the strict activity-level lookup used at registration.
func Multiplier(level ActivityLevel) (float64, bool) {
	m, ok := activityMultipliers[level]
	return m, ok
}

// TDEE multiplies bmr by the activity multiplier, falling back to 1.2 for an
// unknown level.
func TDEE(bmr float64, level ActivityLevel) float64 {
	m, ok := activityMultipliers[level]
	if !ok {
		m = fallbackMultiplier
	}
	return bmr * m
}

// GoalAdjustment is the strict goal lookup used at registration.
func GoalAdjustment(goal GoalType) (int, bool) {
	adj, ok := goalAdjustments[goal]
	return adj, ok
}

// DailyGoal returns round(tdee + adjustment). There is no minimum floor.
func DailyGoal(tdee float64, goal GoalType) int {
	return int(math.Round(tdee + float64(goalAdjustments[goal])))
}

// ParseGender accepts any casing of male/female/other.
func ParseGender(s string) (Gender, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male":
		return Male, true
	case "female":
		return Female, true
	case "other":
		return Other, true
	}
	return "", false
}

// ParseActivityLevel accepts the stored labels in any casing, plus
// "very_active" and "veryactive".
func ParseActivityLevel(s string) (ActivityLevel, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("_", " ", "-", " ").Replace(norm)
	if norm == "veryactive" {
		norm = "very active"
	}
	for _, l := range ActivityLevels {
		if strings.ToLower(string(l)) == norm {
			return l, true
		}
	}
	return "", false
}

// ParseGoalType accepts lose/maintain/gain in any casing.
func ParseGoalType(s string) (GoalType, bool) {
	g := GoalType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := goalAdjustments[g]; ok {
		return g, true
	}
	return "", false
}
