package nutrition

import "math"

// Status classifies a day's intake against the goal.
type Status string

const (
	StatusOver    Status = "OVER"
	StatusLow     Status = "LOW"
	StatusOnTrack Status = "ON_TRACK"
)

// lowIntakeFraction: below this share of the goal the day is flagged LOW.
const lowIntakeFraction = 0.7

// Evaluation is the outcome of comparing totals with the daily goal.
type Evaluation struct {
	Remaining float64 `json:"remaining"`
	Exceeded  float64 `json:"exceeded"`
	Status    Status  `json:"status"`
}

// Evaluate compares totalCalories with dailyGoal. Checks run in a fixed
// order: OVER, then LOW, then ON_TRACK.
func Evaluate(totalCalories float64, dailyGoal int) Evaluation {
	goal := float64(dailyGoal)
	e := Evaluation{Remaining: math.Max(0, goal-totalCalories)}
	switch {
	case totalCalories > goal:
		e.Status = StatusOver
		e.Exceeded = totalCalories - goal
	case totalCalories < goal*lowIntakeFraction:
		e.Status = StatusLow
	default:
		e.Status = StatusOnTrack
	}
	return e
}

// Progress is the fraction of the goal consumed, capped at 1. Zero for a
// non-positive goal.
func Progress(totalCalories float64, dailyGoal int) float64 {
	if dailyGoal <= 0 {
		return 0
	}
	return math.Min(totalCalories/float64(dailyGoal), 1.0)
}
