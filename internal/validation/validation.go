// Package validation holds the input checks applied before anything reaches
// the formula engine or the store.
package validation

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"lg/calorie-tracker-go/internal/apperror"
)

// Plausible ranges for profile input.
const (
	MinAge      = 1
	MaxAge      = 150
	MinHeightCm = 30.0
	MaxHeightCm = 300.0
	MinWeightKg = 2.0
	MaxWeightKg = 500.0

	MinQuantityG = 0.01
	MaxQuantityG = 10000.0

	minPasswordLen = 6
)

// Violations maps a field name to its message.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Err turns the violations into an apperror, reporting the first field in
// alphabetical order. Nil when empty.
func (v Violations) Err() error {
	if v.Empty() {
		return nil
	}
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return apperror.ValidationFailed(fields[0], v[fields[0]])
}

func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = field + " is required"
	}
}

// Email does the same loose check as the signup form: an @ and a dot in the
// domain part.
func Email(field, value string, v Violations) {
	at := strings.Index(value, "@")
	if at < 0 || !strings.Contains(value[at+1:], ".") {
		v[field] = "invalid email format"
	}
}

func Age(field string, age int, v Violations) {
	if age < MinAge || age > MaxAge {
		v[field] = fmt.Sprintf("age must be between %d and %d", MinAge, MaxAge)
	}
}

func HeightCm(field string, h float64, v Violations) {
	if h < MinHeightCm || h > MaxHeightCm {
		v[field] = fmt.Sprintf("height must be between %.0f and %.0f cm", MinHeightCm, MaxHeightCm)
	}
}

func WeightKg(field string, w float64, v Violations) {
	if w < MinWeightKg || w > MaxWeightKg {
		v[field] = fmt.Sprintf("weight must be between %.0f and %.0f kg", MinWeightKg, MaxWeightKg)
	}
}

// QuantityG bounds one logged portion. Quantities are stored with two
// decimals, so anything under MinQuantityG would round to zero.
func QuantityG(field string, g float64, v Violations) {
	if g < MinQuantityG || g > MaxQuantityG {
		v[field] = fmt.Sprintf("%s must be between %.2f and %.0f g", field, MinQuantityG, MaxQuantityG)
	}
}

// Password requires at least six characters with one digit and one letter.
func Password(field, pw string, v Violations) {
	if len(pw) < minPasswordLen {
		v[field] = fmt.Sprintf("password must be at least %d characters long", minPasswordLen)
		return
	}
	var hasDigit, hasLetter bool
	for _, r := range pw {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLetter(r):
			hasLetter = true
		}
	}
	if !hasDigit {
		v[field] = "password must contain at least one digit"
		return
	}
	if !hasLetter {
		v[field] = "password must contain at least one letter"
	}
}
