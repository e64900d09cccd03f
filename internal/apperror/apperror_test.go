package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{"NotFound wraps ErrNotFound", NotFound("food item", 7), ErrNotFound, true},
		{"ValidationFailed wraps ErrValidation", ValidationFailed("age", "age out of range"), ErrValidation, true},
		{"Conflict wraps ErrConflict", Conflict("username taken"), ErrConflict, true},
		{"Unauthorized wraps ErrUnauthorized", Unauthorized("invalid credentials"), ErrUnauthorized, true},
		{"NotFound does not match ErrValidation", NotFound("user", 1), ErrValidation, false},
		{"survives fmt wrapping", fmt.Errorf("register: %w", Conflict("email taken")), ErrConflict, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	if got := NotFound("food item", 42).Error(); got != "food item not found with id 42" {
		t.Errorf("NotFound message = %q", got)
	}
	if got := ValidationFailed("height_cm", "height must be between 30 and 300 cm").Error(); got != "height must be between 30 and 300 cm" {
		t.Errorf("ValidationFailed message = %q", got)
	}
}

func TestValidationFailedField(t *testing.T) {
	var appErr *AppError
	err := fmt.Errorf("wrapped: %w", ValidationFailed("email", "invalid email format"))
	if !errors.As(err, &appErr) {
		t.Fatal("errors.As failed to find *AppError")
	}
	if appErr.Field != "email" {
		t.Errorf("Field = %q, want %q", appErr.Field, "email")
	}
}
