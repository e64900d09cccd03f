package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lg/calorie-tracker-go/internal/apperror"
)

func TestEmail(t *testing.T) {
	cases := map[string]bool{
		"ana@example.com": true,
		"a@b.co":          true,
		"no-at-sign.com":  false,
		"ana@localhost":   false,
		"":                false,
	}
	for in, valid := range cases {
		v := Violations{}
		Email("email", in, v)
		assert.Equal(t, valid, v.Empty(), "Email(%q)", in)
	}
}

func TestRanges(t *testing.T) {
	v := Violations{}
	Age("age", 0, v)
	HeightCm("height_cm", 29.9, v)
	WeightKg("weight_kg", 501, v)
	assert.Len(t, v, 3)

	v = Violations{}
	Age("age", 150, v)
	HeightCm("height_cm", 300, v)
	WeightKg("weight_kg", 2, v)
	assert.True(t, v.Empty(), "inclusive bounds must pass: %v", v)
}

func TestQuantityG(t *testing.T) {
	cases := []struct {
		g     float64
		valid bool
	}{
		{0, false},
		{-5, false},
		{0.001, false},
		{0.01, true},
		{150.456, true},
		{10000, true},
		{10000.01, false},
		{1e7, false},
	}
	for _, tc := range cases {
		v := Violations{}
		QuantityG("quantity_g", tc.g, v)
		assert.Equal(t, tc.valid, v.Empty(), "QuantityG(%v)", tc.g)
	}
}

func TestPassword(t *testing.T) {
	cases := []struct {
		pw   string
		want string
	}{
		{"abc1", "password must be at least 6 characters long"},
		{"abcdefg", "password must contain at least one digit"},
		{"1234567", "password must contain at least one letter"},
		{"secret1", ""},
	}
	for _, tc := range cases {
		v := Violations{}
		Password("password", tc.pw, v)
		assert.Equal(t, tc.want, v["password"], "Password(%q)", tc.pw)
	}
}

func TestViolationsErr(t *testing.T) {
	assert.NoError(t, Violations{}.Err())

	v := Violations{}
	Required("username", "  ", v)
	Age("age", 200, v)
	err := v.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrValidation))

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "age", appErr.Field, "first field alphabetically")
}
