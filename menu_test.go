package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lg/calorie-tracker-go/internal/app"
	"lg/calorie-tracker-go/internal/models"
	"lg/calorie-tracker-go/internal/service"
)

// runMenu feeds the given input lines to a fresh menu and returns its output.
func runMenu(t *testing.T, a *app.App, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	m := &menu{
		con:      newConsole(strings.NewReader(strings.Join(lines, "\n")+"\n"), &out, true),
		profiles: a.Profiles,
		intake:   a.Intake,
	}
	require.NoError(t, m.run(context.Background()))
	return out.String()
}

func registerAlice(t *testing.T, a *app.App) {
	t.Helper()
	_, err := a.Profiles.Register(context.Background(), service.RegisterInput{
		Username: "alice", Password: "secret1", Email: "alice@example.com",
		Age: 30, Gender: "Male", HeightCm: 175, WeightKg: 70,
		ActivityLevel: "Moderate", GoalType: "maintain",
	})
	require.NoError(t, err)
}

func today() string {
	return models.NewDateOnly(time.Now()).String()
}

func TestMenu_RegisterLoginProfile(t *testing.T) {
	a := newTestApp(t)
	out := runMenu(t, a,
		"1", "alice", "secret1", "secret1", "alice@example.com", "30", "1", "175", "70", "3", "2",
		"2", "alice", "secret1",
		"1",
		"7",
	)

	assert.Contains(t, out, "✓ User registered successfully!")
	assert.Contains(t, out, "Your daily calorie target: 2556 calories")
	assert.Contains(t, out, "✓ Welcome back, alice!")
	assert.Contains(t, out, "Logged in as: alice")
	assert.Contains(t, out, "BMI: 22.9 (Normal)")
	assert.Contains(t, out, "Basal Metabolic Rate: 1649 cal/day")
	assert.Contains(t, out, "Daily Calorie Target: 2556 cal/day")
	assert.NotContains(t, out, "Goal Type:")
	assert.Contains(t, out, "Exiting application. Goodbye!")
}

func TestMenu_RegisterRepromptsAndRejectsDuplicate(t *testing.T) {
	a := newTestApp(t)
	registerAlice(t, a)
	out := runMenu(t, a,
		"1", "alice",
		"abc", // too short
		"secret1", "secret2", // mismatch
		"secret1", "secret1",
		"not-an-email", "alice@example.com",
		"0", "30", // age out of range
		"4", "2", // gender out of range
		"175", "70", "1",
		"1", "65", // lose, target weight
		"3",
	)

	assert.Contains(t, out, "Password must be at least 6 characters long")
	assert.Contains(t, out, "✗ Passwords do not match")
	assert.Contains(t, out, "✗ Invalid email format")
	assert.Contains(t, out, "Please enter a number >= 1")
	assert.Contains(t, out, "Invalid choice. Please select from: 1, 2, 3")
	assert.Contains(t, out, "Registration failed. Username or email already exists.")
}

func TestMenu_InvalidChoiceAndLoginFailure(t *testing.T) {
	a := newTestApp(t)
	out := runMenu(t, a, "9", "2", "ghost", "secret1", "3")

	assert.Contains(t, out, "✗ Invalid choice.")
	assert.Contains(t, out, "✗ Invalid username or password")
	assert.Contains(t, out, "Exiting application. Goodbye!")
}

func TestMenu_EndOfInputExitsCleanly(t *testing.T) {
	a := newTestApp(t)
	var out bytes.Buffer
	m := &menu{con: newConsole(strings.NewReader(""), &out, true), profiles: a.Profiles, intake: a.Intake}
	assert.NoError(t, m.run(context.Background()))
	assert.Contains(t, out.String(), "CALORIE CALCULATOR MENU")
}

func TestMenu_LogIntakeAndDailyReport(t *testing.T) {
	a := newTestApp(t)
	registerAlice(t, a)
	out := runMenu(t, a,
		"2", "alice", "secret1",
		"2", "chicken", "11", "200", "2", "",
		"3", "",
		"7",
	)

	assert.Contains(t, out, "Chicken Breast")
	assert.Contains(t, out, "Logging: Chicken Breast (165 cal/100g)")
	assert.Contains(t, out, "✓ Logged 200.0g of Chicken Breast for Lunch on "+today()+".")
	assert.Contains(t, out, "--- Report for "+today()+" ---")
	assert.Contains(t, out, "Consumed: 330 cal")
	assert.Contains(t, out, "Remaining: 2226 cal")
	assert.Contains(t, out, "Progress [")
	assert.Contains(t, out, "] 12.9%")
	assert.Contains(t, out, "Protein: 62.0 g")
	assert.Contains(t, out, "(Ratio: P 90% / C 0% / F 10%)")
	assert.Contains(t, out, "Intake is low.")
}

func TestMenu_LogIntakeUnknownFood(t *testing.T) {
	a := newTestApp(t)
	registerAlice(t, a)
	out := runMenu(t, a, "2", "alice", "secret1", "2", "", "999", "7")

	assert.Contains(t, out, "✗ Food with ID 999 not found.")
}

func TestMenu_DailyReportWithoutData(t *testing.T) {
	a := newTestApp(t)
	registerAlice(t, a)
	out := runMenu(t, a, "2", "alice", "secret1", "3", "2020-13-01", "2020-01-01", "7")

	assert.Contains(t, out, "Invalid date format. Please use YYYY-MM-DD.")
	assert.Contains(t, out, "No food intake recorded for 2020-01-01.")
	assert.Contains(t, out, "Daily Calorie Goal: 2556 cal")
}

func TestMenu_RecordWeightOverwriteConfirm(t *testing.T) {
	a := newTestApp(t)
	registerAlice(t, a)
	out := runMenu(t, a,
		"2", "alice", "secret1",
		"4", "68", "2024-03-01",
		"4", "67", "2024-03-01", "y",
		"4", "66", "2024-03-01", "n",
		"7",
	)

	assert.Contains(t, out, "✓ Weight of 68.0 kg recorded for 2024-03-01.")
	assert.Contains(t, out, "A weight of 68.0 kg is already recorded for 2024-03-01. Overwrite? (y/n)")
	assert.Contains(t, out, "✓ Weight of 67.0 kg recorded for 2024-03-01.")
	assert.Contains(t, out, "Weight not recorded.")

	u, err := a.Store.GetUserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	d, _ := models.ParseDate("2024-03-01")
	entries, err := a.Store.ListWeightEntries(context.Background(), u.ID, d, d)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 67.0, entries[0].WeightKg)
}

func TestMenu_SearchAndLogout(t *testing.T) {
	a := newTestApp(t)
	registerAlice(t, a)
	out := runMenu(t, a,
		"2", "alice", "secret1",
		"5", "zzz",
		"5", "nuts",
		"6",
		"3",
	)

	assert.Contains(t, out, "No food items found matching 'zzz'.")
	assert.Contains(t, out, "--- Found 3 Food Items ---")
	assert.Contains(t, out, "Almonds")
	assert.Contains(t, out, "✓ Goodbye, alice!")
	assert.Contains(t, out, "Exiting application. Goodbye!")
}
