package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"lg/calorie-tracker-go/internal/apperror"
	"lg/calorie-tracker-go/internal/models"
	"lg/calorie-tracker-go/internal/nutrition"
	"lg/calorie-tracker-go/internal/service"
	"lg/calorie-tracker-go/internal/validation"
)

// menu is the interactive front end. It holds the current session, if any.
type menu struct {
	con      *console
	profiles *service.ProfileService
	intake   *service.IntakeService
	sess     *service.Session
}

var (
	genderLabels = []string{"Male", "Female", "Other"}
	genders      = []nutrition.Gender{nutrition.Male, nutrition.Female, nutrition.Other}

	activityLabels = []string{
		"Sedentary (little or no exercise)",
		"Light (light exercise 1-3 days/week)",
		"Moderate (moderate exercise 3-5 days/week)",
		"Active (hard exercise 6-7 days/week)",
		"Very Active (very hard exercise, physical job)",
	}

	goalLabels = []string{"Lose weight", "Maintain weight", "Gain weight"}
	goalTypes  = []nutrition.GoalType{nutrition.Lose, nutrition.Maintain, nutrition.Gain}
)

// run loops until the user exits or input runs out.
func (m *menu) run(ctx context.Context) error {
	defer func() { m.profiles.Logout(m.sess) }()
	for {
		m.con.header("CALORIE CALCULATOR MENU")

		var (
			exit bool
			err  error
		)
		if m.sess == nil {
			exit, err = m.guestMenu(ctx)
		} else {
			exit, err = m.userMenu(ctx)
		}
		if errors.Is(err, errInputClosed) {
			return nil
		}
		if err != nil {
			return err
		}
		if exit {
			m.con.info("Exiting application. Goodbye!")
			return nil
		}
	}
}

func (m *menu) guestMenu(ctx context.Context) (bool, error) {
	m.con.println("1. Register")
	m.con.println("2. Login")
	m.con.println("3. Exit")
	choice, err := m.con.text("Enter choice: ")
	if err != nil {
		return false, err
	}
	switch choice {
	case "1":
		return false, m.register(ctx)
	case "2":
		return false, m.login(ctx)
	case "3":
		return true, nil
	default:
		m.con.error("Invalid choice.")
		return false, nil
	}
}

func (m *menu) userMenu(ctx context.Context) (bool, error) {
	m.con.info("Logged in as: %s", m.con.yellow.Sprint(m.sess.Username))
	m.con.println("1. View Profile & Goals")
	m.con.println("2. Log Food Intake")
	m.con.println("3. View Daily Report")
	m.con.println("4. Record New Weight")
	m.con.println("5. Search Food Database")
	m.con.println("6. Logout")
	m.con.println("7. Exit")
	choice, err := m.con.text("Enter choice: ")
	if err != nil {
		return false, err
	}
	switch choice {
	case "1":
		return false, m.showProfile(ctx)
	case "2":
		return false, m.logIntake(ctx)
	case "3":
		return false, m.dailyReport(ctx)
	case "4":
		return false, m.recordWeight(ctx)
	case "5":
		return false, m.searchFoods(ctx)
	case "6":
		m.logout()
		return false, nil
	case "7":
		return true, nil
	default:
		m.con.error("Invalid choice.")
		return false, nil
	}
}

// report prints a service error in red. Only console read failures are
// returned, so the loop keeps going after business errors.
func (m *menu) report(prefix string, err error) error {
	if errors.Is(err, errInputClosed) {
		return err
	}
	if prefix != "" {
		m.con.error("%s: %v", prefix, err)
	} else {
		m.con.error("%v", capitalize(err.Error()))
	}
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

/* ─── Account ────────────────────────────────────────────────────────── */

func (m *menu) register(ctx context.Context) error {
	m.con.header("USER REGISTRATION")
	var in service.RegisterInput
	var err error

	if in.Username, err = m.con.text("Enter username: "); err != nil {
		return err
	}
	if in.Username == "" {
		m.con.error("Username cannot be empty")
		return nil
	}

	for {
		pw, err := m.con.readLine("Enter password: ")
		if err != nil {
			return err
		}
		v := validation.Violations{}
		validation.Password("password", pw, v)
		if msg, bad := v["password"]; bad {
			m.con.error("%s", capitalize(msg))
			continue
		}
		confirm, err := m.con.readLine("Confirm password: ")
		if err != nil {
			return err
		}
		if pw != confirm {
			m.con.error("Passwords do not match")
			continue
		}
		in.Password = pw
		break
	}

	for {
		if in.Email, err = m.con.text("Enter email: "); err != nil {
			return err
		}
		v := validation.Violations{}
		validation.Email("email", in.Email, v)
		if v.Empty() {
			break
		}
		m.con.error("Invalid email format")
	}

	if in.Age, err = m.con.positiveInt("Enter age: ", 1, 150); err != nil {
		return err
	}
	i, err := m.con.numberedChoice("Gender Options:", "Select gender (1-3): ", genderLabels)
	if err != nil {
		return err
	}
	in.Gender = string(genders[i])

	if in.HeightCm, err = m.con.positiveFloat("Enter height in cm: ", 300); err != nil {
		return err
	}
	if in.WeightKg, err = m.con.positiveFloat("Enter current weight in kg: ", 500); err != nil {
		return err
	}

	if i, err = m.con.numberedChoice("Activity Levels:", "Select activity level (1-5): ", activityLabels); err != nil {
		return err
	}
	in.ActivityLevel = string(nutrition.ActivityLevels[i])

	if i, err = m.con.numberedChoice("Goal Setting:", "Select your goal (1-3): ", goalLabels); err != nil {
		return err
	}
	in.GoalType = string(goalTypes[i])
	if goalTypes[i] != nutrition.Maintain {
		goal, err := m.con.positiveFloat("Enter target weight in kg: ", 500)
		if err != nil {
			return err
		}
		in.GoalWeightKg = &goal
	}

	u, err := m.profiles.Register(ctx, in)
	if err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			m.con.error("Registration failed. Username or email already exists.")
			return nil
		}
		return m.report("Registration failed", err)
	}
	m.con.success("User registered successfully!")
	m.con.info("Your daily calorie target: %d calories", service.GoalFor(u))
	return nil
}

func (m *menu) login(ctx context.Context) error {
	m.con.header("USER LOGIN")
	username, err := m.con.text("Username: ")
	if err != nil {
		return err
	}
	password, err := m.con.readLine("Password: ")
	if err != nil {
		return err
	}

	sess, err := m.profiles.Login(ctx, username, password)
	if err != nil {
		if errors.Is(err, apperror.ErrUnauthorized) {
			m.con.error("Invalid username or password")
			return nil
		}
		return m.report("Login failed", err)
	}
	m.sess = sess
	m.con.success("Welcome back, %s!", sess.Username)
	return nil
}

func (m *menu) logout() {
	if m.sess == nil {
		return
	}
	username := m.sess.Username
	m.profiles.Logout(m.sess)
	m.sess = nil
	m.con.success("Goodbye, %s!", username)
}

/* ─── Profile ────────────────────────────────────────────────────────── */

func (m *menu) showProfile(ctx context.Context) error {
	view, err := m.profiles.Profile(ctx, m.sess)
	if err != nil {
		return m.report("Error displaying profile", err)
	}
	p := view.Profile

	m.con.header("USER PROFILE")
	m.con.section("Basic Information:")
	m.con.printf("  Username: %s\n", p.Username)
	m.con.printf("  Email: %s\n", p.Email)
	m.con.printf("  Age: %d years\n", p.Age)
	m.con.printf("  Gender: %s\n", p.Gender)

	m.con.section("Physical Stats:")
	m.con.printf("  Height: %.1f cm\n", p.HeightCm)
	m.con.printf("  Current Weight: %.1f kg\n", p.WeightKg)
	m.con.printf("  Activity Level: %s\n", p.ActivityLevel)
	if view.HasBMI {
		col := m.con.red
		switch view.Category {
		case nutrition.Normal:
			col = m.con.green
		case nutrition.Underweight, nutrition.Overweight:
			col = m.con.yellow
		}
		m.con.printf("  BMI: %s\n", col.Sprintf("%.1f (%s)", view.BMI, view.Category))
	}

	if p.GoalType != nutrition.Maintain {
		m.con.section("Goal:")
		goalText := "Gain Weight"
		if p.GoalType == nutrition.Lose {
			goalText = "Lose Weight"
		}
		m.con.printf("  Goal Type: %s\n", goalText)
		if p.GoalWeightKg != nil {
			m.con.printf("  Target Weight: %.1f kg\n", *p.GoalWeightKg)
		}
		if view.RemainingKg != nil {
			m.con.printf("  Remaining: %.1f kg\n", *view.RemainingKg)
		}
	}

	m.con.section("Metabolic Info:")
	m.con.printf("  Basal Metabolic Rate: %.0f cal/day\n", view.BMR)
	m.con.printf("  Daily Calorie Target: %d cal/day\n", view.DailyGoal)

	m.con.section("Health Recommendation:")
	m.con.printf("  %s\n", view.Recommendation)

	m.con.section("Account:")
	m.con.printf("  Member Since: %s\n", p.CreatedAt.Format("2006-01-02"))
	return nil
}

/* ─── Weight ─────────────────────────────────────────────────────────── */

func (m *menu) recordWeight(ctx context.Context) error {
	m.con.header("RECORD NEW WEIGHT")
	weight, err := m.con.positiveFloat("Enter your current weight in kg: ", 500)
	if err != nil {
		return err
	}
	date, err := m.con.date("Enter date (YYYY-MM-DD, default is today): ")
	if err != nil {
		return err
	}

	existing, err := m.profiles.WeightHistory(ctx, m.sess, date, date)
	if err != nil {
		return m.report("", err)
	}
	if len(existing) > 0 {
		ok, err := m.con.confirm(fmt.Sprintf("A weight of %.1f kg is already recorded for %s. Overwrite?", existing[0].WeightKg, date))
		if err != nil {
			return err
		}
		if !ok {
			m.con.warning("Weight not recorded.")
			return nil
		}
	}

	if _, err := m.profiles.RecordWeight(ctx, m.sess, weight, date); err != nil {
		return m.report("", err)
	}
	m.con.success("Weight of %.1f kg recorded for %s.", weight, date)
	return nil
}

/* ─── Foods & intake ─────────────────────────────────────────────────── */

func (m *menu) searchFoods(ctx context.Context) error {
	m.con.header("FOOD DATABASE SEARCH")
	term, err := m.con.text("Search food by name or category (leave blank to view top 10): ")
	if err != nil {
		return err
	}
	foods, err := m.intake.SearchFoods(ctx, term)
	if err != nil {
		m.con.error("An error occurred during food search.")
		return nil
	}
	if len(foods) == 0 {
		m.con.warning("No food items found matching '%s'.", term)
		return nil
	}

	m.con.green.Fprintf(m.con.out, "\n--- Found %d Food Items ---\n", len(foods))
	m.con.printf("%-5s %-20s %-10s %-8s %-8s %-8s %-10s\n",
		"ID", "Name", "Category", "Cal/100g", "Prot(g)", "Carbs(g)", "Fat(g)")
	m.con.println(strings.Repeat("=", 70))
	for _, f := range foods {
		category := f.Category
		if len(category) > 9 {
			category = category[:9]
		}
		m.con.printf("%-5d %-20s %-10s %-8.1f %-8.1f %-8.1f %-10.1f\n",
			f.ID, f.Name, category, f.CaloriesPer100g, f.ProteinG, f.CarbsG, f.FatG)
	}
	m.con.println(strings.Repeat("=", 70))
	return nil
}

func (m *menu) logIntake(ctx context.Context) error {
	m.con.header("LOG FOOD INTAKE")
	if err := m.searchFoods(ctx); err != nil {
		return err
	}

	id, err := m.con.positiveInt("Enter the Food ID to log: ", 1, 0)
	if err != nil {
		return err
	}
	food, err := m.intake.Food(ctx, int64(id))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			m.con.error("Food with ID %d not found.", id)
			return nil
		}
		return m.report("Error logging food intake", err)
	}
	m.con.info("Logging: %s (%g cal/100g)", m.con.yellow.Sprint(food.Name), food.CaloriesPer100g)

	quantity, err := m.con.positiveFloat("Enter quantity consumed in grams (g): ", 0)
	if err != nil {
		return err
	}

	labels := make([]string, len(models.MealTypes))
	for i, mt := range models.MealTypes {
		labels[i] = string(mt)
	}
	i, err := m.con.numberedChoice("Meal Types:", "Select meal type (1-4): ", labels)
	if err != nil {
		return err
	}
	meal := models.MealTypes[i]

	date, err := m.con.date("Enter date consumed (YYYY-MM-DD, default is today): ")
	if err != nil {
		return err
	}

	if _, err := m.intake.LogIntake(ctx, m.sess, service.LogIntakeInput{
		FoodID:    food.ID,
		QuantityG: quantity,
		MealType:  meal,
		Date:      date,
	}); err != nil {
		return m.report("", err)
	}
	m.con.success("Logged %.1fg of %s for %s on %s.", quantity, food.Name, meal, date)
	return nil
}

/* ─── Reports ────────────────────────────────────────────────────────── */

func (m *menu) dailyReport(ctx context.Context) error {
	m.con.header("DAILY NUTRITION REPORT")
	date, err := m.con.date("Enter date for the report (YYYY-MM-DD, default is today): ")
	if err != nil {
		return err
	}

	report, err := m.intake.DailyReport(ctx, m.sess, date)
	if err != nil {
		return m.report("Error retrieving daily summary", err)
	}

	m.con.magenta.Fprintf(m.con.out, "\n--- Report for %s ---\n", report.Date)
	if !report.HasData {
		m.con.warning("No food intake recorded for %s.", report.Date)
		m.con.printf("Daily Calorie Goal: %d cal\n", report.Goal)
		return nil
	}

	s := report.Summary
	m.con.section("CALORIE TRACKING:")
	m.con.printf("  Consumed: %.0f cal\n", s.TotalCalories)
	m.con.printf("  Goal:     %d cal\n", report.Goal)
	m.con.printf("  Remaining: %.0f cal\n", report.Evaluation.Remaining)
	m.con.progressBar("Progress", report.Progress*100)

	m.con.section("MACRONUTRIENT BREAKDOWN:")
	m.con.printf("  Protein: %.1f g\n", s.TotalProtein)
	m.con.printf("  Carbs:   %.1f g\n", s.TotalCarbs)
	m.con.printf("  Fat:     %.1f g\n", s.TotalFat)
	if r := report.Ratio; r != nil {
		m.con.printf("  (Ratio: P %.0f%% / C %.0f%% / F %.0f%%)\n", r.ProteinPct, r.CarbsPct, r.FatPct)
	}

	switch report.Evaluation.Status {
	case nutrition.StatusOver:
		m.con.warning("You exceeded your daily calorie goal by %.0f calories.", math.Abs(report.Evaluation.Exceeded))
	case nutrition.StatusLow:
		m.con.warning("Intake is low. Ensure you are meeting a minimum healthy calorie intake.")
	}
	return nil
}
