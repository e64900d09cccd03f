// CLI tool to create a user on the configured store without the interactive
// menu. The daily calorie goal is computed exactly as in registration.
// Usage: go run ./cmd/create-user
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"lg/calorie-tracker-go/internal/app"
	"lg/calorie-tracker-go/internal/config"
	"lg/calorie-tracker-go/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	a, err := app.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to open store: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	reader := bufio.NewReader(os.Stdin)
	prompt := func(label string) string {
		fmt.Print(label)
		s, _ := reader.ReadString('\n')
		return strings.TrimSpace(s)
	}
	number := func(label string) float64 {
		v, err := strconv.ParseFloat(prompt(label), 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s expects a number\n", strings.TrimSuffix(label, ": "))
			os.Exit(1)
		}
		return v
	}

	in := service.RegisterInput{
		Username: prompt("Username: "),
		Email:    prompt("Email: "),
		Password: prompt("Password: "),
	}
	in.Age = int(number("Age: "))
	in.Gender = prompt("Gender (Male/Female/Other): ")
	in.HeightCm = number("Height (cm): ")
	in.WeightKg = number("Weight (kg): ")
	in.ActivityLevel = prompt("Activity level (Sedentary/Light/Moderate/Active/Very Active): ")
	in.GoalType = prompt("Goal (lose/maintain/gain, blank for maintain): ")
	if g := prompt("Goal weight in kg (blank for none): "); g != "" {
		v, err := strconv.ParseFloat(g, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Goal weight expects a number\n")
			os.Exit(1)
		}
		in.GoalWeightKg = &v
	}

	u, err := a.Profiles.Register(ctx, in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating user: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nUser created successfully!\n")
	fmt.Printf("  ID:           %d\n", u.ID)
	fmt.Printf("  Username:     %s\n", u.Username)
	fmt.Printf("  Daily goal:   %d cal\n", service.GoalFor(u))
	fmt.Printf("  Store:        %s\n", cfg.DBDriver)
}
