// CLI tool to run pending Postgres migrations embedded in the store package.
// Checks the migrations table to skip already-applied files and wraps each
// migration + record insert in a single transaction.
// Usage: go run ./cmd/migrate
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"

	"lg/calorie-tracker-go/internal/config"
	"lg/calorie-tracker-go/internal/store/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if cfg.DBDriver != config.DriverPostgres {
		fmt.Fprintf(os.Stderr, "DB_DRIVER is %q; the sqlite store creates its tables on open\n", cfg.DBDriver)
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, cfg.DBURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	applied, err := postgres.Migrate(ctx, conn)
	for _, name := range applied {
		fmt.Printf("  applied: %s\n", name)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(applied) == 0 {
		fmt.Println("No pending migrations.")
	} else {
		fmt.Printf("\n%d migration(s) applied.\n", len(applied))
	}
}
