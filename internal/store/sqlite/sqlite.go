// Package sqlite implements store.Store on an embedded SQLite database
// through modernc.org/sqlite (pure Go, no cgo). Pass ":memory:" for a
// throwaway database.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"lg/calorie-tracker-go/internal/models"
	"lg/calorie-tracker-go/internal/store"
)

var _ store.Store = (*DB)(nil)

// DB wraps the sql.DB pool.
type DB struct {
	conn   *sql.DB
	logger *slog.Logger
}

// New opens the database at dbPath and creates any missing tables.
func New(dbPath string, logger *slog.Logger) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}
	// One connection: ":memory:" databases are per-connection, and SQLite
	// serializes writers anyway.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}
	// Off by default in SQLite; cascades and RESTRICT depend on it.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn, logger: logger}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}
	logger.Info("sqlite database ready", "path", dbPath)
	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

// schema mirrors the postgres migrations. Dates are TEXT (YYYY-MM-DD) so they
// sort and compare as calendar dates.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id                 INTEGER PRIMARY KEY AUTOINCREMENT,
		username           TEXT    NOT NULL UNIQUE,
		email              TEXT    NOT NULL UNIQUE,
		password_hash      TEXT    NOT NULL,
		age                INTEGER NOT NULL CHECK (age > 0 AND age <= 150),
		gender             TEXT    NOT NULL CHECK (gender IN ('Male', 'Female', 'Other')),
		height_cm          REAL    NOT NULL CHECK (height_cm > 0),
		weight_kg          REAL    NOT NULL CHECK (weight_kg > 0),
		activity_level     TEXT    NOT NULL CHECK (activity_level IN ('Sedentary', 'Light', 'Moderate', 'Active', 'Very Active')),
		goal_type          TEXT    NOT NULL DEFAULT 'maintain' CHECK (goal_type IN ('lose', 'maintain', 'gain')),
		goal_weight_kg     REAL,
		daily_calorie_goal INTEGER,
		created_at         DATETIME NOT NULL,
		updated_at         DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS food_items (
		id                INTEGER PRIMARY KEY AUTOINCREMENT,
		name              TEXT NOT NULL,
		category          TEXT NOT NULL DEFAULT '',
		calories_per_100g REAL NOT NULL,
		protein_g         REAL NOT NULL,
		carbs_g           REAL NOT NULL,
		fat_g             REAL NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_food_items_name ON food_items (name)`,
	`CREATE TABLE IF NOT EXISTS daily_intake (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id     INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		food_id     INTEGER NOT NULL REFERENCES food_items (id) ON DELETE RESTRICT,
		quantity_g  REAL    NOT NULL CHECK (quantity_g > 0),
		intake_date TEXT    NOT NULL,
		meal_type   TEXT    NOT NULL CHECK (meal_type IN ('Breakfast', 'Lunch', 'Dinner', 'Snack')),
		created_at  DATETIME NOT NULL,
		UNIQUE (user_id, food_id, intake_date, meal_type)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_daily_intake_user_date ON daily_intake (user_id, intake_date)`,
	`CREATE TABLE IF NOT EXISTS weight_tracking (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id       INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		weight_kg     REAL    NOT NULL CHECK (weight_kg > 0),
		bmi           REAL,
		recorded_date TEXT    NOT NULL,
		notes         TEXT,
		UNIQUE (user_id, recorded_date)
	)`,
}

// migrate is idempotent; every statement uses IF NOT EXISTS.
func (db *DB) migrate() error {
	for _, stmt := range schema {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("executing %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

/* ─── Helpers ────────────────────────────────────────────────────────── */

// constraintCode returns the extended SQLite result code for constraint
// failures, or 0.
func constraintCode(err error) int {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code()
	}
	return 0
}

func isUniqueViolation(err error) bool {
	code := constraintCode(err)
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
		code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY ||
		(err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed"))
}

func isForeignKeyViolation(err error) bool {
	return constraintCode(err) == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY ||
		(err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed"))
}

func isCheckViolation(err error) bool {
	return constraintCode(err) == sqlite3.SQLITE_CONSTRAINT_CHECK ||
		(err != nil && strings.Contains(err.Error(), "CHECK constraint failed"))
}

func parseDate(s string) (models.DateOnly, error) {
	d, err := models.ParseDate(s)
	if err != nil {
		return models.DateOnly{}, fmt.Errorf("sqlite: bad stored date %q: %w", s, err)
	}
	return d, nil
}

func now() time.Time {
	return time.Now().UTC()
}
