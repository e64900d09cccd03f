// Package app wires configuration, logging, the store and the services
// together for the binaries.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"lg/calorie-tracker-go/internal/auth"
	"lg/calorie-tracker-go/internal/config"
	"lg/calorie-tracker-go/internal/service"
	"lg/calorie-tracker-go/internal/store"
	"lg/calorie-tracker-go/internal/store/postgres"
	"lg/calorie-tracker-go/internal/store/sqlite"
)

// App is a ready-to-use service graph. Close releases the store and log file.
type App struct {
	Config   config.Config
	Logger   *slog.Logger
	Store    store.Store
	Profiles *service.ProfileService
	Intake   *service.IntakeService

	logCloser io.Closer
}

// Open builds the logger from cfg, opens the configured store, seeds the food
// catalog if empty and constructs the services.
func Open(ctx context.Context, cfg config.Config) (*App, error) {
	logger, logCloser, err := cfg.NewLogger()
	if err != nil {
		return nil, err
	}

	st, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		logCloser.Close()
		return nil, err
	}

	a, err := New(ctx, cfg, st, logger)
	if err != nil {
		st.Close()
		logCloser.Close()
		return nil, err
	}
	a.logCloser = logCloser
	return a, nil
}

// OpenStore connects to the backend selected by cfg.DBDriver.
func OpenStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (store.Store, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		return postgres.New(ctx, cfg.DBURL, logger)
	case config.DriverSQLite:
		return sqlite.New(cfg.SQLitePath, logger)
	default:
		return nil, fmt.Errorf("app: unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// New builds the services on an already open store.
func New(ctx context.Context, cfg config.Config, st store.Store, logger *slog.Logger) (*App, error) {
	if err := store.EnsureFoodCatalog(ctx, st, logger); err != nil {
		logger.Error("food catalog seeding failed", "err", err)
		return nil, err
	}

	hasher, err := auth.NewHasher(cfg.PasswordHasher, cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	profiles, err := service.NewProfileService(st, hasher, service.NewSessions(cfg.SessionTTL), logger)
	if err != nil {
		return nil, fmt.Errorf("app: creating profile service: %w", err)
	}

	return &App{
		Config:   cfg,
		Logger:   logger,
		Store:    st,
		Profiles: profiles,
		Intake:   service.NewIntakeService(st, logger),
	}, nil
}

func (a *App) Close() error {
	err := a.Store.Close()
	if a.logCloser != nil {
		err = errors.Join(err, a.logCloser.Close())
	}
	return err
}
