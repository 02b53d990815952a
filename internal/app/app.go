package app

import (
	"context"
	"fmt"

	"github.com/khrees2412/careerpath/internal/config"
	"github.com/khrees2412/careerpath/internal/database"
	"github.com/khrees2412/careerpath/internal/logger"
)

// App is the dependency container for the CLI application
type App struct {
	Store  *database.Store
	Config *config.Config
	Log    *logger.Logger
}

// Options control how NewApp starts.
type Options struct {
	ConfigPath string
	// SkipMigrate leaves the schema alone even when auto_migrate is on.
	SkipMigrate bool
}

// NewApp loads the config, builds the logger and opens the store. The schema
// is applied when database.auto_migrate is set.
func NewApp(ctx context.Context, opts Options) (*App, error) {
	if err := config.Initialize(opts.ConfigPath); err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}
	cfg := config.AppConfig

	log, err := logger.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	store, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if cfg.Database.AutoMigrate && !opts.SkipMigrate {
		if err := store.Apply(ctx); err != nil {
			store.Close()
			log.Sync()
			return nil, fmt.Errorf("failed to apply migrations: %w", err)
		}
	}

	return New(store, cfg, log), nil
}

// New assembles an App from parts that are already open.
func New(store *database.Store, cfg *config.Config, log *logger.Logger) *App {
	if log == nil {
		log = logger.Nop()
	}
	return &App{Store: store, Config: cfg, Log: log}
}

// Close closes all resources
func (a *App) Close() error {
	var err error
	if a.Store != nil {
		err = a.Store.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
	return err
}
