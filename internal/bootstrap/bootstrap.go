// Package bootstrap wires configuration, logging and storage for the binaries.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/jra-analyzer/internal/config"
	"github.com/yourusername/jra-analyzer/internal/database"
	"github.com/yourusername/jra-analyzer/internal/logger"
	"github.com/yourusername/jra-analyzer/internal/metrics"
	"github.com/yourusername/jra-analyzer/internal/models"
	"github.com/yourusername/jra-analyzer/internal/repository"
	"github.com/yourusername/jra-analyzer/internal/speedindex"
)

// Runtime holds the shared dependencies of a process
type Runtime struct {
	Config   *config.Config
	Logger   *logrus.Logger
	Location *time.Location
	DB       *database.DB
	Repos    *repository.Repositories
}

// Load reads configuration from configPath (or JRA_ANALYZER_CONFIG_PATH),
// applies the secrets overlay, validates it and builds the logger.
func Load(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := config.LoadWithDefaults(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := config.ReloadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := config.ApplySecrets(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to apply secrets: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}

	return &Runtime{
		Config:   cfg,
		Logger:   logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment),
		Location: loc,
	}, nil
}

// OpenStorage connects to the database and builds the repositories.
// Without a configured database it returns models.ErrStorageNotConfigured.
func (r *Runtime) OpenStorage(ctx context.Context) error {
	if !r.Config.HasDatabase() {
		return models.ErrStorageNotConfigured
	}

	db, err := database.Initialize(ctx, r.Config, r.Logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	repos, err := repository.NewRepositories(db, r.Config.Datasets)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	r.DB = db
	r.Repos = repos
	r.Logger.WithFields(logrus.Fields{
		"host":     r.Config.Database.Host,
		"database": r.Config.Database.Name,
	}).Info("Database connection established")
	return nil
}

// SpeedIndexOptions returns the builder options from configuration
func (r *Runtime) SpeedIndexOptions() speedindex.Options {
	return speedindex.Options{
		ShrinkageLambda: r.Config.SpeedIndex.ShrinkageLambda,
		MinRows:         r.Config.SpeedIndex.MinRows,
	}
}

// Close releases the database pool if one was opened
func (r *Runtime) Close() {
	if r.DB != nil {
		r.DB.Close()
	}
}
