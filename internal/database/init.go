package database

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/jra-analyzer/internal/config"
)

// Initialize creates a database connection pool and verifies the configured
// schemas are present
func Initialize(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	for _, schema := range []string{cfg.Datasets.ServingSchema, cfg.Datasets.AnalysisSchema} {
		var exists bool
		err := db.pool.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM information_schema.schemata WHERE schema_name = $1)",
			schema,
		).Scan(&exists)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to check schema %s: %w", schema, err)
		}
		if !exists {
			logger.WithField("schema", schema).Warn("Configured schema not found; queries against it will fail")
		}
	}

	return db, nil
}
