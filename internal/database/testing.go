package database

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/yourusername/jra-analyzer/internal/config"
)

// IntegrationConfig reads the integration database from JRA_ANALYZER_TEST_DB_* variables
func IntegrationConfig() config.DatabaseConfig {
	port, _ := strconv.Atoi(os.Getenv("JRA_ANALYZER_TEST_DB_PORT"))
	return config.DatabaseConfig{
		Host:           os.Getenv("JRA_ANALYZER_TEST_DB_HOST"),
		Port:           port,
		Name:           os.Getenv("JRA_ANALYZER_TEST_DB_NAME"),
		User:           os.Getenv("JRA_ANALYZER_TEST_DB_USER"),
		Password:       os.Getenv("JRA_ANALYZER_TEST_DB_PASSWORD"),
		SSLMode:        "disable",
		MaxConnections: 4,
	}
}

// SetupTestDB connects to the integration database, skipping the test when
// none is configured
func SetupTestDB(t *testing.T) *DB {
	t.Helper()
	cfg := IntegrationConfig()
	if cfg.Host == "" || cfg.Name == "" {
		t.Skip("JRA_ANALYZER_TEST_DB_HOST and JRA_ANALYZER_TEST_DB_NAME not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := NewDB(ctx, &cfg)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}
	t.Cleanup(db.Close)
	return db
}
