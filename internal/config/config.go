// Package config provides configuration management for the JRA race analyzer.
package config

import (
	"fmt"
	"time"

	// embedded zone database so Asia/Tokyo resolves on minimal images
	_ "time/tzdata"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Datasets   DatasetsConfig   `mapstructure:"datasets" validate:"required"`
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Analysis   AnalysisConfig   `mapstructure:"analysis" validate:"required"`
	SpeedIndex SpeedIndexConfig `mapstructure:"speed_index" validate:"required"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Secrets    SecretsConfig    `mapstructure:"secrets"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration.
// An empty host or name leaves storage unconfigured.
type DatabaseConfig struct {
	Host               string `mapstructure:"host"`
	Port               int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name               string `mapstructure:"name"`
	User               string `mapstructure:"user"`
	Password           string `mapstructure:"password"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"gte=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"gte=0"`
}

// DatasetsConfig names the schemas and relations the repositories read from
type DatasetsConfig struct {
	ServingSchema           string `mapstructure:"serving_schema" validate:"required"`
	AnalysisSchema          string `mapstructure:"analysis_schema" validate:"required"`
	HistorySource           string `mapstructure:"history_source" validate:"required"`
	SpeedIndexTable         string `mapstructure:"speed_index_table" validate:"required"`
	SpeedIndexBaselineTable string `mapstructure:"speed_index_baseline_table" validate:"required"`
}

// ServerConfig represents the HTTP API configuration
type ServerConfig struct {
	Port                  int      `mapstructure:"port" validate:"required,min=1,max=65535"`
	CORSOrigins           []string `mapstructure:"cors_origins"`
	RequestTimeoutSeconds int      `mapstructure:"request_timeout_seconds" validate:"required,gt=0"`
	RateLimitRPS          float64  `mapstructure:"rate_limit_rps" validate:"gte=0"`
	RateLimitBurst        int      `mapstructure:"rate_limit_burst" validate:"gte=0"`
	CacheTTLSeconds       int      `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
}

// AnalysisConfig represents scoring pipeline settings
type AnalysisConfig struct {
	Timezone     string `mapstructure:"timezone" validate:"required,timezone"`
	HistoryDepth int    `mapstructure:"history_depth" validate:"required,gt=0"`
}

// SpeedIndexConfig represents speed index build settings
type SpeedIndexConfig struct {
	ShrinkageLambda float64 `mapstructure:"shrinkage_lambda" validate:"required,gt=0"`
	MinRows         int     `mapstructure:"min_rows" validate:"required,gt=0"`
	Schedule        string  `mapstructure:"schedule" validate:"required,cronspec"`
	HealthPort      int     `mapstructure:"health_port" validate:"omitempty,min=1,max=65535"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required_if=Enabled true"`
}

// SecretsConfig controls the AWS Secrets Manager overlay
type SecretsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Region     string `mapstructure:"region" validate:"required_if=Enabled true"`
	SecretName string `mapstructure:"secret_name" validate:"required_if=Enabled true"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// HasDatabase reports whether a storage endpoint has been configured
func (c *Config) HasDatabase() bool {
	return c.Database.Host != "" && c.Database.Name != ""
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Location returns the timezone used to derive the reference date
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Analysis.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", c.Analysis.Timezone, err)
	}
	return loc, nil
}

// RequestTimeout returns the HTTP request timeout
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeoutSeconds) * time.Second
}

// CacheTTL returns the response cache lifetime; zero disables caching
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Server.CacheTTLSeconds) * time.Second
}
