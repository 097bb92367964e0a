// Package main provides the entry point for the race analysis HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/jra-analyzer/internal/api"
	"github.com/yourusername/jra-analyzer/internal/bootstrap"
	"github.com/yourusername/jra-analyzer/internal/models"
	"github.com/yourusername/jra-analyzer/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var configFile string

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config/config.yaml", "Path to configuration file")
	rootCmd.AddCommand(serveCmd)
}

var rootCmd = &cobra.Command{
	Use:   "api-server",
	Short: "JRA race analysis API",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the race analysis HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func serve(ctx context.Context) error {
	rt, err := bootstrap.Load(ctx, configFile)
	if err != nil {
		return err
	}
	defer rt.Close()

	cfg := rt.Config
	appLog := rt.Logger
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"version":     Version,
		"commit":      GitCommit,
	}).Info("Race analysis API starting")

	// Handlers answer 503 until storage is configured
	var analyzer api.Analyzer
	var health api.HealthChecker
	switch err := rt.OpenStorage(ctx); {
	case errors.Is(err, models.ErrStorageNotConfigured):
		appLog.Warn("Database not configured; analysis requests will return 503")
	case err != nil:
		return err
	default:
		analyzer = service.NewAnalysisService(rt.Repos, service.SystemClock(), rt.Location,
			cfg.Analysis.HistoryDepth, appLog)
		health = rt.DB
	}

	server := api.NewServer(analyzer, health, api.Options{
		CORSOrigins:    cfg.Server.CORSOrigins,
		RequestTimeout: cfg.RequestTimeout(),
		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
		CacheTTL:       cfg.CacheTTL(),
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsPath:    cfg.Metrics.Path,
		Location:       rt.Location,
	}, appLog)

	srv := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout() + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.WithField("port", cfg.Server.Port).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		appLog.WithField("signal", sig).Info("Shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	appLog.Info("Race analysis API stopped")
	return nil
}
