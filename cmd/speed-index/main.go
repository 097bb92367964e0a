// Package main provides the speed index builder and its scheduler.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/jra-analyzer/internal/bootstrap"
	"github.com/yourusername/jra-analyzer/internal/health"
	"github.com/yourusername/jra-analyzer/internal/scheduler"
	"github.com/yourusername/jra-analyzer/internal/service"
)

// Build information - set via ldflags
var Version = "dev"

var (
	configFile string
	asOfFlag   string
	jsonOutput bool
	runOnStart bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config/config.yaml", "Path to configuration file")

	buildCmd.Flags().StringVar(&asOfFlag, "as-of", "", "As-of date stamped on the tables (YYYY-MM-DD), defaults to today")
	buildCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the build summary as JSON")
	scheduleCmd.Flags().BoolVar(&runOnStart, "run-on-start", false, "Run one build before waiting for the schedule")

	rootCmd.AddCommand(buildCmd, scheduleCmd)
}

var rootCmd = &cobra.Command{
	Use:   "speed-index",
	Short: "Build the speed index reference tables",
	Long:  `Fits per-surface residual models over the run history and writes speed_index_master and speed_index_baseline.`,
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Rebuild the speed index once",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuild(cmd.Context(), cmd.OutOrStdout())
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Rebuild the speed index on the configured cron schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSchedule(cmd.Context())
	},
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func setup(ctx context.Context) (*bootstrap.Runtime, *service.SpeedIndexService, error) {
	rt, err := bootstrap.Load(ctx, configFile)
	if err != nil {
		return nil, nil, err
	}
	if err := rt.OpenStorage(ctx); err != nil {
		rt.Close()
		return nil, nil, err
	}
	svc := service.NewSpeedIndexService(rt.Repos.SpeedIndex, rt.SpeedIndexOptions(),
		service.SystemClock(), rt.Location, rt.Logger)
	return rt, svc, nil
}

func runBuild(ctx context.Context, out io.Writer) error {
	var asOf time.Time
	if asOfFlag != "" {
		parsed, err := time.Parse("2006-01-02", asOfFlag)
		if err != nil {
			return fmt.Errorf("invalid --as-of: %w", err)
		}
		asOf = parsed
	}

	rt, svc, err := setup(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	summary, err := svc.Build(ctx, asOf)
	if err != nil {
		return err
	}
	return printSummary(out, summary, jsonOutput)
}

func printSummary(out io.Writer, summary *service.BuildSummary, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	fmt.Fprintf(out, "build %s as of %s\n", summary.BuildID, summary.AsOf.Format("2006-01-02"))
	fmt.Fprintf(out, "  source rows: %d\n", summary.SourceRows)
	fmt.Fprintf(out, "  horses:      %d\n", summary.Entries)
	surfaces := make([]string, 0, len(summary.BySurface))
	for s := range summary.BySurface {
		surfaces = append(surfaces, s)
	}
	sort.Strings(surfaces)
	for _, s := range surfaces {
		fmt.Fprintf(out, "  %s: %d\n", s, summary.BySurface[s])
	}
	fmt.Fprintf(out, "  duration:    %s\n", summary.Duration.Round(time.Millisecond))
	return nil
}

func runSchedule(ctx context.Context) error {
	rt, svc, err := setup(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()
	appLog := rt.Logger

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sched := scheduler.NewScheduler(svc, rt.Location, appLog.WithField("component", "scheduler"))
	if err := sched.ScheduleSpeedIndexBuild(rt.Config.SpeedIndex.Schedule); err != nil {
		return err
	}

	healthSrv := health.NewServer(health.Config{
		ServiceName: "speed-index",
		Version:     Version,
		Port:        rt.Config.SpeedIndex.HealthPort,
		Logger:      appLog,
		Checks: map[string]health.Checker{
			"database":    health.CheckFunc(rt.DB.HealthCheck),
			"speed_index": sched,
		},
	})
	healthSrv.Start(ctx)

	if runOnStart {
		if _, err := sched.RunNow(ctx); err != nil {
			appLog.WithError(err).Warn("Initial speed index build failed")
		}
	}

	if err := sched.Start(); err != nil {
		return err
	}
	healthSrv.SetReady(true)
	appLog.WithFields(logrus.Fields{
		"schedule": rt.Config.SpeedIndex.Schedule,
		"next_run": sched.NextRun().Format(time.RFC3339),
	}).Info("Speed index scheduler running")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	healthSrv.SetReady(false)
	sched.Stop()
	cancel()
	return healthSrv.Shutdown()
}
