package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/jra-analyzer/internal/logger"
	"github.com/yourusername/jra-analyzer/internal/metrics"
	"github.com/yourusername/jra-analyzer/internal/repository"
	"github.com/yourusername/jra-analyzer/internal/speedindex"
)

// BuildSummary describes a completed speed index build
type BuildSummary struct {
	BuildID    string         `json:"build_id"`
	AsOf       time.Time      `json:"as_of"`
	SourceRows int            `json:"source_rows"`
	Entries    int            `json:"entries"`
	BySurface  map[string]int `json:"by_surface"`
	Duration   time.Duration  `json:"duration"`
}

// SpeedIndexService rebuilds the speed index tables from the history source
type SpeedIndexService struct {
	repo     repository.SpeedIndexRepository
	opts     speedindex.Options
	clock    Clock
	location *time.Location
	base     *logrus.Logger
	logger   *logger.AnalysisLogger
}

// NewSpeedIndexService creates a new speed index build service
func NewSpeedIndexService(
	repo repository.SpeedIndexRepository,
	opts speedindex.Options,
	clock Clock,
	location *time.Location,
	log *logrus.Logger,
) *SpeedIndexService {
	if clock == nil {
		clock = SystemClock()
	}
	return &SpeedIndexService{
		repo:     repo,
		opts:     opts,
		clock:    clock,
		location: location,
		base:     log,
		logger:   logger.NewAnalysisLogger(log),
	}
}

// Build fits the speed index as of the given date and replaces the stored
// tables. A zero asOf uses today's date.
func (s *SpeedIndexService) Build(ctx context.Context, asOf time.Time) (*BuildSummary, error) {
	start := s.clock.Now()
	buildID := uuid.New().String()
	if asOf.IsZero() {
		asOf = ReferenceDate(start, s.location)
	} else {
		asOf = ReferenceDate(asOf, nil)
	}
	s.logger.LogSpeedIndexBuildStarted(buildID, asOf.Format("2006-01-02"))

	summary, err := s.build(ctx, buildID, asOf)
	duration := s.clock.Now().Sub(start)
	if err != nil {
		metrics.RecordSpeedIndexBuild("failure", duration.Seconds())
		s.logger.LogSpeedIndexBuildFailed(buildID, err)
		return nil, err
	}

	summary.Duration = duration
	metrics.RecordSpeedIndexBuild("success", duration.Seconds())
	metrics.UpdateSpeedIndexEntries(summary.BySurface, float64(s.clock.Now().Unix()))
	s.logger.LogSpeedIndexBuildCompleted(buildID, summary.SourceRows, summary.Entries, len(summary.BySurface),
		float64(duration.Milliseconds()))
	return summary, nil
}

func (s *SpeedIndexService) build(ctx context.Context, buildID string, asOf time.Time) (*BuildSummary, error) {
	runs, err := s.repo.GetSourceRuns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load speed index source: %w", err)
	}

	opts := s.opts
	opts.AsOf = asOf
	builder := speedindex.NewBuilder(opts, s.base.WithField("build_id", buildID))
	result, err := builder.Build(runs)
	if err != nil {
		return nil, fmt.Errorf("failed to build speed index: %w", err)
	}

	if err := s.repo.ReplaceAll(ctx, result.Entries, result.Baselines); err != nil {
		return nil, fmt.Errorf("failed to store speed index: %w", err)
	}

	bySurface := make(map[string]int)
	for _, e := range result.Entries {
		bySurface[e.Surface]++
	}
	return &BuildSummary{
		BuildID:    buildID,
		AsOf:       asOf,
		SourceRows: result.SourceRows,
		Entries:    len(result.Entries),
		BySurface:  bySurface,
	}, nil
}
