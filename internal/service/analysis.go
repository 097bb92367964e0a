// Package service orchestrates data reads around the analysis pipeline and
// the speed index build.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/jra-analyzer/internal/analysis"
	"github.com/yourusername/jra-analyzer/internal/logger"
	"github.com/yourusername/jra-analyzer/internal/metrics"
	"github.com/yourusername/jra-analyzer/internal/models"
	"github.com/yourusername/jra-analyzer/internal/raceid"
	"github.com/yourusername/jra-analyzer/internal/repository"
)

// Reasons reported when the speed index cannot be used
const (
	speedIndexMissing     = "missing"
	speedIndexCheckFailed = "check_failed"
	speedIndexReadFailed  = "read_failed"
)

// Result is the outcome of analyzing one race
type Result struct {
	Race                models.RaceHeader
	Target              models.RaceTarget
	Entries             []models.AnalysisScore
	AsOf                time.Time
	SpeedIndexAvailable bool
}

// AnalysisService loads race data and runs the scoring pipeline
type AnalysisService struct {
	races        repository.RaceRepository
	entries      repository.EntryRepository
	history      repository.HistoryRepository
	speedIndex   repository.SpeedIndexRepository
	clock        Clock
	location     *time.Location
	historyDepth int
	logger       *logger.AnalysisLogger
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(
	repos *repository.Repositories,
	clock Clock,
	location *time.Location,
	historyDepth int,
	log *logrus.Logger,
) *AnalysisService {
	if clock == nil {
		clock = SystemClock()
	}
	if historyDepth <= 0 {
		historyDepth = analysis.HistoryDepth
	}
	return &AnalysisService{
		races:        repos.Race,
		entries:      repos.Entry,
		history:      repos.History,
		speedIndex:   repos.SpeedIndex,
		clock:        clock,
		location:     location,
		historyDepth: historyDepth,
		logger:       logger.NewAnalysisLogger(log),
	}
}

// raceData is everything read for one analysis
type raceData struct {
	header   *models.RaceHeader
	entrants []models.Entrant
	history  []models.HistoryRecord
	speed    models.SpeedIndexTable
}

// Analyze scores every entrant of the race. A zero asOf uses today's date
// in the configured timezone.
func (s *AnalysisService) Analyze(ctx context.Context, raceID string, asOf time.Time) (*Result, error) {
	start := time.Now()
	result, err := s.analyze(ctx, raceID, asOf)
	metrics.RecordAnalysis(StatusLabel(err), time.Since(start).Seconds())
	if err != nil {
		if !isClientError(err) {
			s.logger.LogAnalysisFailed(raceID, err)
		}
		return nil, err
	}

	sources := make(map[string]int)
	for _, e := range result.Entries {
		sources[string(e.SpeedSource)]++
		metrics.RecordSpeedSource(string(e.SpeedSource))
	}
	metrics.RecordEntrants(len(result.Entries))
	s.logger.LogAnalysisCompleted(raceID, len(result.Entries), result.SpeedIndexAvailable, sources,
		float64(time.Since(start).Microseconds())/1000.0)
	return result, nil
}

func (s *AnalysisService) analyze(ctx context.Context, raceID string, asOf time.Time) (*Result, error) {
	key, err := raceid.Parse(raceID)
	if err != nil {
		return nil, err
	}
	id := key.String()

	if asOf.IsZero() {
		asOf = ReferenceDate(s.clock.Now(), s.location)
	} else {
		asOf = ReferenceDate(asOf, nil)
	}

	data, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	target := data.header.Target()
	scores, err := analysis.Run(analysis.Input{
		Target:     target,
		Entrants:   data.entrants,
		History:    data.history,
		SpeedIndex: data.speed,
		AsOf:       asOf,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to analyze race %s: %w", id, err)
	}

	return &Result{
		Race:                *data.header,
		Target:              *target,
		Entries:             scores,
		AsOf:                asOf,
		SpeedIndexAvailable: data.speed.Available,
	}, nil
}

// load issues the independent reads concurrently
func (s *AnalysisService) load(ctx context.Context, raceID string) (*raceData, error) {
	data := &raceData{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		header, err := s.races.GetHeader(gctx, raceID)
		if errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("race %s: %w", raceID, models.ErrRaceNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to load race header: %w", err)
		}
		data.header = header
		return nil
	})

	g.Go(func() error {
		entrants, err := s.entries.GetByRaceID(gctx, raceID)
		if err != nil {
			return fmt.Errorf("failed to load entrants: %w", err)
		}
		data.entrants = entrants
		return nil
	})

	g.Go(func() error {
		history, err := s.history.GetForRace(gctx, raceID, s.historyDepth)
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}
		data.history = history
		return nil
	})

	// the speed index is optional and never fails the group
	g.Go(func() error {
		data.speed = s.loadSpeedIndex(gctx, raceID)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}

func (s *AnalysisService) loadSpeedIndex(ctx context.Context, raceID string) models.SpeedIndexTable {
	if s.speedIndex == nil {
		return models.SpeedIndexTable{}
	}

	exists, err := s.speedIndex.Exists(ctx)
	if err != nil {
		s.unavailable(ctx, raceID, speedIndexCheckFailed, err)
		return models.SpeedIndexTable{}
	}
	if !exists {
		s.unavailable(ctx, raceID, speedIndexMissing, nil)
		return models.SpeedIndexTable{}
	}

	records, err := s.speedIndex.GetForRace(ctx, raceID)
	if err != nil {
		s.unavailable(ctx, raceID, speedIndexReadFailed, err)
		return models.SpeedIndexTable{}
	}
	return models.SpeedIndexTable{Available: true, Records: records}
}

// unavailable reports nothing once ctx is done
func (s *AnalysisService) unavailable(ctx context.Context, raceID, reason string, err error) {
	if ctx.Err() != nil {
		return
	}
	metrics.RecordSpeedIndexUnavailable(reason)
	s.logger.LogSpeedIndexUnavailable(raceID, reason, err)
}
