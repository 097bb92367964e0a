// Package scheduler runs periodic speed index rebuilds.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/jra-analyzer/internal/config"
	"github.com/yourusername/jra-analyzer/internal/service"
)

// ErrLastBuildFailed is reported by Check while the most recent build is failing
var ErrLastBuildFailed = errors.New("last speed index build failed")

// Builder rebuilds the speed index
type Builder interface {
	Build(ctx context.Context, asOf time.Time) (*service.BuildSummary, error)
}

// Status describes the most recent build run by the scheduler
type Status struct {
	Runs      int
	LastStart time.Time
	LastEnd   time.Time
	LastError error
	Last      *service.BuildSummary
}

// Scheduler manages the scheduled speed index build
type Scheduler struct {
	cron         *cron.Cron
	builder      Builder
	logger       logrus.FieldLogger
	mu           sync.RWMutex
	isRunning    bool
	jobIDs       []cron.EntryID
	status       Status
	buildTimeout time.Duration
}

// NewScheduler creates a scheduler evaluating schedules in loc
func NewScheduler(builder Builder, loc *time.Location, logger logrus.FieldLogger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	cronLog := cronLogger{logger}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		builder:      builder,
		logger:       logger,
		jobIDs:       make([]cron.EntryID, 0),
		buildTimeout: time.Hour,
	}
}

// ScheduleSpeedIndexBuild registers the rebuild job for a cron expression
// with a leading seconds field
func (s *Scheduler) ScheduleSpeedIndexBuild(spec string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	schedule, err := config.ParseSchedule(spec)
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}

	entryID := s.cron.Schedule(schedule, cron.FuncJob(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.buildTimeout)
		defer cancel()
		s.RunNow(ctx)
	}))

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("schedule", spec).Info("Scheduled speed index build")
	return nil
}

// RunNow runs one build immediately and records its outcome
func (s *Scheduler) RunNow(ctx context.Context) (*service.BuildSummary, error) {
	start := time.Now()
	summary, err := s.builder.Build(ctx, time.Time{})

	s.mu.Lock()
	s.status.Runs++
	s.status.LastStart = start
	s.status.LastEnd = time.Now()
	s.status.LastError = err
	if err == nil {
		s.status.Last = summary
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.WithError(err).Error("Scheduled speed index build failed")
	}
	return summary, err
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")
	return nil
}

// Stop stops the scheduler and waits for a running build to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns the time of the next scheduled build, zero when stopped
func (s *Scheduler) NextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return time.Time{}
	}

	next := time.Time{}
	for _, id := range s.jobIDs {
		entry := s.cron.Entry(id)
		if entry.Valid() && (next.IsZero() || entry.Next.Before(next)) {
			next = entry.Next
		}
	}
	return next
}

// Status returns a snapshot of the most recent build
func (s *Scheduler) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Check reports readiness: healthy until a build has failed, and again once
// a later build succeeds.
func (s *Scheduler) Check(context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.status.LastError != nil {
		return fmt.Errorf("%w: %v", ErrLastBuildFailed, s.status.LastError)
	}
	return nil
}

// cronLogger adapts logrus to cron.Logger
type cronLogger struct {
	logger logrus.FieldLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.WithFields(fields(keysAndValues)).Debug(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.WithFields(fields(keysAndValues)).WithError(err).Error(msg)
}

func fields(keysAndValues []interface{}) logrus.Fields {
	f := logrus.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		f[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return f
}
