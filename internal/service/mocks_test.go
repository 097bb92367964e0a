package service

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"

	"github.com/yourusername/jra-analyzer/internal/models"
	"github.com/yourusername/jra-analyzer/internal/repository"
)

// MockRaceRepository mocks race repository
type MockRaceRepository struct {
	mock.Mock
}

func (m *MockRaceRepository) GetHeader(ctx context.Context, raceID string) (*models.RaceHeader, error) {
	args := m.Called(ctx, raceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RaceHeader), args.Error(1)
}

// MockEntryRepository mocks entry repository
type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) GetByRaceID(ctx context.Context, raceID string) ([]models.Entrant, error) {
	args := m.Called(ctx, raceID)
	entrants, _ := args.Get(0).([]models.Entrant)
	return entrants, args.Error(1)
}

// MockHistoryRepository mocks history repository
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) GetForRace(ctx context.Context, raceID string, depth int) ([]models.HistoryRecord, error) {
	args := m.Called(ctx, raceID, depth)
	records, _ := args.Get(0).([]models.HistoryRecord)
	return records, args.Error(1)
}

// MockSpeedIndexRepository mocks speed index repository
type MockSpeedIndexRepository struct {
	mock.Mock
}

func (m *MockSpeedIndexRepository) Exists(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockSpeedIndexRepository) GetForRace(ctx context.Context, raceID string) ([]models.SpeedIndexRecord, error) {
	args := m.Called(ctx, raceID)
	records, _ := args.Get(0).([]models.SpeedIndexRecord)
	return records, args.Error(1)
}

func (m *MockSpeedIndexRepository) GetSourceRuns(ctx context.Context) ([]models.SourceRun, error) {
	args := m.Called(ctx)
	runs, _ := args.Get(0).([]models.SourceRun)
	return runs, args.Error(1)
}

func (m *MockSpeedIndexRepository) ReplaceAll(ctx context.Context, entries []models.SpeedIndexEntry, baselines []models.SpeedIndexBaseline) error {
	args := m.Called(ctx, entries, baselines)
	return args.Error(0)
}

type mockRepos struct {
	race    *MockRaceRepository
	entry   *MockEntryRepository
	history *MockHistoryRepository
	speed   *MockSpeedIndexRepository
}

func newMockRepos() *mockRepos {
	return &mockRepos{
		race:    &MockRaceRepository{},
		entry:   &MockEntryRepository{},
		history: &MockHistoryRepository{},
		speed:   &MockSpeedIndexRepository{},
	}
}

func (m *mockRepos) repositories() *repository.Repositories {
	return &repository.Repositories{
		Race:       m.race,
		Entry:      m.entry,
		History:    m.history,
		SpeedIndex: m.speed,
	}
}

func (m *mockRepos) assertExpectations(t mock.TestingT) {
	m.race.AssertExpectations(t)
	m.entry.AssertExpectations(t)
	m.history.AssertExpectations(t)
	m.speed.AssertExpectations(t)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
