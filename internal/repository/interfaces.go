package repository

import (
	"context"

	"github.com/yourusername/jra-analyzer/internal/models"
)

// RaceRepository reads race headers
type RaceRepository interface {
	// GetHeader returns models.ErrNotFound when the race does not exist
	GetHeader(ctx context.Context, raceID string) (*models.RaceHeader, error)
}

// EntryRepository reads the declared runners of a race
type EntryRepository interface {
	GetByRaceID(ctx context.Context, raceID string) ([]models.Entrant, error)
}

// HistoryRepository reads past runs of the horses entered in a race
type HistoryRepository interface {
	// GetForRace returns at most depth records per horse, newest first
	GetForRace(ctx context.Context, raceID string, depth int) ([]models.HistoryRecord, error)
}

// SpeedIndexRepository reads and replaces the speed index reference tables
type SpeedIndexRepository interface {
	Exists(ctx context.Context) (bool, error)
	GetForRace(ctx context.Context, raceID string) ([]models.SpeedIndexRecord, error)
	GetSourceRuns(ctx context.Context) ([]models.SourceRun, error)
	ReplaceAll(ctx context.Context, entries []models.SpeedIndexEntry, baselines []models.SpeedIndexBaseline) error
}
