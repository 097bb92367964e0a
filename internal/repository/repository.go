// Package repository provides PostgreSQL access to races, entrants, run
// history and the speed index tables.
package repository

import (
	"fmt"

	"github.com/yourusername/jra-analyzer/internal/config"
	"github.com/yourusername/jra-analyzer/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Race       RaceRepository
	Entry      EntryRepository
	History    HistoryRepository
	SpeedIndex SpeedIndexRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB, datasets config.DatasetsConfig) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	tables := NewTables(datasets)
	columns := NewSourceColumnCache(datasets.AnalysisSchema, datasets.HistorySource)

	return &Repositories{
		Race:    NewPostgresRaceRepository(db, tables),
		Entry:   NewPostgresEntryRepository(db, tables),
		History: NewPostgresHistoryRepository(db, tables, columns),
		SpeedIndex: NewPostgresSpeedIndexRepository(db, tables, columns,
			datasets.AnalysisSchema, datasets.SpeedIndexTable, datasets.SpeedIndexBaselineTable),
	}, nil
}
