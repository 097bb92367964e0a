package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/jra-analyzer/internal/database"
	"github.com/yourusername/jra-analyzer/internal/models"
)

const errScanRace = "failed to scan race: %w"

// PostgresRaceRepository implements RaceRepository for PostgreSQL
type PostgresRaceRepository struct {
	db     *database.DB
	tables Tables
}

// NewPostgresRaceRepository creates a new race repository
func NewPostgresRaceRepository(db *database.DB, tables Tables) RaceRepository {
	return &PostgresRaceRepository{db: db, tables: tables}
}

func (r *PostgresRaceRepository) headerQuery() string {
	return fmt.Sprintf(`
		SELECT
			trim(race_id::text),
			COALESCE(trim(race_name::text), ''),
			COALESCE(to_char(kaisai_date::date, 'YYYY-MM-DD'), ''),
			COALESCE(trim(kaisai_basho::text), ''),
			%s::int,
			%s::int,
			COALESCE(trim(course::text), '')
		FROM %s
		WHERE race_id = $1
		LIMIT 1
	`, safeFloat("race_no"), safeFloat("kyori"), r.tables.Races)
}

// GetHeader retrieves the display header of a race
func (r *PostgresRaceRepository) GetHeader(ctx context.Context, raceID string) (*models.RaceHeader, error) {
	header := &models.RaceHeader{}
	err := r.db.GetPool().QueryRow(ctx, r.headerQuery(), raceID).Scan(
		&header.RaceID, &header.RaceName, &header.KaisaiDate, &header.KaisaiBasho,
		&header.RaceNo, &header.Kyori, &header.Course,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf(errScanRace, err)
	}
	return header, nil
}
