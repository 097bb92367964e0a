package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/jra-analyzer/internal/database"
	"github.com/yourusername/jra-analyzer/internal/models"
)

const errScanEntrant = "failed to scan entrant: %w"

// PostgresEntryRepository implements EntryRepository for PostgreSQL
type PostgresEntryRepository struct {
	db     *database.DB
	tables Tables
}

// NewPostgresEntryRepository creates a new entry repository
func NewPostgresEntryRepository(db *database.DB, tables Tables) EntryRepository {
	return &PostgresEntryRepository{db: db, tables: tables}
}

func (r *PostgresEntryRepository) entriesQuery() string {
	return fmt.Sprintf(`
		SELECT
			%s,
			COALESCE(lpad(trim(umaban::text), 2, '0'), ''),
			%s,
			%s
		FROM %s
		WHERE race_id = $1
	`, trimmedText("wakuban"), trimmedText("ketto_num"), trimmedText("bamei"), r.tables.Entries)
}

// GetByRaceID retrieves the entrants of a race with horse numbers padded to two digits
func (r *PostgresEntryRepository) GetByRaceID(ctx context.Context, raceID string) ([]models.Entrant, error) {
	rows, err := r.db.GetPool().Query(ctx, r.entriesQuery(), raceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entrants: %w", err)
	}

	entrants, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Entrant, error) {
		var e models.Entrant
		err := row.Scan(&e.GateNumber, &e.HorseNumber, &e.HorseID, &e.HorseName)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf(errScanEntrant, err)
	}
	return entrants, nil
}
