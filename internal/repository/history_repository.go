package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/jra-analyzer/internal/database"
	"github.com/yourusername/jra-analyzer/internal/models"
)

const errScanHistory = "failed to scan history record: %w"

// PostgresHistoryRepository implements HistoryRepository for PostgreSQL
type PostgresHistoryRepository struct {
	db      *database.DB
	tables  Tables
	columns *SourceColumnCache
}

// NewPostgresHistoryRepository creates a new history repository
func NewPostgresHistoryRepository(db *database.DB, tables Tables, columns *SourceColumnCache) HistoryRepository {
	return &PostgresHistoryRepository{db: db, tables: tables, columns: columns}
}

// historyQuery joins the race's entrants to the history source by folded
// name and keeps the newest depth runs per horse
func (r *PostgresHistoryRepository) historyQuery(cols sourceColumns) string {
	return fmt.Sprintf(`
		WITH entries AS (
			SELECT DISTINCT %[1]s AS name_norm
			FROM %[2]s
			WHERE race_id = $1
		),
		history_raw AS (
			SELECT
				%[3]s AS horse_id,
				%[4]s AS horse_name,
				%[5]s::date AS race_date,
				%[6]s AS rank,
				%[7]s AS popularity,
				%[8]s AS distance,
				%[9]s AS surface,
				%[10]s AS time_sec,
				ROW_NUMBER() OVER (
					PARTITION BY e.name_norm
					ORDER BY %[5]s DESC NULLS LAST
				) AS rn
			FROM entries e
			JOIN %[11]s a
				ON %[12]s = e.name_norm
			WHERE %[5]s IS NOT NULL
		)
		SELECT horse_id, horse_name, race_date, rank, popularity, distance, surface, time_sec
		FROM history_raw
		WHERE rn <= $2
		ORDER BY horse_name, race_date DESC
	`,
		normalizedName("bamei"),
		r.tables.Entries,
		trimmedText(column("a", cols.HorseID)),
		trimmedText(column("a", cols.HorseName)),
		column("a", cols.RaceDate),
		safeFloat(column("a", cols.Rank)),
		safeFloat(column("a", cols.Popularity)),
		safeFloat(column("a", cols.Distance)),
		trimmedText(column("a", cols.Surface)),
		safeFloat(column("a", cols.TimeSeconds)),
		r.tables.History,
		normalizedName(column("a", cols.HorseName)),
	)
}

// GetForRace retrieves up to depth recent runs for each horse entered in the race
func (r *PostgresHistoryRepository) GetForRace(ctx context.Context, raceID string, depth int) ([]models.HistoryRecord, error) {
	cols, err := r.columns.get(ctx, r.db.GetPool())
	if err != nil {
		return nil, err
	}

	rows, err := r.db.GetPool().Query(ctx, r.historyQuery(cols), raceID, depth)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.HistoryRecord, error) {
		var h models.HistoryRecord
		err := row.Scan(&h.HorseID, &h.HorseName, &h.RaceDate, &h.Rank, &h.Popularity,
			&h.Distance, &h.Surface, &h.TimeSeconds)
		return h, err
	})
	if err != nil {
		return nil, fmt.Errorf(errScanHistory, err)
	}
	return records, nil
}
