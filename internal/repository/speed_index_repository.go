package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/jra-analyzer/internal/database"
	"github.com/yourusername/jra-analyzer/internal/models"
)

const (
	errScanSpeedIndex = "failed to scan speed index record: %w"
	errScanSourceRun  = "failed to scan source run: %w"
)

var (
	speedIndexColumns = []string{
		"horse_key", "horse_name", "surface", "u_hat", "speed_z", "speed_index", "run_count", "asof_date",
	}
	baselineColumns = []string{
		"surface", "period", "mean_u", "sd_u", "n_horses", "asof_date",
	}
)

// PostgresSpeedIndexRepository implements SpeedIndexRepository for PostgreSQL
type PostgresSpeedIndexRepository struct {
	db      *database.DB
	tables  Tables
	columns *SourceColumnCache

	masterTarget   pgx.Identifier
	baselineTarget pgx.Identifier
}

// NewPostgresSpeedIndexRepository creates a new speed index repository
func NewPostgresSpeedIndexRepository(db *database.DB, tables Tables, columns *SourceColumnCache, schema, master, baseline string) SpeedIndexRepository {
	return &PostgresSpeedIndexRepository{
		db:             db,
		tables:         tables,
		columns:        columns,
		masterTarget:   identifierParts(schema, master),
		baselineTarget: identifierParts(schema, baseline),
	}
}

// Exists reports whether the speed index master table is present
func (r *PostgresSpeedIndexRepository) Exists(ctx context.Context) (bool, error) {
	var exists bool
	err := r.db.GetPool().QueryRow(ctx, "SELECT to_regclass($1) IS NOT NULL", r.tables.SpeedIndex).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check speed index table: %w", err)
	}
	return exists, nil
}

func (r *PostgresSpeedIndexRepository) forRaceQuery() string {
	return fmt.Sprintf(`
		WITH entries AS (
			SELECT %[1]s AS ketto_num, %[2]s AS name_norm
			FROM %[3]s
			WHERE race_id = $1
		)
		SELECT
			%[4]s,
			%[5]s,
			%[6]s,
			s.speed_index::float8,
			COALESCE(s.run_count, 0)::int
		FROM %[7]s s
		WHERE s.speed_index IS NOT NULL
		  AND (
			trim(s.horse_key::text) IN (SELECT ketto_num FROM entries WHERE ketto_num <> '')
			OR %[8]s IN (SELECT name_norm FROM entries)
		  )
	`,
		trimmedText("ketto_num"),
		normalizedName("bamei"),
		r.tables.Entries,
		trimmedText("s.horse_key"),
		trimmedText("s.horse_name"),
		trimmedText("s.surface"),
		r.tables.SpeedIndex,
		normalizedName("s.horse_name"),
	)
}

// GetForRace retrieves the speed index rows for the horses entered in a race.
// Names are returned trimmed; callers fold them for comparison.
func (r *PostgresSpeedIndexRepository) GetForRace(ctx context.Context, raceID string) ([]models.SpeedIndexRecord, error) {
	rows, err := r.db.GetPool().Query(ctx, r.forRaceQuery(), raceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query speed index: %w", err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.SpeedIndexRecord, error) {
		var rec models.SpeedIndexRecord
		err := row.Scan(&rec.HorseKey, &rec.HorseNameNormalized, &rec.Surface, &rec.SpeedIndex, &rec.RunCount)
		return rec, err
	})
	if err != nil {
		return nil, fmt.Errorf(errScanSpeedIndex, err)
	}
	return records, nil
}

func (r *PostgresSpeedIndexRepository) sourceQuery(cols sourceColumns) string {
	return fmt.Sprintf(`
		SELECT
			%s AS horse_key,
			%s AS horse_name,
			%s AS surface,
			%s AS time_sec,
			%s AS distance,
			%s AS weight,
			%s AS num_horses,
			%s AS age,
			%s AS sex,
			%s AS track_condition,
			%s AS venue,
			%s AS class_name
		FROM %s a
		WHERE %s IS NOT NULL AND %s IS NOT NULL
	`,
		trimmedText(column("a", cols.HorseKey())),
		trimmedText(column("a", cols.HorseName)),
		trimmedText(column("a", cols.Surface)),
		safeFloat(column("a", cols.TimeSeconds)),
		safeFloat(column("a", cols.Distance)),
		safeFloat(column("a", cols.Weight)),
		safeFloat(column("a", cols.NumHorses)),
		safeFloat(column("a", cols.Age)),
		trimmedText(column("a", cols.Sex)),
		trimmedText(column("a", cols.TrackCondition)),
		trimmedText(column("a", cols.Venue)),
		trimmedText(column("a", cols.ClassName)),
		r.tables.History,
		column("a", cols.TimeSeconds),
		column("a", cols.Distance),
	)
}

// GetSourceRuns loads every historical run usable for fitting the speed index
func (r *PostgresSpeedIndexRepository) GetSourceRuns(ctx context.Context) ([]models.SourceRun, error) {
	cols, err := r.columns.get(ctx, r.db.GetPool())
	if err != nil {
		return nil, err
	}

	rows, err := r.db.GetPool().Query(ctx, r.sourceQuery(cols))
	if err != nil {
		return nil, fmt.Errorf("failed to query speed index source: %w", err)
	}

	runs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.SourceRun, error) {
		var s models.SourceRun
		err := row.Scan(&s.HorseKey, &s.HorseName, &s.Surface, &s.TimeSeconds, &s.Distance,
			&s.Weight, &s.NumHorses, &s.Age, &s.Sex, &s.TrackCondition, &s.Venue, &s.ClassName)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf(errScanSourceRun, err)
	}
	return runs, nil
}

func (r *PostgresSpeedIndexRepository) createStatements() []string {
	return []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				horse_key   text NOT NULL,
				horse_name  text NOT NULL,
				surface     text NOT NULL,
				u_hat       double precision NOT NULL,
				speed_z     double precision NOT NULL,
				speed_index double precision NOT NULL,
				run_count   integer NOT NULL,
				asof_date   date NOT NULL
			)`, r.tables.SpeedIndex),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				surface   text NOT NULL,
				period    text NOT NULL,
				mean_u    double precision NOT NULL,
				sd_u      double precision NOT NULL,
				n_horses  integer NOT NULL,
				asof_date date NOT NULL
			)`, r.tables.SpeedIndexBaseline),
	}
}

// ReplaceAll truncates the master and baseline tables and writes the new
// rows in a single transaction
func (r *PostgresSpeedIndexRepository) ReplaceAll(ctx context.Context, entries []models.SpeedIndexEntry, baselines []models.SpeedIndexBaseline) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		for _, stmt := range r.createStatements() {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("failed to create speed index tables: %w", err)
			}
		}
		if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE %s, %s", r.tables.SpeedIndex, r.tables.SpeedIndexBaseline)); err != nil {
			return fmt.Errorf("failed to truncate speed index tables: %w", err)
		}

		_, err := tx.CopyFrom(ctx, r.masterTarget, speedIndexColumns,
			pgx.CopyFromSlice(len(entries), func(i int) ([]any, error) {
				e := entries[i]
				return []any{e.HorseKey, e.HorseName, e.Surface, e.UHat, e.SpeedZ, e.SpeedIndex, e.RunCount, e.AsOfDate}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("failed to copy speed index rows: %w", err)
		}

		_, err = tx.CopyFrom(ctx, r.baselineTarget, baselineColumns,
			pgx.CopyFromSlice(len(baselines), func(i int) ([]any, error) {
				b := baselines[i]
				return []any{b.Surface, b.Period, b.MeanU, b.SdU, b.NHorses, b.AsOfDate}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("failed to copy speed index baseline rows: %w", err)
		}
		return nil
	})
}
