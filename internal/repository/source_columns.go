package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// sourceColumns maps logical fields of the history source to the physical
// columns found on the relation. Optional fields may be empty.
type sourceColumns struct {
	HorseID        string
	HorseName      string
	RaceDate       string
	Rank           string
	Popularity     string
	Surface        string
	TimeSeconds    string
	Distance       string
	Weight         string
	NumHorses      string
	Age            string
	Sex            string
	TrackCondition string
	Venue          string
	ClassName      string
}

// HorseKey is the horse identifier column, falling back to the name
func (c sourceColumns) HorseKey() string {
	if c.HorseID != "" {
		return c.HorseID
	}
	return c.HorseName
}

func resolveSourceColumns(columns map[string]bool) (sourceColumns, error) {
	cols := sourceColumns{
		HorseID:        pickColumn(columns, "ketto_num", "horse_id", "blood_reg_num"),
		HorseName:      pickColumn(columns, "horse_name", "bamei", "horse"),
		RaceDate:       pickColumn(columns, "race_date", "kaisai_date"),
		Rank:           pickColumn(columns, "rank", "kakutei_jyuni", "finish_position"),
		Popularity:     pickColumn(columns, "popularity", "ninki"),
		Surface:        pickColumn(columns, "surface", "course"),
		TimeSeconds:    pickColumn(columns, "time_sec", "finish_time_sec", "race_time_sec"),
		Distance:       pickColumn(columns, "distance", "kyori"),
		Weight:         pickColumn(columns, "weight", "kinryo"),
		NumHorses:      pickColumn(columns, "num_horses", "field_size", "head_count"),
		Age:            pickColumn(columns, "age"),
		Sex:            pickColumn(columns, "sex"),
		TrackCondition: pickColumn(columns, "track_condition", "baba_state", "condition"),
		Venue:          pickColumn(columns, "venue", "kaisai_basho", "place"),
		ClassName:      pickColumn(columns, "class_name", "race_class", "race_grade"),
	}

	var missing []string
	for field, col := range map[string]string{
		"horse_name": cols.HorseName,
		"race_date":  cols.RaceDate,
		"surface":    cols.Surface,
		"time_sec":   cols.TimeSeconds,
		"distance":   cols.Distance,
	} {
		if col == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return sourceColumns{}, fmt.Errorf("history source is missing required columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

// column renders a qualified column reference, or NULL when absent
func column(alias, name string) string {
	if name == "" {
		return "NULL"
	}
	return alias + "." + pgx.Identifier{name}.Sanitize()
}

// SourceColumnCache resolves the history source columns once and reuses them.
// Failed lookups are retried on the next call.
type SourceColumnCache struct {
	mu     sync.Mutex
	cols   *sourceColumns
	schema string
	table  string
}

// NewSourceColumnCache creates a cache for the columns of schema.table
func NewSourceColumnCache(schema, table string) *SourceColumnCache {
	return &SourceColumnCache{schema: schema, table: table}
}

func (c *SourceColumnCache) get(ctx context.Context, pool *pgxpool.Pool) (sourceColumns, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cols != nil {
		return *c.cols, nil
	}

	query := `
		SELECT lower(column_name)
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
	`
	rows, err := pool.Query(ctx, query, c.schema, c.table)
	if err != nil {
		return sourceColumns{}, fmt.Errorf("failed to inspect history source: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return sourceColumns{}, fmt.Errorf("failed to inspect history source: %w", err)
	}

	present := make(map[string]bool, len(names))
	for _, n := range names {
		present[n] = true
	}
	cols, err := resolveSourceColumns(present)
	if err != nil {
		return sourceColumns{}, err
	}
	c.cols = &cols
	return cols, nil
}
