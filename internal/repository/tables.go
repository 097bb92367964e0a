package repository

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/jra-analyzer/internal/config"
)

// Tables holds the sanitized, schema-qualified relation names
type Tables struct {
	Races              string
	Entries            string
	History            string
	SpeedIndex         string
	SpeedIndexBaseline string
}

const (
	servingRacesTable   = "serving_races"
	servingEntriesTable = "serving_entries"
)

// NewTables resolves relation names from the datasets configuration
func NewTables(cfg config.DatasetsConfig) Tables {
	return Tables{
		Races:              qualify(cfg.ServingSchema, servingRacesTable),
		Entries:            qualify(cfg.ServingSchema, servingEntriesTable),
		History:            qualify(cfg.AnalysisSchema, cfg.HistorySource),
		SpeedIndex:         qualify(cfg.AnalysisSchema, cfg.SpeedIndexTable),
		SpeedIndexBaseline: qualify(cfg.AnalysisSchema, cfg.SpeedIndexBaselineTable),
	}
}

func qualify(schema, name string) string {
	if schema == "" {
		return pgx.Identifier{name}.Sanitize()
	}
	return pgx.Identifier{schema, name}.Sanitize()
}

// identifierParts returns the unsanitized identifier used as a COPY target
func identifierParts(schema, name string) pgx.Identifier {
	if schema == "" {
		return pgx.Identifier{name}
	}
	return pgx.Identifier{schema, name}
}

// normalizedName is the SQL form of analysis.NormalizeHorseName
func normalizedName(expr string) string {
	return fmt.Sprintf("lower(normalize(trim(%s::text), NFKC))", expr)
}

// safeFloat casts a column to float8, yielding NULL for non-numeric text
func safeFloat(expr string) string {
	return fmt.Sprintf(
		`CASE WHEN trim(%[1]s::text) ~ '^[-+]?[0-9]+(\.[0-9]+)?$' THEN trim(%[1]s::text)::float8 END`,
		expr,
	)
}

// trimmedText renders a trimmed, non-null text column
func trimmedText(expr string) string {
	return fmt.Sprintf("COALESCE(trim(%s::text), '')", expr)
}

// pickColumn returns the first candidate present in columns
func pickColumn(columns map[string]bool, candidates ...string) string {
	for _, c := range candidates {
		if columns[strings.ToLower(c)] {
			return c
		}
	}
	return ""
}
