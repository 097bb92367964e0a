package analysis

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/jra-analyzer/internal/models"
)

// Input is the materialized snapshot one pipeline run works on
type Input struct {
	Target     *models.RaceTarget
	Entrants   []models.Entrant
	History    []models.HistoryRecord
	SpeedIndex models.SpeedIndexTable
	// AsOf is the reference date for staleness scoring
	AsOf time.Time
}

// Run scores every entrant of a race and returns the results ordered by horse number.
// It performs no I/O and reads no clock; identical inputs give identical output.
func Run(in Input) ([]models.AnalysisScore, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	if len(in.Entrants) == 0 {
		return []models.AnalysisScore{}, nil
	}

	grouped := AssignHistory(in.Entrants, in.History)
	stats := make([]models.AggregatedStats, len(in.Entrants))
	for i := range in.Entrants {
		stats[i] = Aggregate(*in.Target, grouped[i])
	}

	field := ComputeFieldSpeed(stats)
	resolver := NewSpeedIndexResolver(in.Target.Surface, in.SpeedIndex)

	results := make([]models.AnalysisScore, len(in.Entrants))
	for i, e := range in.Entrants {
		z := field.Z(stats[i].AvgSpeed)
		speed := resolver.Resolve(e.HorseID, e.HorseName, z)
		results[i] = models.AnalysisScore{
			Entrant:         e,
			AggregatedStats: stats[i],
			SpeedZ:          z,
			SpeedIndexFinal: speed.IndexFinal,
			SpeedFactor:     speed.Factor,
			SpeedSource:     speed.Source,
			AnalysisScore:   Score(stats[i], speed.Factor, in.AsOf),
		}
	}

	SortByHorseNumber(results)
	return results, nil
}

func validate(in Input) error {
	if in.Target == nil {
		return models.ErrRaceNotFound
	}
	if d := in.Target.Distance; d != nil && *d <= 0 {
		return fmt.Errorf("%w: distance must be positive, got %d", models.ErrInvalidTarget, *d)
	}
	if s := in.Target.Surface; s != nil && !isSingleRune(*s) {
		return fmt.Errorf("%w: surface must be a single character, got %q", models.ErrInvalidTarget, *s)
	}

	seen := make(map[string]struct{}, len(in.Entrants))
	for _, e := range in.Entrants {
		if _, dup := seen[e.HorseNumber]; dup {
			return fmt.Errorf("%w: %q", models.ErrDuplicateEntrant, e.HorseNumber)
		}
		seen[e.HorseNumber] = struct{}{}
	}
	return nil
}

// SortByHorseNumber orders results by numeric horse number. Non-numeric numbers
// sort after all numeric ones, lexically among themselves.
func SortByHorseNumber(results []models.AnalysisScore) {
	sort.SliceStable(results, func(i, j int) bool {
		return horseNumberLess(results[i].HorseNumber, results[j].HorseNumber)
	})
}

func horseNumberLess(a, b string) bool {
	na, errA := strconv.Atoi(strings.TrimSpace(a))
	nb, errB := strconv.Atoi(strings.TrimSpace(b))
	switch {
	case errA == nil && errB == nil:
		if na != nb {
			return na < nb
		}
		return a < b
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}
