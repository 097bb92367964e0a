package analysis

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourusername/jra-analyzer/internal/models"
)

// Score weights. The recent-rank baseline of 8 is a fixed "worst normal rank",
// not derived from field size.
const (
	baseScore             = 52.0
	recentRankBaseline    = 8.0
	recentRankWeight      = 5.0
	top3Weight            = 16.0
	winWeight             = 10.0
	surfaceMatchWeight    = 8.0
	distanceMatchWeight   = 6.0
	speedFactorWeight     = 6.0
	popularityBaseline    = 8.0
	popularityWeight      = 1.2
	noHistoryPenalty      = 14.0
	sparseHistoryPenalty  = 4.0
	sparseHistoryStarts   = 3
	unknownLastRunPenalty = 2.0
	stalePenalty          = 3.0
	staleAfterDays        = 180

	minScore = 0.0
	maxScore = 100.0
)

// Score combines an entrant's aggregates and speed factor into a 0-100 score,
// rounded to one decimal. Null aggregates contribute nothing.
func Score(stats models.AggregatedStats, speedFactor float64, asOf time.Time) float64 {
	score := baseScore
	if stats.AvgRankRecent3 != nil {
		score += (recentRankBaseline - *stats.AvgRankRecent3) * recentRankWeight
	}
	score += valueOrZero(stats.Top3Rate) * top3Weight
	score += valueOrZero(stats.WinRate) * winWeight
	score += valueOrZero(stats.SurfaceMatchRate) * surfaceMatchWeight
	score += valueOrZero(stats.DistanceMatchRate) * distanceMatchWeight
	score += speedFactor * speedFactorWeight
	if stats.AvgPopularity != nil {
		score -= math.Max(*stats.AvgPopularity-popularityBaseline, 0.0) * popularityWeight
	}
	score -= historyPenalty(stats.Starts)
	score -= stalenessPenalty(stats.LastRaceDate, asOf)

	return Round(clamp(score, minScore, maxScore), 1)
}

func historyPenalty(starts int) float64 {
	switch {
	case starts == 0:
		return noHistoryPenalty
	case starts < sparseHistoryStarts:
		return sparseHistoryPenalty
	default:
		return 0.0
	}
}

func stalenessPenalty(last *time.Time, asOf time.Time) float64 {
	switch {
	case last == nil:
		return unknownLastRunPenalty
	case DaysBetween(*last, asOf) > staleAfterDays:
		return stalePenalty
	default:
		return 0.0
	}
}

// DaysBetween returns the number of calendar days from `from` to `to`,
// comparing the dates as written in each value's own location.
func DaysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}

// Round rounds half away from zero to the given number of decimal places
func Round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0.0
	}
	return *v
}
