package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/jra-analyzer/internal/models"
)

func threeStartStats(lastRun time.Time) models.AggregatedStats {
	return models.AggregatedStats{
		Starts:            3,
		AvgRank:           f(4),
		AvgRankRecent3:    f(4),
		WinRate:           f(0),
		Top3Rate:          f(1.0 / 3.0),
		SurfaceMatchRate:  f(2.0 / 3.0),
		DistanceMatchRate: f(1),
		AvgPopularity:     f(10),
		LastRaceDate:      &lastRun,
	}
}

func TestScoreNoHistory(t *testing.T) {
	score := Score(models.AggregatedStats{}, 0, asOf)
	assert.Equal(t, 36.0, score)
}

func TestScoreClampsHigh(t *testing.T) {
	last := daysAgo(14)
	stats := models.AggregatedStats{
		Starts:            5,
		AvgRankRecent3:    f(1),
		WinRate:           f(1),
		Top3Rate:          f(1),
		SurfaceMatchRate:  f(1),
		DistanceMatchRate: f(1),
		LastRaceDate:      &last,
	}
	assert.Equal(t, 100.0, Score(stats, 0, asOf))
}

func TestScoreClampsLow(t *testing.T) {
	last := daysAgo(400)
	stats := models.AggregatedStats{
		Starts:            1,
		AvgRankRecent3:    f(18),
		WinRate:           f(0),
		Top3Rate:          f(0),
		SurfaceMatchRate:  f(0),
		DistanceMatchRate: f(0),
		AvgPopularity:     f(18),
		LastRaceDate:      &last,
	}
	assert.Equal(t, 0.0, Score(stats, -3, asOf))
}

func TestScoreComposite(t *testing.T) {
	tests := []struct {
		name     string
		lastRun  time.Time
		factor   float64
		expected float64
	}{
		// 52 + 20 + 16/3 + 0 + 16/3 + 6 - 2.4
		{name: "recent run", lastRun: daysAgo(30), factor: 0, expected: 86.3},
		{name: "exactly 180 days", lastRun: daysAgo(180), factor: 0, expected: 86.3},
		{name: "stale run", lastRun: daysAgo(181), factor: 0, expected: 83.3},
		{name: "speed factor", lastRun: daysAgo(30), factor: 0.5, expected: 89.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Score(threeStartStats(tt.lastRun), tt.factor, asOf))
		})
	}
}

func TestScoreSparseHistory(t *testing.T) {
	last := daysAgo(30)
	stats := models.AggregatedStats{
		Starts:            2,
		AvgRankRecent3:    f(8),
		WinRate:           f(0),
		Top3Rate:          f(0),
		SurfaceMatchRate:  f(0),
		DistanceMatchRate: f(0),
		LastRaceDate:      &last,
	}
	assert.Equal(t, 48.0, Score(stats, 0, asOf))
}

func TestScorePopularityPenaltyOnlyAboveEight(t *testing.T) {
	base := threeStartStats(daysAgo(30))
	base.AvgPopularity = f(8)
	withoutPenalty := Score(base, 0, asOf)

	base.AvgPopularity = nil
	assert.Equal(t, withoutPenalty, Score(base, 0, asOf))

	base.AvgPopularity = f(2)
	assert.Equal(t, withoutPenalty, Score(base, 0, asOf))
}

func TestDaysBetween(t *testing.T) {
	from := time.Date(2024, 1, 31, 23, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, 30, DaysBetween(from, to))
	assert.Equal(t, 0, DaysBetween(to, to))
}

func TestRound(t *testing.T) {
	assert.Equal(t, 86.3, Round(86.26666, 1))
	assert.Equal(t, 0.3, Round(0.25, 1))
	assert.Equal(t, -0.3, Round(-0.25, 1))
	assert.Equal(t, 3.14, Round(3.14159, 2))
}
