package analysis

import (
	"math"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/yourusername/jra-analyzer/internal/models"
)

const (
	// HistoryDepth is the number of most recent runs kept per horse
	HistoryDepth = 5

	recentDepth            = 3
	distanceMatchTolerance = 200.0
)

// AssignHistory groups history records by entrant, keeping the order they were supplied in.
// A record belongs to an entrant when the normalized names match, or when both carry the
// same non-empty horse ID. A record is assigned to at most one entrant.
func AssignHistory(entrants []models.Entrant, history []models.HistoryRecord) [][]models.HistoryRecord {
	byName := make(map[string]int, len(entrants))
	byID := make(map[string]int, len(entrants))
	for i, e := range entrants {
		if name := NormalizeHorseName(e.HorseName); name != "" {
			if _, ok := byName[name]; !ok {
				byName[name] = i
			}
		}
		if e.HorseID != "" {
			if _, ok := byID[e.HorseID]; !ok {
				byID[e.HorseID] = i
			}
		}
	}

	grouped := make([][]models.HistoryRecord, len(entrants))
	for _, rec := range history {
		idx, ok := byName[NormalizeHorseName(rec.HorseName)]
		if !ok && rec.HorseID != "" {
			idx, ok = byID[rec.HorseID]
		}
		if !ok {
			continue
		}
		grouped[idx] = append(grouped[idx], rec)
	}
	return grouped
}

// RetainRecent returns the HistoryDepth most recent records by race date, newest first.
// Records sharing a date keep their input order.
func RetainRecent(records []models.HistoryRecord) []models.HistoryRecord {
	sorted := make([]models.HistoryRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RaceDate.After(sorted[j].RaceDate)
	})
	if len(sorted) > HistoryDepth {
		sorted = sorted[:HistoryDepth]
	}
	return sorted
}

// Aggregate reduces an entrant's history to summary statistics.
// Records beyond the HistoryDepth most recent are discarded before anything is computed.
func Aggregate(target models.RaceTarget, records []models.HistoryRecord) models.AggregatedStats {
	retained := RetainRecent(records)
	stats := models.AggregatedStats{Starts: len(retained)}
	if len(retained) == 0 {
		return stats
	}

	var (
		ranks, recentRanks, speeds, popularity []float64
		wins, top3, surfaceHits, distanceHits int
		last time.Time
	)
	for i, rec := range retained {
		if rec.HasRank() {
			ranks = append(ranks, *rec.Rank)
			if i < recentDepth {
				recentRanks = append(recentRanks, *rec.Rank)
			}
			if *rec.Rank == 1 {
				wins++
			}
			if *rec.Rank <= 3 {
				top3++
			}
		}
		if rec.Popularity != nil {
			popularity = append(popularity, *rec.Popularity)
		}
		if matchesSurface(target.Surface, rec.Surface) {
			surfaceHits++
		}
		if matchesDistance(target.Distance, rec.Distance) {
			distanceHits++
		}
		if rec.TimeSeconds != nil && *rec.TimeSeconds > 0 && rec.Distance != nil {
			speeds = append(speeds, *rec.Distance / *rec.TimeSeconds)
		}
		if rec.RaceDate.After(last) {
			last = rec.RaceDate
		}
	}

	n := float64(len(retained))
	stats.AvgRank = mean(ranks)
	stats.AvgRankRecent3 = mean(recentRanks)
	stats.WinRate = floatPtr(float64(wins) / n)
	stats.Top3Rate = floatPtr(float64(top3) / n)
	stats.SurfaceMatchRate = floatPtr(float64(surfaceHits) / n)
	stats.DistanceMatchRate = floatPtr(float64(distanceHits) / n)
	stats.AvgSpeed = mean(speeds)
	stats.AvgPopularity = mean(popularity)
	stats.LastRaceDate = &last
	return stats
}

func matchesSurface(target *string, surface string) bool {
	if target == nil {
		return false
	}
	code := models.SurfaceCode(surface)
	return code != nil && *code == *target
}

func matchesDistance(target *int, distance *float64) bool {
	if target == nil || distance == nil {
		return false
	}
	return math.Abs(*distance-float64(*target)) <= distanceMatchTolerance
}

func isSingleRune(s string) bool {
	return utf8.RuneCountInString(s) == 1
}
