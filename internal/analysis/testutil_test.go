package analysis

import (
	"time"

	"github.com/yourusername/jra-analyzer/internal/models"
)

var asOf = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func f(v float64) *float64 {
	return &v
}

func intPtr(v int) *int {
	return &v
}

func strPtr(s string) *string {
	return &s
}

func daysAgo(n int) time.Time {
	return asOf.AddDate(0, 0, -n)
}

func turf1600() *models.RaceTarget {
	return &models.RaceTarget{Distance: intPtr(1600), Surface: strPtr("芝")}
}

func run(name string, date time.Time, rank float64) models.HistoryRecord {
	return models.HistoryRecord{
		HorseName:   name,
		RaceDate:    date,
		Rank:        f(rank),
		Popularity:  f(3),
		Distance:    f(1600),
		Surface:     "芝",
		TimeSeconds: f(96),
	}
}
