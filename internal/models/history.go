package models

import "time"

// HistoryRecord is one past run of a horse
type HistoryRecord struct {
	HorseID     string    `db:"horse_id" json:"horse_id"`
	HorseName   string    `db:"horse_name" json:"horse_name"`
	RaceDate    time.Time `db:"race_date" json:"race_date"`
	Rank        *float64  `db:"rank" json:"rank"`
	Popularity  *float64  `db:"popularity" json:"popularity"`
	Distance    *float64  `db:"distance" json:"distance"`
	Surface     string    `db:"surface" json:"surface"`
	TimeSeconds *float64  `db:"time_sec" json:"time_sec"`
}

// HasRank reports whether the run finished with a recorded placing
func (h *HistoryRecord) HasRank() bool {
	return h.Rank != nil
}
