package models

import "time"

// SpeedSource identifies which resolution branch produced a speed index
type SpeedSource string

const (
	SpeedSourceMasterID   SpeedSource = "master_id"
	SpeedSourceMasterName SpeedSource = "master_name"
	SpeedSourceFallback   SpeedSource = "fallback"
)

// AggregatedStats summarizes an entrant's retained history.
// Nil fields mean the aggregate is undefined for the retained records.
type AggregatedStats struct {
	Starts            int        `json:"starts"`
	AvgRank           *float64   `json:"avg_rank"`
	AvgRankRecent3    *float64   `json:"avg_rank_recent3"`
	WinRate           *float64   `json:"win_rate"`
	Top3Rate          *float64   `json:"top3_rate"`
	SurfaceMatchRate  *float64   `json:"surface_match_rate"`
	DistanceMatchRate *float64   `json:"distance_match_rate"`
	AvgSpeed          *float64   `json:"avg_speed"`
	AvgPopularity     *float64   `json:"avg_popularity"`
	LastRaceDate      *time.Time `json:"last_race_date"`
}

// AnalysisScore is the scored result for one entrant
type AnalysisScore struct {
	Entrant
	AggregatedStats
	SpeedZ          float64     `json:"speed_z"`
	SpeedIndexFinal float64     `json:"speed_index_final"`
	SpeedFactor     float64     `json:"speed_factor"`
	SpeedSource     SpeedSource `json:"speed_source"`
	AnalysisScore   float64     `json:"analysis_score"`
}
