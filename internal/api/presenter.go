package api

import (
	"strings"

	"github.com/yourusername/jra-analyzer/internal/analysis"
	"github.com/yourusername/jra-analyzer/internal/models"
	"github.com/yourusername/jra-analyzer/internal/raceid"
	"github.com/yourusername/jra-analyzer/internal/service"
)

// RaceResponse is the race header as presented to clients
type RaceResponse struct {
	RaceID      string `json:"race_id"`
	RaceName    string `json:"race_name"`
	KaisaiDate  string `json:"kaisai_date"`
	KaisaiBasho string `json:"kaisai_basho"`
	RaceNo      string `json:"race_no"`
	Kyori       string `json:"kyori"`
	Course      string `json:"course"`
}

// EntryResponse is one scored entrant. Rates are percentages.
type EntryResponse struct {
	Wakuban           string   `json:"wakuban"`
	Umaban            string   `json:"umaban"`
	KettoNum          string   `json:"ketto_num"`
	Bamei             string   `json:"bamei"`
	Starts            int      `json:"starts"`
	AvgRank           *float64 `json:"avg_rank"`
	WinRate           *float64 `json:"win_rate"`
	Top3Rate          *float64 `json:"top3_rate"`
	SurfaceMatchRate  *float64 `json:"surface_match_rate"`
	DistanceMatchRate *float64 `json:"distance_match_rate"`
	SpeedIndex        float64  `json:"speed_index"`
	SpeedSource       string   `json:"speed_source"`
	AnalysisScore     float64  `json:"analysis_score"`
	LastRaceDate      *string  `json:"last_race_date"`
}

// AnalysisResponse is the success body of the analysis endpoint
type AnalysisResponse struct {
	OK      bool            `json:"ok"`
	Race    RaceResponse    `json:"race"`
	Entries []EntryResponse `json:"entries"`
	AsOf    string          `json:"as_of"`
}

// ErrorResponse is the failure body of every endpoint
type ErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func presentRace(h models.RaceHeader, requestedID string) RaceResponse {
	id := strings.TrimSpace(h.RaceID)
	if id == "" {
		id = requestedID
	}
	basho := strings.TrimSpace(h.KaisaiBasho)
	if basho == "" {
		if key, err := raceid.Parse(id); err == nil {
			basho = key.Venue()
		}
	}
	return RaceResponse{
		RaceID:      id,
		RaceName:    h.DisplayName(),
		KaisaiDate:  h.KaisaiDate,
		KaisaiBasho: basho,
		RaceNo:      h.RaceNoString(),
		Kyori:       h.KyoriString(),
		Course:      strings.TrimSpace(h.Course),
	}
}

func presentEntry(s models.AnalysisScore) EntryResponse {
	entry := EntryResponse{
		Wakuban:           strings.TrimSpace(s.GateNumber),
		Umaban:            strings.TrimSpace(s.HorseNumber),
		KettoNum:          strings.TrimSpace(s.HorseID),
		Bamei:             strings.TrimSpace(s.HorseName),
		Starts:            s.Starts,
		AvgRank:           roundPtr(s.AvgRank, 1, 2),
		WinRate:           roundPtr(s.WinRate, 100, 1),
		Top3Rate:          roundPtr(s.Top3Rate, 100, 1),
		SurfaceMatchRate:  roundPtr(s.SurfaceMatchRate, 100, 1),
		DistanceMatchRate: roundPtr(s.DistanceMatchRate, 100, 1),
		SpeedIndex:        analysis.Round(s.SpeedIndexFinal, 1),
		SpeedSource:       string(s.SpeedSource),
		AnalysisScore:     s.AnalysisScore,
	}
	if s.LastRaceDate != nil {
		d := s.LastRaceDate.Format(dateLayout)
		entry.LastRaceDate = &d
	}
	return entry
}

// NewAnalysisResponse converts a service result to the response body
func NewAnalysisResponse(r *service.Result, requestedID string) AnalysisResponse {
	entries := make([]EntryResponse, len(r.Entries))
	for i, e := range r.Entries {
		entries[i] = presentEntry(e)
	}
	return AnalysisResponse{
		OK:      true,
		Race:    presentRace(r.Race, requestedID),
		Entries: entries,
		AsOf:    r.AsOf.Format(dateLayout),
	}
}

func roundPtr(v *float64, scale float64, places int32) *float64 {
	if v == nil {
		return nil
	}
	r := analysis.Round(*v*scale, places)
	return &r
}
