package analysis

import (
	"strings"

	"github.com/yourusername/jra-analyzer/internal/models"
)

const (
	speedIndexBase  = 100.0
	speedIndexScale = 10.0
)

// SpeedResolution is the speed estimate chosen for one entrant
type SpeedResolution struct {
	Source     models.SpeedSource
	IndexFinal float64
	Factor     float64
}

type surfaceKey struct {
	surface string
	key     string
}

// SpeedIndexResolver looks up reference speed indexes for the target surface.
// It is built once per pipeline run.
type SpeedIndexResolver struct {
	surface *string
	byID    map[surfaceKey]float64
	byName  map[surfaceKey]models.SpeedIndexRecord
}

// NewSpeedIndexResolver indexes the reference table. An unavailable table yields
// a resolver that always falls back.
func NewSpeedIndexResolver(surface *string, table models.SpeedIndexTable) *SpeedIndexResolver {
	r := &SpeedIndexResolver{
		surface: surface,
		byID:    make(map[surfaceKey]float64),
		byName:  make(map[surfaceKey]models.SpeedIndexRecord),
	}
	if !table.Available {
		return r
	}

	for _, rec := range table.Records {
		surf := strings.TrimSpace(rec.Surface)
		if key := strings.TrimSpace(rec.HorseKey); key != "" {
			k := surfaceKey{surface: surf, key: key}
			if _, ok := r.byID[k]; !ok {
				r.byID[k] = rec.SpeedIndex
			}
		}
		if name := NormalizeHorseName(rec.HorseNameNormalized); name != "" {
			k := surfaceKey{surface: surf, key: name}
			if cur, ok := r.byName[k]; !ok || betterNameMatch(rec, cur) {
				r.byName[k] = rec
			}
		}
	}
	return r
}

func betterNameMatch(candidate, current models.SpeedIndexRecord) bool {
	if candidate.RunCount != current.RunCount {
		return candidate.RunCount > current.RunCount
	}
	return candidate.SpeedIndex > current.SpeedIndex
}

// Resolve picks the speed estimate for an entrant: exact key, then normalized name,
// then the field z-score.
func (r *SpeedIndexResolver) Resolve(horseID, horseName string, speedZ float64) SpeedResolution {
	if r.surface != nil {
		if id := strings.TrimSpace(horseID); id != "" {
			if idx, ok := r.byID[surfaceKey{surface: *r.surface, key: id}]; ok {
				return matched(models.SpeedSourceMasterID, idx)
			}
		}
		if name := NormalizeHorseName(horseName); name != "" {
			if rec, ok := r.byName[surfaceKey{surface: *r.surface, key: name}]; ok {
				return matched(models.SpeedSourceMasterName, rec.SpeedIndex)
			}
		}
	}
	return SpeedResolution{
		Source:     models.SpeedSourceFallback,
		IndexFinal: speedIndexBase + speedZ*speedIndexScale,
		Factor:     speedZ,
	}
}

func matched(source models.SpeedSource, index float64) SpeedResolution {
	return SpeedResolution{
		Source:     source,
		IndexFinal: index,
		Factor:     (index - speedIndexBase) / speedIndexScale,
	}
}
