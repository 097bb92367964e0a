package analysis

import (
	"math"

	"github.com/yourusername/jra-analyzer/internal/models"
)

// FieldSpeed is the distribution of average speed across a race's field
type FieldSpeed struct {
	Mean *float64
	Std  *float64
}

// ComputeFieldSpeed returns the mean and population standard deviation of the
// non-null average speeds. Entrants without a speed are left out of both.
func ComputeFieldSpeed(stats []models.AggregatedStats) FieldSpeed {
	var speeds []float64
	for _, s := range stats {
		if s.AvgSpeed != nil {
			speeds = append(speeds, *s.AvgSpeed)
		}
	}
	avg := mean(speeds)
	if avg == nil {
		return FieldSpeed{}
	}
	sq := 0.0
	for _, v := range speeds {
		d := v - *avg
		sq += d * d
	}
	return FieldSpeed{Mean: avg, Std: floatPtr(math.Sqrt(sq / float64(len(speeds))))}
}

// Z returns the entrant's speed in standard deviations from the field mean, 0 when undefined
func (f FieldSpeed) Z(avgSpeed *float64) float64 {
	if f.Std == nil || *f.Std == 0 || avgSpeed == nil || f.Mean == nil {
		return 0.0
	}
	return (*avgSpeed - *f.Mean) / *f.Std
}
