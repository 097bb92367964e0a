package metrics

import "github.com/prometheus/client_golang/prometheus"

// Speed index build metrics
var (
	SpeedIndexBuildsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "speed_index_builds_total",
		Help:      "Total number of speed index builds by status",
	}, []string{"status"})
	SpeedIndexBuildDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "speed_index_build_duration_seconds",
		Help:      "Duration of speed index builds in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 300, 600, 1800},
	})
	SpeedIndexEntries = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "speed_index_entries",
		Help:      "Horses in the speed index master by surface",
	}, []string{"surface"})
	SpeedIndexLastBuild = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "speed_index_last_success_timestamp_seconds",
		Help:      "Unix time of the last successful speed index build",
	})
)

// RecordSpeedIndexBuild records a build outcome.
// status should be one of: "success", "failure"
func RecordSpeedIndexBuild(status string, durationSeconds float64) {
	SpeedIndexBuildsTotal.WithLabelValues(status).Inc()
	SpeedIndexBuildDuration.Observe(durationSeconds)
}

// UpdateSpeedIndexEntries sets the per-surface master size after a successful build.
func UpdateSpeedIndexEntries(bySurface map[string]int, finishedUnix float64) {
	SpeedIndexEntries.Reset()
	for surface, n := range bySurface {
		SpeedIndexEntries.WithLabelValues(surface).Set(float64(n))
	}
	SpeedIndexLastBuild.Set(finishedUnix)
}
