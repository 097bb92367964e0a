// Package metrics provides the centralized Prometheus registry for the race analyzer.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "jra_analyzer"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	AnalysisRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analysis_requests_total",
		Help:      "Total number of race analysis requests by outcome",
	}, []string{"status"})
	SpeedSourceTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "speed_source_total",
		Help:      "Entrants scored by speed source",
	}, []string{"source"})
	SpeedIndexUnavailableTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "speed_index_unavailable_total",
		Help:      "Analysis runs that fell back because the speed index could not be used",
	}, []string{"reason"})
	ResponseCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "response_cache_total",
		Help:      "Analysis response cache lookups by result",
	}, []string{"result"})
)

// Histogram metrics
var (
	AnalysisDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "analysis_duration_seconds",
		Help:      "Duration of race analysis including data reads",
		Buckets:   prometheus.DefBuckets,
	})
	AnalysisEntrants = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "analysis_entrants",
		Help:      "Number of entrants scored per analysis",
		Buckets:   []float64{0, 4, 8, 10, 12, 14, 16, 18},
	})
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and status code",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "code"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(collectors.NewGoCollector())
		registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		registry.MustRegister(AnalysisRequestsTotal)
		registry.MustRegister(SpeedSourceTotal)
		registry.MustRegister(SpeedIndexUnavailableTotal)
		registry.MustRegister(ResponseCacheTotal)

		registry.MustRegister(AnalysisDuration)
		registry.MustRegister(AnalysisEntrants)
		registry.MustRegister(HTTPRequestDuration)

		// speed index build metrics
		registry.MustRegister(SpeedIndexBuildsTotal)
		registry.MustRegister(SpeedIndexBuildDuration)
		registry.MustRegister(SpeedIndexEntries)
		registry.MustRegister(SpeedIndexLastBuild)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordAnalysis records a finished analysis request.
// status should be one of: "success", "invalid_request", "not_found", "unavailable", "error"
func RecordAnalysis(status string, durationSeconds float64) {
	AnalysisRequestsTotal.WithLabelValues(status).Inc()
	AnalysisDuration.Observe(durationSeconds)
}

// RecordEntrants records the field size of a scored race.
func RecordEntrants(count int) {
	AnalysisEntrants.Observe(float64(count))
}

// RecordSpeedSource records the speed source chosen for one entrant.
func RecordSpeedSource(source string) {
	SpeedSourceTotal.WithLabelValues(source).Inc()
}

// RecordSpeedIndexUnavailable records a run that used the field-speed fallback for every entrant.
func RecordSpeedIndexUnavailable(reason string) {
	SpeedIndexUnavailableTotal.WithLabelValues(reason).Inc()
}

// RecordCacheLookup records a response cache hit or miss.
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	ResponseCacheTotal.WithLabelValues(result).Inc()
}

// RecordHTTPRequest records the latency of one HTTP request.
func RecordHTTPRequest(route, code string, durationSeconds float64) {
	HTTPRequestDuration.WithLabelValues(route, code).Observe(durationSeconds)
}
