package logger

import (
	"github.com/sirupsen/logrus"
)

// AnalysisLogger provides dedicated logging for race analysis and speed index builds.
type AnalysisLogger struct {
	*logrus.Entry
}

// NewAnalysisLogger creates a new analysis logger.
func NewAnalysisLogger(baseLogger *logrus.Logger) *AnalysisLogger {
	return &AnalysisLogger{
		Entry: baseLogger.WithField("component", "analysis"),
	}
}

// LogAnalysisCompleted logs a finished analysis run.
func (al *AnalysisLogger) LogAnalysisCompleted(raceID string, entrants int, speedIndexAvailable bool, sources map[string]int, durationMs float64) {
	al.WithFields(logrus.Fields{
		"race_id":               raceID,
		"entrants":              entrants,
		"speed_index_available": speedIndexAvailable,
		"speed_sources":         sources,
		"duration_ms":           durationMs,
	}).Info("Race analysis completed")
}

// LogAnalysisFailed logs a failed analysis run.
func (al *AnalysisLogger) LogAnalysisFailed(raceID string, err error) {
	al.WithFields(logrus.Fields{
		"race_id": raceID,
		"error":   err.Error(),
	}).Error("Race analysis failed")
}

// LogSpeedIndexUnavailable logs that the optional speed index table was skipped.
func (al *AnalysisLogger) LogSpeedIndexUnavailable(raceID, reason string, err error) {
	fields := logrus.Fields{
		"race_id": raceID,
		"reason":  reason,
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	al.WithFields(fields).Warn("Speed index unavailable, falling back to field speed")
}

// LogSpeedIndexBuildStarted logs the start of a speed index build.
func (al *AnalysisLogger) LogSpeedIndexBuildStarted(buildID, asOf string) {
	al.WithFields(logrus.Fields{
		"build_id": buildID,
		"as_of":    asOf,
	}).Info("Speed index build started")
}

// LogSpeedIndexBuildCompleted logs a successful speed index build.
func (al *AnalysisLogger) LogSpeedIndexBuildCompleted(buildID string, sourceRows, entries, surfaces int, durationMs float64) {
	al.WithFields(logrus.Fields{
		"build_id":    buildID,
		"source_rows": sourceRows,
		"entries":     entries,
		"surfaces":    surfaces,
		"duration_ms": durationMs,
	}).Info("Speed index build completed")
}

// LogSpeedIndexBuildFailed logs a failed speed index build.
func (al *AnalysisLogger) LogSpeedIndexBuildFailed(buildID string, err error) {
	al.WithFields(logrus.Fields{
		"build_id": buildID,
		"error":    err.Error(),
	}).Error("Speed index build failed")
}
