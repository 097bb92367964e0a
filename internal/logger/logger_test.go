package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		return nil
	}
	return logEntry
}

func TestNewLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	log := newLogger(buf, "debug", "production")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)

	log = newLogger(buf, "bogus", "development")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)
	assert.Contains(t, buf.String(), "Invalid log level")
}

func TestAnalysisLoggerCompleted(t *testing.T) {
	log, buf := setupTestLogger()
	analysisLogger := NewAnalysisLogger(log)

	analysisLogger.LogAnalysisCompleted("2024052505021211", 16, true, map[string]int{"master_id": 14, "fallback": 2}, 12.5)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "analysis", logEntry["component"])
	assert.Equal(t, "2024052505021211", logEntry["race_id"])
	assert.Equal(t, float64(16), logEntry["entrants"])
	assert.Equal(t, true, logEntry["speed_index_available"])
	assert.Equal(t, "info", logEntry["level"])
}

func TestAnalysisLoggerSpeedIndexUnavailable(t *testing.T) {
	log, buf := setupTestLogger()
	analysisLogger := NewAnalysisLogger(log)

	analysisLogger.LogSpeedIndexUnavailable("2024052505021211", "read_failed", errors.New("connection reset"))

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "warning", logEntry["level"])
	assert.Equal(t, "read_failed", logEntry["reason"])
	assert.Equal(t, "connection reset", logEntry["error"])
}

func TestAnalysisLoggerSpeedIndexUnavailableWithoutError(t *testing.T) {
	log, buf := setupTestLogger()
	NewAnalysisLogger(log).LogSpeedIndexUnavailable("2024052505021211", "missing", nil)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	_, hasError := logEntry["error"]
	assert.False(t, hasError)
}

func TestAnalysisLoggerBuild(t *testing.T) {
	log, buf := setupTestLogger()
	analysisLogger := NewAnalysisLogger(log)

	analysisLogger.LogSpeedIndexBuildCompleted("build-1", 5000, 812, 2, 950)
	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "build-1", logEntry["build_id"])
	assert.Equal(t, float64(812), logEntry["entries"])

	buf.Reset()
	analysisLogger.LogSpeedIndexBuildFailed("build-2", errors.New("no rows"))
	logEntry = parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "error", logEntry["level"])
}

func TestAccessLoggerLevels(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{200, "info"},
		{404, "warning"},
		{503, "error"},
	}

	for _, tt := range tests {
		log, buf := setupTestLogger()
		NewAccessLogger(log).LogRequest("req-1", "GET", "/api/races/x/analysis", "127.0.0.1", tt.status, 42, 1500*time.Microsecond)

		logEntry := parseLogOutput(buf)
		require.NotNil(t, logEntry)
		assert.Equal(t, tt.level, logEntry["level"])
		assert.Equal(t, "http", logEntry["component"])
		assert.Equal(t, 1.5, logEntry["duration_ms"])
	}
}
