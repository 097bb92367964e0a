package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AccessLogger logs HTTP requests.
type AccessLogger struct {
	*logrus.Entry
}

// NewAccessLogger creates a new access logger.
func NewAccessLogger(baseLogger *logrus.Logger) *AccessLogger {
	return &AccessLogger{
		Entry: baseLogger.WithField("component", "http"),
	}
}

// LogRequest logs one served request. Server errors are logged at error level.
func (al *AccessLogger) LogRequest(requestID, method, path, remoteAddr string, status, bytes int, duration time.Duration) {
	entry := al.WithFields(logrus.Fields{
		"request_id":  requestID,
		"method":      method,
		"path":        path,
		"remote_addr": remoteAddr,
		"status":      status,
		"bytes":       bytes,
		"duration_ms": float64(duration.Microseconds()) / 1000.0,
	})

	switch {
	case status >= 500:
		entry.Error("Request failed")
	case status >= 400:
		entry.Warn("Request rejected")
	default:
		entry.Info("Request served")
	}
}
