package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yourusername/jra-analyzer/internal/models"
	"github.com/yourusername/jra-analyzer/internal/raceid"
	"github.com/yourusername/jra-analyzer/internal/service"
)

func (s *Server) handleRaceAnalysis(w http.ResponseWriter, r *http.Request) {
	raceID := chi.URLParam(r, "raceId")
	if !raceid.Valid(raceID) {
		respondError(w, http.StatusBadRequest, "Invalid race ID")
		return
	}

	asOf, err := s.referenceDate(r.URL.Query().Get("as_of"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid as_of date, expected YYYY-MM-DD")
		return
	}

	if s.analyzer == nil {
		respondError(w, http.StatusServiceUnavailable, "Storage is not configured")
		return
	}

	key := cacheKey(raceID, asOf)
	if body, ok := s.cache.get(key); ok {
		w.Header().Set("X-Cache", "HIT")
		writeBody(w, http.StatusOK, body)
		return
	}

	result, err := s.analyzer.Analyze(r.Context(), raceID, asOf)
	if err != nil {
		status, message := errorStatus(err)
		if status >= http.StatusInternalServerError {
			s.log.WithError(err).WithField("race_id", raceID).Error("race analysis failed")
		}
		respondError(w, status, message)
		return
	}

	body, err := json.Marshal(NewAnalysisResponse(result, raceID))
	if err != nil {
		s.log.WithError(err).Error("failed to encode analysis response")
		respondError(w, http.StatusInternalServerError, "Failed to encode response")
		return
	}
	s.cache.set(key, body)
	w.Header().Set("X-Cache", "MISS")
	writeBody(w, http.StatusOK, body)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	database := "not_configured"
	if s.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.health.HealthCheck(ctx); err != nil {
			s.log.WithError(err).Warn("database health check failed")
			database = "unhealthy"
			status = http.StatusServiceUnavailable
		} else {
			database = "ok"
		}
	}

	healthy := "healthy"
	if status != http.StatusOK {
		healthy = "unhealthy"
	}
	respondJSON(w, status, map[string]interface{}{
		"status":    healthy,
		"service":   "jra-analyzer",
		"database":  database,
		"timestamp": s.now().UTC().Format(time.RFC3339),
	})
}

// referenceDate resolves the as_of query value; empty means today in the
// configured timezone.
func (s *Server) referenceDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return service.ReferenceDate(s.now(), s.opts.Location), nil
	}
	return time.ParseInLocation(dateLayout, raw, time.UTC)
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrInvalidRaceID):
		return http.StatusBadRequest, "Invalid race ID"
	case errors.Is(err, models.ErrRaceNotFound):
		return http.StatusNotFound, "Race not found"
	case errors.Is(err, models.ErrStorageNotConfigured):
		return http.StatusServiceUnavailable, "Storage is not configured"
	default:
		return http.StatusInternalServerError, "Failed to compute race analysis"
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{OK: false, Error: message})
}

func writeBody(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}
