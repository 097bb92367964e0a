package service

import (
	"errors"

	"github.com/yourusername/jra-analyzer/internal/models"
)

// StatusLabel classifies an analysis error for metrics and logging
func StatusLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, models.ErrInvalidRaceID):
		return "invalid_request"
	case errors.Is(err, models.ErrRaceNotFound):
		return "not_found"
	case errors.Is(err, models.ErrStorageNotConfigured):
		return "unavailable"
	default:
		return "error"
	}
}

func isClientError(err error) bool {
	switch StatusLabel(err) {
	case "invalid_request", "not_found":
		return true
	}
	return false
}
