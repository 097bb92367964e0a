package models

import "errors"

// Custom errors
var (
	ErrNotFound             = errors.New("record not found")
	ErrInvalidRaceID        = errors.New("invalid race ID format")
	ErrRaceNotFound         = errors.New("race not found")
	ErrInvalidTarget        = errors.New("invalid race target")
	ErrDuplicateEntrant     = errors.New("duplicate horse number in race")
	ErrStorageNotConfigured = errors.New("storage endpoint is not configured")
)
