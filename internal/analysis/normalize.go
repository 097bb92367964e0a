// Package analysis implements the per-race handicapping pipeline: history
// aggregation, field speed normalization, speed index resolution and scoring.
package analysis

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeHorseName folds a horse name for identity comparison.
// Full-width and half-width forms compare equal, as do upper and lower case.
func NormalizeHorseName(name string) string {
	return strings.ToLower(norm.NFKC.String(strings.TrimSpace(name)))
}

func floatPtr(v float64) *float64 {
	return &v
}

func mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return floatPtr(sum / float64(len(values)))
}
