// Package speedindex fits the per-surface speed index reference table from
// historical run times.
package speedindex

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/jra-analyzer/internal/models"
)

const (
	SurfaceTurf = "芝"
	SurfaceDirt = "ダ"

	// PeriodAllTime labels baselines computed over every available run
	PeriodAllTime = "all_time"

	DefaultShrinkageLambda = 10.0
	DefaultMinRows         = 300

	indexBase  = 100.0
	indexScale = 10.0
)

// ValidSurfaces lists the surfaces an index is fitted for, in build order
var ValidSurfaces = []string{SurfaceTurf, SurfaceDirt}

var (
	// ErrNoUsableRows is returned when no source run survives normalization
	ErrNoUsableRows = errors.New("no usable rows after normalization")
	// ErrNoOutput is returned when no surface had enough rows to fit
	ErrNoOutput = errors.New("no speed index rows were produced")
)

// Options controls a build
type Options struct {
	// ShrinkageLambda is K in u_hat = -(n/(n+K)) * mean_residual
	ShrinkageLambda float64
	// MinRows is the minimum number of runs a surface needs to be fitted
	MinRows int
	AsOf    time.Time
}

// Result is the output of one build
type Result struct {
	Entries   []models.SpeedIndexEntry
	Baselines []models.SpeedIndexBaseline
	// SourceRows is the number of runs left after normalization
	SourceRows int
}

// Builder fits speed indexes
type Builder struct {
	opts   Options
	logger logrus.FieldLogger
}

// NewBuilder creates a builder, filling unset options with defaults
func NewBuilder(opts Options, logger logrus.FieldLogger) *Builder {
	if opts.ShrinkageLambda <= 0 {
		opts.ShrinkageLambda = DefaultShrinkageLambda
	}
	if opts.MinRows <= 0 {
		opts.MinRows = DefaultMinRows
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Builder{opts: opts, logger: logger}
}

// Build fits every valid surface and returns the master entries and baselines
func (b *Builder) Build(runs []models.SourceRun) (*Result, error) {
	rows := normalizeRuns(runs)
	b.logger.WithFields(logrus.Fields{
		"loaded_rows":     len(runs),
		"normalized_rows": len(rows),
	}).Info("Speed index source normalized")
	if len(rows) == 0 {
		return nil, ErrNoUsableRows
	}

	result := &Result{SourceRows: len(rows)}
	for _, surface := range ValidSurfaces {
		entries, err := b.fitSurface(rows, surface)
		if err != nil {
			return nil, fmt.Errorf("failed to fit surface %s: %w", surface, err)
		}
		if len(entries) == 0 {
			continue
		}
		result.Entries = append(result.Entries, entries...)
		result.Baselines = append(result.Baselines, baselineFor(surface, entries, b.opts.AsOf))
	}

	if len(result.Entries) == 0 {
		return nil, ErrNoOutput
	}
	return result, nil
}

func (b *Builder) fitSurface(all []row, surface string) ([]models.SpeedIndexEntry, error) {
	var rows []row
	for _, r := range all {
		if r.surface == surface {
			rows = append(rows, r)
		}
	}
	log := b.logger.WithField("surface", surface)
	if len(rows) < b.opts.MinRows {
		log.WithFields(logrus.Fields{"rows": len(rows), "min_rows": b.opts.MinRows}).
			Warn("Skipping surface with too few rows")
		return nil, nil
	}

	design := newDesign(rows)
	rows = design.rows
	if len(rows) < b.opts.MinRows {
		log.WithFields(logrus.Fields{"rows": len(rows), "min_rows": b.opts.MinRows}).
			Warn("Skipping surface with too few complete rows")
		return nil, nil
	}
	x := design.matrix()
	if len(x[0]) == 1 {
		log.Warn("Skipping surface because all predictors were constant")
		return nil, nil
	}

	y := make([]float64, len(rows))
	for i, r := range rows {
		y[i] = r.logTime
	}
	beta, err := leastSquares(x, y)
	if err != nil {
		return nil, err
	}

	residuals := make([]float64, len(rows))
	for i := range rows {
		residuals[i] = y[i] - dot(x[i], beta)
	}
	return b.horseIndexes(rows, residuals, surface), nil
}

type horseAgg struct {
	name  string
	sum   float64
	count int
}

func (b *Builder) horseIndexes(rows []row, residuals []float64, surface string) []models.SpeedIndexEntry {
	byHorse := make(map[string]*horseAgg)
	for i, r := range rows {
		agg, ok := byHorse[r.key]
		if !ok {
			agg = &horseAgg{name: r.name}
			byHorse[r.key] = agg
		}
		agg.sum += residuals[i]
		agg.count++
	}

	keys := make([]string, 0, len(byHorse))
	for k := range byHorse {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	uHat := make([]float64, len(keys))
	for i, k := range keys {
		agg := byHorse[k]
		n := float64(agg.count)
		learning := n / (n + b.opts.ShrinkageLambda)
		uHat[i] = -1.0 * learning * (agg.sum / n)
	}
	mu, sigma := meanStd(uHat)

	entries := make([]models.SpeedIndexEntry, len(keys))
	for i, k := range keys {
		z := 0.0
		if sigma != 0 {
			z = (uHat[i] - mu) / sigma
		}
		entries[i] = models.SpeedIndexEntry{
			HorseKey:   k,
			HorseName:  byHorse[k].name,
			Surface:    surface,
			UHat:       round(uHat[i], 8),
			SpeedZ:     round(z, 6),
			SpeedIndex: round(indexBase+indexScale*z, 4),
			RunCount:   byHorse[k].count,
			AsOfDate:   b.opts.AsOf,
		}
	}
	return entries
}

func baselineFor(surface string, entries []models.SpeedIndexEntry, asOf time.Time) models.SpeedIndexBaseline {
	u := make([]float64, len(entries))
	for i, e := range entries {
		u[i] = e.UHat
	}
	mu, sd := meanStd(u)
	return models.SpeedIndexBaseline{
		Surface:  surface,
		Period:   PeriodAllTime,
		MeanU:    mu,
		SdU:      sd,
		NHorses:  len(entries),
		AsOfDate: asOf,
	}
}

// meanStd returns the mean and population standard deviation
func meanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mu := sum / float64(len(values))
	sq := 0.0
	for _, v := range values {
		sq += (v - mu) * (v - mu)
	}
	return mu, math.Sqrt(sq / float64(len(values)))
}

func round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// FirstRune returns the first character of a trimmed string
func FirstRune(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(s)
	return string(r)
}
