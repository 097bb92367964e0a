package speedindex

import (
	"math"
	"sort"
	"strings"

	"github.com/yourusername/jra-analyzer/internal/models"
)

const (
	covWeight = iota
	covNumHorses
	covAge
	numericCovariates
)

const (
	catTrackCondition = iota
	catVenue
	catClassName
	catSex
	categoricalCovariates
)

type row struct {
	key     string
	name    string
	surface string
	logTime float64
	logDist float64
	numeric [numericCovariates]*float64
	cat     [categoricalCovariates]string
}

func isValidSurface(s string) bool {
	for _, v := range ValidSurfaces {
		if s == v {
			return true
		}
	}
	return false
}

// normalizeRuns trims the source runs and keeps those with a valid surface,
// a positive time and distance and a horse key
func normalizeRuns(runs []models.SourceRun) []row {
	rows := make([]row, 0, len(runs))
	for _, run := range runs {
		key := strings.TrimSpace(run.HorseKey)
		surface := FirstRune(run.Surface)
		if key == "" || !isValidSurface(surface) {
			continue
		}
		if run.TimeSeconds == nil || *run.TimeSeconds <= 0 {
			continue
		}
		if run.Distance == nil || *run.Distance <= 0 {
			continue
		}
		rows = append(rows, row{
			key:     key,
			name:    strings.TrimSpace(run.HorseName),
			surface: surface,
			logTime: math.Log(*run.TimeSeconds),
			logDist: math.Log(*run.Distance),
			numeric: [numericCovariates]*float64{run.Weight, run.NumHorses, run.Age},
			cat: [categoricalCovariates]string{
				strings.TrimSpace(run.TrackCondition),
				strings.TrimSpace(run.Venue),
				strings.TrimSpace(run.ClassName),
				strings.TrimSpace(run.Sex),
			},
		})
	}
	return rows
}

// design describes the regressors fitted for one surface
type design struct {
	rows    []row
	numeric []int
	// levels holds the dummy levels per categorical covariate, first level dropped
	levels map[int][]string
	columns []func(r row) float64
}

func newDesign(rows []row) *design {
	d := &design{levels: make(map[int][]string)}

	for c := 0; c < numericCovariates; c++ {
		for _, r := range rows {
			if r.numeric[c] != nil {
				d.numeric = append(d.numeric, c)
				break
			}
		}
	}

	// rows missing a present numeric covariate cannot be fitted
	for _, r := range rows {
		complete := true
		for _, c := range d.numeric {
			if r.numeric[c] == nil {
				complete = false
				break
			}
		}
		if complete {
			d.rows = append(d.rows, r)
		}
	}

	for c := 0; c < categoricalCovariates; c++ {
		seen := make(map[string]struct{})
		for _, r := range d.rows {
			if r.cat[c] != "" {
				seen[r.cat[c]] = struct{}{}
			}
		}
		if len(seen) == 0 {
			continue
		}
		levels := make([]string, 0, len(seen))
		for v := range seen {
			levels = append(levels, v)
		}
		sort.Strings(levels)
		d.levels[c] = levels[1:]
	}

	candidates := []func(r row) float64{func(r row) float64 { return r.logDist }}
	for _, c := range d.numeric {
		c := c
		candidates = append(candidates, func(r row) float64 { return *r.numeric[c] })
	}
	for c := 0; c < categoricalCovariates; c++ {
		for _, level := range d.levels[c] {
			c, level := c, level
			candidates = append(candidates, func(r row) float64 {
				if r.cat[c] == level {
					return 1
				}
				return 0
			})
		}
	}

	for _, col := range candidates {
		if !isConstant(d.rows, col) {
			d.columns = append(d.columns, col)
		}
	}
	return d
}

func isConstant(rows []row, col func(r row) float64) bool {
	if len(rows) == 0 {
		return true
	}
	first := col(rows[0])
	for _, r := range rows[1:] {
		if col(r) != first {
			return false
		}
	}
	return true
}

// matrix returns the design matrix with a leading intercept column
func (d *design) matrix() [][]float64 {
	x := make([][]float64, len(d.rows))
	for i, r := range d.rows {
		line := make([]float64, 1+len(d.columns))
		line[0] = 1
		for j, col := range d.columns {
			line[j+1] = col(r)
		}
		x[i] = line
	}
	return x
}
