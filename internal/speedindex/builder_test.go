package speedindex

import (
	"math"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/jra-analyzer/internal/models"
)

var buildDate = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func f(v float64) *float64 { return &v }

// syntheticRuns gives every horse the same distance schedule so the horse
// effect is orthogonal to distance and recovered exactly by the fit
func syntheticRuns(surface string, effects map[string]float64, repeats int, venues ...string) []models.SourceRun {
	distances := []float64{1200, 1600, 2000, 2400}
	var runs []models.SourceRun
	for key, u := range effects {
		i := 0
		for rep := 0; rep < repeats; rep++ {
			for _, d := range distances {
				logTime := -1.0 + 1.05*math.Log(d) + u
				run := models.SourceRun{
					HorseKey:    key,
					HorseName:   "Horse " + key,
					Surface:     surface,
					TimeSeconds: f(math.Exp(logTime)),
					Distance:    f(d),
				}
				if len(venues) > 0 {
					venue := venues[i%len(venues)]
					if venue == venues[0] {
						run.TimeSeconds = f(math.Exp(logTime + 0.01))
					}
					run.Venue = venue
				}
				runs = append(runs, run)
				i++
			}
		}
	}
	return runs
}

func TestBuilder_RecoversHorseAbility(t *testing.T) {
	runs := syntheticRuns(SurfaceTurf, map[string]float64{
		"fast": -0.02,
		"mid":  0,
		"slow": 0.02,
	}, 2)

	b := NewBuilder(Options{ShrinkageLambda: 10, MinRows: 10, AsOf: buildDate}, testLogger())
	result, err := b.Build(runs)
	require.NoError(t, err)
	require.Len(t, result.Entries, 3)
	assert.Equal(t, 24, result.SourceRows)

	byKey := make(map[string]models.SpeedIndexEntry)
	for _, e := range result.Entries {
		byKey[e.HorseKey] = e
	}

	// u_hat = (8/18)*0.02 for the fast horse, z = sqrt(3/2)
	c := 8.0 / 18.0 * 0.02
	assert.InDelta(t, c, byKey["fast"].UHat, 1e-6)
	assert.InDelta(t, 112.2474, byKey["fast"].SpeedIndex, 1e-3)
	assert.InDelta(t, 100.0, byKey["mid"].SpeedIndex, 1e-3)
	assert.InDelta(t, 87.7526, byKey["slow"].SpeedIndex, 1e-3)
	assert.InDelta(t, -1.224745, byKey["slow"].SpeedZ, 1e-4)

	for _, e := range result.Entries {
		assert.Equal(t, 8, e.RunCount)
		assert.Equal(t, SurfaceTurf, e.Surface)
		assert.Equal(t, buildDate, e.AsOfDate)
		assert.Equal(t, "Horse "+e.HorseKey, e.HorseName)
	}

	require.Len(t, result.Baselines, 1)
	baseline := result.Baselines[0]
	assert.Equal(t, SurfaceTurf, baseline.Surface)
	assert.Equal(t, PeriodAllTime, baseline.Period)
	assert.Equal(t, 3, baseline.NHorses)
	assert.InDelta(t, 0.0, baseline.MeanU, 1e-6)
	assert.InDelta(t, c*math.Sqrt(2.0/3.0), baseline.SdU, 1e-6)
}

func TestBuilder_EntriesSortedByKey(t *testing.T) {
	runs := syntheticRuns(SurfaceTurf, map[string]float64{"c": 0.01, "a": -0.01, "b": 0}, 2)

	result, err := NewBuilder(Options{MinRows: 10, AsOf: buildDate}, testLogger()).Build(runs)
	require.NoError(t, err)

	keys := []string{}
	for _, e := range result.Entries {
		keys = append(keys, e.HorseKey)
	}
	assert.Equal(t, []string{"a", "b", "c"}, keys)
}

func TestBuilder_CategoricalCovariateAbsorbed(t *testing.T) {
	runs := syntheticRuns(SurfaceDirt, map[string]float64{
		"fast": -0.02,
		"mid":  0,
		"slow": 0.02,
	}, 2, "Tokyo", "Hanshin")

	result, err := NewBuilder(Options{ShrinkageLambda: 10, MinRows: 10, AsOf: buildDate}, testLogger()).Build(runs)
	require.NoError(t, err)

	byKey := make(map[string]models.SpeedIndexEntry)
	for _, e := range result.Entries {
		byKey[e.HorseKey] = e
	}
	assert.InDelta(t, 112.2474, byKey["fast"].SpeedIndex, 1e-3)
	assert.InDelta(t, 87.7526, byKey["slow"].SpeedIndex, 1e-3)
	assert.Equal(t, SurfaceDirt, byKey["mid"].Surface)
}

func TestBuilder_SkipsSurfaceBelowMinRows(t *testing.T) {
	runs := syntheticRuns(SurfaceTurf, map[string]float64{"a": -0.01, "b": 0.01}, 3)
	runs = append(runs, syntheticRuns(SurfaceDirt, map[string]float64{"c": 0}, 1)...)

	result, err := NewBuilder(Options{MinRows: 10, AsOf: buildDate}, testLogger()).Build(runs)
	require.NoError(t, err)

	for _, e := range result.Entries {
		assert.Equal(t, SurfaceTurf, e.Surface)
	}
	require.Len(t, result.Baselines, 1)
	assert.Equal(t, SurfaceTurf, result.Baselines[0].Surface)
}

func TestBuilder_Errors(t *testing.T) {
	b := NewBuilder(Options{MinRows: 10, AsOf: buildDate}, testLogger())

	_, err := b.Build(nil)
	assert.ErrorIs(t, err, ErrNoUsableRows)

	_, err = b.Build(syntheticRuns(SurfaceTurf, map[string]float64{"a": 0}, 1))
	assert.ErrorIs(t, err, ErrNoOutput)
}

func TestBuilder_SingleHorseHasNeutralIndex(t *testing.T) {
	runs := syntheticRuns(SurfaceTurf, map[string]float64{"solo": 0.03}, 3)

	result, err := NewBuilder(Options{MinRows: 10, AsOf: buildDate}, testLogger()).Build(runs)
	require.NoError(t, err)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, 0.0, result.Entries[0].SpeedZ)
	assert.Equal(t, 100.0, result.Entries[0].SpeedIndex)
}

func TestNewBuilder_Defaults(t *testing.T) {
	b := NewBuilder(Options{}, nil)
	assert.Equal(t, DefaultShrinkageLambda, b.opts.ShrinkageLambda)
	assert.Equal(t, DefaultMinRows, b.opts.MinRows)
	assert.NotNil(t, b.logger)
}

func TestNormalizeRuns(t *testing.T) {
	runs := []models.SourceRun{
		{HorseKey: " 2019100001 ", HorseName: " A ", Surface: "芝・外", TimeSeconds: f(95.1), Distance: f(1600)},
		{HorseKey: "2019100002", Surface: "ダート", TimeSeconds: f(72.3), Distance: f(1200), Venue: " Tokyo "},
		{HorseKey: "2019100003", Surface: "障害", TimeSeconds: f(200), Distance: f(3000)},
		{HorseKey: "2019100004", Surface: "芝", TimeSeconds: f(0), Distance: f(1600)},
		{HorseKey: "2019100005", Surface: "芝", TimeSeconds: f(95), Distance: nil},
		{HorseKey: "  ", Surface: "芝", TimeSeconds: f(95), Distance: f(1600)},
		{HorseKey: "2019100007", Surface: "", TimeSeconds: f(95), Distance: f(1600)},
	}

	rows := normalizeRuns(runs)
	require.Len(t, rows, 2)

	assert.Equal(t, "2019100001", rows[0].key)
	assert.Equal(t, "A", rows[0].name)
	assert.Equal(t, SurfaceTurf, rows[0].surface)
	assert.InDelta(t, math.Log(95.1), rows[0].logTime, 1e-12)
	assert.InDelta(t, math.Log(1600), rows[0].logDist, 1e-12)

	assert.Equal(t, SurfaceDirt, rows[1].surface)
	assert.Equal(t, "Tokyo", rows[1].cat[catVenue])
}

func TestNewDesign_DropsIncompleteRowsAndConstantColumns(t *testing.T) {
	rows := []row{
		{logDist: 7.0, numeric: [numericCovariates]*float64{f(480), nil, nil}, cat: [categoricalCovariates]string{"良"}},
		{logDist: 7.2, numeric: [numericCovariates]*float64{f(470), nil, nil}, cat: [categoricalCovariates]string{"良"}},
		{logDist: 7.4, numeric: [numericCovariates]*float64{nil, nil, nil}, cat: [categoricalCovariates]string{"良"}},
		{logDist: 7.6, numeric: [numericCovariates]*float64{f(500), nil, nil}, cat: [categoricalCovariates]string{"良"}},
	}

	d := newDesign(rows)
	assert.Len(t, d.rows, 3)
	assert.Equal(t, []int{covWeight}, d.numeric)

	x := d.matrix()
	require.Len(t, x, 3)
	// intercept, log distance, weight; the single track condition level is dropped
	assert.Len(t, x[0], 3)
	assert.Equal(t, []float64{1, 7.0, 480}, x[0])
}

func TestFirstRune(t *testing.T) {
	assert.Equal(t, "芝", FirstRune(" 芝右 "))
	assert.Equal(t, "ダ", FirstRune("ダート"))
	assert.Equal(t, "", FirstRune("   "))
}
