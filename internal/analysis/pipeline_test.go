package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/jra-analyzer/internal/models"
)

func TestRunEmptyField(t *testing.T) {
	results, err := Run(Input{Target: turf1600(), AsOf: asOf})
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestRunRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		err  error
	}{
		{name: "missing target", in: Input{}, err: models.ErrRaceNotFound},
		{
			name: "non-positive distance",
			in:   Input{Target: &models.RaceTarget{Distance: intPtr(0)}},
			err:  models.ErrInvalidTarget,
		},
		{
			name: "multi character surface",
			in:   Input{Target: &models.RaceTarget{Surface: strPtr("芝・右")}},
			err:  models.ErrInvalidTarget,
		},
		{
			name: "duplicate horse number",
			in: Input{Target: turf1600(), Entrants: []models.Entrant{
				{HorseNumber: "01", HorseName: "a"},
				{HorseNumber: "01", HorseName: "b"},
			}},
			err: models.ErrDuplicateEntrant,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Run(tt.in)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestRunUnbeatenHorseClampsToHundred(t *testing.T) {
	var history []models.HistoryRecord
	for i := 0; i < 5; i++ {
		history = append(history, run("ウィナー", daysAgo(20*(i+1)), 1))
	}
	in := Input{
		Target:   turf1600(),
		Entrants: []models.Entrant{{GateNumber: "1", HorseNumber: "01", HorseID: "k1", HorseName: "ウィナー"}},
		History:  history,
		AsOf:     asOf,
	}

	results, err := Run(in)
	require.NoError(t, err)
	require.Len(t, results, 1)

	res := results[0]
	assert.Equal(t, 5, res.Starts)
	assert.Equal(t, 1.0, *res.AvgRankRecent3)
	assert.Equal(t, 1.0, *res.WinRate)
	assert.Equal(t, 1.0, *res.Top3Rate)
	assert.Equal(t, 1.0, *res.SurfaceMatchRate)
	assert.Equal(t, 1.0, *res.DistanceMatchRate)
	assert.Equal(t, 0.0, res.SpeedZ)
	assert.Equal(t, models.SpeedSourceFallback, res.SpeedSource)
	assert.Equal(t, 100.0, res.AnalysisScore)
}

func TestRunNoHistoryScoresThirtySix(t *testing.T) {
	in := Input{
		Target:   turf1600(),
		Entrants: []models.Entrant{{HorseNumber: "01", HorseName: "デビュー"}},
		AsOf:     asOf,
	}

	results, err := Run(in)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 0, results[0].Starts)
	assert.Nil(t, results[0].WinRate)
	assert.Equal(t, 0.0, results[0].SpeedZ)
	assert.Equal(t, 0.0, results[0].SpeedFactor)
	assert.Equal(t, 100.0, results[0].SpeedIndexFinal)
	assert.Equal(t, 36.0, results[0].AnalysisScore)
}

func fieldInput() Input {
	slow := run("スロー", daysAgo(30), 6)
	slow.TimeSeconds = f(100)
	fast := run("ファスト", daysAgo(30), 2)
	fast.TimeSeconds = f(95)

	return Input{
		Target: turf1600(),
		Entrants: []models.Entrant{
			{HorseNumber: "3", HorseID: "k3", HorseName: "ファスト"},
			{HorseNumber: "01", HorseID: "k1", HorseName: "スロー"},
			{HorseNumber: "2", HorseID: "k2", HorseName: "マスター"},
			{HorseNumber: "x", HorseID: "kx", HorseName: "デビュー"},
		},
		History: []models.HistoryRecord{slow, fast},
		SpeedIndex: models.SpeedIndexTable{
			Available: true,
			Records: []models.SpeedIndexRecord{
				{HorseKey: "k2", HorseNameNormalized: "マスター", Surface: "芝", SpeedIndex: 110, RunCount: 5},
			},
		},
		AsOf: asOf,
	}
}

func TestRunFieldOrderingAndSpeed(t *testing.T) {
	results, err := Run(fieldInput())
	require.NoError(t, err)
	require.Len(t, results, 4)

	var numbers []string
	for _, r := range results {
		numbers = append(numbers, r.HorseNumber)
	}
	assert.Equal(t, []string{"01", "2", "3", "x"}, numbers)

	// two entrants with speed: z-scores are -1 and +1
	assert.InDelta(t, -1.0, results[0].SpeedZ, 1e-9)
	assert.Equal(t, models.SpeedSourceFallback, results[0].SpeedSource)
	assert.InDelta(t, 90.0, results[0].SpeedIndexFinal, 1e-9)

	assert.Equal(t, models.SpeedSourceMasterID, results[1].SpeedSource)
	assert.Equal(t, 110.0, results[1].SpeedIndexFinal)
	assert.InDelta(t, 1.0, results[1].SpeedFactor, 1e-9)

	assert.InDelta(t, 1.0, results[2].SpeedZ, 1e-9)
	assert.Equal(t, 0.0, results[3].SpeedZ)
}

func TestRunUnavailableTableFallsBackEverywhere(t *testing.T) {
	in := fieldInput()
	in.SpeedIndex.Available = false

	results, err := Run(in)
	require.NoError(t, err)
	for _, r := range results {
		assert.Equal(t, models.SpeedSourceFallback, r.SpeedSource)
		assert.InDelta(t, 100.0+r.SpeedZ*10.0, r.SpeedIndexFinal, 1e-9)
		assert.GreaterOrEqual(t, r.AnalysisScore, 0.0)
		assert.LessOrEqual(t, r.AnalysisScore, 100.0)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	first, err := Run(fieldInput())
	require.NoError(t, err)
	second, err := Run(fieldInput())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSortByHorseNumber(t *testing.T) {
	results := []models.AnalysisScore{
		{Entrant: models.Entrant{HorseNumber: "3"}},
		{Entrant: models.Entrant{HorseNumber: "01"}},
		{Entrant: models.Entrant{HorseNumber: "2"}},
		{Entrant: models.Entrant{HorseNumber: "x"}},
		{Entrant: models.Entrant{HorseNumber: "b"}},
	}

	SortByHorseNumber(results)

	var numbers []string
	for _, r := range results {
		numbers = append(numbers, r.HorseNumber)
	}
	assert.Equal(t, []string{"01", "2", "3", "b", "x"}, numbers)
}
