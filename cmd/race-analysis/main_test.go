package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/jra-analyzer/internal/api"
)

func TestRenderTable(t *testing.T) {
	avg := 2.33
	win := 33.3
	last := "2024-04-14"
	resp := api.AnalysisResponse{
		OK: true,
		Race: api.RaceResponse{
			RaceID: "2024052605021211", RaceName: "東京優駿", KaisaiDate: "2024-05-26",
			KaisaiBasho: "東京", RaceNo: "11", Kyori: "2400", Course: "芝",
		},
		Entries: []api.EntryResponse{
			{Wakuban: "1", Umaban: "01", Bamei: "ダノンデサイル", Starts: 3, AvgRank: &avg, WinRate: &win,
				SpeedIndex: 104.3, SpeedSource: "master_id", AnalysisScore: 61.4, LastRaceDate: &last},
			{Wakuban: "2", Umaban: "03", Bamei: "シンエンペラー", SpeedIndex: 100, SpeedSource: "fallback", AnalysisScore: 30},
		},
		AsOf: "2024-05-26",
	}

	var buf bytes.Buffer
	require.NoError(t, renderTable(&buf, resp))
	out := buf.String()

	assert.Contains(t, out, "東京優駿  東京 11R  2024-05-26  芝2400m  (as of 2024-05-26)")
	assert.Contains(t, out, "ダノンデサイル")
	assert.Contains(t, out, "2.33")
	assert.Contains(t, out, "104.3")
	assert.Contains(t, out, "2024-04-14")
	assert.NotContains(t, out, "no entrants")
}

func TestRenderTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderTable(&buf, api.AnalysisResponse{OK: true}))
	assert.Contains(t, buf.String(), "no entrants")
}

func TestFormatValue(t *testing.T) {
	v := 66.666
	assert.Equal(t, "-", formatValue(nil, 1))
	assert.Equal(t, "66.7", formatValue(&v, 1))
}

func TestRunRejectsBadFlags(t *testing.T) {
	defer func() { outputFlag, asOfFlag = "table", "" }()

	outputFlag = "xml"
	assert.Error(t, run(context.Background(), &bytes.Buffer{}, "2024052605021211"))

	outputFlag = "json"
	asOfFlag = "26/05/2024"
	err := run(context.Background(), &bytes.Buffer{}, "2024052605021211")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --as-of")
}
