package charts

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IBBoard/bbreplay-sub000/internal/storage"
)

func testRuns() []*storage.Run {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []*storage.Run{
		{Replay: "Match_B", CommandsTotal: 200, CommandsRemaining: 50, ErrorKind: "unexpected log entry", StartedAt: t0.Add(time.Minute)},
		{Replay: "Match_A", CommandsTotal: 100, Completed: true, StartedAt: t0},
		{Replay: "Match_C", StartedAt: t0.Add(2 * time.Minute)},
	}
}

func TestCoveragePoints(t *testing.T) {
	points := CoveragePoints(testRuns())

	require.Len(t, points, 3)
	assert.Equal(t, DataPoint{Label: "Match_A", Value: 100}, points[0])
	assert.Equal(t, DataPoint{Label: "Match_B", Value: 75}, points[1])
	assert.Equal(t, DataPoint{Label: "Match_C", Value: 0}, points[2])
}

func TestErrorKindPoints(t *testing.T) {
	tests := []struct {
		name  string
		stats *storage.RunStats
		want  []DataPoint
	}{
		{"nil", nil, nil},
		{"empty", &storage.RunStats{}, nil},
		{
			"sorted kinds after completed",
			&storage.RunStats{Completed: 2, ByErrorKind: map[string]int{"validation": 1, "input mismatch": 3}},
			[]DataPoint{{"completed", 2}, {"input mismatch", 3}, {"validation", 1}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorKindPoints(tt.stats))
		})
	}
}

func TestRenderCoverage(t *testing.T) {
	var buf bytes.Buffer
	stats := &storage.RunStats{Runs: 3, Completed: 1, ByErrorKind: map[string]int{"unexpected log entry": 1}}

	require.NoError(t, RenderCoverage(&buf, testRuns(), stats, DefaultChartConfig()))
	html := buf.String()
	assert.Contains(t, html, "Match_A")
	assert.Contains(t, html, "unexpected log entry")

	assert.Error(t, RenderCoverage(&buf, nil, stats, DefaultChartConfig()))
}

func TestWriteCoverage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charts", "coverage.html")

	require.NoError(t, WriteCoverage(path, testRuns(), nil, DefaultChartConfig()))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
