package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/recommender-evaluator/internal/eval/folds"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/eval/runner"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRun() *runner.RunResult {
	cfg := runner.DefaultConfig()
	cfg.KValues = []int{5}

	return &runner.RunResult{
		ID:           uuid.MustParse("5b0c1a39-8f4e-4d8e-9a51-3c2f0c7d9e10"),
		StartedAt:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Duration:     2 * time.Second,
		Config:       cfg,
		Recommenders: []string{"mean", "random"},
		Metrics:      []string{"precision", "rmse"},
		Folds: []runner.FoldResult{
			{Index: 0, Users: 10, Recommenders: []runner.RecommenderResult{
				{Name: "mean", Users: 10, FitTime: time.Millisecond, PredictTime: 2 * time.Millisecond, Scores: []runner.Score{
					{Metric: "precision", K: 5, Value: 0.5},
					{Metric: "rmse", K: 5, Value: 1.2},
				}},
				{Name: "random", Users: 10, Error: errors.New("fit: broken")},
			}},
			{Index: 1, Users: 10, Recommenders: []runner.RecommenderResult{
				{Name: "mean", Users: 10, FitTime: 3 * time.Millisecond, PredictTime: 4 * time.Millisecond, Scores: []runner.Score{
					{Metric: "precision", K: 5, Value: 1.0},
					{Metric: "rmse", K: 5, Error: errors.New("out of range")},
				}},
				{Name: "random", Users: 10, Scores: []runner.Score{
					{Metric: "precision", K: 5, Value: 0.2},
					{Metric: "rmse", K: 5, Value: 2.0},
				}},
			}},
		},
		Skipped: []folds.SkippedUser{{UserID: 42, HistorySize: 3}},
	}
}

func TestGenerate(t *testing.T) {
	r := Generate(sampleRun())

	assert.Equal(t, 2, r.Config.Folds)
	assert.Equal(t, []int{5}, r.Config.KValues)
	assert.Equal(t, []SkippedUser{{UserID: 42, HistorySize: 3}}, r.Skipped)
	assert.Len(t, r.PerFold, 7)

	tests := []struct {
		recommender string
		metric      string
		mean        float64
		stddev      float64
		folds       int
		errors      int
	}{
		{"mean", "precision", 0.75, math.Sqrt(0.125), 2, 0},
		{"mean", "rmse", 1.2, 0, 1, 1},
		{"random", "precision", 0.2, 0, 1, 1},
		{"random", "rmse", 2.0, 0, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.recommender+"/"+tt.metric, func(t *testing.T) {
			e, ok := r.Find(tt.recommender, tt.metric, 5)
			require.True(t, ok)
			assert.InDelta(t, tt.mean, e.Mean, 1e-9)
			assert.InDelta(t, tt.stddev, e.StdDev, 1e-9)
			assert.Equal(t, tt.folds, e.Folds)
			assert.Equal(t, tt.errors, e.Errors)
		})
	}

	_, ok := r.Find("mean", "ndcg", 5)
	assert.False(t, ok)

	require.Len(t, r.Timing, 2)
	assert.Equal(t, 2*time.Millisecond, r.Timing[0].Fit.Mean)
	assert.Equal(t, 2, r.Timing[0].Fit.SampleCount)
	assert.Equal(t, 1, r.Timing[1].Fit.SampleCount)
}

func TestComputeDurationStats(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.True(t, ComputeDurationStats(nil).IsZero())
	})

	t.Run("single", func(t *testing.T) {
		s := ComputeDurationStats([]time.Duration{10 * time.Millisecond})
		assert.Equal(t, 10*time.Millisecond, s.Min)
		assert.Equal(t, 10*time.Millisecond, s.Max)
		assert.Equal(t, 10*time.Millisecond, s.Mean)
		assert.Zero(t, s.Stddev)
	})

	t.Run("several", func(t *testing.T) {
		s := ComputeDurationStats([]time.Duration{30 * time.Millisecond, 10 * time.Millisecond, 20 * time.Millisecond})
		assert.Equal(t, 10*time.Millisecond, s.Min)
		assert.Equal(t, 30*time.Millisecond, s.Max)
		assert.Equal(t, 20*time.Millisecond, s.Mean)
		assert.Equal(t, 3, s.SampleCount)
		assert.InDelta(t, float64(10*time.Millisecond), float64(s.Stddev), float64(time.Microsecond))
	})
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	WriteTable(Generate(sampleRun()), &buf)

	out := buf.String()
	assert.Contains(t, out, "5b0c1a39-8f4e-4d8e-9a51-3c2f0c7d9e10")
	assert.Contains(t, out, "PRECISION@5")
	assert.Contains(t, out, "0.7500 ± 0.3536")
	assert.Contains(t, out, "fit: broken")
	assert.Contains(t, out, "rmse@5")
	assert.Contains(t, out, "1 users skipped")
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, WriteJSON(Generate(sampleRun()), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got Report
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, uuid.MustParse("5b0c1a39-8f4e-4d8e-9a51-3c2f0c7d9e10"), got.Meta.RunID)
	assert.Len(t, got.Aggregated, 4)
}

func TestToDocuments(t *testing.T) {
	docs := ToDocuments(Generate(sampleRun()))
	assert.Len(t, docs, 7+4)

	ids := make(map[string]bool)
	var folds, aggregates int
	for _, d := range docs {
		assert.False(t, ids[d.ID], "duplicate id %s", d.ID)
		ids[d.ID] = true
		switch d.Kind {
		case "fold":
			folds++
			require.NotNil(t, d.Fold)
		case "aggregate":
			aggregates++
			assert.Nil(t, d.Fold)
		}
	}
	assert.Equal(t, 7, folds)
	assert.Equal(t, 4, aggregates)
}
