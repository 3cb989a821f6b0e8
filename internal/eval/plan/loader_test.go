package plan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/DjordjeVuckovic/recommender-evaluator/internal/apperr"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/eval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("valid plan", func(t *testing.T) {
		yaml := `
source:
  type: movielens
  dir: data/ml-latest-small

recommenders: [mean, baseline, content]
metrics: [precision, ndcg, rmse]

evaluation:
  k_values: [5, 10]
  folds: 3
  training_set_size: 0.75
  seed: 42
  quantize: false

output:
  json: reports/run.json
  fold_file: folds.yaml
  elasticsearch:
    addresses: ["http://localhost:9200"]
    index: evaluations
`
		p, err := Parse([]byte(yaml))
		require.NoError(t, err)
		assert.Equal(t, "movielens", p.Source.Type)
		assert.Equal(t, []string{"mean", "baseline", "content"}, p.Recommenders)
		assert.Equal(t, []int{5, 10}, p.Evaluation.KValues)
		require.NotNil(t, p.Evaluation.Folds)
		assert.Equal(t, 3, *p.Evaluation.Folds)
		assert.False(t, p.Quantize())
		require.NotNil(t, p.Output.Elasticsearch)
		assert.Equal(t, "evaluations", p.Output.Elasticsearch.Index)
	})

	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "no recommenders",
			yaml:    "recommenders: []\n",
			wantErr: "no recommenders",
		},
		{
			name:    "unknown recommender",
			yaml:    "recommenders: [svd]\n",
			wantErr: "unsupported recommender",
		},
		{
			name:    "unknown metric",
			yaml:    "recommenders: [mean]\nmetrics: [auc]\n",
			wantErr: "unknown metric",
		},
		{
			name:    "invalid source",
			yaml:    "recommenders: [mean]\nsource:\n  type: mysql\n",
			wantErr: "invalid type",
		},
		{
			name:    "movielens without dir",
			yaml:    "recommenders: [mean]\nsource:\n  type: movielens\n",
			wantErr: "no dir",
		},
		{
			name:    "zero k",
			yaml:    "recommenders: [mean]\nevaluation:\n  k_values: [0]\n",
			wantErr: "non-zero",
		},
		{
			name:    "reuse without fold file",
			yaml:    "recommenders: [mean]\noutput:\n  reuse_folds: true\n",
			wantErr: "fold_file",
		},
		{
			name:    "elasticsearch without addresses",
			yaml:    "recommenders: [mean]\noutput:\n  elasticsearch:\n    index: x\n",
			wantErr: "no addresses",
		},
		{
			name:    "malformed",
			yaml:    "recommenders: [mean\n",
			wantErr: "parse plan YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestApply(t *testing.T) {
	base := eval.DefaultConfig()

	t.Run("defaults come from base", func(t *testing.T) {
		p, err := Parse([]byte("recommenders: [mean]\n"))
		require.NoError(t, err)

		cfg, kValues, err := p.Apply(base)
		require.NoError(t, err)
		assert.Equal(t, base, cfg)
		assert.Equal(t, []int{base.TopK}, kValues)
		assert.True(t, p.Quantize())
	})

	t.Run("plan overrides base", func(t *testing.T) {
		p, err := Parse([]byte(`
recommenders: [mean]
evaluation:
  k_values: [3]
  folds: 2
  training_set_size: 0.5
  seed: 9
  min_rating: 0
  max_rating: 10
  parallelism: 1
`))
		require.NoError(t, err)

		cfg, kValues, err := p.Apply(base)
		require.NoError(t, err)
		assert.Equal(t, []int{3}, kValues)
		assert.Equal(t, 2, cfg.NumFolds)
		assert.Equal(t, 0.5, cfg.TrainingSetSize)
		assert.Equal(t, uint64(9), cfg.Seed)
		assert.Equal(t, 0, cfg.MinRating)
		assert.Equal(t, 10, cfg.MaxRating)
		assert.Equal(t, 1, cfg.Parallelism)
	})

	t.Run("invalid override", func(t *testing.T) {
		p, err := Parse([]byte("recommenders: [mean]\nevaluation:\n  training_set_size: 1.2\n"))
		require.NoError(t, err)

		_, _, err = p.Apply(base)
		var vErr *apperr.ValidationError
		assert.ErrorAs(t, err, &vErr)
	})
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("recommenders: [random]\n"), 0644))

	p, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"random"}, p.Recommenders)

	_, err = LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
