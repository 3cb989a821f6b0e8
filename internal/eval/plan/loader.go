package plan

import (
	"fmt"
	"os"

	"github.com/DjordjeVuckovic/recommender-evaluator/internal/eval"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/eval/metrics"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/recommender"
	"gopkg.in/yaml.v3"
)

func LoadFromFile(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse plan YAML: %w", err)
	}
	if err := validate(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

var validSourceTypes = map[string]bool{
	"":          true,
	"postgres":  true,
	"movielens": true,
	"in_mem":    true,
}

func validate(p *Plan) error {
	if len(p.Recommenders) == 0 {
		return fmt.Errorf("plan has no recommenders")
	}
	for _, name := range p.Recommenders {
		if _, err := recommender.FactoryFor(name); err != nil {
			return err
		}
	}
	for _, name := range p.Metrics {
		if _, err := metrics.New(name, metrics.DefaultScale()); err != nil {
			return err
		}
	}
	if !validSourceTypes[p.Source.Type] {
		return fmt.Errorf("source has invalid type %q", p.Source.Type)
	}
	if p.Source.Type == "movielens" && p.Source.Dir == "" {
		return fmt.Errorf("movielens source has no dir")
	}
	for _, k := range p.Evaluation.KValues {
		if k == 0 {
			return fmt.Errorf("k values must be non-zero")
		}
	}
	if p.Output.ReuseFolds && p.Output.FoldFile == "" {
		return fmt.Errorf("reuse_folds requires a fold_file")
	}
	if es := p.Output.Elasticsearch; es != nil && len(es.Addresses) == 0 {
		return fmt.Errorf("elasticsearch output has no addresses")
	}
	return nil
}

// Apply overlays the plan's evaluation settings on base and validates the result.
// Without explicit k values the base TopK is used.
func (p *Plan) Apply(base eval.Config) (eval.Config, []int, error) {
	cfg := base
	e := p.Evaluation
	if e.Folds != nil {
		cfg.NumFolds = *e.Folds
	}
	if e.TrainingSetSize != nil {
		cfg.TrainingSetSize = *e.TrainingSetSize
	}
	if e.Seed != nil {
		cfg.Seed = *e.Seed
	}
	if e.MinRating != nil {
		cfg.MinRating = *e.MinRating
	}
	if e.MaxRating != nil {
		cfg.MaxRating = *e.MaxRating
	}
	if e.Parallelism != nil {
		cfg.Parallelism = *e.Parallelism
	}
	if err := cfg.Validate(); err != nil {
		return base, nil, err
	}

	kValues := e.KValues
	if len(kValues) == 0 {
		kValues = []int{cfg.TopK}
	}
	return cfg, kValues, nil
}

// Quantize defaults to true.
func (p *Plan) Quantize() bool {
	return p.Evaluation.Quantize == nil || *p.Evaluation.Quantize
}
