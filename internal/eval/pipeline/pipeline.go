package pipeline

import (
	"context"
	"fmt"

	"github.com/DjordjeVuckovic/recommender-evaluator/internal/apperr"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/domain"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/eval"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/eval/folds"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/eval/metrics"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/eval/report"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/eval/runner"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/recommender"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/reporting"
)

// Request is everything one evaluation needs besides the data.
type Request struct {
	Config       eval.Config
	KValues      []int
	Recommenders []string
	// Metrics defaults to every supported metric.
	Metrics  []string
	Quantize bool
}

func (r Request) Validate() error {
	if err := r.Config.Validate(); err != nil {
		return err
	}
	if len(r.Recommenders) == 0 {
		return apperr.NewValidation("at least one recommender is required")
	}
	for _, name := range r.Recommenders {
		if _, err := recommender.FactoryFor(name); err != nil {
			return apperr.NewValidationWrap("invalid recommender", err)
		}
	}
	for _, k := range r.KValues {
		if k == 0 {
			return apperr.NewValidation("k values must be non-zero")
		}
	}
	return nil
}

type Result struct {
	Run    *runner.RunResult
	Report *report.Report
	// Folds is nil when the caller supplied prepared folds.
	Folds []domain.Population
}

// Run prepares folds from the population and evaluates them.
func Run(ctx context.Context, population domain.Population, req Request, sink reporting.Sink) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	preparer, err := folds.NewPreparer(req.Config.Folds(), sink)
	if err != nil {
		return nil, err
	}
	prepared, summary, err := preparer.Prepare(population)
	if err != nil {
		return nil, fmt.Errorf("prepare folds: %w", err)
	}

	res, err := RunFolds(ctx, prepared, req, sink)
	if err != nil {
		return nil, err
	}
	res.Run.Skipped = summary.Skipped
	res.Report = report.Generate(res.Run)
	res.Folds = prepared
	return res, nil
}

// RunFolds evaluates folds prepared earlier, e.g. restored from a fold file.
func RunFolds(ctx context.Context, prepared []domain.Population, req Request, sink reporting.Sink) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ms, err := metrics.NewAll(req.Metrics, req.Config.Scale())
	if err != nil {
		return nil, apperr.NewValidationWrap("invalid metric", err)
	}

	r := runner.New(runner.Config{
		KValues:     req.KValues,
		Quantize:    req.Quantize,
		Parallelism: req.Config.Parallelism,
		Options: recommender.Options{
			MinRating: req.Config.MinRating,
			MaxRating: req.Config.MaxRating,
			Seed:      req.Config.Seed,
		},
	}, nil, sink)

	rr, err := r.RunFolds(ctx, prepared, req.Recommenders, ms)
	if err != nil {
		return nil, fmt.Errorf("run evaluation: %w", err)
	}

	return &Result{Run: rr, Report: report.Generate(rr)}, nil
}
