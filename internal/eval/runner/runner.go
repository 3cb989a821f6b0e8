package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DjordjeVuckovic/recommender-evaluator/internal/domain"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/eval/folds"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/eval/metrics"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/eval/quantize"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/recommender"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/reporting"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type Runner struct {
	config   Config
	preparer *folds.Preparer
	sink     reporting.Sink
}

func New(cfg Config, preparer *folds.Preparer, sink reporting.Sink) *Runner {
	if cfg.Parallelism < 1 {
		cfg.Parallelism = 1
	}
	if len(cfg.KValues) == 0 {
		cfg.KValues = DefaultKValues
	}
	if sink == nil {
		sink = reporting.Discard{}
	}
	return &Runner{config: cfg, preparer: preparer, sink: sink}
}

// Run splits the population into folds and evaluates every recommender on each fold.
func (r *Runner) Run(
	ctx context.Context,
	population domain.Population,
	recommenders []string,
	ms []metrics.Metric,
) (*RunResult, error) {
	if r.preparer == nil {
		return nil, errors.New("runner has no fold preparer")
	}
	prepared, summary, err := r.preparer.Prepare(population)
	if err != nil {
		return nil, fmt.Errorf("prepare folds: %w", err)
	}

	rr, err := r.RunFolds(ctx, prepared, recommenders, ms)
	if err != nil {
		return nil, err
	}
	rr.Skipped = summary.Skipped
	return rr, nil
}

// RunFolds evaluates already prepared folds. Folds run concurrently up to the configured
// parallelism; each fold gets its own recommender instances.
func (r *Runner) RunFolds(
	ctx context.Context,
	prepared []domain.Population,
	recommenders []string,
	ms []metrics.Metric,
) (*RunResult, error) {
	factories := make([]recommender.Factory, 0, len(recommenders))
	for _, name := range recommenders {
		f, err := recommender.FactoryFor(name)
		if err != nil {
			return nil, err
		}
		factories = append(factories, f)
	}

	rr := &RunResult{
		ID:           uuid.New(),
		StartedAt:    time.Now().UTC(),
		Config:       r.config,
		Recommenders: recommenders,
		Metrics:      make([]string, 0, len(ms)),
		Folds:        make([]FoldResult, len(prepared)),
	}
	for _, m := range ms {
		rr.Metrics = append(rr.Metrics, m.Name())
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.config.Parallelism)

	for i, fold := range prepared {
		g.Go(func() error {
			fr, err := r.runFold(gctx, i, fold, factories, ms)
			if err != nil {
				return fmt.Errorf("fold %d: %w", i, err)
			}
			rr.Folds[i] = fr
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	rr.Duration = time.Since(rr.StartedAt)
	r.sink.Emit(reporting.LevelResults, "evaluation finished",
		"run", rr.ID, "folds", len(prepared), "recommenders", len(recommenders), "duration", rr.Duration)

	return rr, nil
}

func (r *Runner) runFold(
	ctx context.Context,
	index int,
	fold domain.Population,
	factories []recommender.Factory,
	ms []metrics.Metric,
) (FoldResult, error) {
	fr := FoldResult{Index: index, Users: len(fold)}

	for _, factory := range factories {
		rec := factory(r.config.Options)
		res := r.evaluate(ctx, rec, fold, ms)
		if err := ctx.Err(); err != nil {
			return fr, err
		}
		if res.Error != nil {
			r.sink.Emit(reporting.LevelRequired, "recommender failed",
				"fold", index, "recommender", rec.Name(), "error", res.Error)
		}
		fr.Recommenders = append(fr.Recommenders, res)
	}

	return fr, nil
}

func (r *Runner) evaluate(
	ctx context.Context,
	rec recommender.Recommender,
	fold domain.Population,
	ms []metrics.Metric,
) RecommenderResult {
	res := RecommenderResult{Name: rec.Name(), Users: len(fold)}

	start := time.Now()
	if err := rec.Fit(ctx, fold); err != nil {
		res.Error = fmt.Errorf("fit: %w", err)
		return res
	}
	res.FitTime = time.Since(start)

	users := fold.Users()
	start = time.Now()
	predicted, err := rec.Predict(ctx, users)
	if err != nil {
		res.Error = fmt.Errorf("predict: %w", err)
		return res
	}
	res.PredictTime = time.Since(start)

	ranked := make(map[*domain.User][]domain.Prediction, len(users))
	for _, u := range users {
		ranked[u] = predicted[u.ID]
	}

	var discrete map[*domain.User][]domain.Prediction
	if r.config.Quantize && anyDiscrete(ms) {
		discrete, res.Dropped = r.quantize(rec, ranked)
	}

	for _, m := range ms {
		population := ranked
		if discrete != nil && metrics.NeedsDiscreteRatings(m.Name()) {
			population = discrete
		}
		for _, k := range r.config.KValues {
			v, err := m.EvaluatePopulation(population, k)
			if err != nil {
				r.sink.Emit(reporting.LevelRequired, "metric failed",
					"recommender", rec.Name(), "metric", m.Name(), "k", k, "error", err)
			}
			res.Scores = append(res.Scores, Score{Metric: m.Name(), K: k, Value: v, Error: err})
		}
	}

	return res
}

func (r *Runner) quantize(
	rec recommender.Recommender,
	ranked map[*domain.User][]domain.Prediction,
) (map[*domain.User][]domain.Prediction, int) {
	q := quantize.New(rec)
	out := make(map[*domain.User][]domain.Prediction, len(ranked))
	dropped := 0

	for u, preds := range ranked {
		qp, err := q.Quantize(u, preds)
		if err != nil {
			r.sink.Emit(reporting.LevelDebug, "user left out of quantized scoring",
				"user", u.ID, "recommender", rec.Name(), "error", err)
			dropped++
			continue
		}
		out[u] = qp
	}

	return out, dropped
}

func anyDiscrete(ms []metrics.Metric) bool {
	for _, m := range ms {
		if metrics.NeedsDiscreteRatings(m.Name()) {
			return true
		}
	}
	return false
}
