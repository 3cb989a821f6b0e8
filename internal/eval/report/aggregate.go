package report

import (
	"math"
	"time"

	"github.com/DjordjeVuckovic/recommender-evaluator/internal/eval/runner"
	"gonum.org/v1/gonum/stat"
)

func Generate(rr *runner.RunResult) *Report {
	r := &Report{
		Meta: Meta{
			RunID:       rr.ID,
			Timestamp:   rr.StartedAt,
			Duration:    rr.Duration,
			Environment: NewEnvironmentInfo(),
		},
		Config: Config{
			KValues:      rr.Config.KValues,
			Folds:        len(rr.Folds),
			Quantize:     rr.Config.Quantize,
			Recommenders: rr.Recommenders,
			Metrics:      rr.Metrics,
		},
	}

	for _, f := range rr.Folds {
		for _, res := range f.Recommenders {
			if res.Error != nil {
				r.PerFold = append(r.PerFold, Entry{
					Fold:        f.Index,
					Recommender: res.Name,
					Users:       res.Users,
					Error:       res.Error.Error(),
				})
				continue
			}
			for _, s := range res.Scores {
				e := Entry{
					Fold:        f.Index,
					Recommender: res.Name,
					Metric:      s.Metric,
					K:           s.K,
					Users:       res.Users,
					Value:       s.Value,
				}
				if s.Error != nil {
					e.Error = s.Error.Error()
				}
				r.PerFold = append(r.PerFold, e)
			}
		}
	}

	for _, s := range rr.Skipped {
		r.Skipped = append(r.Skipped, SkippedUser{UserID: s.UserID, HistorySize: s.HistorySize})
	}

	r.Aggregated = aggregate(rr)
	r.Timing = timing(rr)

	return r
}

type cellKey struct {
	metric string
	k      int
}

func aggregate(rr *runner.RunResult) []AggregatedEntry {
	entries := make([]AggregatedEntry, 0, len(rr.Recommenders)*len(rr.Metrics)*len(rr.Config.KValues))

	for _, name := range rr.Recommenders {
		values := make(map[cellKey][]float64)
		errs := make(map[cellKey]int)

		for _, f := range rr.Folds {
			for _, res := range f.Recommenders {
				if res.Name != name {
					continue
				}
				if res.Error != nil {
					for _, m := range rr.Metrics {
						for _, k := range rr.Config.KValues {
							errs[cellKey{m, k}]++
						}
					}
					continue
				}
				for _, s := range res.Scores {
					key := cellKey{s.Metric, s.K}
					if s.Error != nil {
						errs[key]++
						continue
					}
					values[key] = append(values[key], s.Value)
				}
			}
		}

		for _, m := range rr.Metrics {
			for _, k := range rr.Config.KValues {
				key := cellKey{m, k}
				agg := AggregatedEntry{
					Recommender: name,
					Metric:      m,
					K:           k,
					Folds:       len(values[key]),
					Errors:      errs[key],
				}
				if xs := values[key]; len(xs) > 0 {
					agg.Mean, agg.StdDev = stat.MeanStdDev(xs, nil)
					if len(xs) == 1 || math.IsNaN(agg.StdDev) {
						agg.StdDev = 0
					}
				}
				entries = append(entries, agg)
			}
		}
	}

	return entries
}

func timing(rr *runner.RunResult) []TimingEntry {
	entries := make([]TimingEntry, 0, len(rr.Recommenders))
	for _, name := range rr.Recommenders {
		var fit, predict []time.Duration
		for _, f := range rr.Folds {
			for _, res := range f.Recommenders {
				if res.Name == name && res.Error == nil {
					fit = append(fit, res.FitTime)
					predict = append(predict, res.PredictTime)
				}
			}
		}
		entries = append(entries, TimingEntry{
			Recommender: name,
			Fit:         ComputeDurationStats(fit),
			Predict:     ComputeDurationStats(predict),
		})
	}
	return entries
}

// Find returns the aggregated entry for the given cell.
func (r *Report) Find(recommender, metric string, k int) (AggregatedEntry, bool) {
	for _, e := range r.Aggregated {
		if e.Recommender == recommender && e.Metric == metric && e.K == k {
			return e, true
		}
	}
	return AggregatedEntry{}, false
}
