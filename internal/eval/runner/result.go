package runner

import (
	"time"

	"github.com/DjordjeVuckovic/recommender-evaluator/internal/eval/folds"
	"github.com/google/uuid"
)

type Score struct {
	Metric string
	K      int
	Value  float64
	Error  error
}

type RecommenderResult struct {
	Name        string
	Users       int
	FitTime     time.Duration
	PredictTime time.Duration
	Scores      []Score
	// Dropped counts users left out of quantized scoring for lack of training data.
	Dropped int
	Error   error
}

type FoldResult struct {
	Index        int
	Users        int
	Recommenders []RecommenderResult
}

type RunResult struct {
	ID           uuid.UUID
	StartedAt    time.Time
	Duration     time.Duration
	Config       Config
	Recommenders []string
	Metrics      []string
	Folds        []FoldResult
	Skipped      []folds.SkippedUser
}

// ScoresFor returns the score cells of one recommender across folds, in fold order.
func (rr *RunResult) ScoresFor(name string) [][]Score {
	var out [][]Score
	for _, f := range rr.Folds {
		for _, r := range f.Recommenders {
			if r.Name == name {
				out = append(out, r.Scores)
			}
		}
	}
	return out
}
