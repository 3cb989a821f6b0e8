package folds

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/DjordjeVuckovic/recommender-evaluator/internal/apperr"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/domain"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/reporting"
)

// ErrExhausted means the unused part of a user's history cannot fill a test set.
// The preparer's skip rule should make this unreachable.
var ErrExhausted = errors.New("fold preparation exhausted unused ratings")

const (
	DefaultNumFolds        = 5
	DefaultTrainingSetSize = 0.8
)

// sizeEpsilon keeps floor(10 * (1 - 0.8)) at 2 instead of 1.
const sizeEpsilon = 1e-9

type Config struct {
	NumFolds        int
	TrainingSetSize float64
	Seed            uint64
}

func (c Config) Validate() error {
	if c.NumFolds < 1 {
		return apperr.NewValidation(fmt.Sprintf("number of folds must be at least 1, got %d", c.NumFolds))
	}
	if c.TrainingSetSize <= 0 || c.TrainingSetSize >= 1 {
		return apperr.NewValidation(fmt.Sprintf("training set size must be in (0, 1), got %g", c.TrainingSetSize))
	}
	return nil
}

type SkippedUser struct {
	UserID      int64
	HistorySize int
	TestSetSize int
}

type Summary struct {
	Prepared []int64
	Skipped  []SkippedUser
}

// Preparer splits every user's history into NumFolds train/test partitions whose test
// sets never share a movie.
type Preparer struct {
	cfg  Config
	sink reporting.Sink
}

func NewPreparer(cfg Config, sink reporting.Sink) (*Preparer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sink == nil {
		sink = reporting.Discard{}
	}
	return &Preparer{cfg: cfg, sink: sink}, nil
}

// TestSetSize is the number of held-out ratings per fold for a history of the given size.
func (p *Preparer) TestSetSize(historySize int) int {
	return int(math.Floor(float64(historySize)*(1-p.cfg.TrainingSetSize) + sizeEpsilon))
}

// Prepare returns one population per fold. Users whose history is too short for the
// requested number of folds are left out of every fold and listed in the summary.
// Repeated ratings of one movie collapse to the latest of them.
func (p *Preparer) Prepare(population domain.Population) ([]domain.Population, *Summary, error) {
	folds := make([]domain.Population, p.cfg.NumFolds)
	rngs := make([]*rand.Rand, p.cfg.NumFolds)
	for i := range folds {
		folds[i] = make(domain.Population)
		seed := p.cfg.Seed + uint64(i)
		rngs[i] = rand.New(rand.NewPCG(seed, seed))
	}

	summary := &Summary{}

	for _, user := range population.Users() {
		history := latestPerMovie(user.History())
		testSize := p.TestSetSize(len(history))

		if testSize == 0 || len(history)/testSize < p.cfg.NumFolds {
			p.sink.Emit(reporting.LevelDebug, "user lacks enough ratings for folds",
				"user", user.ID, "ratings", len(history), "test_set_size", testSize, "folds", p.cfg.NumFolds)
			summary.Skipped = append(summary.Skipped, SkippedUser{
				UserID:      user.ID,
				HistorySize: len(history),
				TestSetSize: testSize,
			})
			continue
		}

		splits, err := p.splitUser(user, history, testSize, rngs)
		if err != nil {
			p.sink.Emit(reporting.LevelRequired, "user skipped",
				"user", user.ID, "ratings", len(history), "test_set_size", testSize, "error", err)
			summary.Skipped = append(summary.Skipped, SkippedUser{
				UserID:      user.ID,
				HistorySize: len(history),
				TestSetSize: testSize,
			})
			continue
		}
		for i, u := range splits {
			folds[i][user.ID] = u
		}
		summary.Prepared = append(summary.Prepared, user.ID)
	}

	p.sink.Emit(reporting.LevelResults, "folds prepared",
		"folds", p.cfg.NumFolds, "users", len(summary.Prepared), "skipped", len(summary.Skipped))

	return folds, summary, nil
}

func (p *Preparer) splitUser(user *domain.User, history []domain.Rating, testSize int, rngs []*rand.Rand) ([]*domain.User, error) {
	used := make(map[int64]struct{}, testSize*p.cfg.NumFolds)
	splits := make([]*domain.User, len(rngs))
	for i := range rngs {
		training, test, err := split(history, used, testSize, rngs[i])
		if err != nil {
			return nil, fmt.Errorf("fold %d: %w", i, err)
		}
		splits[i] = user.WithSplit(training, test)
	}
	return splits, nil
}

// latestPerMovie keeps the last rating of every movie in a naturally ordered history.
func latestPerMovie(history []domain.Rating) []domain.Rating {
	last := make(map[int64]int, len(history))
	for i, r := range history {
		last[r.Movie.ID] = i
	}
	if len(last) == len(history) {
		return history
	}
	out := make([]domain.Rating, 0, len(last))
	for i, r := range history {
		if last[r.Movie.ID] == i {
			out = append(out, r)
		}
	}
	return out
}

// split draws testSize ratings whose movies are not in used, marks those movies as used
// and returns the rest of the history as training data.
func split(history []domain.Rating, used map[int64]struct{}, testSize int, rng *rand.Rand) ([]domain.Rating, []domain.Rating, error) {
	eligible := make([]int, 0, len(history))
	for i, r := range history {
		if _, ok := used[r.Movie.ID]; !ok {
			eligible = append(eligible, i)
		}
	}
	if len(eligible) < testSize {
		return nil, nil, fmt.Errorf("%w: need %d, have %d", ErrExhausted, testSize, len(eligible))
	}

	rng.Shuffle(len(eligible), func(i, j int) { eligible[i], eligible[j] = eligible[j], eligible[i] })

	picked := make(map[int]struct{}, testSize)
	test := make([]domain.Rating, 0, testSize)
	for _, idx := range eligible[:testSize] {
		picked[idx] = struct{}{}
		test = append(test, history[idx])
		used[history[idx].Movie.ID] = struct{}{}
	}

	training := make([]domain.Rating, 0, len(history)-testSize)
	for i, r := range history {
		if _, ok := picked[i]; !ok {
			training = append(training, r)
		}
	}

	return domain.SortRatings(training), domain.SortRatings(test), nil
}
