package recommender

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/DjordjeVuckovic/recommender-evaluator/internal/domain"
)

// Recommender scores movies for users. Implementations are fitted on one fold's training
// data and are not shared between folds.
type Recommender interface {
	Name() string
	Fit(ctx context.Context, population domain.Population) error
	PredictScore(user *domain.User, movie domain.Movie) float64
	// Predict ranks each user's test movies, keyed by user ID.
	Predict(ctx context.Context, users []*domain.User) (map[int64][]domain.Prediction, error)
}

type scorer interface {
	PredictScore(user *domain.User, movie domain.Movie) float64
}

const (
	TypeMean       = "mean"
	TypeBaseline   = "baseline"
	TypePopularity = "popularity"
	TypeRandom     = "random"
	TypeContent    = "content"
)

var Types = []string{TypeMean, TypeBaseline, TypePopularity, TypeRandom, TypeContent}

type Options struct {
	MinRating int
	MaxRating int
	Seed      uint64
}

func (o Options) clamp(score float64) float64 {
	return math.Max(float64(o.MinRating), math.Min(float64(o.MaxRating), score))
}

// Factory builds an unfitted recommender.
type Factory func(opts Options) Recommender

// New returns an unfitted recommender of the named type.
func New(name string, opts Options) (Recommender, error) {
	f, err := FactoryFor(name)
	if err != nil {
		return nil, err
	}
	return f(opts), nil
}

func FactoryFor(name string) (Factory, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case TypeMean:
		return func(o Options) Recommender { return NewMean(o) }, nil
	case TypeBaseline:
		return func(o Options) Recommender { return NewBaseline(o) }, nil
	case TypePopularity:
		return func(o Options) Recommender { return NewPopularity(o) }, nil
	case TypeRandom:
		return func(o Options) Recommender { return NewRandom(o) }, nil
	case TypeContent:
		return func(o Options) Recommender { return NewContent(o) }, nil
	default:
		return nil, fmt.Errorf("unsupported recommender type %q", name)
	}
}

// rank scores every test movie of the user and orders the result.
func rank(s scorer, user *domain.User) []domain.Prediction {
	preds := make([]domain.Prediction, 0, len(user.Test))
	for _, r := range user.Test {
		preds = append(preds, domain.Prediction{Movie: r.Movie, Score: s.PredictScore(user, r.Movie)})
	}
	domain.SortPredictions(preds)
	return preds
}

func predictAll(ctx context.Context, s scorer, users []*domain.User) (map[int64][]domain.Prediction, error) {
	out := make(map[int64][]domain.Prediction, len(users))
	for _, u := range users {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[u.ID] = rank(s, u)
	}
	return out, nil
}

// trainingMean is the mean score over every training rating in the population.
func trainingMean(population domain.Population) (float64, int) {
	var sum, n int
	for _, u := range population {
		for _, r := range u.Training {
			sum += r.Score
		}
		n += len(u.Training)
	}
	if n == 0 {
		return 0, 0
	}
	return float64(sum) / float64(n), n
}

func userMean(user *domain.User) (float64, bool) {
	if len(user.Training) == 0 {
		return 0, false
	}
	var sum int
	for _, r := range user.Training {
		sum += r.Score
	}
	return float64(sum) / float64(len(user.Training)), true
}

func midpoint(o Options) float64 {
	return float64(o.MinRating+o.MaxRating) / 2
}
