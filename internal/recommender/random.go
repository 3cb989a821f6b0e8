package recommender

import (
	"context"
	"math/rand/v2"

	"github.com/DjordjeVuckovic/recommender-evaluator/internal/domain"
)

// Random draws a uniform score in the rating range. The draw depends only on the seed,
// the user and the movie, so repeated calls agree.
type Random struct {
	opts Options
}

func NewRandom(opts Options) *Random {
	return &Random{opts: opts}
}

func (r *Random) Name() string { return TypeRandom }

func (r *Random) Fit(ctx context.Context, _ domain.Population) error {
	return ctx.Err()
}

func (r *Random) PredictScore(user *domain.User, movie domain.Movie) float64 {
	rng := rand.New(rand.NewPCG(r.opts.Seed^uint64(user.ID), uint64(movie.ID)))
	span := float64(r.opts.MaxRating - r.opts.MinRating)
	return float64(r.opts.MinRating) + span*rng.Float64()
}

func (r *Random) Predict(ctx context.Context, users []*domain.User) (map[int64][]domain.Prediction, error) {
	return predictAll(ctx, r, users)
}
