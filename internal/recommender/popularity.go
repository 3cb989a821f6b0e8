package recommender

import (
	"context"

	"github.com/DjordjeVuckovic/recommender-evaluator/internal/domain"
)

// Popularity scores a movie by how often it was rated in training, scaled onto the
// rating range.
type Popularity struct {
	opts     Options
	counts   map[int64]int
	maxCount int
}

func NewPopularity(opts Options) *Popularity {
	return &Popularity{opts: opts, counts: map[int64]int{}}
}

func (p *Popularity) Name() string { return TypePopularity }

func (p *Popularity) Fit(ctx context.Context, population domain.Population) error {
	p.counts = make(map[int64]int)
	p.maxCount = 0
	for _, u := range population {
		for _, r := range u.Training {
			p.counts[r.Movie.ID]++
			p.maxCount = max(p.maxCount, p.counts[r.Movie.ID])
		}
	}
	return ctx.Err()
}

func (p *Popularity) PredictScore(_ *domain.User, movie domain.Movie) float64 {
	if p.maxCount == 0 {
		return float64(p.opts.MinRating)
	}
	span := float64(p.opts.MaxRating - p.opts.MinRating)
	return float64(p.opts.MinRating) + span*float64(p.counts[movie.ID])/float64(p.maxCount)
}

func (p *Popularity) Predict(ctx context.Context, users []*domain.User) (map[int64][]domain.Prediction, error) {
	return predictAll(ctx, p, users)
}
