package recommender

import (
	"context"

	"github.com/DjordjeVuckovic/recommender-evaluator/internal/domain"
)

const (
	DefaultItemDamping = 25.0
	DefaultUserDamping = 10.0
)

// Baseline predicts mu + b_u + b_i with damped user and item biases.
type Baseline struct {
	opts        Options
	itemDamping float64
	userDamping float64

	mu       float64
	itemBias map[int64]float64
	userBias map[int64]float64
}

func NewBaseline(opts Options) *Baseline {
	return &Baseline{
		opts:        opts,
		itemDamping: DefaultItemDamping,
		userDamping: DefaultUserDamping,
		mu:          midpoint(opts),
		itemBias:    map[int64]float64{},
		userBias:    map[int64]float64{},
	}
}

func (b *Baseline) Name() string { return TypeBaseline }

func (b *Baseline) Fit(ctx context.Context, population domain.Population) error {
	if mean, n := trainingMean(population); n > 0 {
		b.mu = mean
	}

	type acc struct {
		sum float64
		n   int
	}
	items := make(map[int64]*acc)
	for _, u := range population.Users() {
		for _, r := range u.Training {
			a, ok := items[r.Movie.ID]
			if !ok {
				a = &acc{}
				items[r.Movie.ID] = a
			}
			a.sum += float64(r.Score) - b.mu
			a.n++
		}
	}
	b.itemBias = make(map[int64]float64, len(items))
	for id, a := range items {
		b.itemBias[id] = a.sum / (b.itemDamping + float64(a.n))
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	b.userBias = make(map[int64]float64, len(population))
	for id, u := range population {
		b.userBias[id] = b.biasFor(u)
	}
	return nil
}

func (b *Baseline) biasFor(user *domain.User) float64 {
	var sum float64
	for _, r := range user.Training {
		sum += float64(r.Score) - b.mu - b.itemBias[r.Movie.ID]
	}
	return sum / (b.userDamping + float64(len(user.Training)))
}

func (b *Baseline) PredictScore(user *domain.User, movie domain.Movie) float64 {
	bu, ok := b.userBias[user.ID]
	if !ok {
		bu = b.biasFor(user)
	}
	return b.opts.clamp(b.mu + bu + b.itemBias[movie.ID])
}

func (b *Baseline) Predict(ctx context.Context, users []*domain.User) (map[int64][]domain.Prediction, error) {
	return predictAll(ctx, b, users)
}
