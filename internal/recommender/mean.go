package recommender

import (
	"context"

	"github.com/DjordjeVuckovic/recommender-evaluator/internal/domain"
)

// Mean predicts the user's mean training score, falling back to the global mean.
type Mean struct {
	opts   Options
	global float64
}

func NewMean(opts Options) *Mean {
	return &Mean{opts: opts, global: midpoint(opts)}
}

func (m *Mean) Name() string { return TypeMean }

func (m *Mean) Fit(ctx context.Context, population domain.Population) error {
	if mean, n := trainingMean(population); n > 0 {
		m.global = mean
	}
	return ctx.Err()
}

func (m *Mean) PredictScore(user *domain.User, _ domain.Movie) float64 {
	if mean, ok := userMean(user); ok {
		return mean
	}
	return m.global
}

func (m *Mean) Predict(ctx context.Context, users []*domain.User) (map[int64][]domain.Prediction, error) {
	return predictAll(ctx, m, users)
}
