package recommender

import (
	"context"

	"github.com/DjordjeVuckovic/recommender-evaluator/internal/domain"
)

// Content builds a per-user profile of how far the user's scores deviate from their mean
// for each movie property, and predicts the user's mean shifted by the weighted profile
// of the movie's properties.
type Content struct {
	opts     Options
	global   float64
	profiles map[int64]map[string]float64
}

func NewContent(opts Options) *Content {
	return &Content{opts: opts, global: midpoint(opts), profiles: map[int64]map[string]float64{}}
}

func (c *Content) Name() string { return TypeContent }

func (c *Content) Fit(ctx context.Context, population domain.Population) error {
	if mean, n := trainingMean(population); n > 0 {
		c.global = mean
	}
	c.profiles = make(map[int64]map[string]float64, len(population))
	for id, u := range population {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.profiles[id] = buildProfile(u)
	}
	return nil
}

func buildProfile(user *domain.User) map[string]float64 {
	mean, ok := userMean(user)
	if !ok {
		return map[string]float64{}
	}

	deviation := make(map[string]float64)
	weight := make(map[string]float64)
	for _, r := range user.Training {
		for _, p := range r.Movie.Properties {
			deviation[p.Key()] += (float64(r.Score) - mean) * p.Weight
			weight[p.Key()] += p.Weight
		}
	}

	profile := make(map[string]float64, len(deviation))
	for key := range deviation {
		if weight[key] > 0 {
			profile[key] = deviation[key] / weight[key]
		}
	}
	return profile
}

func (c *Content) PredictScore(user *domain.User, movie domain.Movie) float64 {
	base, ok := userMean(user)
	if !ok {
		base = c.global
	}

	profile, ok := c.profiles[user.ID]
	if !ok {
		profile = buildProfile(user)
	}

	var shift, total float64
	for _, p := range movie.Properties {
		if dev, ok := profile[p.Key()]; ok {
			shift += dev * p.Weight
			total += p.Weight
		}
	}
	if total > 0 {
		base += shift / total
	}
	return c.opts.clamp(base)
}

func (c *Content) Predict(ctx context.Context, users []*domain.User) (map[int64][]domain.Prediction, error) {
	return predictAll(ctx, c, users)
}
