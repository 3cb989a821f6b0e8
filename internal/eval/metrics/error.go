package metrics

import (
	"fmt"
	"math"

	"github.com/DjordjeVuckovic/recommender-evaluator/internal/apperr"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/domain"
)

// RatingRangeError reports a prediction that was not discretized into the rating scale.
type RatingRangeError struct {
	UserID  int64
	MovieID int64
	Value   float64
	Min     int
	Max     int
}

func (e *RatingRangeError) Error() string {
	return fmt.Sprintf("prediction %.4f for user %d movie %d outside rating range [%d, %d]; quantize predictions first",
		e.Value, e.UserID, e.MovieID, e.Min, e.Max)
}

func (e *RatingRangeError) Unwrap() error {
	return apperr.ErrPrecondition
}

// RMSE requires predictions already discretized into [Min, Max].
type RMSE struct {
	Min int
	Max int
}

func NewRMSE(minRating, maxRating int) RMSE {
	return RMSE{Min: minRating, Max: maxRating}
}

func (RMSE) Name() string { return NameRMSE }

func (m RMSE) EvaluateUser(user *domain.User, ranked []domain.Prediction, k int) (float64, error) {
	k = resolveK(k, len(ranked))
	if k == 0 {
		return 0, nil
	}

	actual := domain.ScoresByMovie(user.Test)

	var sum float64
	for _, p := range ranked[:k] {
		if p.Score < float64(m.Min) || p.Score > float64(m.Max) {
			return 0, &RatingRangeError{UserID: user.ID, MovieID: p.Movie.ID, Value: p.Score, Min: m.Min, Max: m.Max}
		}
		score, ok := actual[p.Movie.ID]
		if !ok {
			continue
		}
		diff := p.Score - float64(score)
		sum += diff * diff
	}

	return math.Sqrt(sum / float64(k)), nil
}

func (m RMSE) EvaluatePopulation(population map[*domain.User][]domain.Prediction, k int) (float64, error) {
	return average(m, population, k)
}

type MAE struct{}

func (MAE) Name() string { return NameMAE }

func (MAE) EvaluateUser(user *domain.User, ranked []domain.Prediction, k int) (float64, error) {
	k = resolveK(k, len(ranked))
	if k == 0 {
		return 0, nil
	}

	actual := domain.ScoresByMovie(user.Test)

	var sum float64
	for _, p := range ranked[:k] {
		score, ok := actual[p.Movie.ID]
		if !ok {
			continue
		}
		sum += math.Abs(p.Score - float64(score))
	}

	return sum / float64(k), nil
}

func (m MAE) EvaluatePopulation(population map[*domain.User][]domain.Prediction, k int) (float64, error) {
	return average(m, population, k)
}
