package quantize

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/DjordjeVuckovic/recommender-evaluator/internal/domain"
)

var ErrNoTrainingRatings = errors.New("user has no training ratings to calibrate against")

// Scorer is the part of a recommender the quantizer needs.
type Scorer interface {
	PredictScore(user *domain.User, movie domain.Movie) float64
}

// RatingRange is the score interval mapped to one discrete rating.
type RatingRange struct {
	Rating int
	Low    float64
	High   float64
}

// Quantizer converts continuous prediction scores into the discrete ratings a user
// actually gives, calibrated on how the scorer rates the user's training movies.
type Quantizer struct {
	scorer Scorer
}

func New(scorer Scorer) *Quantizer {
	return &Quantizer{scorer: scorer}
}

// Ranges builds one interval per rating label seen in the user's training set.
// Neighbouring intervals meet halfway between their observed extremes and the outer
// bounds are open, so every score falls into some range.
func (q *Quantizer) Ranges(user *domain.User) ([]RatingRange, error) {
	if len(user.Training) == 0 {
		return nil, fmt.Errorf("user %d: %w", user.ID, ErrNoTrainingRatings)
	}

	byLabel := make(map[int]*RatingRange)
	for _, r := range user.Training {
		score := q.scorer.PredictScore(user, r.Movie)
		rr, ok := byLabel[r.Score]
		if !ok {
			byLabel[r.Score] = &RatingRange{Rating: r.Score, Low: score, High: score}
			continue
		}
		rr.Low = math.Min(rr.Low, score)
		rr.High = math.Max(rr.High, score)
	}

	ranges := make([]RatingRange, 0, len(byLabel))
	for _, rr := range byLabel {
		ranges = append(ranges, *rr)
	}
	slices.SortFunc(ranges, func(a, b RatingRange) int { return a.Rating - b.Rating })

	for i := 1; i < len(ranges); i++ {
		mid := (ranges[i-1].High + ranges[i].Low) / 2
		ranges[i-1].High = mid
		ranges[i].Low = mid
	}
	ranges[0].Low = math.Inf(-1)
	ranges[len(ranges)-1].High = math.Inf(1)

	return ranges, nil
}

// Discretize returns the rating of the first range whose upper bound reaches score,
// or the last rating when score is above every range. It reports false for no ranges.
func Discretize(ranges []RatingRange, score float64) (int, bool) {
	if len(ranges) == 0 {
		return 0, false
	}
	for _, rr := range ranges {
		if score <= rr.High {
			return rr.Rating, true
		}
	}
	return ranges[len(ranges)-1].Rating, true
}

// Quantize maps every prediction score to a discrete rating, keeping the order.
func (q *Quantizer) Quantize(user *domain.User, preds []domain.Prediction) ([]domain.Prediction, error) {
	ranges, err := q.Ranges(user)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Prediction, len(preds))
	for i, p := range preds {
		rating, _ := Discretize(ranges, p.Score)
		out[i] = domain.Prediction{Movie: p.Movie, Score: float64(rating)}
	}
	return out, nil
}
