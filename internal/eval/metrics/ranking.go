package metrics

import "github.com/DjordjeVuckovic/recommender-evaluator/internal/domain"

// MAP is mean average precision over the first k ranks. Precision@i is added at every
// rank i holding a relevant movie and the sum is divided by k.
type MAP struct{}

func (MAP) Name() string { return NameMAP }

func (MAP) EvaluateUser(user *domain.User, ranked []domain.Prediction, k int) (float64, error) {
	k = resolveK(k, len(ranked))
	if k == 0 {
		return 0, nil
	}

	relevant := domain.ScoresByMovie(topTestRatings(user, k))

	var sum float64
	for i := 1; i <= k; i++ {
		score, ok := relevant[ranked[i-1].Movie.ID]
		if !ok || !user.IsRelevant(score) {
			continue
		}
		sum += precisionAtK(user, ranked, i)
	}

	return sum / float64(k), nil
}

func (m MAP) EvaluatePopulation(population map[*domain.User][]domain.Prediction, k int) (float64, error) {
	return average(m, population, k)
}

// MRR is the reciprocal rank of the first relevant prediction within the top-k.
type MRR struct{}

func (MRR) Name() string { return NameMRR }

func (MRR) EvaluateUser(user *domain.User, ranked []domain.Prediction, k int) (float64, error) {
	k = resolveK(k, len(ranked))
	actual := domain.ScoresByMovie(user.Test)

	for i, p := range ranked[:k] {
		score, ok := actual[p.Movie.ID]
		if ok && user.IsRelevant(score) {
			return 1.0 / float64(i+1), nil
		}
	}
	return 0, nil
}

func (m MRR) EvaluatePopulation(population map[*domain.User][]domain.Prediction, k int) (float64, error) {
	return average(m, population, k)
}
