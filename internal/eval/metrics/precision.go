package metrics

import "github.com/DjordjeVuckovic/recommender-evaluator/internal/domain"

// Precision counts a top-k prediction as a hit when its movie is among the user's
// first k test ratings and that rating is relevant.
type Precision struct{}

func (Precision) Name() string { return NamePrecision }

func (Precision) EvaluateUser(user *domain.User, ranked []domain.Prediction, k int) (float64, error) {
	return precisionAtK(user, ranked, k), nil
}

func (m Precision) EvaluatePopulation(population map[*domain.User][]domain.Prediction, k int) (float64, error) {
	return average(m, population, k)
}

func precisionAtK(user *domain.User, ranked []domain.Prediction, k int) float64 {
	k = resolveK(k, len(ranked))
	truth := domain.ScoresByMovie(topTestRatings(user, k))

	var tp, fp int
	for _, p := range ranked[:k] {
		score, ok := truth[p.Movie.ID]
		if ok && user.IsRelevant(score) {
			tp++
		} else {
			fp++
		}
	}

	if tp+fp == 0 {
		return 0
	}
	return float64(tp) / float64(tp+fp)
}

// Recall is the share of the user's relevant test ratings that appear in the top-k.
type Recall struct{}

func (Recall) Name() string { return NameRecall }

func (Recall) EvaluateUser(user *domain.User, ranked []domain.Prediction, k int) (float64, error) {
	return recallAtK(user, ranked, k), nil
}

func (m Recall) EvaluatePopulation(population map[*domain.User][]domain.Prediction, k int) (float64, error) {
	return average(m, population, k)
}

func recallAtK(user *domain.User, ranked []domain.Prediction, k int) float64 {
	k = resolveK(k, len(ranked))
	predicted := make(map[int64]float64, k)
	for _, p := range ranked[:k] {
		predicted[p.Movie.ID] = p.Score
	}

	var tp, fn int
	for _, r := range domain.SortRatings(user.Test) {
		if !user.IsRelevant(r.Score) {
			continue
		}
		if _, ok := predicted[r.Movie.ID]; ok {
			tp++
		} else {
			fn++
		}
	}

	if tp+fn == 0 {
		return 0
	}
	return float64(tp) / float64(tp+fn)
}

type F1 struct{}

func (F1) Name() string { return NameF1 }

func (F1) EvaluateUser(user *domain.User, ranked []domain.Prediction, k int) (float64, error) {
	p := precisionAtK(user, ranked, k)
	r := recallAtK(user, ranked, k)

	if p+r == 0 {
		return 0, nil
	}
	return 2 * p * r / (p + r), nil
}

func (m F1) EvaluatePopulation(population map[*domain.User][]domain.Prediction, k int) (float64, error) {
	return average(m, population, k)
}
