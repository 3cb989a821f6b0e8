package metrics

import (
	"cmp"
	"math"
	"slices"

	"github.com/DjordjeVuckovic/recommender-evaluator/internal/domain"
)

// NDCG uses binary gains: a relevant movie gains 1 at rank 1 and 1/log2(r) at rank r > 1.
type NDCG struct{}

func (NDCG) Name() string { return NameNDCG }

func (NDCG) EvaluateUser(user *domain.User, ranked []domain.Prediction, k int) (float64, error) {
	k = resolveK(k, len(ranked))
	if k == 0 {
		return 0, nil
	}

	actual := domain.ScoresByMovie(user.Test)

	var dcg float64
	for i, p := range ranked[:k] {
		score, ok := actual[p.Movie.ID]
		if ok {
			dcg += gain(user, score, i+1)
		}
	}

	idcg := idealDCG(user, ranked, k)
	if idcg == 0 {
		return 0, nil
	}
	return dcg / idcg, nil
}

func (m NDCG) EvaluatePopulation(population map[*domain.User][]domain.Prediction, k int) (float64, error) {
	return average(m, population, k)
}

// idealDCG orders the test ratings of the predicted movies by score, best first,
// breaking ties by title.
func idealDCG(user *domain.User, ranked []domain.Prediction, k int) float64 {
	predicted := make(map[int64]struct{}, len(ranked))
	for _, p := range ranked {
		predicted[p.Movie.ID] = struct{}{}
	}

	ideal := make([]domain.Rating, 0, len(user.Test))
	for _, r := range user.Test {
		if _, ok := predicted[r.Movie.ID]; ok {
			ideal = append(ideal, r)
		}
	}
	slices.SortStableFunc(ideal, func(a, b domain.Rating) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Movie.Title, b.Movie.Title)
	})
	if len(ideal) > k {
		ideal = ideal[:k]
	}

	var idcg float64
	for i, r := range ideal {
		idcg += gain(user, r.Score, i+1)
	}
	return idcg
}

func gain(user *domain.User, score, rank int) float64 {
	if !user.IsRelevant(score) {
		return 0
	}
	if rank == 1 {
		return 1
	}
	return 1 / math.Log2(float64(rank))
}
