package metrics

import (
	"cmp"
	"math"
	"slices"

	"github.com/DjordjeVuckovic/recommender-evaluator/internal/domain"
	"gonum.org/v1/gonum/floats"
)

// Metric scores a ranked prediction list against a user's held-out ratings.
type Metric interface {
	Name() string
	// EvaluateUser scores the top-k predictions of one user.
	EvaluateUser(user *domain.User, ranked []domain.Prediction, k int) (float64, error)
	// EvaluatePopulation averages EvaluateUser over every user with at least k predictions.
	EvaluatePopulation(population map[*domain.User][]domain.Prediction, k int) (float64, error)
}

// resolveK maps an out-of-range cutoff to the whole list.
func resolveK(k, size int) int {
	if k < 0 || k > size {
		return size
	}
	return k
}

// populationK applies the cutoff rule to the population: a k beyond the longest list
// means "everything available" for every user.
func populationK(population map[*domain.User][]domain.Prediction, k int) int {
	longest := 0
	for _, preds := range population {
		longest = max(longest, len(preds))
	}
	if k < 0 || k > longest {
		return -1
	}
	return k
}

func average(m Metric, population map[*domain.User][]domain.Prediction, k int) (float64, error) {
	k = populationK(population, k)

	users := make([]*domain.User, 0, len(population))
	for u := range population {
		users = append(users, u)
	}
	slices.SortFunc(users, func(a, b *domain.User) int { return cmp.Compare(a.ID, b.ID) })

	values := make([]float64, 0, len(users))
	for _, u := range users {
		preds := population[u]
		if len(preds) < k {
			continue
		}
		v, err := m.EvaluateUser(u, preds, k)
		if err != nil {
			return 0, err
		}
		values = append(values, v)
	}

	if len(values) == 0 {
		return 0, nil
	}
	avg := floats.Sum(values) / float64(len(values))
	if math.IsNaN(avg) {
		return 0, nil
	}
	return avg, nil
}

// topTestRatings returns the user's first k test ratings in natural order.
func topTestRatings(user *domain.User, k int) []domain.Rating {
	sorted := domain.SortRatings(user.Test)
	if k < len(sorted) {
		sorted = sorted[:k]
	}
	return sorted
}
