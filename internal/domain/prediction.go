package domain

import (
	"cmp"
	"slices"
)

type Prediction struct {
	Movie Movie   `json:"movie"`
	Score float64 `json:"score"`
}

// SortPredictions ranks predictions by descending score; ties go to the lower title.
func SortPredictions(preds []Prediction) {
	slices.SortStableFunc(preds, func(a, b Prediction) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Movie.Title, b.Movie.Title); c != 0 {
			return c
		}
		return cmp.Compare(a.Movie.ID, b.Movie.ID)
	})
}

// TopK returns the first k predictions, or all of them when k is out of range.
func TopK(preds []Prediction, k int) []Prediction {
	if k < 0 || k > len(preds) {
		return preds
	}
	return preds[:k]
}
