package domain

import (
	"cmp"
	"slices"
	"time"
)

const (
	DefaultMinRating = 1
	DefaultMaxRating = 5
)

type Rating struct {
	Movie     Movie     `json:"movie"`
	Score     int       `json:"score"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRating(movie Movie, score int, ts time.Time) Rating {
	return Rating{Movie: movie, Score: score, Timestamp: ts}
}

// CompareRatings orders ratings by timestamp, then movie title, then movie ID.
func CompareRatings(a, b Rating) int {
	if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Movie.Title, b.Movie.Title); c != 0 {
		return c
	}
	return cmp.Compare(a.Movie.ID, b.Movie.ID)
}

// SortRatings returns a sorted copy; the input is left untouched.
func SortRatings(ratings []Rating) []Rating {
	sorted := slices.Clone(ratings)
	slices.SortStableFunc(sorted, CompareRatings)
	return sorted
}

// ScoresByMovie indexes rating scores by movie ID.
func ScoresByMovie(ratings []Rating) map[int64]int {
	scores := make(map[int64]int, len(ratings))
	for _, r := range ratings {
		scores[r.Movie.ID] = r.Score
	}
	return scores
}
