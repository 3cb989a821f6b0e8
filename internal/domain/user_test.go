package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ts(sec int64) time.Time { return time.Unix(sec, 0).UTC() }

func TestNewUser(t *testing.T) {
	a := NewMovie(1, "Alien")
	b := NewMovie(2, "Brazil")
	c := NewMovie(3, "Casablanca")

	test := []Rating{
		NewRating(c, 4, ts(30)),
		NewRating(a, 5, ts(10)),
		NewRating(b, 2, ts(20)),
	}

	u := NewUser(7, Demographics{Gender: "F"}, nil, test)

	assert.Equal(t, int64(7), u.ID)
	assert.InDelta(t, 11.0/3.0, u.AverageRating, 1e-9)
	assert.Equal(t, []int64{1, 2, 3}, []int64{u.Test[0].Movie.ID, u.Test[1].Movie.ID, u.Test[2].Movie.ID})
	assert.Equal(t, c, test[0].Movie, "input must not be reordered")
	assert.True(t, u.IsRelevant(4))
	assert.False(t, u.IsRelevant(3))
}

func TestNewUser_NoTestRatings(t *testing.T) {
	u := NewUser(1, Demographics{}, []Rating{NewRating(NewMovie(1, "A"), 3, ts(1))}, nil)
	assert.Zero(t, u.AverageRating)
	assert.Len(t, u.History(), 1)
}

func TestCompareRatings_TieBreaks(t *testing.T) {
	same := ts(5)
	ratings := []Rating{
		NewRating(NewMovie(3, "Zulu"), 1, same),
		NewRating(NewMovie(2, "Alpha"), 1, same),
		NewRating(NewMovie(1, "Alpha"), 1, same),
		NewRating(NewMovie(4, "Mike"), 1, ts(1)),
	}

	sorted := SortRatings(ratings)

	got := make([]int64, 0, len(sorted))
	for _, r := range sorted {
		got = append(got, r.Movie.ID)
	}
	assert.Equal(t, []int64{4, 1, 2, 3}, got)
}

func TestSortPredictions(t *testing.T) {
	preds := []Prediction{
		{Movie: NewMovie(1, "B"), Score: 1.0},
		{Movie: NewMovie(2, "A"), Score: 1.0},
		{Movie: NewMovie(3, "C"), Score: 3.5},
	}

	SortPredictions(preds)

	assert.Equal(t, int64(3), preds[0].Movie.ID)
	assert.Equal(t, int64(2), preds[1].Movie.ID)
	assert.Equal(t, int64(1), preds[2].Movie.ID)
	assert.Len(t, TopK(preds, 2), 2)
	assert.Len(t, TopK(preds, -1), 3)
	assert.Len(t, TopK(preds, 10), 3)
}

func TestPopulation_SortedIDs(t *testing.T) {
	p := Population{
		9: NewUser(9, Demographics{}, nil, nil),
		2: NewUser(2, Demographics{}, nil, nil),
		5: NewUser(5, Demographics{}, nil, nil),
	}
	assert.Equal(t, []int64{2, 5, 9}, p.SortedIDs())
	assert.Equal(t, int64(2), p.Users()[0].ID)
}
