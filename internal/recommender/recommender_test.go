package recommender

import (
	"context"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/recommender-evaluator/internal/domain"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/eval/quantize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	ts = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	action = domain.Property{Kind: "genre", Value: "Action", Weight: 1}
	drama  = domain.Property{Kind: "genre", Value: "Drama", Weight: 1}

	movieA = domain.NewMovie(1, "Alien", action)
	movieB = domain.NewMovie(2, "Brazil", drama)
	movieC = domain.NewMovie(3, "Casablanca", drama)
	movieD = domain.NewMovie(4, "Die Hard", action)
	movieE = domain.NewMovie(5, "Eraserhead")

	opts = Options{MinRating: 1, MaxRating: 5, Seed: 11}
)

func rate(m domain.Movie, score int, offset int) domain.Rating {
	return domain.NewRating(m, score, ts.Add(time.Duration(offset)*time.Hour))
}

func testPopulation() domain.Population {
	return domain.Population{
		1: domain.NewUser(1, domain.Demographics{},
			[]domain.Rating{rate(movieA, 5, 1), rate(movieB, 1, 2)},
			[]domain.Rating{rate(movieC, 2, 3), rate(movieD, 5, 4), rate(movieE, 3, 5)}),
		2: domain.NewUser(2, domain.Demographics{},
			[]domain.Rating{rate(movieA, 5, 1), rate(movieB, 1, 2), rate(movieC, 3, 3)},
			[]domain.Rating{rate(movieD, 4, 4)}),
	}
}

func TestFactoryFor(t *testing.T) {
	for _, name := range Types {
		t.Run(name, func(t *testing.T) {
			r, err := New(name, opts)
			require.NoError(t, err)
			assert.Equal(t, name, r.Name())
		})
	}

	t.Run("case insensitive", func(t *testing.T) {
		r, err := New(" Popularity ", opts)
		require.NoError(t, err)
		assert.Equal(t, TypePopularity, r.Name())
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := FactoryFor("svd")
		assert.Error(t, err)
	})
}

func TestMean(t *testing.T) {
	pop := testPopulation()
	m := NewMean(opts)
	require.NoError(t, m.Fit(context.Background(), pop))

	assert.Equal(t, 3.0, m.PredictScore(pop[1], movieC))
	assert.InDelta(t, 3.0, m.PredictScore(pop[2], movieD), 1e-9)

	// (5+1+5+1+3) / 5
	stranger := domain.NewUser(9, domain.Demographics{}, nil, []domain.Rating{rate(movieA, 4, 1)})
	assert.InDelta(t, 3.0, m.PredictScore(stranger, movieA), 1e-9)
}

func TestBaseline(t *testing.T) {
	pop := domain.Population{
		1: domain.NewUser(1, domain.Demographics{}, []domain.Rating{rate(movieA, 5, 1), rate(movieB, 1, 2)}, nil),
		2: domain.NewUser(2, domain.Demographics{}, []domain.Rating{rate(movieA, 5, 1), rate(movieB, 1, 2)}, nil),
	}
	b := NewBaseline(opts)
	require.NoError(t, b.Fit(context.Background(), pop))

	a := b.PredictScore(pop[1], movieA)
	bb := b.PredictScore(pop[1], movieB)
	assert.InDelta(t, 3.0+4.0/27.0, a, 1e-9)
	assert.InDelta(t, 3.0-4.0/27.0, bb, 1e-9)
	assert.InDelta(t, 3.0, b.PredictScore(pop[1], movieE), 1e-9)
}

func TestPopularity(t *testing.T) {
	pop := testPopulation()
	p := NewPopularity(opts)
	require.NoError(t, p.Fit(context.Background(), pop))

	assert.Equal(t, 5.0, p.PredictScore(pop[1], movieA))
	assert.Equal(t, 5.0, p.PredictScore(pop[1], movieB))
	assert.Equal(t, 3.0, p.PredictScore(pop[1], movieC))
	assert.Equal(t, 1.0, p.PredictScore(pop[1], movieD))

	t.Run("unfitted", func(t *testing.T) {
		assert.Equal(t, 1.0, NewPopularity(opts).PredictScore(pop[1], movieA))
	})
}

func TestRandom(t *testing.T) {
	pop := testPopulation()
	r := NewRandom(opts)
	require.NoError(t, r.Fit(context.Background(), pop))

	for _, m := range []domain.Movie{movieA, movieB, movieC, movieD, movieE} {
		s := r.PredictScore(pop[1], m)
		assert.GreaterOrEqual(t, s, 1.0)
		assert.LessOrEqual(t, s, 5.0)
		assert.Equal(t, s, r.PredictScore(pop[1], m))
		assert.Equal(t, s, NewRandom(opts).PredictScore(pop[1], m))
	}
}

func TestContent(t *testing.T) {
	pop := testPopulation()
	c := NewContent(opts)
	require.NoError(t, c.Fit(context.Background(), pop))

	// user 1 loves action (+2) and dislikes drama (-2) around a mean of 3
	assert.Equal(t, 5.0, c.PredictScore(pop[1], movieD))
	assert.Equal(t, 1.0, c.PredictScore(pop[1], movieC))
	assert.Equal(t, 3.0, c.PredictScore(pop[1], movieE))

	mixed := domain.NewMovie(6, "Heat", action, drama)
	assert.Equal(t, 3.0, c.PredictScore(pop[1], mixed))
}

func TestPredict(t *testing.T) {
	pop := testPopulation()
	c := NewContent(opts)
	require.NoError(t, c.Fit(context.Background(), pop))

	preds, err := c.Predict(context.Background(), pop.Users())
	require.NoError(t, err)
	require.Len(t, preds, 2)

	got := make([]int64, 0, 3)
	for _, p := range preds[1] {
		got = append(got, p.Movie.ID)
	}
	assert.Equal(t, []int64{movieD.ID, movieE.ID, movieC.ID}, got)
	assert.Len(t, preds[2], 1)

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := c.Predict(ctx, pop.Users())
		assert.ErrorIs(t, err, context.Canceled)
	})
}

type movieScores map[int64]float64

func (m movieScores) PredictScore(_ *domain.User, movie domain.Movie) float64 {
	return m[movie.ID]
}

func TestRank(t *testing.T) {
	user := testPopulation()[1]
	preds := rank(movieScores{3: 1.5, 4: 4.5, 5: 3.0}, user)

	require.Len(t, preds, 3)
	assert.Equal(t, []int64{4, 5, 3}, []int64{preds[0].Movie.ID, preds[1].Movie.ID, preds[2].Movie.ID})
}

func TestRecommendersQuantize(t *testing.T) {
	for _, name := range Types {
		r, err := New(name, opts)
		require.NoError(t, err)
		require.NoError(t, r.Fit(context.Background(), testPopulation()))

		var s quantize.Scorer = r
		out, err := quantize.New(s).Quantize(testPopulation()[1], rank(r, testPopulation()[1]))
		require.NoError(t, err, name)
		for _, p := range out {
			assert.Contains(t, []float64{1, 5}, p.Score, name)
		}
	}
}
