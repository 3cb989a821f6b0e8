package in_mem

import (
	"context"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/recommender-evaluator/internal/domain"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource(t *testing.T) {
	alien := domain.NewMovie(1, "Alien")
	heat := domain.NewMovie(2, "Heat")
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	ds := &storage.Dataset{
		Movies: domain.Catalog{1: alien, 2: heat},
		Users: domain.Population{
			7: domain.NewUser(7, domain.Demographics{}, []domain.Rating{domain.NewRating(alien, 5, ts)}, []domain.Rating{domain.NewRating(heat, 3, ts)}),
		},
	}

	src := NewSourceFrom(ds)
	loaded, err := storage.Load(context.Background(), src)
	require.NoError(t, err)
	assert.Len(t, loaded.Movies, 2)
	require.Contains(t, loaded.Users, int64(7))
	assert.Equal(t, 3.0, loaded.Users[7].AverageRating)

	t.Run("copies are independent", func(t *testing.T) {
		movies, err := src.LoadMovies(context.Background())
		require.NoError(t, err)
		delete(movies, 1)

		again, err := src.LoadMovies(context.Background())
		require.NoError(t, err)
		assert.Len(t, again, 2)
	})

	t.Run("unknown movie", func(t *testing.T) {
		_, err := src.LoadUsers(context.Background(), domain.Catalog{1: alien})
		assert.ErrorContains(t, err, "unknown movie 2")
	})
}
