package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/recommender-evaluator/internal/domain"
)

type Type string

const (
	PG        Type = "postgres"
	MovieLens Type = "movielens"
	InMem     Type = "in_mem"
)

var Types = []Type{PG, MovieLens, InMem}

// DataSource loads the movie catalog and the users who rated it.
type DataSource interface {
	LoadMovies(ctx context.Context) (domain.Catalog, error)
	// LoadUsers resolves rated movies through the given catalog; ratings of unknown
	// movies are an error.
	LoadUsers(ctx context.Context, movies domain.Catalog) (domain.Population, error)
}

// Dataset is a loaded catalog with its users.
type Dataset struct {
	Movies domain.Catalog
	Users  domain.Population
}

func Load(ctx context.Context, src DataSource) (*Dataset, error) {
	movies, err := src.LoadMovies(ctx)
	if err != nil {
		return nil, fmt.Errorf("load movies: %w", err)
	}
	users, err := src.LoadUsers(ctx, movies)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}

	ratings := 0
	for _, u := range users {
		ratings += len(u.Training) + len(u.Test)
	}
	slog.Info("dataset loaded", "movies", len(movies), "users", len(users), "ratings", ratings)

	return &Dataset{Movies: movies, Users: users}, nil
}

// Storer persists a dataset so other runs can read it back through a DataSource.
type Storer interface {
	SaveDataset(ctx context.Context, ds *Dataset) error
}
