package in_mem

import (
	"context"
	"fmt"
	"sync"

	"github.com/DjordjeVuckovic/recommender-evaluator/internal/domain"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/storage"
)

// Source keeps a dataset in memory. It serves both as a DataSource and as a Storer,
// which makes it the default backend for tests and for the API without a database.
type Source struct {
	mu     sync.RWMutex
	movies domain.Catalog
	users  domain.Population
}

func NewSource() *Source {
	return &Source{
		movies: make(domain.Catalog),
		users:  make(domain.Population),
	}
}

func NewSourceFrom(ds *storage.Dataset) *Source {
	s := NewSource()
	_ = s.SaveDataset(context.Background(), ds)
	return s
}

func (s *Source) SaveDataset(_ context.Context, ds *storage.Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, m := range ds.Movies {
		s.movies[id] = m
	}
	for id, u := range ds.Users {
		s.users[id] = u
	}
	return nil
}

func (s *Source) LoadMovies(_ context.Context) (domain.Catalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(domain.Catalog, len(s.movies))
	for id, m := range s.movies {
		out[id] = m
	}
	return out, nil
}

func (s *Source) LoadUsers(_ context.Context, movies domain.Catalog) (domain.Population, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(domain.Population, len(s.users))
	for id, u := range s.users {
		for _, r := range u.History() {
			if _, ok := movies[r.Movie.ID]; !ok {
				return nil, fmt.Errorf("user %d rated unknown movie %d", id, r.Movie.ID)
			}
		}
		out[id] = u
	}
	return out, nil
}
