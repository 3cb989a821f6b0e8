package factory

import (
	"context"
	"fmt"

	"github.com/DjordjeVuckovic/recommender-evaluator/internal/storage"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/storage/in_mem"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/storage/movielens"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/storage/pg"
)

// Source is an opened data source together with what the caller has to release.
type Source struct {
	storage.DataSource
	// Health is nil for sources without a connection to check.
	Health  *pg.HealthChecker
	cleanup func()
}

func (s *Source) Close() {
	if s.cleanup != nil {
		s.cleanup()
	}
}

// NewSource opens the data source described by cfg.
func NewSource(ctx context.Context, cfg *SourceConfig) (*Source, error) {
	switch cfg.Type {
	case storage.PG:
		if cfg.Pg == nil {
			return nil, fmt.Errorf("missing postgres configuration")
		}
		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}
		return &Source{
			DataSource: pg.NewSource(pool),
			Health:     pg.NewHealthChecker(pool),
			cleanup:    pool.Close,
		}, nil

	case storage.MovieLens:
		src, err := movielens.NewSource(cfg.MovieLensDir)
		if err != nil {
			return nil, err
		}
		return &Source{DataSource: src}, nil

	case storage.InMem:
		return &Source{DataSource: in_mem.NewSource()}, nil

	default:
		return nil, fmt.Errorf("unsupported source type %q", cfg.Type)
	}
}

// NewStorer opens a writable store. Only postgres and in-memory stores are writable.
func NewStorer(ctx context.Context, cfg *SourceConfig) (storage.Storer, func(), error) {
	switch cfg.Type {
	case storage.PG:
		if cfg.Pg == nil {
			return nil, nil, fmt.Errorf("missing postgres configuration")
		}
		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}
		return pg.NewSource(pool), pool.Close, nil

	case storage.InMem:
		return in_mem.NewSource(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("source type %q is read-only", cfg.Type)
	}
}
