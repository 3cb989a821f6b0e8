package factory

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/recommender-evaluator/internal/storage"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/storage/pg"
)

type SourceConfig struct {
	storage.Type
	Pg           *pg.PoolConfig
	MovieLensDir string
}

func LoadEnv() (*SourceConfig, error) {
	sourceType := storage.Type(os.Getenv("SOURCE_TYPE"))
	if sourceType == "" {
		slog.Error("SOURCE_TYPE environment variable is not set")
		return nil, fmt.Errorf("SOURCE_TYPE environment variable is not set")
	}

	cfg := &SourceConfig{Type: sourceType}

	switch sourceType {
	case storage.PG:
		cfg.Pg = &pg.PoolConfig{ConnStr: os.Getenv("PG_CONNECTION_STRING")}
		if cfg.Pg.ConnStr == "" {
			slog.Error("PostgreSQL connection string is not set")
			return nil, fmt.Errorf("PostgreSQL connection string is not set")
		}
	case storage.MovieLens:
		cfg.MovieLensDir = os.Getenv("MOVIELENS_DIR")
		if cfg.MovieLensDir == "" {
			slog.Error("MovieLens directory is not set")
			return nil, fmt.Errorf("MOVIELENS_DIR environment variable is not set")
		}
	case storage.InMem:
	default:
		slog.Error("Invalid SOURCE_TYPE environment variable value", "value", sourceType)
		return nil, fmt.Errorf(
			"invalid SOURCE_TYPE environment variable value: %s, expected one of %v",
			sourceType, storage.Types)
	}

	return cfg, nil
}
