package eval

import (
	"fmt"
	"os"
	"strconv"

	"github.com/DjordjeVuckovic/recommender-evaluator/internal/apperr"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/domain"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/eval/folds"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/eval/metrics"
)

const (
	DefaultTopK        = 10
	DefaultParallelism = 4
)

type Config struct {
	TopK            int
	TrainingSetSize float64
	NumFolds        int
	MinRating       int
	MaxRating       int
	Seed            uint64
	Parallelism     int
}

func DefaultConfig() Config {
	return Config{
		TopK:            DefaultTopK,
		TrainingSetSize: folds.DefaultTrainingSetSize,
		NumFolds:        folds.DefaultNumFolds,
		MinRating:       domain.DefaultMinRating,
		MaxRating:       domain.DefaultMaxRating,
		Parallelism:     DefaultParallelism,
	}
}

// LoadConfigFromEnv starts from DefaultConfig and overrides every field whose EVAL_*
// variable is set.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	var err error
	if cfg.TopK, err = envInt("EVAL_TOP_K", cfg.TopK); err != nil {
		return cfg, err
	}
	if cfg.NumFolds, err = envInt("EVAL_NUM_FOLDS", cfg.NumFolds); err != nil {
		return cfg, err
	}
	if cfg.MinRating, err = envInt("EVAL_MIN_RATING", cfg.MinRating); err != nil {
		return cfg, err
	}
	if cfg.MaxRating, err = envInt("EVAL_MAX_RATING", cfg.MaxRating); err != nil {
		return cfg, err
	}
	if cfg.Parallelism, err = envInt("EVAL_PARALLELISM", cfg.Parallelism); err != nil {
		return cfg, err
	}
	if v := os.Getenv("EVAL_TRAINING_SET_SIZE"); v != "" {
		if cfg.TrainingSetSize, err = strconv.ParseFloat(v, 64); err != nil {
			return cfg, apperr.NewValidationWrap("EVAL_TRAINING_SET_SIZE must be a number", err)
		}
	}
	if v := os.Getenv("EVAL_SEED"); v != "" {
		if cfg.Seed, err = strconv.ParseUint(v, 10, 64); err != nil {
			return cfg, apperr.NewValidationWrap("EVAL_SEED must be an unsigned integer", err)
		}
	}

	return cfg, cfg.Validate()
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, apperr.NewValidationWrap(fmt.Sprintf("%s must be an integer", key), err)
	}
	return n, nil
}

func (c Config) Validate() error {
	if c.MinRating >= c.MaxRating {
		return apperr.NewValidation(fmt.Sprintf("min rating %d must be below max rating %d", c.MinRating, c.MaxRating))
	}
	if c.Parallelism < 1 {
		return apperr.NewValidation("parallelism must be at least 1")
	}
	return c.Folds().Validate()
}

func (c Config) Folds() folds.Config {
	return folds.Config{NumFolds: c.NumFolds, TrainingSetSize: c.TrainingSetSize, Seed: c.Seed}
}

func (c Config) Scale() metrics.Scale {
	return metrics.Scale{MinRating: c.MinRating, MaxRating: c.MaxRating}
}
