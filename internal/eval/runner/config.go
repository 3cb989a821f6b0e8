package runner

import "github.com/DjordjeVuckovic/recommender-evaluator/internal/recommender"

var DefaultKValues = []int{5, 10}

const DefaultParallelism = 4

type Config struct {
	KValues []int
	// Quantize discretizes predictions before the error metrics score them.
	Quantize    bool
	Parallelism int
	Options     recommender.Options
}

func DefaultConfig() Config {
	return Config{
		KValues:     DefaultKValues,
		Quantize:    true,
		Parallelism: DefaultParallelism,
		Options:     recommender.Options{MinRating: 1, MaxRating: 5},
	}
}
