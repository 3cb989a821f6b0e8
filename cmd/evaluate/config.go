package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/recommender-evaluator/internal/eval/plan"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/storage"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/storage/factory"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/storage/pg"
	"github.com/DjordjeVuckovic/recommender-evaluator/pkg/config/env"
)

const (
	modeEvaluate = "evaluate"
	modeSplit    = "split"
	modeImport   = "import"
)

type cliConfig struct {
	PlanPath  string
	Mode      string
	Output    string
	FoldFile  string
	ImportDir string
	LogLevel  string
	LogFile   string
	Quiet     bool
}

func parseFlags() cliConfig {
	cfg := cliConfig{}

	flag.StringVar(&cfg.PlanPath, "plan", "configs/plan.yaml", "Path to evaluation plan YAML")
	flag.StringVar(&cfg.Mode, "mode", modeEvaluate, "Run mode: evaluate, split, or import")
	flag.StringVar(&cfg.Output, "out", "", "Report JSON path, overrides the plan's output.json")
	flag.StringVar(&cfg.FoldFile, "folds", "", "Fold file path, overrides the plan's output.fold_file")
	flag.StringVar(&cfg.ImportDir, "dir", "", "MovieLens directory to import (import mode)")
	flag.StringVar(&cfg.LogLevel, "log-level", "info", "Log level: debug, info, warn or error")
	flag.StringVar(&cfg.LogFile, "log-file", "", "Also write logs to this file")
	flag.BoolVar(&cfg.Quiet, "quiet", false, "Do not print the report table")

	flag.Parse()
	return cfg
}

func loadDotEnv() {
	if err := env.LoadDotEnv(os.Getenv("APP_ENV"), "cmd/evaluate/.env"); err != nil {
		slog.Info("Skipping .env environment variables...", "error", err)
	}
}

// sourceConfig prefers the plan's source and falls back to SOURCE_TYPE and friends.
func sourceConfig(src plan.Source) (*factory.SourceConfig, error) {
	if src.Type == "" {
		return factory.LoadEnv()
	}

	cfg := &factory.SourceConfig{Type: storage.Type(src.Type)}
	switch cfg.Type {
	case storage.PG:
		connStr := src.Connection
		if connStr == "" {
			connStr = os.Getenv("PG_CONNECTION_STRING")
		}
		if connStr == "" {
			return nil, fmt.Errorf("postgres source has no connection string")
		}
		cfg.Pg = &pg.PoolConfig{ConnStr: connStr}
	case storage.MovieLens:
		cfg.MovieLensDir = src.Dir
	}
	return cfg, nil
}
