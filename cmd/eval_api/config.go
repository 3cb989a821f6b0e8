package main

import (
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/recommender-evaluator/internal/eval"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/storage/factory"
	"github.com/DjordjeVuckovic/recommender-evaluator/pkg/config/env"
)

type AppConfig struct {
	ENV string
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("APP_ENV"),
	}
}

type ApiConfig struct {
	Eval   eval.Config
	Source *factory.SourceConfig
}

func (as *AppConfig) Load() (*ApiConfig, error) {
	if err := env.LoadDotEnv(as.ENV, "cmd/eval_api/.env"); err != nil {
		slog.Info("Skipping .env environment variables...", "error", err)
	}

	evalCfg, err := eval.LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}

	sourceCfg, err := factory.LoadEnv()
	if err != nil {
		return nil, err
	}

	return &ApiConfig{Eval: evalCfg, Source: sourceCfg}, nil
}
