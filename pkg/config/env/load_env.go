package env

import (
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/recommender-evaluator/pkg/utils"
	"github.com/joho/godotenv"
)

// LoadDotEnv loads .env files into the process environment. ENV_PATH, a comma
// separated list, replaces defaultPaths. Missing files are an error only when env is
// "local" or unset; elsewhere the environment is expected to be set already.
func LoadDotEnv(env string, defaultPaths ...string) error {
	paths := utils.SplitList(os.Getenv("ENV_PATH"), ",")
	if len(paths) == 0 {
		slog.Debug("ENV_PATH is not set, using default paths", "paths", defaultPaths)
		paths = defaultPaths
	}

	if err := godotenv.Load(paths...); err != nil {
		if env == "local" || env == "" {
			return err
		}
		slog.Debug("Skipping .env files", "env", env, "paths", paths)
	}
	return nil
}
