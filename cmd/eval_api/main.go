package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/recommender-evaluator/internal/api/router"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/api/server"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/reporting"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/storage"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/storage/factory"
	pkgserver "github.com/DjordjeVuckovic/recommender-evaluator/pkg/server"
	"github.com/labstack/echo/v4"
)

func main() {
	slog.SetLogLoggerLevel(slog.LevelDebug)

	if err := run(); err != nil {
		slog.Error("Evaluation API stopped", "error", err)
		os.Exit(1)
	}
}

// run owns every resource it opens, so they are released before main exits.
func run() error {
	sCfg, err := server.LoadConfig()
	if err != nil {
		return fmt.Errorf("load server config: %w", err)
	}

	cfg, err := NewAppConfig().Load()
	if err != nil {
		return fmt.Errorf("load app config: %w", err)
	}

	s := server.New(sCfg, nil)

	src, err := factory.NewSource(s.Context(), cfg.Source)
	if err != nil {
		return fmt.Errorf("open %s source: %w", cfg.Source.Type, err)
	}
	defer src.Close()

	var checkers []pkgserver.HealthChecker
	if src.Health != nil {
		checkers = append(checkers, src.Health)
	}
	s.WithHealthChecker(pkgserver.All(checkers...))

	ds, err := storage.Load(s.Context(), src)
	if err != nil {
		return err
	}

	s.SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/health")

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(200, "Recommender evaluator API is running")
	})

	sink := reporting.NewSlogSink(slog.Default())
	router.NewEvaluationRouter(s.Echo, ds.Users, cfg.Eval, router.NewReportStore(), sink).Bind()

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
	}()

	return s.Start()
}
