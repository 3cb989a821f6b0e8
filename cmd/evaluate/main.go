package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/DjordjeVuckovic/recommender-evaluator/internal/domain"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/eval"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/eval/folds"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/eval/pipeline"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/eval/plan"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/eval/report"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/reporting"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/storage"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/storage/factory"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/storage/movielens"
)

func main() {
	cfg := parseFlags()

	logger, closeLog, err := reporting.NewLogger(reporting.Options{
		Level:   cfg.LogLevel,
		Console: true,
		File:    cfg.LogFile,
	})
	if err != nil {
		slog.Error("Invalid logger options", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	loadDotEnv()

	switch cfg.Mode {
	case modeEvaluate, modeSplit:
		err = runPlan(ctx, cfg, reporting.NewSlogSink(logger))
	case modeImport:
		err = runImport(ctx, cfg)
	default:
		err = fmt.Errorf("unknown mode %q", cfg.Mode)
	}

	stop()
	_ = closeLog()
	if err != nil {
		slog.Error("Evaluation failed", "mode", cfg.Mode, "error", err)
		os.Exit(1)
	}
}

func runPlan(ctx context.Context, cfg cliConfig, sink reporting.Sink) error {
	p, err := plan.LoadFromFile(cfg.PlanPath)
	if err != nil {
		return err
	}
	if cfg.Output != "" {
		p.Output.JSON = cfg.Output
	}
	if cfg.FoldFile != "" {
		p.Output.FoldFile = cfg.FoldFile
	}

	base, err := eval.LoadConfigFromEnv()
	if err != nil {
		return err
	}
	evalCfg, kValues, err := p.Apply(base)
	if err != nil {
		return err
	}

	srcCfg, err := sourceConfig(p.Source)
	if err != nil {
		return err
	}
	src, err := factory.NewSource(ctx, srcCfg)
	if err != nil {
		return err
	}
	defer src.Close()

	ds, err := storage.Load(ctx, src)
	if err != nil {
		return err
	}

	if cfg.Mode == modeSplit {
		return split(ds.Users, evalCfg, p.Output.FoldFile, sink)
	}

	req := pipeline.Request{
		Config:       evalCfg,
		KValues:      kValues,
		Recommenders: p.Recommenders,
		Metrics:      p.Metrics,
		Quantize:     p.Quantize(),
	}

	res, err := evaluate(ctx, ds, req, p.Output, sink)
	if err != nil {
		return err
	}

	return writeOutputs(ctx, res.Report, p.Output, cfg.Quiet)
}

func evaluate(
	ctx context.Context,
	ds *storage.Dataset,
	req pipeline.Request,
	out plan.Output,
	sink reporting.Sink,
) (*pipeline.Result, error) {
	if out.ReuseFolds {
		ff, err := folds.ReadFoldFile(out.FoldFile)
		switch {
		case err == nil:
			prepared, err := ff.Restore(ds.Movies)
			if err != nil {
				return nil, err
			}
			req.Config.Seed = ff.Seed
			req.Config.TrainingSetSize = ff.TrainingSetSize
			req.Config.NumFolds = len(prepared)
			slog.Info("Reusing folds", "path", out.FoldFile, "folds", len(prepared))
			return pipeline.RunFolds(ctx, prepared, req, sink)
		case errors.Is(err, os.ErrNotExist):
			slog.Info("Fold file not found, preparing new folds", "path", out.FoldFile)
		default:
			return nil, err
		}
	}

	res, err := pipeline.Run(ctx, ds.Users, req, sink)
	if err != nil {
		return nil, err
	}
	if out.FoldFile != "" {
		if err := folds.WriteFoldFile(folds.NewFoldFile(req.Config.Folds(), res.Folds), out.FoldFile); err != nil {
			return nil, err
		}
		slog.Info("Folds written", "path", out.FoldFile)
	}
	return res, nil
}

func split(users domain.Population, cfg eval.Config, path string, sink reporting.Sink) error {
	if path == "" {
		return fmt.Errorf("split mode needs a fold file, set output.fold_file or -folds")
	}

	preparer, err := folds.NewPreparer(cfg.Folds(), sink)
	if err != nil {
		return err
	}
	prepared, summary, err := preparer.Prepare(users)
	if err != nil {
		return err
	}
	if err := folds.WriteFoldFile(folds.NewFoldFile(cfg.Folds(), prepared), path); err != nil {
		return err
	}

	slog.Info("Folds written",
		"path", path,
		"folds", len(prepared),
		"users", len(summary.Prepared),
		"skipped", len(summary.Skipped))
	return nil
}

func writeOutputs(ctx context.Context, r *report.Report, out plan.Output, quiet bool) error {
	if !quiet {
		report.WriteTable(r, os.Stdout)
	}

	if out.JSON != "" {
		if err := report.WriteJSON(r, out.JSON); err != nil {
			return err
		}
		slog.Info("Report written", "path", out.JSON)
	}

	if es := out.Elasticsearch; es != nil {
		w, err := report.NewESWriter(ctx, report.ESConfig{
			Addresses: es.Addresses,
			IndexName: es.Index,
			Username:  es.Username,
			Password:  es.Password,
		})
		if err != nil {
			return err
		}
		if err := w.Write(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

// runImport copies a MovieLens directory into the store named by SOURCE_TYPE.
func runImport(ctx context.Context, cfg cliConfig) error {
	if cfg.ImportDir == "" {
		return fmt.Errorf("import mode needs -dir")
	}

	ml, err := movielens.NewSource(cfg.ImportDir)
	if err != nil {
		return err
	}
	ds, err := storage.Load(ctx, ml)
	if err != nil {
		return err
	}

	target, err := factory.LoadEnv()
	if err != nil {
		return err
	}
	storer, cleanup, err := factory.NewStorer(ctx, target)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := storer.SaveDataset(ctx, ds); err != nil {
		return fmt.Errorf("save dataset: %w", err)
	}
	slog.Info("Dataset imported", "target", target.Type, "movies", len(ds.Movies), "users", len(ds.Users))
	return nil
}
