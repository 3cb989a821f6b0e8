package router

import (
	"net/http"
	"time"

	"github.com/DjordjeVuckovic/recommender-evaluator/internal/apperr"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/domain"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/eval"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/eval/pipeline"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/reporting"
	"github.com/DjordjeVuckovic/recommender-evaluator/pkg/utils"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// EvaluationRequest overrides the server's evaluation defaults for one run.
type EvaluationRequest struct {
	Recommenders    []string `json:"recommenders"`
	Metrics         []string `json:"metrics,omitempty"`
	KValues         []int    `json:"k_values,omitempty"`
	Folds           *int     `json:"folds,omitempty"`
	TrainingSetSize *float64 `json:"training_set_size,omitempty"`
	Seed            *uint64  `json:"seed,omitempty"`
	Quantize        *bool    `json:"quantize,omitempty"`
}

type EvaluationSummary struct {
	ID           uuid.UUID `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Seconds      float64   `json:"seconds"`
	Recommenders []string  `json:"recommenders"`
	Metrics      []string  `json:"metrics"`
	Folds        int       `json:"folds"`
}

type EvaluationRouter struct {
	e          *echo.Echo
	population domain.Population
	base       eval.Config
	store      *ReportStore
	sink       reporting.Sink
}

func NewEvaluationRouter(
	e *echo.Echo,
	population domain.Population,
	base eval.Config,
	store *ReportStore,
	sink reporting.Sink,
) *EvaluationRouter {
	return &EvaluationRouter{
		e:          e,
		population: population,
		base:       base,
		store:      store,
		sink:       sink,
	}
}

func (r *EvaluationRouter) Bind() {
	r.e.POST("/evaluations", r.createHandler)
	r.e.GET("/evaluations", r.listHandler)
	r.e.GET("/evaluations/:id", r.getHandler)
}

func (r *EvaluationRouter) createHandler(c echo.Context) error {
	var body EvaluationRequest
	if err := c.Bind(&body); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}

	req := r.toPipelineRequest(body)
	res, err := pipeline.Run(c.Request().Context(), r.population, req, r.sink)
	if err != nil {
		return err
	}

	r.store.Save(res.Report)
	return c.JSON(http.StatusCreated, res.Report)
}

func (r *EvaluationRouter) toPipelineRequest(body EvaluationRequest) pipeline.Request {
	cfg := r.base
	if body.Folds != nil {
		cfg.NumFolds = *body.Folds
	}
	if body.TrainingSetSize != nil {
		cfg.TrainingSetSize = *body.TrainingSetSize
	}
	if body.Seed != nil {
		cfg.Seed = *body.Seed
	}

	kValues := body.KValues
	if len(kValues) == 0 {
		kValues = []int{cfg.TopK}
	}

	return pipeline.Request{
		Config:       cfg,
		KValues:      kValues,
		Recommenders: body.Recommenders,
		Metrics:      body.Metrics,
		Quantize:     body.Quantize == nil || *body.Quantize,
	}
}

func (r *EvaluationRouter) listHandler(c echo.Context) error {
	reports := r.store.List()
	out := make([]EvaluationSummary, 0, len(reports))
	for _, rep := range reports {
		out = append(out, EvaluationSummary{
			ID:           rep.Meta.RunID,
			Timestamp:    rep.Meta.Timestamp,
			Seconds:      utils.RoundDecimal(rep.Meta.Duration.Seconds(), 3),
			Recommenders: rep.Config.Recommenders,
			Metrics:      rep.Config.Metrics,
			Folds:        rep.Config.Folds,
		})
	}
	return c.JSON(http.StatusOK, out)
}

func (r *EvaluationRouter) getHandler(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.NewValidationWrap("invalid evaluation id", err)
	}
	rep, err := r.store.Get(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rep)
}
