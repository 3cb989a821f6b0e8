package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/recommender-evaluator/internal/apperr"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/domain"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/eval"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/eval/report"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/reporting"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPopulation() domain.Population {
	ts := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	pop := make(domain.Population)
	for uid := int64(1); uid <= 4; uid++ {
		var history []domain.Rating
		for i := int64(1); i <= 10; i++ {
			m := domain.NewMovie(i, fmt.Sprintf("m%02d", i))
			history = append(history, domain.NewRating(m, int((uid+i)%5)+1, ts.Add(time.Duration(i)*time.Minute)))
		}
		pop[uid] = domain.NewUser(uid, domain.Demographics{}, history, nil)
	}
	return pop
}

func newTestServer() (*echo.Echo, *ReportStore) {
	e := echo.New()
	e.HTTPErrorHandler = apperr.GlobalErrorHandler()
	store := NewReportStore()
	NewEvaluationRouter(e, testPopulation(), eval.DefaultConfig(), store, reporting.Discard{}).Bind()
	return e, store
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCreateEvaluation(t *testing.T) {
	e, store := newTestServer()

	rec := do(e, http.MethodPost, "/evaluations",
		`{"recommenders":["mean","popularity"],"metrics":["precision","rmse"],"k_values":[3],"folds":2,"seed":7}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var rep report.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))
	assert.Equal(t, 2, rep.Config.Folds)
	assert.Equal(t, []int{3}, rep.Config.KValues)
	assert.True(t, rep.Config.Quantize)
	assert.Len(t, rep.Aggregated, 2*2)

	stored, err := store.Get(rep.Meta.RunID)
	require.NoError(t, err)
	assert.Equal(t, rep.Meta.RunID, stored.Meta.RunID)

	rec = do(e, http.MethodGet, "/evaluations/"+rep.Meta.RunID.String(), "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodGet, "/evaluations", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []EvaluationSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, rep.Meta.RunID, list[0].ID)
	assert.Equal(t, []string{"mean", "popularity"}, list[0].Recommenders)
}

func TestCreateEvaluation_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"recommenders":`},
		{"no recommenders", `{}`},
		{"unknown recommender", `{"recommenders":["svd"]}`},
		{"unknown metric", `{"recommenders":["mean"],"metrics":["auc"]}`},
		{"bad training size", `{"recommenders":["mean"],"training_set_size":1.5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, store := newTestServer()
			rec := do(e, http.MethodPost, "/evaluations", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Empty(t, store.List())
		})
	}
}

func TestGetEvaluation_Errors(t *testing.T) {
	e, _ := newTestServer()

	rec := do(e, http.MethodGet, "/evaluations/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodGet, "/evaluations/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReportStore_ListOrder(t *testing.T) {
	store := NewReportStore()
	now := time.Now()
	older := &report.Report{Meta: report.Meta{RunID: uuid.New(), Timestamp: now.Add(-time.Hour)}}
	newer := &report.Report{Meta: report.Meta{RunID: uuid.New(), Timestamp: now}}

	store.Save(newer)
	store.Save(older)

	list := store.List()
	require.Len(t, list, 2)
	assert.Equal(t, older.Meta.RunID, list[0].Meta.RunID)
	assert.Equal(t, newer.Meta.RunID, list[1].Meta.RunID)
}
