package router

import (
	"slices"
	"sync"

	"github.com/DjordjeVuckovic/recommender-evaluator/internal/apperr"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/eval/report"
	"github.com/google/uuid"
)

// ReportStore keeps finished evaluation reports in memory, keyed by run ID.
type ReportStore struct {
	mu      sync.RWMutex
	reports map[uuid.UUID]*report.Report
}

func NewReportStore() *ReportStore {
	return &ReportStore{reports: make(map[uuid.UUID]*report.Report)}
}

func (s *ReportStore) Save(r *report.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[r.Meta.RunID] = r
}

func (s *ReportStore) Get(id uuid.UUID) (*report.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[id]
	if !ok {
		return nil, apperr.NewNotFound("evaluation", id.String())
	}
	return r, nil
}

// List returns the reports, oldest first.
func (s *ReportStore) List() []*report.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*report.Report, 0, len(s.reports))
	for _, r := range s.reports {
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b *report.Report) int {
		return a.Meta.Timestamp.Compare(b.Meta.Timestamp)
	})
	return out
}
