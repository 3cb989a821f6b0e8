package report

import (
	"runtime"
	"time"

	"github.com/google/uuid"
)

type Report struct {
	Meta       Meta              `json:"meta"`
	Config     Config            `json:"config"`
	PerFold    []Entry           `json:"per_fold"`
	Aggregated []AggregatedEntry `json:"aggregated"`
	Timing     []TimingEntry     `json:"timing"`
	Skipped    []SkippedUser     `json:"skipped,omitempty"`
}

type Meta struct {
	RunID       uuid.UUID       `json:"run_id"`
	Timestamp   time.Time       `json:"timestamp"`
	Duration    time.Duration   `json:"duration"`
	Environment EnvironmentInfo `json:"environment"`
}

type EnvironmentInfo struct {
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	NumCPU    int    `json:"num_cpu"`
}

func NewEnvironmentInfo() EnvironmentInfo {
	return EnvironmentInfo{
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		NumCPU:    runtime.NumCPU(),
	}
}

type Config struct {
	KValues      []int    `json:"k_values"`
	Folds        int      `json:"folds"`
	Quantize     bool     `json:"quantize"`
	Recommenders []string `json:"recommenders"`
	Metrics      []string `json:"metrics"`
}

// Entry is one metric value for one recommender on one fold.
type Entry struct {
	Fold        int     `json:"fold"`
	Recommender string  `json:"recommender"`
	Metric      string  `json:"metric"`
	K           int     `json:"k"`
	Users       int     `json:"users"`
	Value       float64 `json:"value"`
	Error       string  `json:"error,omitempty"`
}

// AggregatedEntry summarizes a metric across the folds where it succeeded.
type AggregatedEntry struct {
	Recommender string  `json:"recommender"`
	Metric      string  `json:"metric"`
	K           int     `json:"k"`
	Mean        float64 `json:"mean"`
	StdDev      float64 `json:"std_dev"`
	Folds       int     `json:"folds"`
	Errors      int     `json:"errors"`
}

type TimingEntry struct {
	Recommender string        `json:"recommender"`
	Fit         DurationStats `json:"fit"`
	Predict     DurationStats `json:"predict"`
}

type SkippedUser struct {
	UserID      int64 `json:"user_id"`
	HistorySize int   `json:"history_size"`
}
