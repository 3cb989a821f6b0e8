package report

import (
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"
)

type DurationStats struct {
	Min         time.Duration `json:"min"`
	Max         time.Duration `json:"max"`
	Mean        time.Duration `json:"mean"`
	Median      time.Duration `json:"median"`
	Stddev      time.Duration `json:"stddev"`
	SampleCount int           `json:"sample_count"`
}

func ComputeDurationStats(durations []time.Duration) DurationStats {
	if len(durations) == 0 {
		return DurationStats{}
	}

	xs := make([]float64, len(durations))
	for i, d := range durations {
		xs[i] = float64(d)
	}
	slices.Sort(xs)

	stats := DurationStats{
		Min:         time.Duration(xs[0]),
		Max:         time.Duration(xs[len(xs)-1]),
		Median:      time.Duration(stat.Quantile(0.5, stat.LinInterp, xs, nil)),
		SampleCount: len(xs),
	}

	mean, std := stat.MeanStdDev(xs, nil)
	stats.Mean = time.Duration(mean)
	if len(xs) > 1 {
		stats.Stddev = time.Duration(std)
	}

	return stats
}

func (s DurationStats) IsZero() bool {
	return s.SampleCount == 0
}
