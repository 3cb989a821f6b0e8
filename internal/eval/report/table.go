package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"
)

func WriteTable(r *Report, w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "\n=== Recommender Evaluation %s ===\n\n", r.Meta.RunID)
	writeAggregatedTable(tw, r)
	writeTimingTable(tw, r)
	writeErrors(tw, r)
	if len(r.Skipped) > 0 {
		fmt.Fprintf(tw, "%d users skipped for lack of ratings\n", len(r.Skipped))
	}

	tw.Flush()
}

func writeAggregatedTable(tw *tabwriter.Writer, r *Report) {
	fmt.Fprintf(tw, "Aggregated Results (mean ± stddev across %d folds)\n\n", r.Config.Folds)

	header := []string{"Recommender"}
	for _, m := range r.Config.Metrics {
		for _, k := range r.Config.KValues {
			header = append(header, fmt.Sprintf("%s@%d", strings.ToUpper(m), k))
		}
	}
	writeHeader(tw, header)

	for _, name := range r.Config.Recommenders {
		row := []string{name}
		for _, m := range r.Config.Metrics {
			for _, k := range r.Config.KValues {
				row = append(row, fmtCell(r, name, m, k))
			}
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	fmt.Fprintln(tw)
}

func writeTimingTable(tw *tabwriter.Writer, r *Report) {
	fmt.Fprintf(tw, "Timing (per fold)\n\n")

	writeHeader(tw, []string{"Recommender", "Fit mean", "Fit max", "Predict mean", "Predict max", "Folds"})

	for _, t := range r.Timing {
		row := []string{
			t.Recommender,
			fmtDuration(t.Fit.Mean),
			fmtDuration(t.Fit.Max),
			fmtDuration(t.Predict.Mean),
			fmtDuration(t.Predict.Max),
			fmt.Sprintf("%d", t.Fit.SampleCount),
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	fmt.Fprintln(tw)
}

func writeErrors(tw *tabwriter.Writer, r *Report) {
	var failed []Entry
	for _, e := range r.PerFold {
		if e.Error != "" {
			failed = append(failed, e)
		}
	}
	if len(failed) == 0 {
		return
	}

	fmt.Fprintf(tw, "Errors\n\n")
	writeHeader(tw, []string{"Fold", "Recommender", "Metric", "Error"})
	for _, e := range failed {
		metric := "-"
		if e.Metric != "" {
			metric = fmt.Sprintf("%s@%d", e.Metric, e.K)
		}
		fmt.Fprintln(tw, strings.Join([]string{fmt.Sprintf("%d", e.Fold), e.Recommender, metric, e.Error}, "\t"))
	}
	fmt.Fprintln(tw)
}

func writeHeader(tw *tabwriter.Writer, header []string) {
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	fmt.Fprintln(tw, strings.Join(sep, "\t"))
}

func fmtCell(r *Report, recommender, metric string, k int) string {
	e, ok := r.Find(recommender, metric, k)
	if !ok || e.Folds == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.4f ± %.4f", e.Mean, e.StdDev)
}

func fmtDuration(d time.Duration) string {
	if d == 0 {
		return "-"
	}
	if d < time.Millisecond {
		return fmt.Sprintf("%.1fµs", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.2fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}
