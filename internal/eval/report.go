package eval

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
)

// WriteTable prints per-query and mean metrics as an aligned table.
func (r *Result) WriteTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Dataset: %s (mode %s)\n\n", r.Dataset, r.Mode)
	fmt.Fprintln(tw, "QUERY\tRECALL@5\tRECALL@10\tNDCG@10\tMRR@10\tNOTE")
	for _, q := range r.PerQuery {
		note := ""
		if q.Fallback {
			note = "fallback"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			q.QueryID, f3(q.Metrics.Recall5), f3(q.Metrics.Recall10), f3(q.Metrics.NDCG10), f3(q.Metrics.MRR10), note)
	}
	fmt.Fprintf(tw, "MEAN\t%s\t%s\t%s\t%s\t\n",
		f3(r.Metrics.Recall5), f3(r.Metrics.Recall10), f3(r.Metrics.NDCG10), f3(r.Metrics.MRR10))
	return tw.Flush()
}

// WriteJSON writes the result as indented JSON.
func (r *Result) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func f3(v float64) string {
	return fmt.Sprintf("%.3f", v)
}
