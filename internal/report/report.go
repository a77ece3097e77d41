// Package report summarizes the results index per design point. It reads
// what the trial executor wrote; it never touches the experiment itself.
package report

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"pkgbench/internal/results"
)

type Group struct {
	Tool          string  `json:"tool"`
	Mode          string  `json:"mode"`
	Count         int     `json:"count"`
	Failures      int     `json:"failures"`
	MeanSeconds   float64 `json:"meanSeconds"`
	MedianSeconds float64 `json:"medianSeconds"`
	MinSeconds    float64 `json:"minSeconds"`
	MaxSeconds    float64 `json:"maxSeconds"`
}

// Build groups rows by (tool, mode). Failed trials count toward Failures and
// are excluded from the timing statistics: their durations measure the
// failure, not the tool.
func Build(rows []results.Row) []Group {
	type key struct{ tool, mode string }
	byKey := map[key][]results.Row{}
	var order []key
	for _, r := range rows {
		k := key{string(r.Tool), string(r.Mode)}
		if _, seen := byKey[k]; !seen {
			order = append(order, k)
		}
		byKey[k] = append(byKey[k], r)
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].tool != order[j].tool {
			return order[i].tool < order[j].tool
		}
		return order[i].mode < order[j].mode
	})

	out := make([]Group, 0, len(order))
	for _, k := range order {
		g := Group{Tool: k.tool, Mode: k.mode}
		var durations []float64
		for _, r := range byKey[k] {
			g.Count++
			if r.ExitCode != 0 {
				g.Failures++
				continue
			}
			durations = append(durations, r.WallSeconds)
		}
		if len(durations) > 0 {
			sort.Float64s(durations)
			var sum float64
			for _, d := range durations {
				sum += d
			}
			g.MeanSeconds = sum / float64(len(durations))
			g.MedianSeconds = median(durations)
			g.MinSeconds = durations[0]
			g.MaxSeconds = durations[len(durations)-1]
		}
		out = append(out, g)
	}
	return out
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// WriteText renders the groups as an aligned table.
func WriteText(w io.Writer, groups []Group) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "TOOL\tMODE\tN\tFAIL\tMEAN_S\tMEDIAN_S\tMIN_S\tMAX_S")
	for _, g := range groups {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%.3f\t%.3f\t%.3f\t%.3f\n",
			g.Tool, g.Mode, g.Count, g.Failures, g.MeanSeconds, g.MedianSeconds, g.MinSeconds, g.MaxSeconds)
	}
	return tw.Flush()
}
