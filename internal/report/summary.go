package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rs/zerolog"

	"cflpGA/internal/opt"
)

// WriteSummary prints a short human-readable account of a run.
func WriteSummary(w io.Writer, name string, res opt.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "dataset:\t%s\n", name)
	if res.Best != nil {
		fmt.Fprintf(tw, "best cost:\t%.4f\n", res.Best.Score)
		fmt.Fprintf(tw, "open facilities:\t%d of %d\n", res.Best.Candidate.Open(), len(res.Best.Candidate))
		fmt.Fprintf(tw, "best vector:\t%s\n", res.Best.Candidate)
	} else {
		fmt.Fprintf(tw, "best cost:\tno feasible solution found\n")
	}
	fmt.Fprintf(tw, "feasible solutions:\t%d\n", len(res.Found))
	fmt.Fprintf(tw, "generations:\t%d\n", res.Generations)
	fmt.Fprintf(tw, "evaluations:\t%d\n", res.Evaluations)
	fmt.Fprintf(tw, "execution time:\t%s\n", res.Duration)
	return tw.Flush()
}

// LogSummary emits the same account as one structured event.
func LogSummary(ev *zerolog.Event, name string, res opt.Result) {
	ev = ev.Str("dataset", name).
		Int("found", len(res.Found)).
		Int("generations", res.Generations).
		Int("evaluations", res.Evaluations).
		Dur("elapsed", res.Duration)
	if res.Best == nil {
		ev.Msg("no feasible solution found")
		return
	}
	ev.Float64("best", res.Best.Score).
		Int("open", res.Best.Candidate.Open()).
		Str("vector", res.Best.Candidate.String()).
		Msg("run finished")
}
