package bench

import (
	"os"
	"path/filepath"
	"strconv"
)

var csvHeader = []string{
	"algo", "dataset", "facilities", "clients", "runs", "feasible_runs",
	"time_best_ms", "time_mean_ms", "time_std_ms",
	"cost_best", "cost_mean", "cost_std",
	"evaluations_mean",
}

// csvRow — строка CSV в порядке csvHeader.
func (r Record) csvRow() []string {
	return []string{
		r.Algo,
		r.Dataset,
		strconv.Itoa(r.Facilities),
		strconv.Itoa(r.Clients),
		strconv.Itoa(r.Runs),
		strconv.Itoa(r.Feasible),

		ftoa(r.TimeBestMs),
		ftoa(r.TimeMeanMs),
		ftoa(r.TimeStdMs),

		ftoa(r.CostBest),
		ftoa(r.CostMean),
		ftoa(r.CostStd),

		ftoa(r.EvaluationsMean),
	}
}

func ensureParentDir(path string) error {
	d := filepath.Dir(path)
	if d == "." {
		return nil
	}
	return os.MkdirAll(d, 0o755)
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
