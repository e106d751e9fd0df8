package bench

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"cflpGA/internal/cflp"
	"cflpGA/internal/opt"
)

type Algorithm struct {
	Name    string
	Factory func(seed int64) opt.Optimizer
}

type Case struct {
	Name     string
	Instance *cflp.Instance
}

type Record struct {
	Algo       string
	Dataset    string
	Facilities int
	Clients    int
	Runs       int
	Feasible   int

	TimeBestMs float64
	TimeMeanMs float64
	TimeStdMs  float64

	CostBest float64
	CostMean float64
	CostStd  float64

	EvaluationsMean float64
}

type Runner struct {
	Runs          int
	BaseSeed      int64
	PerRunTimeout time.Duration // 0 = no timeout
	Mode          cflp.Mode
}

// RunCase запускает алгоритм Runs раз с разными сидами.
// Каждый запуск получает собственный оценщик: оракул не разделяется между запусками.
func (r Runner) RunCase(ctx context.Context, c Case, algo Algorithm) (Record, error) {
	inst := c.Instance
	if err := inst.Validate(); err != nil {
		return Record{}, err
	}

	costs := make([]float64, 0, r.Runs)
	timesMs := make([]float64, 0, r.Runs)
	evals := make([]float64, 0, r.Runs)

	for i := 0; i < r.Runs; i++ {
		runSeed := r.BaseSeed + int64(i)

		op := algo.Factory(runSeed)
		op.SetBits(inst.Facilities)

		eval, err := cflp.NewEvaluator(inst, r.Mode)
		if err != nil {
			return Record{}, err
		}

		runCtx := ctx
		cancel := func() {}
		if r.PerRunTimeout > 0 {
			runCtx, cancel = context.WithTimeout(ctx, r.PerRunTimeout)
		}
		start := time.Now()
		res, err := op.Run(runCtx, eval)
		dur := time.Since(start)
		cancel()

		if err != nil && runCtx.Err() != nil {
			return Record{}, fmt.Errorf("run %d: cancelled/timeout: %w", i, err)
		}
		if err != nil {
			return Record{}, fmt.Errorf("run %d: solve error: %w", i, err)
		}
		if res.Best != nil {
			if len(res.Best.Candidate) != inst.Facilities {
				return Record{}, fmt.Errorf("run %d: invalid candidate length %d (want %d)", i, len(res.Best.Candidate), inst.Facilities)
			}
			costs = append(costs, res.Best.Score)
		}

		timesMs = append(timesMs, float64(dur.Microseconds())/1000.0)
		evals = append(evals, float64(res.Evaluations))
	}

	cStats := CalcStats(costs)
	tStats := CalcStats(timesMs)
	eStats := CalcStats(evals)

	return Record{
		Algo:       algo.Name,
		Dataset:    c.Name,
		Facilities: inst.Facilities,
		Clients:    inst.Clients,
		Runs:       r.Runs,
		Feasible:   cStats.N,

		TimeBestMs: tStats.Best,
		TimeMeanMs: tStats.Mean,
		TimeStdMs:  tStats.Std,

		CostBest: cStats.Best,
		CostMean: cStats.Mean,
		CostStd:  cStats.Std,

		EvaluationsMean: eStats.Mean,
	}, nil
}

// WriteCSV пишет записи в path, создавая родительский каталог при необходимости.
func WriteCSV(path string, records []Record) error {
	if err := ensureParentDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range records {
		if err := w.Write(r.csvRow()); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}
