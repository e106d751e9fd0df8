package bench

import (
	"context"
	"encoding/csv"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cflpGA/internal/cflp"
	"cflpGA/internal/ga"
	"cflpGA/internal/opt"
	"cflpGA/internal/sa"
	"cflpGA/internal/ts"
)

func TestCalcStats(t *testing.T) {
	assert.Equal(t, Stats{}, CalcStats(nil))
	assert.Equal(t, Stats{N: 1, Best: 4, Mean: 4}, CalcStats([]float64{4}))

	s := CalcStats([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.Equal(t, 8, s.N)
	assert.Equal(t, 2.0, s.Best)
	assert.InDelta(t, 5.0, s.Mean, 1e-12)
	assert.InDelta(t, 2.138089935, s.Std, 1e-9)
}

func gaAlgorithm() Algorithm {
	cfg := ga.DefaultConfig()
	cfg.Generations = 4
	return Algorithm{Name: "GA", Factory: func(seed int64) opt.Optimizer {
		e, _ := ga.New(cfg, rand.New(rand.NewSource(seed)))
		return e
	}}
}

func saAlgorithm() Algorithm {
	cfg := sa.DefaultConfig()
	cfg.Iterations = 50
	return Algorithm{Name: "SA", Factory: func(seed int64) opt.Optimizer {
		s, _ := sa.New(cfg, rand.New(rand.NewSource(seed)))
		return s
	}}
}

func tsAlgorithm() Algorithm {
	cfg := ts.DefaultConfig()
	cfg.Iterations = 30
	return Algorithm{Name: "TS", Factory: func(seed int64) opt.Optimizer {
		s, _ := ts.New(cfg, rand.New(rand.NewSource(seed)))
		return s
	}}
}

func TestRunCaseAndWriteCSV(t *testing.T) {
	inst := cflp.RandomInstance("rand8", 8, 20, rand.New(rand.NewSource(5)))
	runner := Runner{Runs: 3, BaseSeed: 100, Mode: cflp.ModeSplit}

	var records []Record
	for _, algo := range []Algorithm{gaAlgorithm(), saAlgorithm(), tsAlgorithm()} {
		rec, err := runner.RunCase(context.Background(), Case{Name: inst.Name, Instance: inst}, algo)
		require.NoError(t, err)
		assert.Equal(t, algo.Name, rec.Algo)
		assert.Equal(t, 3, rec.Runs)
		assert.LessOrEqual(t, rec.Feasible, 3)
		if rec.Feasible > 0 {
			assert.LessOrEqual(t, rec.CostBest, rec.CostMean)
		}
		assert.Positive(t, rec.EvaluationsMean)
		records = append(records, rec)
	}

	path := filepath.Join(t.TempDir(), "out", "results.csv")
	require.NoError(t, WriteCSV(path, records))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "algo", rows[0][0])
	assert.Equal(t, "GA", rows[1][0])
	assert.Equal(t, "SA", rows[2][0])
	assert.Equal(t, "TS", rows[3][0])
}

func TestRunCaseIsDeterministicPerSeed(t *testing.T) {
	inst := cflp.RandomInstance("rand6", 6, 10, rand.New(rand.NewSource(8)))
	runner := Runner{Runs: 2, BaseSeed: 7, Mode: cflp.ModeSingleSource}
	c := Case{Name: inst.Name, Instance: inst}

	a, err := runner.RunCase(context.Background(), c, gaAlgorithm())
	require.NoError(t, err)
	b, err := runner.RunCase(context.Background(), c, gaAlgorithm())
	require.NoError(t, err)
	assert.Equal(t, a.CostBest, b.CostBest)
	assert.Equal(t, a.CostMean, b.CostMean)
	assert.Equal(t, a.Feasible, b.Feasible)
}
