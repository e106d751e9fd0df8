package solver

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cflpGA/internal/cflp"
	"cflpGA/internal/ga"
	"cflpGA/internal/opt"
	"cflpGA/internal/store"
)

func bruteForce(t *testing.T, inst *cflp.Instance, mode cflp.Mode) float64 {
	t.Helper()
	e, err := cflp.NewEvaluator(inst, mode)
	require.NoError(t, err)

	best := math.Inf(1)
	for mask := 1; mask < 1<<inst.Facilities; mask++ {
		c := make(opt.Candidate, inst.Facilities)
		for j := range c {
			if mask&(1<<j) != 0 {
				c[j] = 1
			}
		}
		ev, err := e.Evaluate(c)
		require.NoError(t, err)
		if ev.Feasible && ev.Total < best {
			best = ev.Total
		}
	}
	return best
}

func newGA(t *testing.T, gens int) *ga.Engine {
	t.Helper()
	cfg := ga.DefaultConfig()
	cfg.Generations = gens
	e, err := ga.New(cfg, rand.New(rand.NewSource(17)))
	require.NoError(t, err)
	return e
}

func TestSolveWritesAllOutputs(t *testing.T) {
	inst := cflp.RandomInstance("rand6", 6, 15, rand.New(rand.NewSource(3)))
	optimum := bruteForce(t, inst, cflp.ModeSplit)

	st, err := store.Open(":memory:")
	require.NoError(t, err)
	defer st.Close()

	dir := t.TempDir()
	s := &Solver{
		Engine:    newGA(t, 15),
		Algorithm: "GA",
		Mode:      cflp.ModeSplit,
		Seed:      17,
		PlotDir:   filepath.Join(dir, "results"),
		DataDir:   filepath.Join(dir, "data"),
		Store:     st,
	}

	res, err := s.Solve(context.Background(), inst)
	require.NoError(t, err)
	require.NotNil(t, res.Best)
	assert.Len(t, res.Best.Candidate, inst.Facilities)
	assert.GreaterOrEqual(t, res.Best.Score, optimum-1e-6)
	assert.Positive(t, res.Duration)

	_, err = os.Stat(filepath.Join(dir, "results", "rand6.png"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "data", "rand6.dat"))
	require.NoError(t, err)

	runs, err := st.Runs(context.Background(), "rand6")
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "GA", runs[0].Algorithm)
	assert.Equal(t, res.Best.Score, runs[0].BestScore)
}

func TestSolveFindsOptimumOnTinyInstance(t *testing.T) {
	inst := cflp.RandomInstance("rand5", 5, 12, rand.New(rand.NewSource(9)))
	optimum := bruteForce(t, inst, cflp.ModeSingleSource)

	s := &Solver{Engine: newGA(t, 30), Mode: cflp.ModeSingleSource}
	res, err := s.Solve(context.Background(), inst)
	require.NoError(t, err)
	require.NotNil(t, res.Best)
	// 24 особи × 30 поколений на пространстве из 32 векторов
	assert.InDelta(t, optimum, res.Best.Score, 1e-6)
}

type failingOptimizer struct{ err error }

func (f failingOptimizer) SetBits(int) {}

func (f failingOptimizer) Run(context.Context, opt.Oracle) (opt.Result, error) {
	return opt.Result{}, f.err
}

func TestSolvePropagatesEngineError(t *testing.T) {
	boom := errors.New("oracle crashed")
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	defer st.Close()

	dir := t.TempDir()
	s := &Solver{
		Engine:  failingOptimizer{err: boom},
		Mode:    cflp.ModeSplit,
		PlotDir: dir,
		Store:   st,
	}
	inst := cflp.RandomInstance("rand4", 4, 6, rand.New(rand.NewSource(1)))

	_, err = s.Solve(context.Background(), inst)
	require.ErrorIs(t, err, boom)

	_, statErr := os.Stat(filepath.Join(dir, "rand4.png"))
	assert.True(t, os.IsNotExist(statErr))
	runs, err := st.Runs(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestSolveRejectsBadMode(t *testing.T) {
	s := &Solver{Engine: newGA(t, 2), Mode: cflp.Mode("lp")}
	inst := cflp.RandomInstance("rand4", 4, 6, rand.New(rand.NewSource(1)))
	_, err := s.Solve(context.Background(), inst)
	require.Error(t, err)
}
