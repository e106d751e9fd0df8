package sa

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cflpGA/internal/opt"
)

type funcOracle struct {
	current opt.Candidate
	calls   int
	fn      func(c opt.Candidate) (float64, bool, error)
}

func (o *funcOracle) SetCandidate(c opt.Candidate) error {
	o.current = c.Clone()
	return nil
}

func (o *funcOracle) Solve() (float64, bool, error) {
	o.calls++
	return o.fn(o.current)
}

func newSolver(t *testing.T, bits int, seed int64) *Solver {
	t.Helper()
	cfg := DefaultConfig()
	s, err := New(cfg, rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	s.SetBits(bits)
	return s
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.Alpha = 1
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.FinalTemp = cfg.InitialTemp
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Iterations = 0
	assert.Error(t, cfg.Validate())
}

func TestRunMinimisesOpenCount(t *testing.T) {
	s := newSolver(t, 12, 3)
	// Стоимость открытого объекта велика относительно температуры в конце отжига
	o := &funcOracle{fn: func(c opt.Candidate) (float64, bool, error) {
		return 100 * float64(c.Open()), c.Open() > 0, nil
	}}

	res, err := s.Run(context.Background(), o)
	require.NoError(t, err)
	require.NotNil(t, res.Best)
	assert.Equal(t, o.calls, res.Evaluations)
	for i := 1; i < len(res.History); i++ {
		assert.Less(t, res.History[i].Score, res.History[i-1].Score)
	}
	for _, f := range res.Found {
		assert.LessOrEqual(t, res.Best.Score, f.Score)
	}
	assert.LessOrEqual(t, res.Best.Score, 300.0)
}

func TestRunAllInfeasible(t *testing.T) {
	s := newSolver(t, 6, 1)
	o := &funcOracle{fn: func(opt.Candidate) (float64, bool, error) { return 5, false, nil }}

	res, err := s.Run(context.Background(), o)
	require.NoError(t, err)
	assert.Nil(t, res.Best)
	assert.Empty(t, res.Found)
	assert.Empty(t, res.History)
}

func TestRunPropagatesOracleError(t *testing.T) {
	boom := errors.New("boom")
	s := newSolver(t, 6, 1)
	o := &funcOracle{fn: func(opt.Candidate) (float64, bool, error) { return 0, false, boom }}

	_, err := s.Run(context.Background(), o)
	require.ErrorIs(t, err, boom)
}

func TestRunRequiresBits(t *testing.T) {
	s := newSolver(t, 0, 1)
	_, err := s.Run(context.Background(), &funcOracle{})
	require.Error(t, err)
}
