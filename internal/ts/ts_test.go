package ts

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
	s, err := New(DefaultConfig(), rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	s.SetBits(bits)
	return s
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero iterations", func(c *Config) { c.Iterations = 0 }},
		{"zero tenure", func(c *Config) { c.TabuTenure = 0 }},
		{"negative tenure rand", func(c *Config) { c.TabuTenureRand = -1 }},
		{"zero neighbors", func(c *Config) { c.NeighborsPerIter = 0 }},
		{"negative bits", func(c *Config) { c.Bits = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	_, err := New(DefaultConfig(), nil)
	assert.Error(t, err)
}

func TestRunMinimisesOpenCount(t *testing.T) {
	s := newSolver(t, 12, 3)
	o := &funcOracle{fn: func(c opt.Candidate) (float64, bool, error) {
		return 100 * float64(c.Open()), c.Open() > 0, nil
	}}

	res, err := s.Run(context.Background(), o)
	require.NoError(t, err)
	require.NotNil(t, res.Best)
	assert.Equal(t, o.calls, res.Evaluations)
	assert.Equal(t, 1+100*10, res.Evaluations)
	assert.Equal(t, 100, res.Generations)
	for i := 1; i < len(res.History); i++ {
		assert.Less(t, res.History[i].Score, res.History[i-1].Score)
	}
	for _, f := range res.Found {
		assert.LessOrEqual(t, res.Best.Score, f.Score)
	}
	// единственный открытый объект — оптимум
	assert.InDelta(t, 100.0, res.Best.Score, 1e-9)
	assert.Equal(t, 1, res.Best.Candidate.Open())
}

func TestRunLeavesInfeasibleStart(t *testing.T) {
	s := newSolver(t, 8, 5)
	// допустимы только векторы с открытым объектом 0
	o := &funcOracle{fn: func(c opt.Candidate) (float64, bool, error) {
		return float64(c.Open()), c[0] == 1, nil
	}}

	res, err := s.Run(context.Background(), o)
	require.NoError(t, err)
	require.NotNil(t, res.Best)
	assert.Equal(t, uint8(1), res.Best.Candidate[0])
	assert.InDelta(t, 1.0, res.Best.Score, 1e-9)
}

func TestRunIsDeterministicPerSeed(t *testing.T) {
	fn := func(c opt.Candidate) (float64, bool, error) {
		w := 0.0
		for i, b := range c {
			w += float64(b) * float64(i%5+1)
		}
		return w, c.Open() >= 3, nil
	}

	a, err := newSolver(t, 10, 9).Run(context.Background(), &funcOracle{fn: fn})
	require.NoError(t, err)
	b, err := newSolver(t, 10, 9).Run(context.Background(), &funcOracle{fn: fn})
	require.NoError(t, err)
	assert.Equal(t, a.Best, b.Best)
	assert.Equal(t, a.History, b.History)
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

func TestRunStopsOnCancelledContext(t *testing.T) {
	s := newSolver(t, 6, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := s.Run(ctx, &funcOracle{fn: func(opt.Candidate) (float64, bool, error) { return 1, true, nil }})
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res.Best)
}

func TestRunRequiresBits(t *testing.T) {
	s := newSolver(t, 0, 1)
	_, err := s.Run(context.Background(), &funcOracle{})
	require.Error(t, err)
}

func TestTabuListExpiryAndEviction(t *testing.T) {
	tl := newTabuList(8)

	tl.Add(bitKey(0), 5)
	assert.True(t, tl.IsTabu(bitKey(0), 4))
	assert.False(t, tl.IsTabu(bitKey(0), 5))
	assert.False(t, tl.IsTabu(bitKey(1), 0))

	// продление срока переживает вытеснение старой записи
	tl.Add(bitKey(0), 50)
	for k := 1; k <= 7; k++ {
		tl.Add(bitKey(k), 50)
	}
	assert.True(t, tl.IsTabu(bitKey(0), 10))

	// кольцо заполнено: следующая запись вытесняет продлённую
	tl.Add(bitKey(8), 50)
	assert.False(t, tl.IsTabu(bitKey(0), 10))
	assert.True(t, tl.IsTabu(bitKey(8), 10))
}
