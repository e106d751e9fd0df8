package cflp

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"cflpGA/internal/opt"
)

// Mode selects how client demand may be served by the open facilities.
type Mode string

const (
	// ModeSplit lets a client's demand be split across facilities.
	ModeSplit Mode = "split"
	// ModeSingleSource serves every client from exactly one facility.
	ModeSingleSource Mode = "single"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeSplit, ModeSingleSource:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown assignment mode %q (want %q or %q)", s, ModeSplit, ModeSingleSource)
	}
}

var (
	ErrNoCandidate  = errors.New("cflp: no candidate set")
	ErrBadCandidate = errors.New("cflp: invalid candidate")
)

type Evaluation struct {
	Feasible   bool
	Open       int
	Fixed      float64
	Assignment float64
	Total      float64
}

// Evaluator solves the assignment subproblem for a fixed open/closed vector.
// It holds one scenario at a time and is not safe for concurrent use.
type Evaluator struct {
	inst *Instance
	mode Mode

	open []bool
	set  bool

	// split mode
	net      *network
	sinkArcs []int
	source   int
	sink     int

	// single-source mode
	remaining []int64
	order     []int
	regret    []float64
}

var _ opt.Oracle = (*Evaluator)(nil)

func NewEvaluator(inst *Instance, mode Mode) (*Evaluator, error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	if _, err := ParseMode(string(mode)); err != nil {
		return nil, err
	}

	e := &Evaluator{
		inst: inst,
		mode: mode,
		open: make([]bool, inst.Facilities),
	}
	switch mode {
	case ModeSplit:
		e.buildNetwork()
	case ModeSingleSource:
		e.remaining = make([]int64, inst.Facilities)
		e.order = make([]int, inst.Clients)
		e.regret = make([]float64, inst.Clients)
	}
	return e, nil
}

func (e *Evaluator) Instance() *Instance { return e.inst }

func (e *Evaluator) Mode() Mode { return e.mode }

func (e *Evaluator) SetCandidate(c opt.Candidate) error {
	if len(c) != e.inst.Facilities {
		return fmt.Errorf("%w: length must be %d (got %d)", ErrBadCandidate, e.inst.Facilities, len(c))
	}
	for j, b := range c {
		if b > 1 {
			return fmt.Errorf("%w: bit %d is %d", ErrBadCandidate, j, b)
		}
	}
	for j, b := range c {
		e.open[j] = b == 1
	}
	e.set = true
	return nil
}

func (e *Evaluator) Solve() (float64, bool, error) {
	if !e.set {
		return 0, false, ErrNoCandidate
	}
	ev := e.evaluate()
	if !ev.Feasible {
		return 0, false, nil
	}
	return ev.Total, true, nil
}

// Evaluate sets c as the current scenario and returns the full cost breakdown.
func (e *Evaluator) Evaluate(c opt.Candidate) (Evaluation, error) {
	if err := e.SetCandidate(c); err != nil {
		return Evaluation{}, err
	}
	return e.evaluate(), nil
}

func (e *Evaluator) evaluate() Evaluation {
	var ev Evaluation
	var capacity int64
	for j, isOpen := range e.open {
		if !isOpen {
			continue
		}
		ev.Open++
		ev.Fixed += e.inst.OpeningCosts[j]
		capacity += e.inst.Capacities[j]
	}
	if capacity < e.inst.TotalDemand() {
		return ev
	}

	var ok bool
	switch e.mode {
	case ModeSplit:
		ev.Assignment, ok = e.assignSplit()
	default:
		ev.Assignment, ok = e.assignSingleSource()
	}
	if !ok {
		return ev
	}
	ev.Feasible = true
	ev.Total = ev.Fixed + ev.Assignment
	return ev
}

// Nodes: source, clients, facilities, sink.
func (e *Evaluator) buildNetwork() {
	m, n := e.inst.Facilities, e.inst.Clients
	e.source = 0
	e.sink = n + m + 1
	e.net = newNetwork(n + m + 2)

	for i := 0; i < n; i++ {
		d := e.inst.Demands[i]
		e.net.addArc(e.source, 1+i, d, 0)
		for j := 0; j < m; j++ {
			e.net.addArc(1+i, 1+n+j, d, e.inst.Cost(i, j)/float64(d))
		}
	}
	e.sinkArcs = make([]int, m)
	for j := 0; j < m; j++ {
		e.sinkArcs[j] = e.net.addArc(1+n+j, e.sink, e.inst.Capacities[j], 0)
	}
}

func (e *Evaluator) assignSplit() (float64, bool) {
	n := e.inst.Clients
	e.net.reset()
	for j, k := range e.sinkArcs {
		if !e.open[j] {
			e.net.g[1+n+j][k].cap = 0
		}
	}
	want := e.inst.TotalDemand()
	flow, cost := e.net.minCostFlow(e.source, e.sink, want)
	return cost, flow == want
}

// assignSingleSource assigns clients in order of decreasing regret (gap between
// the two cheapest open facilities) to the cheapest open facility that still fits.
func (e *Evaluator) assignSingleSource() (float64, bool) {
	for j := range e.remaining {
		e.remaining[j] = 0
		if e.open[j] {
			e.remaining[j] = e.inst.Capacities[j]
		}
	}

	for i := range e.order {
		e.order[i] = i
		first, second := math.Inf(1), math.Inf(1)
		for j, isOpen := range e.open {
			if !isOpen || e.inst.Capacities[j] < e.inst.Demands[i] {
				continue
			}
			c := e.inst.Cost(i, j)
			if c < first {
				first, second = c, first
			} else if c < second {
				second = c
			}
		}
		switch {
		case math.IsInf(first, 1):
			return 0, false
		case math.IsInf(second, 1):
			e.regret[i] = math.MaxFloat64
		default:
			e.regret[i] = second - first
		}
	}
	sort.SliceStable(e.order, func(a, b int) bool {
		return e.regret[e.order[a]] > e.regret[e.order[b]]
	})

	var total float64
	for _, i := range e.order {
		best := -1
		for j, isOpen := range e.open {
			if !isOpen || e.remaining[j] < e.inst.Demands[i] {
				continue
			}
			if best < 0 || e.inst.Cost(i, j) < e.inst.Cost(i, best) {
				best = j
			}
		}
		if best < 0 {
			return 0, false
		}
		e.remaining[best] -= e.inst.Demands[i]
		total += e.inst.Cost(i, best)
	}
	return total, true
}
