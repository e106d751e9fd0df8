package opt

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Candidate — вектор открытых (1) и закрытых (0) объектов.
type Candidate []uint8

func (c Candidate) Clone() Candidate {
	out := make(Candidate, len(c))
	copy(out, c)
	return out
}

// Open возвращает количество открытых объектов.
func (c Candidate) Open() int {
	n := 0
	for _, b := range c {
		if b == 1 {
			n++
		}
	}
	return n
}

func (c Candidate) String() string {
	var sb strings.Builder
	sb.Grow(len(c))
	for _, b := range c {
		if b == 1 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

func ParseCandidate(s string) (Candidate, error) {
	c := make(Candidate, len(s))
	for i, r := range s {
		switch r {
		case '0':
			c[i] = 0
		case '1':
			c[i] = 1
		default:
			return nil, fmt.Errorf("candidate %q: invalid bit %q at %d", s, r, i)
		}
	}
	return c, nil
}

// Oracle вычисляет значение целевой функции для зафиксированного вектора.
// Недопустимость решения — штатный результат (feasible=false), а не ошибка.
type Oracle interface {
	SetCandidate(c Candidate) error
	Solve() (score float64, feasible bool, err error)
}

type Optimizer interface {
	SetBits(n int)
	Run(ctx context.Context, oracle Oracle) (Result, error)
}

type Solution struct {
	Candidate  Candidate
	Score      float64
	Generation int
}

func (s Solution) Clone() Solution {
	s.Candidate = s.Candidate.Clone()
	return s
}

type Result struct {
	// Best == nil, если ни одного допустимого решения не найдено.
	Best        *Solution
	Found       []Solution
	History     []Solution
	Evaluations int
	Generations int
	Duration    time.Duration
	Meta        map[string]any
}

// Feasible сообщает, найдено ли хотя бы одно допустимое решение.
func (r Result) Feasible() bool { return r.Best != nil }

// BestScore возвращает лучшее значение и признак его наличия.
func (r Result) BestScore() (float64, bool) {
	if r.Best == nil {
		return 0, false
	}
	return r.Best.Score, true
}
