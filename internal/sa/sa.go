package sa

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"cflpGA/internal/opt"
)

// Solver - структура реализации алгоритма имитации отжига над вектором открытых объектов
type Solver struct {
	Cfg Config
	Rng *rand.Rand
}

// New возвращает новый SA-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
// Используется в фабриках.
func New(cfg Config, rng *rand.Rand) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}
	return &Solver{Cfg: cfg, Rng: rng}, nil
}

func (s *Solver) SetBits(n int) {
	s.Cfg.Bits = n
}

// Run — реализация эвристики.
// History пополняется при каждом улучшении лучшего решения; Generation — номер итерации.
func (s *Solver) Run(ctx context.Context, oracle opt.Oracle) (opt.Result, error) {
	if err := s.Cfg.Validate(); err != nil {
		return opt.Result{}, err
	}
	if s.Cfg.Bits <= 0 {
		return opt.Result{}, fmt.Errorf("длина вектора не задана (получено %d)", s.Cfg.Bits)
	}
	if s.Rng == nil {
		return opt.Result{}, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}
	if oracle == nil {
		return opt.Result{}, errors.New("оракул не инициализирован (nil)")
	}

	n := s.Cfg.Bits
	evaluate := func(c opt.Candidate) (float64, bool, error) {
		if err := oracle.SetCandidate(c); err != nil {
			return 0, false, err
		}
		return oracle.Solve()
	}

	// Текущее и кандидатное решения
	curr := make(opt.Candidate, n)
	cand := make(opt.Candidate, n)

	// Инициализация текущего решения
	for i := range curr {
		curr[i] = uint8(s.Rng.Intn(2))
	}

	currCost, currOK, err := evaluate(curr)
	if err != nil {
		return opt.Result{}, fmt.Errorf("начальная оценка: %w", err)
	}
	evals := 1

	var (
		best    *opt.Solution
		found   []opt.Solution
		history []opt.Solution
	)
	if currOK {
		best = &opt.Solution{Candidate: curr.Clone(), Score: currCost}
		found = append(found, best.Clone())
		history = append(history, best.Clone())
	}

	T := s.Cfg.InitialTemp
	iter := 0
	for ; iter < s.Cfg.Iterations && T > s.Cfg.FinalTemp; iter++ {
		// Для поддержки отмены через context
		if err := ctx.Err(); err != nil {
			return opt.Result{}, err
		}

		// Соседнее решение: инверсия одного случайного бита
		copy(cand, curr)
		k := s.Rng.Intn(n)
		cand[k] = 1 - cand[k]

		candCost, candOK, err := evaluate(cand)
		if err != nil {
			return opt.Result{}, fmt.Errorf("итерация %d: %w", iter+1, err)
		}
		evals++

		accept := false
		switch {
		case !candOK:
			// Недопустимое решение не принимается
		case !currOK:
			// Из недопустимого состояния переходим в любое допустимое
			accept = true
		default:
			delta := candCost - currCost
			if delta <= 0 {
				// Улучшающее решение принимаем всегда
				accept = true
			} else if s.Rng.Float64() < math.Exp(-delta/T) {
				// Критерий Метрополиса:
				// допускает принятие ухудшающих решений
				accept = true
			}
		}

		if candOK {
			found = append(found, opt.Solution{Candidate: cand.Clone(), Score: candCost, Generation: iter + 1})
		}

		if accept {
			// Обмен ролей текущего и кандидатного решений
			curr, cand = cand, curr
			currCost, currOK = candCost, candOK

			// Обновление глобально лучшего решения
			if best == nil || currCost < best.Score {
				best = &opt.Solution{Candidate: curr.Clone(), Score: currCost, Generation: iter + 1}
				history = append(history, best.Clone())
			}
		}

		// Охлаждение температуры
		T *= s.Cfg.Alpha
	}

	res := opt.Result{
		Found:       found,
		History:     history,
		Evaluations: evals,
		Generations: iter,
		Meta: map[string]any{
			"initial_temp": s.Cfg.InitialTemp,
			"final_temp":   s.Cfg.FinalTemp,
			"alpha":        s.Cfg.Alpha,
		},
	}
	if best != nil {
		b := best.Clone()
		res.Best = &b
	}
	if res.Found == nil {
		res.Found = []opt.Solution{}
	}
	if res.History == nil {
		res.History = []opt.Solution{}
	}
	return res, nil
}
