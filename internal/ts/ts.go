package ts

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/rs/zerolog/log"

	"cflpGA/internal/opt"
)

// Solver - структура реализации табу-поиска над вектором открытых объектов.
// Ход — инверсия одного бита; запрещается повторная инверсия того же бита.
type Solver struct {
	Cfg Config
	Rng *rand.Rand
}

// New возвращает новый TS-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
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

// Run — основной цикл алгоритма.
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

	// Инициализация начального решения
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

	// Табу-список - кольцевой буфер с мапой
	tabu := newTabuList(max(32, (s.Cfg.TabuTenure+s.Cfg.TabuTenureRand)*4))

	iter := 0
	for ; iter < s.Cfg.Iterations; iter++ {
		// Для поддержки отмены через context
		if err := ctx.Err(); err != nil {
			return opt.Result{}, err
		}

		// Лучший разрешённый ход
		bestMove := -1
		bestMoveCost := math.Inf(1)

		// Запасной ход (лучший без учёта табу),
		// используется если все допустимые ходы табуированы
		fallbackMove := -1
		fallbackCost := math.Inf(1)

		// Первый сэмплированный бит: случайный шаг, если все соседи недопустимы
		walkMove := -1

		// Итерация по случайно сгенерированным соседям
		for k := 0; k < s.Cfg.NeighborsPerIter; k++ {
			bit := s.Rng.Intn(n)
			if walkMove < 0 {
				walkMove = bit
			}

			copy(cand, curr)
			cand[bit] = 1 - cand[bit]

			cost, ok, err := evaluate(cand)
			if err != nil {
				return opt.Result{}, fmt.Errorf("итерация %d: %w", iter+1, err)
			}
			evals++
			if !ok {
				continue
			}
			found = append(found, opt.Solution{Candidate: cand.Clone(), Score: cost, Generation: iter + 1})

			if cost < fallbackCost {
				fallbackCost = cost
				fallbackMove = bit
			}

			// Табуированный ход пропускается,
			// если не выполняется критерий аспирации
			aspiration := best == nil || cost < best.Score
			if tabu.IsTabu(bitKey(bit), iter) && !aspiration {
				continue
			}

			if cost < bestMoveCost {
				bestMoveCost = cost
				bestMove = bit
			}
		}

		// Выбор хода: сначала разрешённый лучший, затем запасной
		chosen, chosenCost, chosenOK := bestMove, bestMoveCost, true
		if chosen < 0 {
			chosen, chosenCost = fallbackMove, fallbackCost
		}
		if chosen < 0 {
			// Ни одного допустимого соседа: случайный шаг в недопустимую область
			chosen, chosenCost, chosenOK = walkMove, 0, false
		}

		// Применение выбранного хода
		curr[chosen] = 1 - curr[chosen]
		currCost, currOK = chosenCost, chosenOK

		// Повторная инверсия того же бита запрещена на срок tenure
		tenure := s.Cfg.TabuTenure
		if s.Cfg.TabuTenureRand > 0 {
			tenure += s.Rng.Intn(s.Cfg.TabuTenureRand + 1)
		}
		tabu.Add(bitKey(chosen), iter+tenure)

		// Обновление глобально лучшего решения
		if currOK && (best == nil || currCost < best.Score) {
			best = &opt.Solution{Candidate: curr.Clone(), Score: currCost, Generation: iter + 1}
			history = append(history, best.Clone())
			log.Debug().
				Int("iteration", iter+1).
				Float64("best", currCost).
				Msg("tabu search improved")
		}
	}

	res := opt.Result{
		Found:       found,
		History:     history,
		Evaluations: evals,
		Generations: iter,
		Meta: map[string]any{
			"tabu_tenure":        s.Cfg.TabuTenure,
			"tabu_tenure_rand":   s.Cfg.TabuTenureRand,
			"neighbors_per_iter": s.Cfg.NeighborsPerIter,
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

// bitKey — ключ хода в табу-списке; 0 зарезервирован под пустую ячейку кольца.
func bitKey(bit int) uint64 {
	return uint64(bit) + 1
}
