package ga

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog/log"

	"cflpGA/internal/opt"
)

// Engine — генетический алгоритм поиска вектора открытых объектов.
// Оценка каждой особи выполняется внешним оракулом.
type Engine struct {
	Cfg Config
	Rng *rand.Rand
}

// New возвращает новый GA-движок с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
// Длина вектора может быть задана позже через SetBits.
func New(cfg Config, rng *rand.Rand) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}
	return &Engine{Cfg: cfg, Rng: rng}, nil
}

// SetBits задаёт длину вектора под размер задачи.
// Явно заданная вероятность мутации сохраняется, автоматическая пересчитывается как 1/n.
func (e *Engine) SetBits(n int) {
	e.Cfg.Bits = n
}

func (e *Engine) SetMutationRate(rate float64) {
	e.Cfg.MutationRate = rate
}

// Config возвращает конфигурацию с вычисленной вероятностью мутации.
func (e *Engine) Config() Config {
	cfg := e.Cfg
	cfg.MutationRate = cfg.EffectiveMutationRate()
	return cfg
}

// Run выполняет ровно Cfg.Generations поколений.
// Ошибка оракула прерывает запуск без частичного результата.
func (e *Engine) Run(ctx context.Context, oracle opt.Oracle) (opt.Result, error) {
	// Проверка корректности конфигурации до первого обращения к оракулу
	if err := e.Cfg.Validate(); err != nil {
		return opt.Result{}, err
	}
	if e.Cfg.Bits <= 0 {
		return opt.Result{}, fmt.Errorf("длина вектора не задана (получено %d)", e.Cfg.Bits)
	}
	if e.Rng == nil {
		return opt.Result{}, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}
	if oracle == nil {
		return opt.Result{}, errors.New("оракул не инициализирован (nil)")
	}

	bits := e.Cfg.Bits
	popSize := e.Cfg.Population
	mutationRate := e.Cfg.EffectiveMutationRate()

	// Вспомогательная анонимная функция для создания популяции на общем буфере
	makePop := func() []opt.Candidate {
		backing := make([]uint8, popSize*bits)
		pop := make([]opt.Candidate, popSize)
		for i := 0; i < popSize; i++ {
			pop[i] = backing[i*bits : (i+1)*bits : (i+1)*bits]
		}
		return pop
	}

	// Две популяции: текущая (A) и следующая (B)
	popA := makePop()
	popB := makePop()
	scores := make([]float64, popSize)
	pool := make([]int, 0, popSize)
	parents := make([]int, popSize)

	evaluate := func(c opt.Candidate) (float64, bool, error) {
		if err := oracle.SetCandidate(c); err != nil {
			return 0, false, err
		}
		return oracle.Solve()
	}

	// Инициализация начальной популяции
	for i := 0; i < popSize; i++ {
		randomCandidate(popA[i], e.Rng)
	}

	var (
		best    *opt.Solution
		found   []opt.Solution
		history []opt.Solution
	)

	// Первая особь оценивается до основного цикла, чтобы получить начальное лучшее решение
	score, feasible, err := evaluate(popA[0])
	if err != nil {
		return opt.Result{}, fmt.Errorf("начальная оценка: %w", err)
	}
	evaluations := 1
	if feasible {
		best = &opt.Solution{Candidate: popA[0].Clone(), Score: score}
	}

	for gen := 0; gen < e.Cfg.Generations; gen++ {
		// Для поддержки отмены через context
		if err := ctx.Err(); err != nil {
			return opt.Result{}, err
		}

		// Оценка всех особей текущего поколения
		pool = pool[:0]
		for i, c := range popA {
			s, ok, err := evaluate(c)
			if err != nil {
				return opt.Result{}, fmt.Errorf("поколение %d, особь %d: %w", gen+1, i, err)
			}
			evaluations++
			if !ok {
				continue
			}
			scores[i] = s
			pool = append(pool, i)
			found = append(found, opt.Solution{Candidate: c.Clone(), Score: s, Generation: gen})
		}

		// Поколение без допустимых решений не участвует в отборе
		if len(pool) == 0 {
			log.Debug().
				Int("generation", gen+1).
				Msg("no feasible candidates, population kept")
			continue
		}

		// Обновление лучшего решения (при равенстве остаётся найденное раньше)
		for _, i := range pool {
			if best == nil || scores[i] < best.Score {
				best = &opt.Solution{Candidate: popA[i].Clone(), Score: scores[i], Generation: gen}
			}
		}
		snapshot := best.Clone()
		snapshot.Generation = gen
		history = append(history, snapshot)

		log.Debug().
			Int("generation", gen+1).
			Int("feasible", len(pool)).
			Float64("best", best.Score).
			Msg("generation evaluated")

		// Турнирный отбор
		for i := range parents {
			parents[i] = tournamentSelect(pool, scores, e.Cfg.TournamentSize, e.Rng)
		}

		// Кроссовер и мутация по парам родителей
		for i := 0; i < popSize; i += 2 {
			onePointCrossover(
				popA[parents[i]],
				popA[parents[i+1]],
				popB[i],
				popB[i+1],
				e.Cfg.CrossoverRate,
				e.Rng,
			)
			mutateFlip(popB[i], mutationRate, e.Rng)
			mutateFlip(popB[i+1], mutationRate, e.Rng)
		}

		// Смена поколений
		popA, popB = popB, popA
	}

	return toResult(best, found, history, evaluations, e.Cfg.Generations, map[string]any{
		"population":     popSize,
		"generations":    e.Cfg.Generations,
		"tournament":     e.Cfg.TournamentSize,
		"crossover_rate": e.Cfg.CrossoverRate,
		"mutation_rate":  mutationRate,
	}), nil
}
