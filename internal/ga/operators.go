package ga

import (
	"math/rand"

	"cflpGA/internal/opt"
)

// randomCandidate заполняет вектор равновероятными битами.
func randomCandidate(c opt.Candidate, rng *rand.Rand) {
	for i := range c {
		c[i] = uint8(rng.Intn(2))
	}
}

// tournamentSelect реализует турнирный отбор.
// pool — индексы особей, получивших оценку в текущем поколении;
// возвращается индекс с минимальным значением целевой функции.
func tournamentSelect(pool []int, scores []float64, k int, rng *rand.Rand) int {
	best := pool[rng.Intn(len(pool))]
	for i := 1; i < k; i++ {
		cand := pool[rng.Intn(len(pool))]
		if scores[cand] < scores[best] {
			best = cand
		}
	}
	return best
}

// onePointCrossover записывает потомков в c1 и c2.
// Точка разреза выбирается из [1, n-2], поэтому концы векторов не совпадают с точкой.
func onePointCrossover(p1, p2, c1, c2 opt.Candidate, rate float64, rng *rand.Rand) {
	copy(c1, p1)
	copy(c2, p2)

	if rng.Float64() >= rate {
		return
	}
	n := len(p1)
	if n < 3 {
		return
	}
	pt := 1 + rng.Intn(n-2)
	copy(c1[pt:], p2[pt:])
	copy(c2[pt:], p1[pt:])
}

// mutateFlip инвертирует каждый бит независимо с вероятностью rate.
func mutateFlip(c opt.Candidate, rate float64, rng *rand.Rand) {
	for i := range c {
		if rng.Float64() < rate {
			c[i] = 1 - c[i]
		}
	}
}
