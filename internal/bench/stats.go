package bench

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

type Stats struct {
	N    int
	Best float64
	Mean float64
	Std  float64
}

// CalcStats — минимум, среднее и несмещённое стандартное отклонение.
// Для пустой выборки все поля нулевые, для одного значения Std = 0.
func CalcStats(values []float64) Stats {
	s := Stats{N: len(values)}
	if s.N == 0 {
		return s
	}

	s.Best = values[0]
	for _, v := range values[1:] {
		s.Best = math.Min(s.Best, v)
	}

	if s.N == 1 {
		s.Mean = values[0]
		return s
	}
	s.Mean, s.Std = stat.MeanStdDev(values, nil)
	return s
}
