package ga

import "fmt"

// AutoMutationRate — вероятность мутации вычисляется как 1/Bits.
const AutoMutationRate = -1.0

type Config struct {
	Generations    int
	Population     int
	TournamentSize int
	CrossoverRate  float64
	MutationRate   float64
	// Bits — длина вектора-кандидата (количество объектов).
	// Может быть 0 до того, как известна задача.
	Bits int
}

func (c Config) Validate() error {
	if c.Generations <= 0 {
		return fmt.Errorf(
			"количество поколений должно быть > 0 (получено %d)",
			c.Generations,
		)
	}
	if c.Population < 4 || c.Population%2 != 0 {
		return fmt.Errorf(
			"размер популяции должен быть чётным и >= 4 (получено %d)",
			c.Population,
		)
	}
	if c.TournamentSize <= 0 {
		return fmt.Errorf(
			"размер турнира должен быть > 0 (получено %d)",
			c.TournamentSize,
		)
	}
	if c.CrossoverRate < 0 || c.CrossoverRate > 1 {
		return fmt.Errorf(
			"вероятность кроссовера должна быть в диапазоне [0,1] (получено %f)",
			c.CrossoverRate,
		)
	}
	if c.MutationRate != AutoMutationRate && (c.MutationRate < 0 || c.MutationRate > 1) {
		return fmt.Errorf(
			"вероятность мутации должна быть в диапазоне [0,1] или AutoMutationRate (получено %f)",
			c.MutationRate,
		)
	}
	if c.Bits < 0 {
		return fmt.Errorf(
			"длина вектора должна быть >= 0 (получено %d)",
			c.Bits,
		)
	}
	return nil
}

// EffectiveMutationRate возвращает вероятность мутации одного бита.
func (c Config) EffectiveMutationRate() float64 {
	if c.MutationRate != AutoMutationRate {
		return c.MutationRate
	}
	if c.Bits <= 0 {
		return 0
	}
	return 1.0 / float64(c.Bits)
}

func DefaultConfig() Config {
	return Config{
		Generations:    5,
		Population:     24,
		TournamentSize: 3,
		CrossoverRate:  0.9,
		MutationRate:   AutoMutationRate,
	}
}
