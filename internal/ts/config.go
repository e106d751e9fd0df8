package ts

import "fmt"

type Config struct {
	Iterations int

	// Срок запрета инверсии бита: TabuTenure + случайное [0..TabuTenureRand]
	TabuTenure     int
	TabuTenureRand int

	NeighborsPerIter int

	// Bits — длина вектора; задаётся через SetBits, когда известна задача.
	Bits int
}

func DefaultConfig() Config {
	return Config{
		Iterations: 100,

		TabuTenure:     5,
		TabuTenureRand: 2,

		NeighborsPerIter: 10,
	}
}

func (c Config) Validate() error {
	if c.Iterations <= 0 {
		return fmt.Errorf(
			"количество итераций должно быть > 0 (получено %d)",
			c.Iterations,
		)
	}
	if c.TabuTenure <= 0 {
		return fmt.Errorf(
			"TabuTenure должно быть > 0 (получено %d)",
			c.TabuTenure,
		)
	}
	if c.TabuTenureRand < 0 {
		return fmt.Errorf(
			"TabuTenureRand должно быть >= 0 (получено %d)",
			c.TabuTenureRand,
		)
	}
	if c.NeighborsPerIter <= 0 {
		return fmt.Errorf(
			"NeighborsPerIter должно быть > 0 (получено %d)",
			c.NeighborsPerIter,
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
