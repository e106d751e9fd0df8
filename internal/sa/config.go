package sa

import "fmt"

type Config struct {
	Iterations int

	InitialTemp float64
	FinalTemp   float64
	Alpha       float64

	// Bits — длина вектора; задаётся через SetBits, когда известна задача.
	Bits int
}

func DefaultConfig() Config {
	return Config{
		Iterations: 200,

		InitialTemp: 2000.0,
		FinalTemp:   0.5,
		Alpha:       0.98,
	}
}

func (c Config) Validate() error {
	if c.Iterations <= 0 {
		return fmt.Errorf(
			"количество итераций должно быть > 0 (получено %d)",
			c.Iterations,
		)
	}
	if c.InitialTemp <= 0 {
		return fmt.Errorf(
			"InitialTemp должно быть > 0 (получено %f)",
			c.InitialTemp,
		)
	}
	if c.FinalTemp <= 0 {
		return fmt.Errorf(
			"FinalTemp должно быть > 0 (получено %f)",
			c.FinalTemp,
		)
	}
	if c.FinalTemp >= c.InitialTemp {
		return fmt.Errorf(
			"FinalTemp должно быть < InitialTemp (получено %f >= %f)",
			c.FinalTemp,
			c.InitialTemp,
		)
	}
	if c.Alpha <= 0 || c.Alpha >= 1 {
		return fmt.Errorf(
			"alpha должно лежать в интервале (0,1) (получено %f)",
			c.Alpha,
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
