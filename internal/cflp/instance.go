package cflp

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

type Instance struct {
	Name       string
	Facilities int
	Clients    int

	Capacities   []int64
	OpeningCosts []float64
	Demands      []int64
	// AssignCosts length must be Clients*Facilities; entry (i, j) is the cost of
	// serving the whole demand of client i from facility j.
	AssignCosts []float64
}

func NewInstance(name string, capacities []int64, openingCosts []float64, demands []int64, assignCosts []float64) (*Instance, error) {
	inst := &Instance{
		Name:         name,
		Facilities:   len(capacities),
		Clients:      len(demands),
		Capacities:   capacities,
		OpeningCosts: openingCosts,
		Demands:      demands,
		AssignCosts:  assignCosts,
	}
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst, nil
}

func (inst *Instance) Validate() error {
	if inst == nil {
		return errors.New("instance is nil")
	}
	if inst.Facilities <= 0 {
		return fmt.Errorf("facilities must be > 0 (got %d)", inst.Facilities)
	}
	if inst.Clients <= 0 {
		return fmt.Errorf("clients must be > 0 (got %d)", inst.Clients)
	}
	if len(inst.Capacities) != inst.Facilities {
		return fmt.Errorf("capacities length must be %d (got %d)", inst.Facilities, len(inst.Capacities))
	}
	if len(inst.OpeningCosts) != inst.Facilities {
		return fmt.Errorf("opening costs length must be %d (got %d)", inst.Facilities, len(inst.OpeningCosts))
	}
	if len(inst.Demands) != inst.Clients {
		return fmt.Errorf("demands length must be %d (got %d)", inst.Clients, len(inst.Demands))
	}
	if len(inst.AssignCosts) != inst.Clients*inst.Facilities {
		return fmt.Errorf("assign costs length must be clients*facilities=%d (got %d)", inst.Clients*inst.Facilities, len(inst.AssignCosts))
	}
	for j, v := range inst.Capacities {
		if v < 0 {
			return fmt.Errorf("capacities[%d] must be >= 0 (got %d)", j, v)
		}
	}
	for j, v := range inst.OpeningCosts {
		if !finite(v) || v < 0 {
			return fmt.Errorf("opening costs[%d] must be finite and >= 0 (got %g)", j, v)
		}
	}
	for i, v := range inst.Demands {
		if v <= 0 {
			return fmt.Errorf("demands[%d] must be > 0 (got %d)", i, v)
		}
	}
	for k, v := range inst.AssignCosts {
		if !finite(v) || v < 0 {
			return fmt.Errorf("assign costs[%d][%d] must be finite and >= 0 (got %g)", k/inst.Facilities, k%inst.Facilities, v)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Cost returns the cost of serving all of client's demand from facility.
func (inst *Instance) Cost(client, facility int) float64 {
	return inst.AssignCosts[client*inst.Facilities+facility]
}

func (inst *Instance) TotalDemand() int64 {
	var sum int64
	for _, d := range inst.Demands {
		sum += d
	}
	return sum
}

func (inst *Instance) TotalCapacity() int64 {
	var sum int64
	for _, c := range inst.Capacities {
		sum += c
	}
	return sum
}

// RandomInstance builds a synthetic instance whose total capacity covers the
// total demand about twice over.
func RandomInstance(name string, facilities, clients int, rng *rand.Rand) *Instance {
	if rng == nil {
		panic("генератор случайных чисел не инициализирован (nil)")
	}
	if facilities <= 0 || clients <= 0 {
		panic("invalid instance size")
	}

	demands := make([]int64, clients)
	var total int64
	for i := range demands {
		demands[i] = 5 + rng.Int63n(46)
		total += demands[i]
	}

	capacities := make([]int64, facilities)
	openingCosts := make([]float64, facilities)
	perFacility := 2*total/int64(facilities) + 1
	for j := range capacities {
		capacities[j] = perFacility/2 + rng.Int63n(perFacility)
		openingCosts[j] = float64(500 + rng.Intn(1500))
	}

	assign := make([]float64, clients*facilities)
	for i := 0; i < clients; i++ {
		for j := 0; j < facilities; j++ {
			assign[i*facilities+j] = float64(demands[i]) * float64(1+rng.Intn(40))
		}
	}

	inst, err := NewInstance(name, capacities, openingCosts, demands, assign)
	if err != nil {
		panic(err)
	}
	return inst
}
