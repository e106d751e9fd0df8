package cflp

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// symbolicCapacityToken appears instead of a number in the capa/capb/capc files.
const symbolicCapacityToken = "capacity"

type ParseOptions struct {
	Name string
	// SymbolicCapacity replaces the literal "capacity" token.
	SymbolicCapacity int64
}

// SymbolicCapacityFor returns the capacity used by the OR-Library capa/capb
// (8000) and capc (7250) instances.
func SymbolicCapacityFor(path string) int64 {
	if strings.Contains(filepath.Base(path), "capc") {
		return 7250
	}
	return 8000
}

func LoadFile(path string) (*Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	inst, err := Parse(f, ParseOptions{Name: name, SymbolicCapacity: SymbolicCapacityFor(path)})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return inst, nil
}

// Parse reads an OR-Library capacitated warehouse location file:
//
//	m n
//	m × (capacity fixedCost)
//	n × (demand, then m assignment costs)
//
// The file is read as a token stream, so cost rows may wrap over any number of lines.
func Parse(r io.Reader, opts ParseOptions) (*Instance, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	sc.Split(bufio.ScanWords)

	tok := &tokens{sc: sc}

	m, err := tok.int("facility count")
	if err != nil {
		return nil, err
	}
	n, err := tok.int("client count")
	if err != nil {
		return nil, err
	}
	if m <= 0 || n <= 0 {
		return nil, fmt.Errorf("facility and client counts must be > 0 (got %d, %d)", m, n)
	}

	// Slices grow as tokens arrive; header counts alone never size an allocation.
	var (
		capacities   []int64
		openingCosts []float64
	)
	for j := 0; j < m; j++ {
		word, err := tok.next(fmt.Sprintf("capacity of facility %d", j+1))
		if err != nil {
			return nil, err
		}
		var capacity int64
		if word == symbolicCapacityToken {
			if opts.SymbolicCapacity <= 0 {
				return nil, fmt.Errorf("facility %d: symbolic capacity without a configured value", j+1)
			}
			capacity = opts.SymbolicCapacity
		} else if capacity, err = parseInt(word); err != nil {
			return nil, fmt.Errorf("capacity of facility %d: %w", j+1, err)
		}

		cost, err := tok.float(fmt.Sprintf("opening cost of facility %d", j+1))
		if err != nil {
			return nil, err
		}
		capacities = append(capacities, capacity)
		openingCosts = append(openingCosts, cost)
	}

	var (
		demands []int64
		assign  []float64
	)
	for i := 0; i < n; i++ {
		word, err := tok.next(fmt.Sprintf("demand of client %d", i+1))
		if err != nil {
			return nil, err
		}
		demand, err := parseInt(word)
		if err != nil {
			return nil, fmt.Errorf("demand of client %d: %w", i+1, err)
		}
		demands = append(demands, demand)
		for j := 0; j < m; j++ {
			cost, err := tok.float(fmt.Sprintf("cost of client %d at facility %d", i+1, j+1))
			if err != nil {
				return nil, err
			}
			assign = append(assign, cost)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return NewInstance(opts.Name, capacities, openingCosts, demands, assign)
}

type tokens struct {
	sc *bufio.Scanner
}

func (t *tokens) next(what string) (string, error) {
	if !t.sc.Scan() {
		if err := t.sc.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("unexpected end of input reading %s", what)
	}
	return t.sc.Text(), nil
}

func (t *tokens) int(what string) (int, error) {
	word, err := t.next(what)
	if err != nil {
		return 0, err
	}
	v, err := parseInt(word)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", what, err)
	}
	if v > math.MaxInt32 {
		return 0, fmt.Errorf("%s: %d is too large", what, v)
	}
	return int(v), nil
}

func (t *tokens) float(what string) (float64, error) {
	word, err := t.next(what)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(word, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", what, err)
	}
	return v, nil
}

// parseInt accepts integral values written as "7500" or "7500.".
func parseInt(s string) (int64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, fmt.Errorf("%q is not an integer", s)
	}
	if v >= math.MaxInt64 || v < math.MinInt64 {
		return 0, fmt.Errorf("%q is out of range", s)
	}
	return int64(v), nil
}
