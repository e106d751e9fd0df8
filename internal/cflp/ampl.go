package cflp

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// WriteAMPL serializes the instance as an AMPL data file with the parameters
// cli, loc, FC, ICap, dem and TC (1-based indices).
func (inst *Instance) WriteAMPL(w io.Writer) error {
	if err := inst.Validate(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "param cli := %d;\n", inst.Clients)
	fmt.Fprintf(bw, "param loc := %d;\n", inst.Facilities)
	writeVector(bw, "FC", len(inst.OpeningCosts), func(j int) string { return ftoa(inst.OpeningCosts[j]) })
	writeVector(bw, "ICap", len(inst.Capacities), func(j int) string { return strconv.FormatInt(inst.Capacities[j], 10) })
	writeVector(bw, "dem", len(inst.Demands), func(i int) string { return strconv.FormatInt(inst.Demands[i], 10) })

	cols := make([]string, inst.Facilities)
	for j := range cols {
		cols[j] = strconv.Itoa(j + 1)
	}
	fmt.Fprintf(bw, "param TC : %s :=\n\n", strings.Join(cols, "\t"))
	row := make([]string, inst.Facilities)
	for i := 0; i < inst.Clients; i++ {
		for j := range row {
			row[j] = ftoa(inst.Cost(i, j))
		}
		fmt.Fprintf(bw, "%d\t%s", i+1, strings.Join(row, "\t"))
		if i != inst.Clients-1 {
			bw.WriteByte('\n')
		}
	}
	bw.WriteString(";\n")

	return bw.Flush()
}

// SaveAMPL writes the data file to dir/<name>.dat and returns its path.
func (inst *Instance) SaveAMPL(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := inst.Name
	if name == "" {
		name = "instance"
	}
	path := filepath.Join(dir, name+".dat")

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := inst.WriteAMPL(f); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}

func writeVector(w *bufio.Writer, name string, n int, value func(int) string) {
	parts := make([]string, n)
	for k := range parts {
		parts[k] = strconv.Itoa(k+1) + " " + value(k)
	}
	fmt.Fprintf(w, "param %s := %s;\n", name, strings.Join(parts, "\t"))
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
