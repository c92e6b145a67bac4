package xtalfile

import (
	"bufio"
	"fmt"
	"io"

	"github.com/latticelab/xtal/element"
	"github.com/latticelab/xtal/lattice"
)

// EncodeCFG writes the AtomEye extended CFG layout: cell matrix, then
// per-species blocks of mass, symbol and fractional coordinates.
func EncodeCFG(w io.Writer, s *lattice.Structure, name string) error {
	// Group sites by species, preserving first-seen order so the output is
	// stable for a given structure.
	var order []string
	bySpecies := map[string][]lattice.Vec3{}
	for i, sp := range s.Species {
		if _, ok := element.Lookup(sp); !ok {
			return fmt.Errorf("unknown element %q at site %d", sp, i)
		}
		if _, seen := bySpecies[sp]; !seen {
			order = append(order, sp)
		}
		bySpecies[sp] = append(bySpecies[sp], s.Frac[i])
	}

	bw := bufio.NewWriter(w)
	if name != "" {
		fmt.Fprintf(bw, "# %s\n", name)
	}
	fmt.Fprintf(bw, "Number of particles = %d\n", s.NumSites())
	fmt.Fprintln(bw, "A = 1.0 Angstrom (basic length-scale)")
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			fmt.Fprintf(bw, "H0(%d,%d) = %.8f A\n", i+1, j+1, s.Cell.M[i][j])
		}
	}
	fmt.Fprintln(bw, ".NO_VELOCITY.")
	fmt.Fprintln(bw, "entry_count = 3")
	for _, sp := range order {
		el, _ := element.Lookup(sp)
		fmt.Fprintf(bw, "%.4f\n", el.Mass)
		fmt.Fprintln(bw, sp)
		for _, f := range bySpecies[sp] {
			fmt.Fprintf(bw, "%.8f %.8f %.8f\n", f[0], f[1], f[2])
		}
	}
	return bw.Flush()
}
