package xtalfile

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/latticelab/xtal/element"
	"github.com/latticelab/xtal/lattice"
)

// EncodeCIF writes a P1 CIF with fractional coordinates.
func EncodeCIF(w io.Writer, s *lattice.Structure, name string) error {
	for i, sp := range s.Species {
		if _, ok := element.Lookup(sp); !ok {
			return fmt.Errorf("unknown element %q at site %d", sp, i)
		}
	}
	if name == "" {
		name = "structure"
	}
	bw := bufio.NewWriter(w)
	lengths := s.Cell.Lengths()
	angles := s.Cell.Angles()

	fmt.Fprintf(bw, "data_%s\n", sanitizeDataName(name))
	fmt.Fprintln(bw, "_symmetry_space_group_name_H-M   'P 1'")
	fmt.Fprintf(bw, "_cell_length_a   %.8f\n", lengths[0])
	fmt.Fprintf(bw, "_cell_length_b   %.8f\n", lengths[1])
	fmt.Fprintf(bw, "_cell_length_c   %.8f\n", lengths[2])
	fmt.Fprintf(bw, "_cell_angle_alpha   %.8f\n", angles[0])
	fmt.Fprintf(bw, "_cell_angle_beta   %.8f\n", angles[1])
	fmt.Fprintf(bw, "_cell_angle_gamma   %.8f\n", angles[2])
	fmt.Fprintln(bw, "_symmetry_Int_Tables_number   1")
	fmt.Fprintf(bw, "_chemical_formula_structural   %s\n", strings.ReplaceAll(s.Formula(), " ", ""))
	fmt.Fprintf(bw, "_cell_volume   %.8f\n", s.Cell.Volume())
	fmt.Fprintf(bw, "_cell_formula_units_Z   1\n")
	fmt.Fprintln(bw, "loop_")
	fmt.Fprintln(bw, " _symmetry_equiv_pos_site_id")
	fmt.Fprintln(bw, " _symmetry_equiv_pos_as_xyz")
	fmt.Fprintln(bw, "  1  'x, y, z'")
	fmt.Fprintln(bw, "loop_")
	fmt.Fprintln(bw, " _atom_site_type_symbol")
	fmt.Fprintln(bw, " _atom_site_label")
	fmt.Fprintln(bw, " _atom_site_occupancy")
	fmt.Fprintln(bw, " _atom_site_fract_x")
	fmt.Fprintln(bw, " _atom_site_fract_y")
	fmt.Fprintln(bw, " _atom_site_fract_z")
	for i, f := range s.Frac {
		fmt.Fprintf(bw, "  %-2s  %s%d  1  %.8f  %.8f  %.8f\n",
			s.Species[i], s.Species[i], i, f[0], f[1], f[2])
	}
	return bw.Flush()
}

func sanitizeDataName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '_', r == '-', r == '.':
			return r
		default:
			return '_'
		}
	}, name)
}
