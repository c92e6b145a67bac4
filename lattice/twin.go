package lattice

import "fmt"

func checkAxis(axis int) error {
	if axis < 0 || axis > 2 {
		return fmt.Errorf("axis must be 0 (x), 1 (y) or 2 (z), got %d", axis)
	}
	return nil
}

// MirrorWrap reflects the structure across the axis origin plane in
// fractional space and wraps the result back into the cell: c' = (-c) mod 1.
func (s *Structure) MirrorWrap(axis int) (*Structure, error) {
	if err := checkAxis(axis); err != nil {
		return nil, err
	}
	out := s.Clone()
	for i := range out.Frac {
		out.Frac[i][axis] = wrap(-out.Frac[i][axis])
	}
	return out, nil
}

// MergeTwin stacks s and other along axis into a cell doubled in that
// direction: s occupies the first half, other the second. With other a
// mirrored copy of s this produces a twin boundary at the interface.
// Both halves must share the cell and site count.
func (s *Structure) MergeTwin(other *Structure, axis int) (*Structure, error) {
	if err := checkAxis(axis); err != nil {
		return nil, err
	}
	if s.Cell != other.Cell {
		return nil, fmt.Errorf("cannot merge structures with different cells")
	}
	if s.NumSites() != other.NumSites() {
		return nil, fmt.Errorf(
			"cannot merge structures with different site counts: %d vs %d",
			s.NumSites(), other.NumSites())
	}
	cell := s.Cell.M
	for j := 0; j < 3; j++ {
		cell[axis][j] *= 2
	}
	out := &Structure{
		Cell:    Cell{M: cell},
		Species: make([]string, 0, 2*s.NumSites()),
		Frac:    make([]Vec3, 0, 2*s.NumSites()),
	}
	for i, f := range s.Frac {
		f[axis] = f[axis] / 2
		out.Species = append(out.Species, s.Species[i])
		out.Frac = append(out.Frac, f)
	}
	for i, f := range other.Frac {
		f[axis] = wrap(f[axis]/2 + 0.5)
		out.Species = append(out.Species, other.Species[i])
		out.Frac = append(out.Frac, f)
	}
	return out, nil
}
