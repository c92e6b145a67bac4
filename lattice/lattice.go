// Package lattice models periodic crystal structures: a cell matrix plus
// sites in fractional coordinates, with the transforms needed to build
// doped and twinned supercells.
package lattice

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Cell is a periodic simulation cell. Rows of M are the lattice vectors
// a, b, c in angstroms.
type Cell struct {
	M Mat3
}

// Cubic returns a cubic cell with edge length a.
func Cubic(a float64) Cell {
	return Cell{M: Mat3{{a, 0, 0}, {0, a, 0}, {0, 0, a}}}
}

func (c Cell) Volume() float64 {
	return math.Abs(c.M.Det())
}

// Lengths returns |a|, |b|, |c|.
func (c Cell) Lengths() Vec3 {
	return Vec3{c.M.Row(0).Norm(), c.M.Row(1).Norm(), c.M.Row(2).Norm()}
}

// Angles returns alpha, beta, gamma in degrees (angles between b^c, a^c, a^b).
func (c Cell) Angles() Vec3 {
	a, b, cc := c.M.Row(0), c.M.Row(1), c.M.Row(2)
	angle := func(u, v Vec3) float64 {
		cos := u.Dot(v) / (u.Norm() * v.Norm())
		// Clamp against rounding before acos
		cos = math.Max(-1, math.Min(1, cos))
		return math.Acos(cos) * 180 / math.Pi
	}
	return Vec3{angle(b, cc), angle(a, cc), angle(a, b)}
}

// Cartesian converts fractional coordinates to angstroms.
func (c Cell) Cartesian(f Vec3) Vec3 {
	return c.M.Row(0).Scale(f[0]).Add(c.M.Row(1).Scale(f[1])).Add(c.M.Row(2).Scale(f[2]))
}

// Fractional converts Cartesian angstrom coordinates back to fractional.
// It fails for a singular (degenerate) cell.
func (c Cell) Fractional(cart Vec3) (Vec3, error) {
	inv, ok := c.M.Transpose().Inverse()
	if !ok {
		return Vec3{}, fmt.Errorf("cell matrix is singular")
	}
	return inv.MulVec(cart), nil
}

// Structure is a cell plus its sites. Species and Frac are parallel slices.
type Structure struct {
	Cell    Cell
	Species []string
	Frac    []Vec3
}

func (s *Structure) NumSites() int {
	return len(s.Species)
}

func (s *Structure) Clone() *Structure {
	out := &Structure{
		Cell:    s.Cell,
		Species: make([]string, len(s.Species)),
		Frac:    make([]Vec3, len(s.Frac)),
	}
	copy(out.Species, s.Species)
	copy(out.Frac, s.Frac)
	return out
}

// FCC returns the 4-site conventional face-centered cubic cell of element.
func FCC(a float64, element string) (*Structure, error) {
	if a <= 0 {
		return nil, fmt.Errorf("lattice constant must be positive, got %g", a)
	}
	return &Structure{
		Cell:    Cubic(a),
		Species: []string{element, element, element, element},
		Frac: []Vec3{
			{0, 0, 0},
			{0.5, 0.5, 0},
			{0.5, 0, 0.5},
			{0, 0.5, 0.5},
		},
	}, nil
}

// BCC returns the 2-site conventional body-centered cubic cell of element.
func BCC(a float64, element string) (*Structure, error) {
	if a <= 0 {
		return nil, fmt.Errorf("lattice constant must be positive, got %g", a)
	}
	return &Structure{
		Cell:    Cubic(a),
		Species: []string{element, element},
		Frac: []Vec3{
			{0, 0, 0},
			{0.5, 0.5, 0.5},
		},
	}, nil
}

// Unit builds a conventional unit cell for the named lattice type
// ("fcc" or "bcc").
func Unit(latticeType string, a float64, element string) (*Structure, error) {
	switch strings.ToLower(latticeType) {
	case "fcc":
		return FCC(a, element)
	case "bcc":
		return BCC(a, element)
	default:
		return nil, fmt.Errorf("unknown lattice type %q (want fcc or bcc)", latticeType)
	}
}

// Orient applies a crystallographic orientation matrix (rows of hkl
// directions): the new cell matrix is m times the old one. Fractional
// coordinates are kept.
func (s *Structure) Orient(m Mat3) (*Structure, error) {
	if math.Abs(m.Det()) < 1e-5 {
		return nil, fmt.Errorf("orientation matrix is singular (determinant near zero)")
	}
	out := s.Clone()
	out.Cell = Cell{M: m.Mul(s.Cell.M)}
	return out, nil
}

// Duplicate replicates the cell nx x ny x nz times into a supercell.
func (s *Structure) Duplicate(nx, ny, nz int) (*Structure, error) {
	if nx < 1 || ny < 1 || nz < 1 {
		return nil, fmt.Errorf("supercell multipliers must be >= 1, got %d %d %d", nx, ny, nz)
	}
	n := [3]float64{float64(nx), float64(ny), float64(nz)}
	var cell Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			cell[i][j] = s.Cell.M[i][j] * n[i]
		}
	}
	out := &Structure{
		Cell:    Cell{M: cell},
		Species: make([]string, 0, s.NumSites()*nx*ny*nz),
		Frac:    make([]Vec3, 0, s.NumSites()*nx*ny*nz),
	}
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			for k := 0; k < nz; k++ {
				for idx, f := range s.Frac {
					out.Species = append(out.Species, s.Species[idx])
					out.Frac = append(out.Frac, Vec3{
						wrap((f[0] + float64(i)) / n[0]),
						wrap((f[1] + float64(j)) / n[1]),
						wrap((f[2] + float64(k)) / n[2]),
					})
				}
			}
		}
	}
	return out, nil
}

// Counts returns the number of sites per species.
func (s *Structure) Counts() map[string]int {
	out := map[string]int{}
	for _, sp := range s.Species {
		out[sp]++
	}
	return out
}

// Formula returns a stable species summary like "Al156 Co311 Ni533".
func (s *Structure) Formula() string {
	counts := s.Counts()
	symbols := make([]string, 0, len(counts))
	for sym := range counts {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)
	parts := make([]string, len(symbols))
	for i, sym := range symbols {
		parts[i] = fmt.Sprintf("%s%d", sym, counts[sym])
	}
	return strings.Join(parts, " ")
}
