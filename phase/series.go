// Package phase generates and validates AlyCoCrFeNi composition data: the
// alloy series with its experimentally reported phase windows, mole
// fractions, and the ternary projection used by the hosted visualizers.
package phase

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Phase labels for the AlyCoCrFeNi system.
const (
	PhaseFCC    = "FCC"
	PhaseDuplex = "FCC+BCC"
	PhaseBCC    = "BCC"
)

// maxY is the upper end of the Al stoichiometry sweep.
const maxY = 1.5

// Row is one alloy composition: Al_y plus equimolar Co, Cr, Fe, Ni.
type Row struct {
	Name      string  // e.g. "Al0.500CoCrFeNi"
	Structure string  // FCC, FCC+BCC or BCC
	XAl       float64 // mole fractions, rounded to 4 decimals
	XNi       float64
	XCr       float64
	XCo       float64
	XFe       float64
}

// Y recovers the Al stoichiometry from the alloy name.
func (r Row) Y() (float64, error) {
	rest, ok := strings.CutPrefix(r.Name, "Al")
	if !ok {
		return 0, fmt.Errorf("invalid alloy name format: %s", r.Name)
	}
	num, _, ok := strings.Cut(rest, "Co")
	if !ok {
		return 0, fmt.Errorf("invalid alloy name format: %s", r.Name)
	}
	y, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid alloy name format: %s", r.Name)
	}
	return y, nil
}

// StructureForY returns the phase window for an Al stoichiometry.
func StructureForY(y float64) string {
	switch {
	case y <= 0.5:
		return PhaseFCC
	case y <= 1.0:
		return PhaseDuplex
	default:
		return PhaseBCC
	}
}

func round4(x float64) float64 {
	return math.Round(x*1e4) / 1e4
}

// Series sweeps y from 0 to 1.5 in steps of deltaY and returns one row per
// composition.
func Series(deltaY float64) ([]Row, error) {
	if deltaY <= 0 || deltaY > maxY {
		return nil, fmt.Errorf("step size must be in (0, %g], got %g", maxY, deltaY)
	}
	var rows []Row
	// y = i*deltaY below 1.51, computed from the index so float error does
	// not accumulate across the sweep and drop the y=1.5 endpoint.
	for i := 0; ; i++ {
		y := float64(i) * deltaY
		if y >= maxY+0.01 {
			break
		}
		xAl := y / (y + 4)
		xOther := (1 - xAl) / 4
		rows = append(rows, Row{
			Name:      fmt.Sprintf("Al%.3fCoCrFeNi", y),
			Structure: StructureForY(y),
			XAl:       round4(xAl),
			XNi:       round4(xOther),
			XCr:       round4(xOther),
			XCo:       round4(xOther),
			XFe:       round4(xOther),
		})
	}
	return rows, nil
}
