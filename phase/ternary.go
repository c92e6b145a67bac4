package phase

import "fmt"

// TernaryPoint is one composition projected onto the Al / Co+Cr / Fe+Ni
// ternary diagram. A, B and C are normalized so they sum to 1.
type TernaryPoint struct {
	Name      string  `json:"mpea"`
	Structure string  `json:"structure"`
	A         float64 `json:"al"`
	B         float64 `json:"cocr"`
	C         float64 `json:"feni"`
	Color     float64 `json:"color"`
}

// ColorValue maps a row's phase to the structure color scale the
// visualizers use: 1 for FCC, 0 for BCC, and a linear ramp across the
// duplex window.
func ColorValue(r Row) (float64, error) {
	switch r.Structure {
	case PhaseFCC:
		return 1, nil
	case PhaseBCC:
		return 0, nil
	case PhaseDuplex:
		y, err := r.Y()
		if err != nil {
			return 0, err
		}
		return 1 - (y-0.5)/0.5, nil
	default:
		return 0, fmt.Errorf("unknown structure %q for %s", r.Structure, r.Name)
	}
}

// Ternary projects rows onto the ternary diagram.
func Ternary(rows []Row) ([]TernaryPoint, error) {
	out := make([]TernaryPoint, 0, len(rows))
	for _, r := range rows {
		total := r.XAl + r.XCo + r.XCr + r.XFe + r.XNi
		if total <= 0 {
			return nil, fmt.Errorf("non-positive fraction total for %s", r.Name)
		}
		color, err := ColorValue(r)
		if err != nil {
			return nil, err
		}
		out = append(out, TernaryPoint{
			Name:      r.Name,
			Structure: r.Structure,
			A:         r.XAl / total,
			B:         (r.XCo + r.XCr) / total,
			C:         (r.XFe + r.XNi) / total,
			Color:     color,
		})
	}
	return out, nil
}
