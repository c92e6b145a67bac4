package xtalfile

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/latticelab/xtal/element"
	"github.com/latticelab/xtal/lattice"
)

// EncodeXSF writes the periodic-crystal XSF layout (CRYSTAL / PRIMVEC /
// PRIMCOORD) with Cartesian angstrom coordinates.
func EncodeXSF(w io.Writer, s *lattice.Structure, name string) error {
	bw := bufio.NewWriter(w)
	if name != "" {
		fmt.Fprintf(bw, "# %s\n", name)
	}
	fmt.Fprintln(bw, "CRYSTAL")
	fmt.Fprintln(bw, "PRIMVEC")
	for i := 0; i < 3; i++ {
		row := s.Cell.M.Row(i)
		fmt.Fprintf(bw, "  %14.8f %14.8f %14.8f\n", row[0], row[1], row[2])
	}
	fmt.Fprintln(bw, "PRIMCOORD")
	fmt.Fprintf(bw, "  %d 1\n", s.NumSites())
	for i, f := range s.Frac {
		el, ok := element.Lookup(s.Species[i])
		if !ok {
			return fmt.Errorf("unknown element %q at site %d", s.Species[i], i)
		}
		cart := s.Cell.Cartesian(f)
		fmt.Fprintf(bw, "  %3d %14.8f %14.8f %14.8f\n", el.Number, cart[0], cart[1], cart[2])
	}
	return bw.Flush()
}

// DecodeXSF reads the layout EncodeXSF writes. Atom lines may carry either
// the atomic number or the element symbol.
func DecodeXSF(r io.Reader) (*lattice.Structure, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	next := func() (string, bool) {
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			return line, true
		}
		return "", false
	}

	line, ok := next()
	if !ok || line != "CRYSTAL" {
		return nil, fmt.Errorf("not a periodic XSF file: missing CRYSTAL header")
	}
	line, ok = next()
	if !ok || line != "PRIMVEC" {
		return nil, fmt.Errorf("malformed XSF: missing PRIMVEC")
	}
	var cell lattice.Mat3
	for i := 0; i < 3; i++ {
		line, ok = next()
		if !ok {
			return nil, fmt.Errorf("malformed XSF: truncated PRIMVEC")
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("malformed XSF PRIMVEC row: %q", line)
		}
		for j, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("malformed XSF PRIMVEC value %q: %w", f, err)
			}
			cell[i][j] = v
		}
	}
	line, ok = next()
	if !ok || line != "PRIMCOORD" {
		return nil, fmt.Errorf("malformed XSF: missing PRIMCOORD")
	}
	line, ok = next()
	if !ok {
		return nil, fmt.Errorf("malformed XSF: missing atom count")
	}
	countFields := strings.Fields(line)
	n, err := strconv.Atoi(countFields[0])
	if err != nil || n < 0 {
		return nil, fmt.Errorf("malformed XSF atom count: %q", line)
	}

	s := &lattice.Structure{
		Cell:    lattice.Cell{M: cell},
		Species: make([]string, 0, n),
		Frac:    make([]lattice.Vec3, 0, n),
	}
	for i := 0; i < n; i++ {
		line, ok = next()
		if !ok {
			return nil, fmt.Errorf("malformed XSF: expected %d atoms, got %d", n, i)
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return nil, fmt.Errorf("malformed XSF atom line: %q", line)
		}
		symbol := fields[0]
		if z, err := strconv.Atoi(fields[0]); err == nil {
			el, ok := element.ByNumber(z)
			if !ok {
				return nil, fmt.Errorf("unknown atomic number %d in XSF", z)
			}
			symbol = el.Symbol
		} else if _, ok := element.Lookup(symbol); !ok {
			return nil, fmt.Errorf("unknown element %q in XSF", symbol)
		}
		var cart lattice.Vec3
		for j := 0; j < 3; j++ {
			v, err := strconv.ParseFloat(fields[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("malformed XSF coordinate %q: %w", fields[j+1], err)
			}
			cart[j] = v
		}
		frac, err := s.Cell.Fractional(cart)
		if err != nil {
			return nil, fmt.Errorf("degenerate XSF cell: %w", err)
		}
		s.Species = append(s.Species, symbol)
		s.Frac = append(s.Frac, frac)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return s, nil
}
