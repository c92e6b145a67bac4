package lattice

import (
	"math"
	"testing"
)

func TestMirrorWrap(t *testing.T) {
	s := &Structure{
		Cell:    Cubic(3.54),
		Species: []string{"Ni", "Fe"},
		Frac:    []Vec3{{0.25, 0.3, 0.1}, {0, 0.9, 0.5}},
	}
	mirrored, err := s.MirrorWrap(1)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(mirrored.Frac[0][1], 0.7) {
		t.Errorf("mirrored y = %g, want 0.7", mirrored.Frac[0][1])
	}
	// -0.9 wraps to 0.1; the zero edge stays put... second site y=0.9 -> 0.1
	if !almostEqual(mirrored.Frac[1][1], 0.1) {
		t.Errorf("mirrored y = %g, want 0.1", mirrored.Frac[1][1])
	}
	// Non-mirrored axes untouched
	if !almostEqual(mirrored.Frac[0][0], 0.25) || !almostEqual(mirrored.Frac[0][2], 0.1) {
		t.Error("mirror touched non-mirrored axes")
	}
	// Site at the origin plane stays in [0,1)
	if mirrored.Frac[1][0] != 0 {
		t.Errorf("origin-plane site moved to %g", mirrored.Frac[1][0])
	}
	if _, err := s.MirrorWrap(3); err == nil {
		t.Error("expected error for invalid axis")
	}
}

func TestMergeTwin(t *testing.T) {
	s := &Structure{
		Cell:    Cubic(3.54),
		Species: []string{"Ni", "Al"},
		Frac:    []Vec3{{0.1, 0.2, 0.3}, {0.4, 0.6, 0.8}},
	}
	mirrored, err := s.MirrorWrap(1)
	if err != nil {
		t.Fatal(err)
	}
	twin, err := s.MergeTwin(mirrored, 1)
	if err != nil {
		t.Fatal(err)
	}
	if twin.NumSites() != 4 {
		t.Fatalf("twin has %d sites, want 4", twin.NumSites())
	}
	// Cell doubled along y only
	lengths := twin.Cell.Lengths()
	if !almostEqual(lengths[0], 3.54) || !almostEqual(lengths[1], 7.08) || !almostEqual(lengths[2], 3.54) {
		t.Errorf("unexpected twin cell lengths %v", lengths)
	}
	// First half compressed into [0, 0.5)
	for i := 0; i < 2; i++ {
		if twin.Frac[i][1] >= 0.5 {
			t.Errorf("base site %d outside first half: y=%g", i, twin.Frac[i][1])
		}
	}
	// Second half shifted into [0.5, 1)
	for i := 2; i < 4; i++ {
		if twin.Frac[i][1] < 0.5 || twin.Frac[i][1] >= 1 {
			t.Errorf("mirrored site %d outside second half: y=%g", i, twin.Frac[i][1])
		}
	}
	if got := twin.Counts(); got["Ni"] != 2 || got["Al"] != 2 {
		t.Errorf("unexpected twin species counts %v", got)
	}
}

func TestMergeTwinMismatch(t *testing.T) {
	a := &Structure{Cell: Cubic(3.54), Species: []string{"Ni"}, Frac: []Vec3{{0, 0, 0}}}
	b := &Structure{Cell: Cubic(2.87), Species: []string{"Ni"}, Frac: []Vec3{{0, 0, 0}}}
	if _, err := a.MergeTwin(b, 1); err == nil {
		t.Error("expected error for mismatched cells")
	}
	c := &Structure{
		Cell:    Cubic(3.54),
		Species: []string{"Ni", "Ni"},
		Frac:    []Vec3{{0, 0, 0}, {0.5, 0.5, 0.5}},
	}
	if _, err := a.MergeTwin(c, 1); err == nil {
		t.Error("expected error for mismatched site counts")
	}
}

func TestWrapBoundary(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0, 0},
		{1, 0},
		{-0.25, 0.75},
		{1.25, 0.25},
		{-1, 0},
	}
	for _, c := range cases {
		if got := wrap(c.in); math.Abs(got-c.want) > 1e-12 {
			t.Errorf("wrap(%g) = %g, want %g", c.in, got, c.want)
		}
	}
}
