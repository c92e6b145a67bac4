package element

import "testing"

func TestLookup(t *testing.T) {
	ni, ok := Lookup("Ni")
	if !ok {
		t.Fatal("Ni missing from table")
	}
	if ni.Number != 28 {
		t.Errorf("Ni atomic number = %d, want 28", ni.Number)
	}
	if ni.Mass < 58 || ni.Mass > 59 {
		t.Errorf("Ni mass = %g, outside expected range", ni.Mass)
	}
	if _, ok := Lookup("Xx"); ok {
		t.Error("Lookup accepted an unknown symbol")
	}
}

func TestKnown(t *testing.T) {
	if !Known("Al", "Co", "Cr", "Fe", "Ni") {
		t.Error("HEA elements should all be known")
	}
	if Known("Ni", "Qq") {
		t.Error("Known accepted an unknown symbol")
	}
}
