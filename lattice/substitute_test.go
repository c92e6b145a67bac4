package lattice

import (
	"math/rand"
	"testing"
)

func testSupercell(t *testing.T) *Structure {
	t.Helper()
	unit, err := FCC(3.54, "Ni")
	if err != nil {
		t.Fatal(err)
	}
	super, err := unit.Duplicate(5, 5, 5)
	if err != nil {
		t.Fatal(err)
	}
	return super // 500 sites
}

func TestSubstituteRandomCounts(t *testing.T) {
	super := testSupercell(t)
	rng := rand.New(rand.NewSource(42))

	doped, err := super.SubstituteRandom(rng, "Ni", "Fe", 22.22)
	if err != nil {
		t.Fatal(err)
	}
	counts := doped.Counts()
	// floor(500 * 22.22 / 100) = 111
	if counts["Fe"] != 111 {
		t.Errorf("Fe count = %d, want 111", counts["Fe"])
	}
	if counts["Ni"] != 389 {
		t.Errorf("Ni count = %d, want 389", counts["Ni"])
	}
	if doped.NumSites() != super.NumSites() {
		t.Error("substitution changed the site count")
	}
	// Receiver untouched
	if super.Counts()["Ni"] != 500 {
		t.Error("SubstituteRandom mutated its receiver")
	}
}

func TestSubstituteRandomDeterministicWithSeed(t *testing.T) {
	super := testSupercell(t)

	a, err := super.SubstituteRandom(rand.New(rand.NewSource(7)), "Ni", "Al", 11.12)
	if err != nil {
		t.Fatal(err)
	}
	b, err := super.SubstituteRandom(rand.New(rand.NewSource(7)), "Ni", "Al", 11.12)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Species {
		if a.Species[i] != b.Species[i] {
			t.Fatalf("same seed produced different site %d: %s vs %s", i, a.Species[i], b.Species[i])
		}
	}
}

func TestSubstituteRandomInsufficientHosts(t *testing.T) {
	super := testSupercell(t)
	rng := rand.New(rand.NewSource(1))

	// Use up most Ni, then ask for more than remains.
	doped, err := super.SubstituteRandom(rng, "Ni", "Fe", 90)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := doped.SubstituteRandom(rng, "Ni", "Cr", 20); err == nil {
		t.Fatal("expected insufficient-hosts error")
	}
}

func TestSubstituteRandomPercentBounds(t *testing.T) {
	super := testSupercell(t)
	rng := rand.New(rand.NewSource(1))
	if _, err := super.SubstituteRandom(rng, "Ni", "Fe", -1); err == nil {
		t.Error("expected error for negative percent")
	}
	if _, err := super.SubstituteRandom(rng, "Ni", "Fe", 100.5); err == nil {
		t.Error("expected error for percent above 100")
	}
}
