package lattice

import (
	"fmt"
	"math/rand"
)

// SubstituteRandom replaces percent% of the structure's total sites,
// drawn uniformly without replacement from sites currently holding from,
// with to. The count is floor(total * percent / 100).
//
// An error is returned when fewer from sites remain than the substitution
// requires, so chained dopings fail loudly instead of silently under-doping.
func (s *Structure) SubstituteRandom(rng *rand.Rand, from, to string, percent float64) (*Structure, error) {
	if percent < 0 || percent > 100 {
		return nil, fmt.Errorf("substitution percentage must be in [0, 100], got %g", percent)
	}
	want := int(float64(s.NumSites()) * percent / 100)
	var hosts []int
	for i, sp := range s.Species {
		if sp == from {
			hosts = append(hosts, i)
		}
	}
	if len(hosts) < want {
		return nil, fmt.Errorf(
			"insufficient %s sites for %s substitution: required %d, available %d",
			from, to, want, len(hosts))
	}
	out := s.Clone()
	for _, pick := range rng.Perm(len(hosts))[:want] {
		out.Species[hosts[pick]] = to
	}
	return out, nil
}
