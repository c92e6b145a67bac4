package nanotwin

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/latticelab/xtal/element"
	"github.com/latticelab/xtal/lattice"
)

// Options drives one nanotwin construction: a host unit cell, oriented and
// duplicated into a supercell, doped by random substitution, then mirrored
// and merged into a twinned structure.
type Options struct {
	Lattice     string // fcc or bcc
	A           float64
	Host        string
	Orientation lattice.Mat3
	Nx, Ny, Nz  int

	Majors        []string // substituted into the host at MajorPercent each
	MajorPercent  float64
	Dopant        string // substituted last at DopantPercent
	DopantPercent float64

	Axis int   // twin plane normal: 0=x 1=y 2=z
	Seed int64 // 0 means non-deterministic
}

// Step is one intermediate (or the final) structure of the pipeline.
type Step struct {
	Name      string
	Final     bool
	Structure *lattice.Structure
}

// Validate checks option combinations before any work happens.
func (o Options) Validate() error {
	if o.Host == "" {
		return fmt.Errorf("host element is required")
	}
	symbols := append([]string{o.Host}, o.Majors...)
	if o.Dopant != "" {
		symbols = append(symbols, o.Dopant)
	}
	for _, s := range symbols {
		if !element.Known(s) {
			return fmt.Errorf("unknown element %q", s)
		}
	}
	total := float64(len(o.Majors)) * o.MajorPercent
	if o.Dopant != "" {
		total += o.DopantPercent
	}
	if total > 100 {
		return fmt.Errorf(
			"total substitution percentage %.2f exceeds 100%%, adjust the major and dopant percentages",
			total)
	}
	return nil
}

// Build runs the construction and returns every intermediate structure plus
// the final twinned one. report, if non-nil, receives one line per step.
func Build(opts Options, report func(format string, a ...any)) ([]Step, error) {
	if report == nil {
		report = func(string, ...any) {}
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	if opts.Seed == 0 {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	unit, err := lattice.Unit(opts.Lattice, opts.A, opts.Host)
	if err != nil {
		return nil, err
	}
	oriented, err := unit.Orient(opts.Orientation)
	if err != nil {
		return nil, err
	}
	prefix := strings.ToLower(opts.Host)
	steps := []Step{{Name: prefix + "_unit", Structure: oriented}}
	report("created %s %s unit cell with %d sites", strings.ToUpper(opts.Lattice), opts.Host, oriented.NumSites())

	super, err := oriented.Duplicate(opts.Nx, opts.Ny, opts.Nz)
	if err != nil {
		return nil, err
	}
	steps = append(steps, Step{Name: prefix + "_super", Structure: super})
	report("supercell %dx%dx%d: %s", opts.Nx, opts.Ny, opts.Nz, super.Formula())

	doped := super
	for _, major := range opts.Majors {
		doped, err = doped.SubstituteRandom(rng, opts.Host, major, opts.MajorPercent)
		if err != nil {
			return nil, err
		}
		prefix = strings.ToLower(major) + prefix
		steps = append(steps, Step{Name: prefix + "_super", Structure: doped})
		report("%s substitution: %s", major, doped.Formula())
	}
	if opts.Dopant != "" {
		doped, err = doped.SubstituteRandom(rng, opts.Host, opts.Dopant, opts.DopantPercent)
		if err != nil {
			return nil, err
		}
		prefix = strings.ToLower(opts.Dopant) + prefix
		steps = append(steps, Step{Name: prefix + "_super", Structure: doped})
		report("%s substitution: %s", opts.Dopant, doped.Formula())
	}

	mirrored, err := doped.MirrorWrap(opts.Axis)
	if err != nil {
		return nil, err
	}
	steps = append(steps, Step{Name: prefix + "_mirror", Structure: mirrored})
	report("mirrored across axis %d", opts.Axis)

	twin, err := doped.MergeTwin(mirrored, opts.Axis)
	if err != nil {
		return nil, err
	}
	steps = append(steps, Step{Name: prefix + "_nanotwin", Final: true, Structure: twin})
	report("nanotwin: %s", twin.Formula())

	return steps, nil
}
