// Package nanotwin is the structure construction tool: it builds a doped
// FCC/BCC supercell, mirrors it, and merges both halves into a twinned
// structure, writing every intermediate as CIF/XSF (and the final structure
// as CFG too).
package nanotwin

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/latticelab/xtal/config"
	"github.com/latticelab/xtal/database"
	"github.com/latticelab/xtal/lattice"
	"github.com/latticelab/xtal/util"
	"github.com/latticelab/xtal/xtalfile"
)

var (
	latticeType   string
	latticeConst  float64
	host          string
	orientX       string
	orientY       string
	orientZ       string
	nx, ny, nz    int
	majors        string
	majorPercent  float64
	dopant        string
	dopantPercent float64
	axisName      string
	seed          int64
	formatList    string
	outDir        string
	toStore       bool
	quiet         bool
)

func parseHKL(s string) ([3]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return [3]float64{}, fmt.Errorf("orientation direction %q must be three comma-separated integers like 1,1,-2", s)
	}
	var out [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return out, fmt.Errorf("orientation index %q: %w", p, err)
		}
		out[i] = v
	}
	return out, nil
}

func parseAxis(s string) (int, error) {
	switch strings.ToLower(s) {
	case "x":
		return 0, nil
	case "y":
		return 1, nil
	case "z":
		return 2, nil
	}
	return 0, fmt.Errorf("axis must be x, y or z, got %q", s)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func Run(args []string) error {
	defaults := config.GetConfig().Defaults

	fs := flag.NewFlagSet("nanotwin", flag.ContinueOnError)
	fs.StringVar(&latticeType, "lattice", "fcc", "lattice type (fcc or bcc)")
	fs.Float64Var(&latticeConst, "a", defaults.LatticeConstant, "lattice constant in angstroms")
	fs.StringVar(&host, "element", "Ni", "host element of the starting cell")
	fs.StringVar(&orientX, "ox", "1,1,-2", "crystal direction along x")
	fs.StringVar(&orientY, "oy", "1,1,1", "crystal direction along y")
	fs.StringVar(&orientZ, "oz", "-1,1,0", "crystal direction along z")
	fs.IntVar(&nx, "nx", defaults.Nx, "supercell multiplier along x")
	fs.IntVar(&ny, "ny", defaults.Ny, "supercell multiplier along y")
	fs.IntVar(&nz, "nz", defaults.Nz, "supercell multiplier along z")
	fs.StringVar(&majors, "majors", "Fe,Cr,Co", "comma-separated major substitution elements")
	fs.Float64Var(&majorPercent, "m", defaults.MajorPercent, "substitution percentage per major element")
	fs.StringVar(&dopant, "dopant", "Al", "dopant element substituted last (empty to skip)")
	fs.Float64Var(&dopantPercent, "n", defaults.DopantPercent, "dopant substitution percentage")
	fs.StringVar(&axisName, "axis", "y", "twin plane normal axis (x, y or z)")
	fs.Int64Var(&seed, "seed", 0, "random seed for substitutions (0 for a random run)")
	fs.StringVar(&formatList, "formats", "cif,xsf", "output formats for every step")
	fs.StringVar(&outDir, "outdir", "", "write files to this directory (default from config)")
	fs.BoolVar(&toStore, "store", true, "save artifacts to the structure store")
	fs.BoolVar(&quiet, "q", false, "suppress per-step progress output")

	err := fs.Parse(args)
	if err != nil {
		// Error is already printed
		os.Exit(1)
	}

	ox, err := parseHKL(orientX)
	if err != nil {
		return err
	}
	oy, err := parseHKL(orientY)
	if err != nil {
		return err
	}
	oz, err := parseHKL(orientZ)
	if err != nil {
		return err
	}
	axis, err := parseAxis(axisName)
	if err != nil {
		return err
	}
	formats := splitList(formatList)
	if len(formats) == 0 {
		return fmt.Errorf("at least one output format is required")
	}
	for _, f := range formats {
		if _, err := xtalfile.ByName(f); err != nil {
			return err
		}
	}

	opts := Options{
		Lattice:       latticeType,
		A:             latticeConst,
		Host:          host,
		Orientation:   lattice.Mat3{ox, oy, oz},
		Nx:            nx,
		Ny:            ny,
		Nz:            nz,
		Majors:        splitList(majors),
		MajorPercent:  majorPercent,
		Dopant:        dopant,
		DopantPercent: dopantPercent,
		Axis:          axis,
		Seed:          seed,
	}

	report := func(format string, a ...any) {
		if !quiet {
			fmt.Printf(format+"\n", a...)
		}
	}
	steps, err := Build(opts, report)
	if err != nil {
		return err
	}

	return writeSteps(steps, formats)
}

func writeSteps(steps []Step, formats []string) error {
	var store *database.Store
	if toStore {
		var err error
		store, err = database.GetStore()
		if err != nil {
			return err
		}
	}
	dir := outDir
	if dir == "" {
		dir = config.GetConfig().Dirs.Output
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	ctx := database.GetDatabaseContext()
	for _, step := range steps {
		stepFormats := formats
		// The final structure additionally goes out as CFG for the
		// simulation tools
		if step.Final && !contains(formats, "cfg") {
			stepFormats = append(append([]string{}, formats...), "cfg")
		}
		for _, format := range stepFormats {
			f, err := xtalfile.ByName(format)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := f.Encode(&buf, step.Structure, step.Name); err != nil {
				return fmt.Errorf("encoding %s as %s: %w", step.Name, f.Name, err)
			}
			filename := step.Name + f.Ext

			if dir != "" {
				path := filepath.Join(dir, filename)
				if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
					return fmt.Errorf("writing %s: %w", path, err)
				}
			}
			if store != nil {
				digests, _, err := util.DigestReader(bytes.NewReader(buf.Bytes()))
				if err != nil {
					return err
				}
				saved, err := store.Save(ctx, filename, f.Name, buf.Bytes(), digests.SHA256)
				if err != nil {
					return err
				}
				if !quiet {
					fmt.Println("created", saved)
				}
			}
		}
	}
	return nil
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
