// Package compose generates the AlyCoCrFeNi composition series as CSV for
// the externally hosted phase visualizers.
package compose

import (
	"bytes"
	"flag"
	"fmt"
	"os"

	"github.com/latticelab/xtal/database"
	"github.com/latticelab/xtal/phase"
	"github.com/latticelab/xtal/util"
)

var (
	deltaY  float64
	outPath string
	toStore bool
)

func Run(args []string) error {
	fs := flag.NewFlagSet("compose", flag.ContinueOnError)
	fs.Float64Var(&deltaY, "delta", 0.05, "step size for the Al stoichiometry sweep")
	fs.StringVar(&outPath, "o", "", "write CSV to this file instead of stdout")
	fs.BoolVar(&toStore, "store", false, "also save the CSV to the structure store")

	err := fs.Parse(args)
	if err != nil {
		// Error is already printed
		os.Exit(1)
	}

	rows, err := phase.Series(deltaY)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := phase.WriteCSV(&buf, rows); err != nil {
		return err
	}

	if toStore {
		store, err := database.GetStore()
		if err != nil {
			return err
		}
		digests, _, err := util.DigestReader(bytes.NewReader(buf.Bytes()))
		if err != nil {
			return err
		}
		saved, err := store.Save(database.GetDatabaseContext(),
			"AlyCoCrFeNi_data.csv", "csv", buf.Bytes(), digests.SHA256)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "created", saved)
	}

	if outPath != "" {
		return os.WriteFile(outPath, buf.Bytes(), 0644)
	}
	_, err = os.Stdout.Write(buf.Bytes())
	return err
}
