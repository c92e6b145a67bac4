// Package convert re-encodes a structure file (from the store or disk) in
// another interchange format.
package convert

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/latticelab/xtal/database"
	"github.com/latticelab/xtal/util"
	"github.com/latticelab/xtal/xtalfile"
)

var (
	inPath  string
	format  string
	output  string
	toStore bool
)

func Run(args []string) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.StringVar(&inPath, "f", "", "read input from this file instead of the store")
	fs.StringVar(&format, "format", "cif", "output format (cif,xsf,cfg)")
	fs.StringVar(&output, "o", "", "output path (default stdout)")
	fs.BoolVar(&toStore, "store", false, "save the converted file to the store")

	err := fs.Parse(args)
	if err != nil {
		// Error is already printed
		os.Exit(1)
	}

	outFormat, err := xtalfile.ByName(format)
	if err != nil {
		return err
	}

	var name string
	var data []byte
	var inExt string
	switch {
	case inPath != "":
		if fs.NArg() != 0 {
			return fmt.Errorf("use either --f or a stored filename, not both")
		}
		data, err = os.ReadFile(inPath)
		if err != nil {
			return err
		}
		name = filepath.Base(inPath)
		inExt = filepath.Ext(inPath)
	case fs.NArg() == 1:
		store, err := database.GetStore()
		if err != nil {
			return err
		}
		artifact, err := store.Get(database.GetDatabaseContext(), fs.Arg(0))
		if err != nil {
			return fmt.Errorf("error getting %s: %w", fs.Arg(0), err)
		}
		data = artifact.Data
		name = artifact.Filename
		inExt = filepath.Ext(artifact.Filename)
	default:
		return fmt.Errorf("provide a stored filename or --f <path>")
	}

	inFormat, err := xtalfile.ByExt(inExt)
	if err != nil {
		return err
	}
	s, err := xtalfile.Decode(bytes.NewReader(data), inFormat.Name)
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", name, err)
	}

	base := strings.TrimSuffix(name, inExt)
	var buf bytes.Buffer
	if err := outFormat.Encode(&buf, s, base); err != nil {
		return fmt.Errorf("error encoding as %s: %w", outFormat.Name, err)
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
			base+outFormat.Ext, outFormat.Name, buf.Bytes(), digests.SHA256)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "created", saved)
	}

	if output != "" {
		return os.WriteFile(output, buf.Bytes(), 0644)
	}
	if !toStore {
		_, err = os.Stdout.Write(buf.Bytes())
		return err
	}
	return nil
}
