// Package attr reads attributes attached to stored structure files.
// Values live in the store CBOR-encoded; output is JSON.
package attr

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"
	"github.com/latticelab/xtal/database"
)

var (
	attr   string
	getAll bool
)

func Run(args []string) error {
	fs := flag.NewFlagSet("attr", flag.ContinueOnError)
	fs.StringVar(&attr, "attr", "", "name of attribute to get")
	fs.BoolVar(&getAll, "all", false, "get all attributes instead of just one")

	err := fs.Parse(args)
	if err != nil {
		// Error is already printed
		os.Exit(1)
	}

	// Validate flags
	if attr == "" && !getAll {
		fs.PrintDefaults()
		return fmt.Errorf("\nprovide attribute name with --attr")
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("provide a single stored filename to work with")
	}
	filename := fs.Arg(0)

	store, err := database.GetStore()
	if err != nil {
		return err
	}
	ctx := database.GetDatabaseContext()

	if getAll {
		attrs, err := store.Attributes(ctx, filename)
		if err != nil {
			return fmt.Errorf("error getting attributes: %w", err)
		}
		decoded := map[string]any{}
		for name, raw := range attrs {
			var v any
			if err := cbor.Unmarshal(raw, &v); err != nil {
				return fmt.Errorf("error decoding attribute %s: %w", name, err)
			}
			decoded[name] = v
		}
		out, err := json.MarshalIndent(decoded, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	raw, err := store.GetAttribute(ctx, filename, attr)
	if err != nil {
		return fmt.Errorf("error getting attribute: %w", err)
	}
	var v any
	if err := cbor.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("error decoding attribute: %w", err)
	}
	out, err := json.Marshal(v)
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
