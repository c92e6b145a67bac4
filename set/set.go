// Package set attaches an attribute to a stored structure file.
package set

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"
	"github.com/latticelab/xtal/database"
)

var (
	attr      string
	strInput  string
	jsonInput string
)

func Run(args []string) error {
	fs := flag.NewFlagSet("set", flag.ContinueOnError)
	fs.StringVar(&attr, "attr", "", "name of attribute to set")
	fs.StringVar(&strInput, "str", "", "string to set as value")
	fs.StringVar(&jsonInput, "json", "", "JSON string to decode and set as value")

	err := fs.Parse(args)
	if err != nil {
		// Error is already printed
		os.Exit(1)
	}

	// Validate flags
	if attr == "" {
		fs.PrintDefaults()
		return fmt.Errorf("\nprovide attribute name with --attr")
	}
	if strInput != "" && jsonInput != "" {
		fs.PrintDefaults()
		return fmt.Errorf("\nonly one of --str and --json are allowed")
	}
	if strInput == "" && jsonInput == "" {
		fs.PrintDefaults()
		return fmt.Errorf("\none of --str or --json must be set")
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("provide a single stored filename to work with")
	}
	filename := fs.Arg(0)

	var val any
	if strInput != "" {
		val = strInput
	} else {
		err := json.Unmarshal([]byte(jsonInput), &val)
		if err != nil {
			return fmt.Errorf("error parsing --json string: %w", err)
		}
	}
	raw, err := cbor.Marshal(val)
	if err != nil {
		return fmt.Errorf("error encoding value: %w", err)
	}

	store, err := database.GetStore()
	if err != nil {
		return err
	}
	err = store.SetAttribute(database.GetDatabaseContext(), filename, attr, raw)
	if err != nil {
		return fmt.Errorf("error setting attribute: %w", err)
	}

	return nil
}
