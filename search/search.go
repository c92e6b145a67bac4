// Package search lists what the structure store holds.
package search

import (
	"fmt"
	"os"

	"github.com/latticelab/xtal/database"
)

const helpText = `$ search files
<list of all stored structure files>
$ search formats
<list of stored files with format and sha256>`

func Run(args []string) error {
	if len(args) == 0 {
		fmt.Println(helpText)
		return nil
	}

	if args[0] == "files" || args[0] == "formats" {
		store, err := database.GetStore()
		if err != nil {
			return err
		}
		artifacts, err := store.List(database.GetDatabaseContext())
		if err != nil {
			return fmt.Errorf("error listing store: %w", err)
		}
		if len(artifacts) == 0 {
			fmt.Fprintln(os.Stderr, "Store is empty.")
			return nil
		}
		for _, a := range artifacts {
			if args[0] == "files" {
				fmt.Println(a.Filename)
			} else {
				fmt.Printf("%s\t%s\t%s\n", a.Filename, a.Format, a.SHA256)
			}
		}
		return nil
	}

	if args[0] == "--help" || args[0] == "help" || args[0] == "-h" {
		fmt.Println(helpText)
		return nil
	}

	return fmt.Errorf("unknown subcommand")
}
