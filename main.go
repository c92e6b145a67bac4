package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/latticelab/xtal/attr"
	"github.com/latticelab/xtal/compose"
	"github.com/latticelab/xtal/convert"
	"github.com/latticelab/xtal/get"
	"github.com/latticelab/xtal/nanotwin"
	"github.com/latticelab/xtal/search"
	"github.com/latticelab/xtal/set"
	"github.com/latticelab/xtal/util"
	"github.com/latticelab/xtal/watch"
	"github.com/latticelab/xtal/webhook"
)

// Main file for all-in-one build

var helpText = `xtal builds doped FCC/BCC supercells and nanotwinned structures.

Commands:
    nanotwin    build a twinned, randomly doped supercell
    compose     generate the AlyCoCrFeNi composition series CSV
    convert     re-encode a structure file in another format
    search      list stored structure files
    get         print, save or delete a stored file
    attr        read attributes of a stored file
    set         set an attribute on a stored file
    watch       ingest structure files dropped into a folder
    webhook     serve the store over HTTP
    version     print version information`

func run(cmd string, args []string) (bool, error) {
	var err error
	switch cmd {
	case "nanotwin":
		err = nanotwin.Run(args)
	case "compose":
		err = compose.Run(args)
	case "convert":
		err = convert.Run(args)
	case "search":
		err = search.Run(args)
	case "get":
		err = get.Run(args)
	case "attr":
		err = attr.Run(args)
	case "set":
		err = set.Run(args)
	case "watch":
		err = watch.Run(args)
	case "webhook":
		err = webhook.Run(args)
	case "version", "--version":
		fmt.Println(util.Version())
	case "-h", "--help", "help":
		fmt.Println(helpText)
	default:
		// Unknown command
		return false, nil
	}
	return true, err
}

func main() {
	if len(os.Args) == 1 {
		fmt.Println(helpText)
		return
	}

	// Try to run command based on binary name
	// Might have been symlinked with different names
	ok, err := run(filepath.Base(os.Args[0]), os.Args[1:])
	if !ok {
		// If that failed, then use the second arg: ./xtal nanotwin ...
		if len(os.Args) == 1 {
			fmt.Fprintln(os.Stderr, "unknown command")
			os.Exit(1)
		}
		ok, err = run(os.Args[1], os.Args[2:])
	}
	if !ok {
		// If that fails too then give up
		fmt.Fprintln(os.Stderr, "unknown command")
		os.Exit(1)
	}

	// Command was run, either successfully or with error
	util.Fatal(err)
}
