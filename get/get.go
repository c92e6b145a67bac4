// Package get dumps a stored structure file to stdout or disk, and can
// delete or garbage-collect store entries.
package get

import (
	"flag"
	"fmt"
	"os"

	"github.com/latticelab/xtal/database"
)

var (
	outPath string
	remove  bool
	clean   bool
	clear   bool
)

func Run(args []string) error {
	fs := flag.NewFlagSet("get", flag.ContinueOnError)
	fs.StringVar(&outPath, "o", "", "write artifact to this path instead of stdout")
	fs.BoolVar(&remove, "rm", false, "delete the artifact instead of printing it")
	fs.BoolVar(&clean, "clean", false, "remove store entries with empty data and exit")
	fs.BoolVar(&clear, "clear", false, "remove every store entry and exit")

	err := fs.Parse(args)
	if err != nil {
		// Error is already printed
		os.Exit(1)
	}

	store, err := database.GetStore()
	if err != nil {
		return err
	}
	ctx := database.GetDatabaseContext()

	if clean {
		n, err := store.Clean(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "removed %d empty entries\n", n)
		return nil
	}
	if clear {
		if err := store.Clear(ctx); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "store cleared")
		return nil
	}

	if fs.NArg() != 1 {
		return fmt.Errorf("provide a single stored filename to work with")
	}
	filename := fs.Arg(0)

	if remove {
		if err := store.Delete(ctx, filename); err != nil {
			return fmt.Errorf("error deleting %s: %w", filename, err)
		}
		return nil
	}

	artifact, err := store.Get(ctx, filename)
	if err != nil {
		return fmt.Errorf("error getting %s: %w", filename, err)
	}
	if outPath != "" {
		return os.WriteFile(outPath, artifact.Data, 0644)
	}
	_, err = os.Stdout.Write(artifact.Data)
	return err
}
