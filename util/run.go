package util

import (
	"fmt"
	"os"
	"time"

	"github.com/carlmjohnson/versioninfo"
)

type RunFunc func([]string) error

// Fatal kills the program if the provided err is not nil, logging it as well.
func Fatal(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// Die kills the program after logging the provided message.
func Die(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}

func Version() string {
	return fmt.Sprintf(
		"Version:     %s\nCommit time: %s (%s ago)",
		versioninfo.Short(),
		versioninfo.LastCommit.Local().Format(time.DateTime),
		time.Since(versioninfo.LastCommit).Truncate(time.Second).String(),
	)
}

// Runner runs your command and does pre/post processing.
// args should not contain the name of the command/binary.
func Runner(args []string, run RunFunc) {
	if len(args) > 0 && (args[0] == "version" || args[0] == "--version") {
		fmt.Println(Version())
		return
	}
	Fatal(run(args))
}
