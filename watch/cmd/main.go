package main

import (
	"os"

	"github.com/latticelab/xtal/util"
	"github.com/latticelab/xtal/watch"
)

func main() {
	util.Runner(os.Args[1:], watch.Run)
}
