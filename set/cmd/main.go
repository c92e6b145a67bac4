package main

import (
	"os"

	"github.com/latticelab/xtal/set"
	"github.com/latticelab/xtal/util"
)

func main() {
	util.Runner(os.Args[1:], set.Run)
}
