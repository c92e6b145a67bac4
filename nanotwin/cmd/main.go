package main

import (
	"os"

	"github.com/latticelab/xtal/nanotwin"
	"github.com/latticelab/xtal/util"
)

func main() {
	util.Runner(os.Args[1:], nanotwin.Run)
}
