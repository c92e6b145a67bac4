package main

import (
	"os"

	"github.com/latticelab/xtal/compose"
	"github.com/latticelab/xtal/util"
)

func main() {
	util.Runner(os.Args[1:], compose.Run)
}
