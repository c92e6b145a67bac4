package main

import (
	"os"

	"github.com/latticelab/xtal/search"
	"github.com/latticelab/xtal/util"
)

func main() {
	util.Runner(os.Args[1:], search.Run)
}
