package main

import (
	"os"

	"github.com/latticelab/xtal/attr"
	"github.com/latticelab/xtal/util"
)

func main() {
	util.Runner(os.Args[1:], attr.Run)
}
