package main

import (
	"os"

	"github.com/latticelab/xtal/convert"
	"github.com/latticelab/xtal/util"
)

func main() {
	util.Runner(os.Args[1:], convert.Run)
}
