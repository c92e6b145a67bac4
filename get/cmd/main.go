package main

import (
	"os"

	"github.com/latticelab/xtal/get"
	"github.com/latticelab/xtal/util"
)

func main() {
	util.Runner(os.Args[1:], get.Run)
}
