package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/latticelab/xtal/util"
	"github.com/latticelab/xtal/webhook"
)

func main() {
	util.Fatal(webhook.Run(os.Args[1:]))
}
