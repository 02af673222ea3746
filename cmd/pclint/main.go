package main

import (
	"os"

	"github.com/pclint/pclint/pkg/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
