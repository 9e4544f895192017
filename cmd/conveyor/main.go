package main

import (
	"os"

	"github.com/conveyor/conveyor/pkg/cli"
)

const version = "0.1.0"

func main() {
	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}
