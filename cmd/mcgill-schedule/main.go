package main

import (
	"os"

	"github.com/Kreger51/mcgill-schedule/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
