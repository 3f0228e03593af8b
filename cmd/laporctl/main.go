package main

import (
	"os"

	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/cli"
)

var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
