package main

import (
	"os"

	"github.com/gzhole/hookguard/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
