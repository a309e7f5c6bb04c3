package main

import (
	"os"

	"github.com/raaihank/pii-sentinel/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
