package main

import (
	"os"

	"github.com/x100-tools/x100/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
