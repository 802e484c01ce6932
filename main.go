package main

import (
	"os"

	"github.com/rtzll/tldl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
