package main

import (
	"os"

	"github.com/cmj0121/bitform"
)

func main() {
	if err := bitform.ParseAndRun(); err != nil {
		os.Exit(1)
	}
}
