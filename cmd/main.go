package main

import (
	"os"

	"github.com/coastwise/gcpkit/cmd/gcpkit"
)

func main() {
	if err := gcpkit.Execute(); err != nil {
		os.Exit(1)
	}
}
