// Package main is the entry point for the pleme-health service.
package main

import (
	"fmt"
	"os"

	"github.com/pleme-io/pleme-health/cmd/pleme-health/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
