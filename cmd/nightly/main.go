// ABOUTME: Entry point for nightly CLI.
// ABOUTME: Invokes the root Cobra command and prints errors in red.
package main

import (
	"os"

	"github.com/fatih/color"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "✗ %v\n", err)
		os.Exit(1)
	}
}
