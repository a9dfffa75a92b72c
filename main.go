// Package main is the entry point for convex-seed.
// It runs the seed mutation once and exits with the resulting code.
package main

import (
	"os"

	"convexseed/cli/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
