// Package main is the scenes command-line player.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/scenes/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
