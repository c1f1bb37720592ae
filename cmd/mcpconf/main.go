// Package main is the entry point for the mcpconf CLI.
package main

import (
	"os"

	"github.com/thoreinstein/mcpconf/cmd/mcpconf/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(commands.HandleError(os.Stderr, err))
	}
}
