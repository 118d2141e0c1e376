// Package main provides the entry point for the conftree CLI.
package main

import (
	"fmt"
	"os"

	"github.com/conftree/conftree/cmd/conftree/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
