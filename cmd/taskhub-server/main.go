// Package main provides the entry point for the TaskHub server.
package main

import (
	"fmt"
	"os"

	"github.com/taskhub-ai/taskhub/cmd/taskhub-server/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
