// Package main is the entry point for the tokenization-cli application.
// It registers the tokenization, mapping administration and event commands
// on the root command and executes the command-line interface.
package main

import (
	"fmt"
	"os"

	commands "github.com/MGTheTrain/tokenization-service/cmd/tokenization-cli/internal/commands"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	rootCmd, err := commands.NewRootCommand()
	if err != nil {
		return fmt.Errorf("failed to initialize commands: %w", err)
	}

	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}
	return nil
}
