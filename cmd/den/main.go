// Package main is the entry point for the den CLI.
package main

import (
	"fmt"
	"os"

	"github.com/den-cli/den/internal/app"
	"github.com/den-cli/den/internal/cli"
)

// version is set at build time using -ldflags.
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	// Create dependency injection container
	container, err := app.New(app.Options{Debug: hasDebugFlag(args)})
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer func() { _ = container.Close() }()

	// Create and execute root command
	rootCmd := cli.NewRootCommand(container, version)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// hasDebugFlag reports whether --debug appears before any "--" terminator.
// The logger is built before cobra parses flags.
func hasDebugFlag(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "--":
			return false
		case "--debug", "--debug=true":
			return true
		}
	}
	return false
}
