// Package main is the entry point for the taskboard CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/runoshun/taskboard/internal/app"
	"github.com/runoshun/taskboard/internal/cli"
)

// version is set at build time using -ldflags.
var version = "dev"

var newRootCommand = cli.NewRootCommand

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) (err error) {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	// Create dependency injection container
	container, err := app.New(cwd, cli.GlobalOptions(args))
	if err != nil {
		// Allow help and version output with a broken config
		if canRunWithoutContainer(args) {
			rootCmd := newRootCommand(nil, version)
			rootCmd.SetArgs(args)
			return rootCmd.Execute()
		}
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer func() {
		if closeErr := container.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	// Create and execute root command
	rootCmd := newRootCommand(container, version)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func canRunWithoutContainer(args []string) bool {
	if len(args) == 0 {
		return true
	}
	if args[0] == "help" {
		return true
	}
	for _, arg := range args {
		if arg == "--version" || arg == "--help" || arg == "-h" {
			return true
		}
	}
	return false
}
