// Package cli provides the command-line interface for taskboard.
package cli

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/runoshun/taskboard/internal/app"
)

// Command group IDs.
const (
	groupSetup = "setup"
	groupTask  = "task"
)

// NewRootCommand creates the root command for taskboard.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "taskboard",
		Short: "Task tracking service and CLI",
		Long: `taskboard keeps a list of tasks in a single JSON file and serves
them over a small HTTP API.

Every change goes through one writer, so the API server and the CLI can
share the same data file. Run 'taskboard serve' to start the API or use
the task commands to work with the file directly.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
	}

	// Parsed before the container is built, see GlobalOptions
	addGlobalFlags(root.PersistentFlags(), &app.Options{})

	root.AddGroup(
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
		&cobra.Group{ID: groupTask, Title: "Task Management:"},
	)

	// Setup commands
	initCmd := newInitCommand(c)
	initCmd.GroupID = groupSetup

	serveCmd := newServeCommand(c)
	serveCmd.GroupID = groupSetup

	configCmd := newConfigCommand(c)
	configCmd.GroupID = groupSetup

	// Task commands
	newCmd := newNewCommand(c)
	newCmd.GroupID = groupTask

	listCmd := newListCommand(c)
	listCmd.GroupID = groupTask

	showCmd := newShowCommand(c)
	showCmd.GroupID = groupTask

	editCmd := newEditCommand(c)
	editCmd.GroupID = groupTask

	deleteCmd := newDeleteCommand(c)
	deleteCmd.GroupID = groupTask

	root.AddCommand(
		initCmd,
		serveCmd,
		configCmd,
		newCmd,
		listCmd,
		showCmd,
		editCmd,
		deleteCmd,
	)

	return root
}

// GlobalOptions extracts --config and --data from args so the container can
// be built before the command tree runs. Everything else is left to cobra.
func GlobalOptions(args []string) app.Options {
	var opts app.Options
	fs := pflag.NewFlagSet("taskboard", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.ParseErrorsAllowlist.UnknownFlags = true
	fs.Usage = func() {}
	addGlobalFlags(fs, &opts)
	// Errors such as --help are reported again by cobra
	_ = fs.Parse(args)
	return opts
}

func addGlobalFlags(fs *pflag.FlagSet, opts *app.Options) {
	fs.StringVar(&opts.ConfigPath, "config", "", "Config file (default ./taskboard.toml)")
	fs.StringVar(&opts.DataPath, "data", "", "Task data file (overrides [store] path)")
}
