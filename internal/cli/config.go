package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskboard/internal/app"
	"github.com/runoshun/taskboard/internal/domain"
	"github.com/runoshun/taskboard/internal/infra/config"
)

// newConfigCommand creates the config command.
// Without a subcommand it behaves like "config show".
func newConfigCommand(c *app.Container) *cobra.Command {
	show := newConfigShowCommand(c)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Manage taskboard configuration files and settings.

Configuration is merged in this order, later sources winning:
  1. Built-in defaults
  2. Global config ($XDG_CONFIG_HOME/taskboard/config.toml)
  3. Local config (./taskboard.toml or --config)
  4. Environment (PORT, FRONTEND_ORIGIN, TASKBOARD_DATA, TASKBOARD_LOG_LEVEL)
  5. Command-line flags`,
		Args: cobra.NoArgs,
		RunE: show.RunE,
	}

	cmd.AddCommand(show)
	cmd.AddCommand(newConfigInitCommand(c))

	return cmd
}

// newConfigShowCommand creates the config show subcommand.
func newConfigShowCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display effective configuration",
		Long: `Display which config files were found, any problems found in them and
the effective configuration after merging all sources.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()

			if c.ConfigManager != nil {
				_, _ = fmt.Fprintln(w, "[Loaded from]")
				printConfigSource(w, c.ConfigManager.GetGlobalConfigInfo())
				printConfigSource(w, c.ConfigManager.GetLocalConfigInfo())
				_, _ = fmt.Fprintln(w)
			}

			if c.ConfigLoader != nil {
				cfg, err := c.ConfigLoader.Load()
				if err != nil {
					return err
				}
				if len(cfg.Warnings) > 0 {
					_, _ = fmt.Fprintln(w, "[Warnings]")
					for _, warning := range cfg.Warnings {
						_, _ = fmt.Fprintf(w, "- %s\n", warning)
					}
					_, _ = fmt.Fprintln(w)
				}
			}

			_, _ = fmt.Fprintln(w, "[Effective Config]")
			content, err := config.Render(c.AppConfig)
			if err != nil {
				return err
			}
			_, _ = w.Write(content)
			return nil
		},
	}
}

func printConfigSource(w io.Writer, info domain.ConfigInfo) {
	if info.Path == "" {
		return
	}
	if info.Exists {
		_, _ = fmt.Fprintf(w, "- %s\n", info.Path)
		return
	}
	_, _ = fmt.Fprintf(w, "- %s (not found)\n", info.Path)
}

// newConfigInitCommand creates the config init subcommand.
func newConfigInitCommand(c *app.Container) *cobra.Command {
	var global bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Long: `Write a config file holding the default settings.

By default the local ./taskboard.toml (or the --config path) is written.
Use --global to write the global config instead. Existing files are never
overwritten.

Examples:
  # Create ./taskboard.toml
  taskboard config init

  # Create the global config
  taskboard config init --global`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if c.ConfigManager == nil {
				return fmt.Errorf("config manager not available")
			}

			defaults := domain.NewDefaultConfig()
			info := c.ConfigManager.GetLocalConfigInfo()
			initFn := c.ConfigManager.InitLocalConfig
			if global {
				info = c.ConfigManager.GetGlobalConfigInfo()
				initFn = c.ConfigManager.InitGlobalConfig
			}

			if err := initFn(defaults); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created config file: %s\n", info.Path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&global, "global", false, "Write the global config file")

	return cmd
}
