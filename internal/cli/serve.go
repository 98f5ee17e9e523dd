package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskboard/internal/app"
	"github.com/runoshun/taskboard/internal/usecase"
)

// newServeCommand creates the serve command.
func newServeCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Addr string
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Run the HTTP API server until interrupted.

The data file is created if it does not exist yet. On SIGINT or SIGTERM the
server stops accepting connections, waits for in-flight requests and then
flushes the task store.

Endpoints:
  GET    /health
  GET    /api/tasks
  POST   /api/tasks
  PATCH  /api/tasks/{id}
  DELETE /api/tasks/{id}

Examples:
  # Listen on the configured address (default :3000)
  taskboard serve

  # Listen on a specific address
  taskboard serve --addr 127.0.0.1:8080

  # Use another data file
  taskboard --data /var/lib/taskboard/data.json serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.Addr != "" {
				c.AppConfig.Server.Addr = opts.Addr
			}

			out, err := c.InitStoreUseCase().Execute(cmd.Context(), usecase.InitStoreInput{
				StorePath: c.Config.StorePath,
			})
			if err != nil {
				return err
			}
			if !out.AlreadyInitialized {
				c.Logger.Info("created task store", "path", out.StorePath)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			serveErr := c.HTTPServer().ListenAndServe(ctx)
			if closeErr := c.Close(); closeErr != nil {
				return errors.Join(serveErr, fmt.Errorf("close: %w", closeErr))
			}
			return serveErr
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "Listen address (overrides [server] addr and PORT)")

	return cmd
}
