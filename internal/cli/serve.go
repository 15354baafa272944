package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/scorebook/internal/api"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr string // overrides server.addr
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scoring API over HTTP",
		Long: `Serve the JSON scoring API, health check and Prometheus metrics.

The database is created if it doesn't exist. When publish.enabled is set,
every committed toss, delivery and result is also appended to a Redis
stream per match.

Example:
  scorebook serve --db ./scorebook.db --addr :8080
  SCOREBOOK_PUBLISH_ENABLED=true SCOREBOOK_PUBLISH_REDIS_URL=redis://localhost:6379/0 scorebook serve`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (default from config)")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	cfg, err := opts.Config()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load configuration", err)
	}
	server := cfg.Server
	if opts.Addr != "" {
		server.Addr = opts.Addr
	}

	// Use the command's context if available (for testing).
	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	a, err := openApp(ctx, opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	go func() {
		select {
		case sig := <-sigChan:
			a.logger.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	handler := api.NewRouter(a.engine, server.CORSOrigins, a.logger)
	fmt.Fprintf(cmd.OutOrStdout(), "Serving scorebook on %s (database %s)\n", server.Addr, cfg.Database.Path)
	fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl-C to stop.")

	if err := api.Serve(ctx, server, handler, a.logger); err != nil && !errors.Is(err, context.Canceled) {
		return WrapExitError(ExitCommandError, "server error", err)
	}

	a.logger.Info("server stopped gracefully")
	return nil
}
