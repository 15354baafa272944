package cli

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/scorebook/internal/engine"
	"github.com/roach88/scorebook/internal/publish"
	"github.com/roach88/scorebook/internal/store"
)

// app is an open database with an engine over it.
type app struct {
	store     *store.Store
	engine    *engine.Engine
	publisher *publish.StreamPublisher
	logger    *slog.Logger
}

// openApp opens the configured database and builds the engine. When
// publishing is enabled the engine sends committed events to Redis.
func openApp(ctx context.Context, opts *RootOptions, cmd *cobra.Command) (*app, error) {
	cfg, err := opts.Config()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load configuration", err)
	}
	logger := opts.Logger(cmd.ErrOrStderr())

	logger.Debug("opening database", "path", cfg.Database.Path)
	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	a := &app{store: st, logger: logger}
	engineOpts := []engine.Option{engine.WithLogger(logger)}
	if cfg.Publish.Enabled {
		client, err := publish.Dial(ctx, cfg.Publish.RedisURL)
		if err != nil {
			st.Close()
			return nil, WrapExitError(ExitCommandError, "failed to connect to redis", err)
		}
		a.publisher = publish.NewStreamPublisher(client, cfg.Publish.StreamPrefix, cfg.Publish.MaxLen)
		engineOpts = append(engineOpts, engine.WithPublisher(a.publisher))
		logger.Info("publishing match events", "prefix", cfg.Publish.StreamPrefix)
	}
	a.engine = engine.New(st, engineOpts...)
	return a, nil
}

func (a *app) Close() error {
	var errs []error
	if a.publisher != nil {
		errs = append(errs, a.publisher.Close())
	}
	errs = append(errs, a.store.Close())
	if err := errors.Join(errs...); err != nil {
		a.logger.Error("error closing", "error", err)
		return err
	}
	return nil
}

// commandContext returns the command's context, or Background when the
// command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
