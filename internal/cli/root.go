package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/scorebook/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	Database   string // overrides database.path
	ConfigPath string

	cfg    *config.Config
	logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the scorebook CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "scorebook",
		Short: "Scorebook - live cricket scoring",
		Long: `A ball-by-ball cricket scoring engine.

Deliveries are recorded against a durable ledger; innings, partnerships,
player figures and career statistics follow from it and can be rebuilt
from it at any time.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if _, err := opts.Config(); err != nil {
				return WrapExitError(ExitCommandError, "failed to load configuration", err)
			}
			slog.SetDefault(opts.Logger(cmd.ErrOrStderr()))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (default from config)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to scorebook.yaml")

	cmd.AddCommand(NewMatchCommand(opts))
	cmd.AddCommand(NewScorecardCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewReplayCommand(opts))
	cmd.AddCommand(NewAuditCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// Config loads the configuration once. The --db flag wins over the file
// and the environment.
func (o *RootOptions) Config() (*config.Config, error) {
	if o.cfg != nil {
		return o.cfg, nil
	}
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, err
	}
	if o.Database != "" {
		cfg.Database.Path = o.Database
	}
	o.cfg = cfg
	return cfg, nil
}

// Logger builds the process logger from the logging section: text or JSON
// on w, at the configured level, or Debug with --verbose.
func (o *RootOptions) Logger(w io.Writer) *slog.Logger {
	if o.logger != nil {
		return o.logger
	}
	logging := config.Default().Logging
	if o.cfg != nil {
		logging = o.cfg.Logging
	}
	level, err := logging.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	if o.Verbose {
		level = slog.LevelDebug
	}

	hopts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(w, hopts)
	if logging.Format == "json" {
		handler = slog.NewJSONHandler(w, hopts)
	}
	o.logger = slog.New(handler)
	return o.logger
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
