package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/scorebook/internal/render"
)

// NewScorecardCommand creates the scorecard command.
func NewScorecardCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "scorecard <match-id>",
		Short: "Print the full scorecard of a match",
		Long: `Print the batting, bowling and partnership tables of every innings
played so far, with the result and player of the match once decided.

Examples:
  scorebook scorecard 1
  scorebook scorecard 1 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			matchID, err := parseID(args[0], "match id")
			if err != nil {
				return err
			}

			ctx := commandContext(cmd)
			a, err := openApp(ctx, rootOpts, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			f := formatter(rootOpts, cmd)
			sc, err := a.engine.GetScorecard(ctx, matchID)
			if err != nil {
				return f.Reject("scorecard", err)
			}
			return f.Emit(sc, render.Scorecard(sc)+"\n")
		},
	}
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <player-id>",
		Short: "Print a player's career statistics",
		Long: `Print a player's career batting, bowling and fielding record over
every completed or abandoned match.

Examples:
  scorebook stats 101
  scorebook stats 101 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			playerID, err := parseID(args[0], "player id")
			if err != nil {
				return err
			}

			ctx := commandContext(cmd)
			a, err := openApp(ctx, rootOpts, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			f := formatter(rootOpts, cmd)
			s, err := a.engine.GetPlayerStats(ctx, playerID)
			if err != nil {
				return f.Reject("player stats", err)
			}
			return f.Emit(s, render.PlayerStats(s)+"\n")
		},
	}
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "replay <match-id>",
		Short: "Rebuild a match from its ledger and verify it",
		Long: `Rebuild a match from its toss and delivery ledger and compare the
result with the committed innings, partnerships and player figures.

Exit codes:
  0 - The committed state follows from the ledger
  1 - Differences detected
  2 - Command error (database not found, etc.)

Examples:
  scorebook replay 1
  scorebook replay 1 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			matchID, err := parseID(args[0], "match id")
			if err != nil {
				return err
			}

			ctx := commandContext(cmd)
			a, err := openApp(ctx, rootOpts, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			f := formatter(rootOpts, cmd)
			rep, err := a.engine.ReplayMatch(ctx, matchID)
			if err != nil {
				return f.Reject("replay", err)
			}

			if f.Format == "json" {
				response := CLIResponse{Status: "ok", Data: rep}
				if !rep.Consistent {
					response.Status = "error"
					response.Error = &CLIError{
						Code:    "E_REPLAY",
						Message: "replay found differences",
						MatchID: matchID,
					}
				}
				if err := writeJSON(f.Writer, response); err != nil {
					return err
				}
			} else if err := f.Emit(rep, render.Replay(rep)); err != nil {
				return err
			}

			if !rep.Consistent {
				return NewExitError(ExitFailure, "replay found differences")
			}
			return nil
		},
	}
}

// NewAuditCommand creates the audit command.
func NewAuditCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "audit <flow-token>",
		Short: "List the deliveries one request wrote",
		Long: `List the ledger entries written under a flow token. Every recorded
delivery carries the token of the request that wrote it.

Examples:
  scorebook audit 0190f3c2-7d41-7c2e-9a51-3b6f1d2e4a10
  scorebook audit 0190f3c2-7d41-7c2e-9a51-3b6f1d2e4a10 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			a, err := openApp(ctx, rootOpts, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			f := formatter(rootOpts, cmd)
			deliveries, err := a.engine.FlowDeliveries(ctx, args[0])
			if err != nil {
				return f.Reject("audit", err)
			}
			return f.Emit(deliveries, render.Flow(args[0], deliveries))
		},
	}
}
