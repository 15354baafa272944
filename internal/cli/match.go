package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/scorebook/internal/render"
	"github.com/roach88/scorebook/internal/scoring"
)

// NewMatchCommand creates the match command and its subcommands.
func NewMatchCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Create and score matches",
		Long: `Create matches, record the toss and each delivery, and abandon
matches that cannot be finished.

Examples:
  scorebook match create --team1 1 --team1-name Lions --team2 2 --team2-name Tigers --overs 20
  scorebook match toss 1 --winner 1 --decision bat
  scorebook match deliver 1 --over 0 --ball 1 --striker 101 --non-striker 102 --bowler 210 --runs 4
  scorebook match show 1
  scorebook match list --status live`,
	}

	cmd.AddCommand(newMatchCreateCommand(rootOpts))
	cmd.AddCommand(newMatchTossCommand(rootOpts))
	cmd.AddCommand(newMatchDeliverCommand(rootOpts))
	cmd.AddCommand(newMatchAbandonCommand(rootOpts))
	cmd.AddCommand(newMatchShowCommand(rootOpts))
	cmd.AddCommand(newMatchListCommand(rootOpts))
	return cmd
}

// CreateOptions holds flags for match create.
type CreateOptions struct {
	*RootOptions
	Team1, Team2         int64
	Team1Name, Team2Name string
	Overs                int
	Venue                string
	Scheduled            string
}

func newMatchCreateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CreateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "create",
		Short:         "Create an upcoming match",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatchCreate(opts, cmd)
		},
	}

	cmd.Flags().Int64Var(&opts.Team1, "team1", 0, "id of the first team (required)")
	cmd.Flags().StringVar(&opts.Team1Name, "team1-name", "", "name of the first team")
	cmd.Flags().Int64Var(&opts.Team2, "team2", 0, "id of the second team (required)")
	cmd.Flags().StringVar(&opts.Team2Name, "team2-name", "", "name of the second team")
	cmd.Flags().IntVar(&opts.Overs, "overs", 20, "overs per innings")
	cmd.Flags().StringVar(&opts.Venue, "venue", "", "ground")
	cmd.Flags().StringVar(&opts.Scheduled, "scheduled", "", "start time, RFC 3339")
	_ = cmd.MarkFlagRequired("team1")
	_ = cmd.MarkFlagRequired("team2")

	return cmd
}

func runMatchCreate(opts *CreateOptions, cmd *cobra.Command) error {
	nm := scoring.NewMatch{
		Team1:      scoring.TeamRef{ID: opts.Team1, Name: opts.Team1Name},
		Team2:      scoring.TeamRef{ID: opts.Team2, Name: opts.Team2Name},
		TotalOvers: opts.Overs,
		Venue:      opts.Venue,
	}
	if opts.Scheduled != "" {
		at, err := time.Parse(time.RFC3339, opts.Scheduled)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid --scheduled", err)
		}
		nm.ScheduledAt = at
	}

	ctx := commandContext(cmd)
	a, err := openApp(ctx, opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	f := formatter(opts.RootOptions, cmd)
	m, err := a.engine.CreateMatch(ctx, nm)
	if err != nil {
		return f.Reject("create match", err)
	}
	return f.Emit(m, render.Match(m)+"\n")
}

// TossOptions holds flags for match toss.
type TossOptions struct {
	*RootOptions
	Winner   int64
	Decision string
}

func newMatchTossCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TossOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "toss <match-id>",
		Short:         "Record the toss",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			matchID, err := parseID(args[0], "match id")
			if err != nil {
				return err
			}
			return runMatchToss(opts, matchID, cmd)
		},
	}

	cmd.Flags().Int64Var(&opts.Winner, "winner", 0, "id of the team that won the toss (required)")
	cmd.Flags().StringVar(&opts.Decision, "decision", "bat", "bat or bowl")
	_ = cmd.MarkFlagRequired("winner")

	return cmd
}

func runMatchToss(opts *TossOptions, matchID int64, cmd *cobra.Command) error {
	ctx := commandContext(cmd)
	a, err := openApp(ctx, opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	f := formatter(opts.RootOptions, cmd)
	m, err := a.engine.RecordToss(ctx, matchID, opts.Winner, scoring.TossDecision(opts.Decision))
	if err != nil {
		return f.Reject("record toss", err)
	}
	return f.Emit(m, render.StatusLine(m)+"\n")
}

// DeliverOptions holds flags for match deliver.
type DeliverOptions struct {
	*RootOptions
	Input     scoring.DeliveryInput
	Dismissal string
}

func newMatchDeliverCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DeliverOptions{RootOptions: rootOpts}
	in := &opts.Input

	cmd := &cobra.Command{
		Use:   "deliver <match-id>",
		Short: "Record one delivery",
		Long: `Record one delivery. The innings, over and ball must be the next
expected position; the over is 0-based and the ball counts legal
deliveries from 1, so a wide is recorded at the ball it replaces.

Examples:
  scorebook match deliver 1 --over 0 --ball 1 --striker 101 --non-striker 102 --bowler 210 --runs 1
  scorebook match deliver 1 --over 0 --ball 2 --striker 102 --non-striker 101 --bowler 210 --extras 1 --extras-type wide
  scorebook match deliver 1 --over 0 --ball 2 --striker 102 --non-striker 101 --bowler 210 \
      --wicket caught --fielder 230 --incoming 103`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			matchID, err := parseID(args[0], "match id")
			if err != nil {
				return err
			}
			return runMatchDeliver(opts, matchID, cmd)
		},
	}

	cmd.Flags().IntVar(&in.Innings, "innings", 1, "innings number, 1 or 2")
	cmd.Flags().IntVar(&in.OverNumber, "over", 0, "over number, from 0")
	cmd.Flags().IntVar(&in.BallNumber, "ball", 1, "ball of the over, from 1")
	cmd.Flags().Int64Var(&in.BatsmanID, "striker", 0, "batter on strike (required)")
	cmd.Flags().Int64Var(&in.NonStrikerID, "non-striker", 0, "batter at the other end (required)")
	cmd.Flags().Int64Var(&in.BowlerID, "bowler", 0, "bowler (required)")
	cmd.Flags().Int64Var(&in.FielderID, "fielder", 0, "catcher, keeper or thrower")
	cmd.Flags().IntVar(&in.RunsScored, "runs", 0, "runs off the bat")
	cmd.Flags().IntVar(&in.Extras, "extras", 0, "extra runs")
	cmd.Flags().StringVar((*string)(&in.ExtrasType), "extras-type", string(scoring.ExtrasNone), "none, wide, no_ball, bye or leg_bye")
	cmd.Flags().StringVar(&opts.Dismissal, "wicket", "", "dismissal type when a batter is out")
	cmd.Flags().Int64Var(&in.PlayerOutID, "out", 0, "batter out (default: the striker)")
	cmd.Flags().Int64Var(&in.IncomingBatsmanID, "incoming", 0, "batter coming in after the wicket")
	_ = cmd.MarkFlagRequired("striker")
	_ = cmd.MarkFlagRequired("non-striker")
	_ = cmd.MarkFlagRequired("bowler")

	return cmd
}

func runMatchDeliver(opts *DeliverOptions, matchID int64, cmd *cobra.Command) error {
	in := opts.Input
	in.DismissalType = scoring.DismissalNone
	if opts.Dismissal != "" {
		in.IsWicket = true
		in.DismissalType = scoring.DismissalType(opts.Dismissal)
	}

	ctx := commandContext(cmd)
	a, err := openApp(ctx, opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	f := formatter(opts.RootOptions, cmd)
	res, err := a.engine.RecordDelivery(ctx, matchID, in)
	if err != nil {
		return f.Reject("record delivery", err)
	}
	f.VerboseLog("delivery %s flow %s", res.Delivery.ID, res.Delivery.FlowToken)
	return f.Emit(res, render.Delivery(res)+"\n")
}

// AbandonOptions holds flags for match abandon.
type AbandonOptions struct {
	*RootOptions
	Reason string
}

func newMatchAbandonCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AbandonOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "abandon <match-id>",
		Short:         "Abandon a match as a no result",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			matchID, err := parseID(args[0], "match id")
			if err != nil {
				return err
			}
			return runMatchAbandon(opts, matchID, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Reason, "reason", "", "why the match was abandoned")

	return cmd
}

func runMatchAbandon(opts *AbandonOptions, matchID int64, cmd *cobra.Command) error {
	ctx := commandContext(cmd)
	a, err := openApp(ctx, opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	f := formatter(opts.RootOptions, cmd)
	m, err := a.engine.AbandonMatch(ctx, matchID, opts.Reason)
	if err != nil {
		return f.Reject("abandon match", err)
	}
	return f.Emit(m, render.Match(m)+"\n")
}

func newMatchShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <match-id>",
		Short:         "Show a match",
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
			m, err := a.engine.GetMatchSnapshot(ctx, matchID)
			if err != nil {
				return f.Reject("show match", err)
			}
			return f.Emit(m, render.Match(m)+"\n")
		},
	}
}

// ListOptions holds flags for match list.
type ListOptions struct {
	*RootOptions
	Status string
}

func newMatchListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List matches",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			a, err := openApp(ctx, opts.RootOptions, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			f := formatter(opts.RootOptions, cmd)
			matches, err := a.engine.ListMatches(ctx, scoring.Status(opts.Status))
			if err != nil {
				return f.Reject("list matches", err)
			}
			if matches == nil {
				matches = []scoring.Match{}
			}
			return f.Emit(matches, render.MatchList(matches)+"\n")
		},
	}

	cmd.Flags().StringVar(&opts.Status, "status", "", "only matches with this status")

	return cmd
}

func formatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

func parseID(arg, what string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("invalid %s %q", what, arg))
	}
	return id, nil
}
