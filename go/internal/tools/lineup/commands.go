package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/lineup/go/clients/formation_client"
	"github.com/mcdev12/lineup/go/clients/roster_client"
	"github.com/mcdev12/lineup/go/internal/formation"
	"github.com/mcdev12/lineup/go/internal/formation/persistence"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type options struct {
	apiURL    string
	rosterURL string
	token     string
	timeout   time.Duration
	verbose   bool
	asJSON    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "lineup",
		Short:        "Inspect and edit team formations",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.apiURL, "api-url", envOr("FORMATION_API_URL", "http://localhost:8080"), "formation service base URL")
	flags.StringVar(&opts.rosterURL, "roster-url", os.Getenv("ROSTER_API_URL"), "roster service base URL; empty skips the roster")
	flags.StringVar(&opts.token, "token", os.Getenv("LINEUP_TOKEN"), "bearer token for both services")
	flags.DurationVar(&opts.timeout, "timeout", 30*time.Second, "overall command timeout")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	flags.BoolVar(&opts.asJSON, "json", false, "print the formation as JSON")

	root.AddCommand(
		newShowCmd(opts),
		newInitCmd(opts),
		newPresetCmd(opts),
		newMoveCmd(opts),
		newBenchCmd(opts),
		newSwapCmd(opts),
		newSubCmd(opts),
		newDummyCmd(opts),
		newPresetsCmd(),
	)
	return root
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// session is one engine bound to the remote formation resource
type session struct {
	engine *formation.Engine
	opts   *options
}

func openSession(ctx context.Context, opts *options, rawTeamID string) (*session, error) {
	teamID, err := uuid.Parse(rawTeamID)
	if err != nil {
		return nil, fmt.Errorf("invalid team id %q: %w", rawTeamID, err)
	}

	logger := log.With().Str("team_id", teamID.String()).Logger()
	gateway := persistence.NewGateway(
		formation_client.NewFormationClient(opts.apiURL, opts.token),
		persistence.WithLogger(logger),
	)
	engine := formation.NewEngine(teamID, gateway, formation.WithLogger(logger))

	if err := engine.Init(ctx).Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to load formation: %w", err)
	}

	if opts.rosterURL != "" {
		members, err := roster_client.NewRosterClient(opts.rosterURL, opts.token).GetTeamMembers(ctx, teamID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch roster: %w", err)
		}
		engine.SupplyRoster(members)
	}
	return &session{engine: engine, opts: opts}, nil
}

// finish waits for in-flight saves, persists anything still dirty and prints
// the resulting formation.
func (s *session) finish(ctx context.Context, cmd *cobra.Command) error {
	s.engine.Wait()
	if s.engine.Dirty() {
		if err := s.engine.Save(ctx).Wait(ctx); err != nil {
			return fmt.Errorf("failed to save formation: %w", err)
		}
	}
	return printState(cmd.OutOrStdout(), s.engine.State(), s.opts.asJSON)
}

// runEdit opens a session for args[0], applies edit and reports a no-op edit
// as an error.
func runEdit(opts *options, edit func(e *formation.Engine, args []string) (bool, error)) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
		defer cancel()

		s, err := openSession(ctx, opts, args[0])
		if err != nil {
			return err
		}
		changed, err := edit(s.engine, args[1:])
		if err != nil {
			return err
		}
		if !changed {
			fmt.Fprintln(cmd.ErrOrStderr(), "nothing changed")
		}
		return s.finish(ctx, cmd)
	}
}

func newShowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <team-id>",
		Short: "Print the stored formation of a team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			s, err := openSession(ctx, opts, args[0])
			if err != nil {
				return err
			}
			s.engine.Wait()
			return printState(cmd.OutOrStdout(), s.engine.State(), opts.asJSON)
		},
	}
}

func newInitCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "init <team-id>",
		Short: "Load or bootstrap a formation, apply the roster and save it",
		Args:  cobra.ExactArgs(1),
		RunE: runEdit(opts, func(e *formation.Engine, args []string) (bool, error) {
			return e.Dirty(), nil
		}),
	}
}

func newPresetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "preset <team-id> <preset>",
		Short: "Switch the formation to another preset",
		Args:  cobra.ExactArgs(2),
		RunE: runEdit(opts, func(e *formation.Engine, args []string) (bool, error) {
			before := e.State().PresetName
			if err := e.ChangePreset(args[0]); err != nil {
				return false, err
			}
			return e.State().PresetName != before, nil
		}),
	}
}

func newMoveCmd(opts *options) *cobra.Command {
	var fromBench int
	cmd := &cobra.Command{
		Use:   "move <team-id> <member-or-entry-id> <position-id>",
		Short: "Move an occupant onto a pitch position",
		Args:  cobra.ExactArgs(3),
	}
	cmd.Flags().IntVar(&fromBench, "from-bench", formation.NoBenchIndex, "bench index the occupant is dragged from")
	cmd.RunE = runEdit(opts, func(e *formation.Engine, args []string) (bool, error) {
		origin := originOf(e, args[0])
		if fromBench != formation.NoBenchIndex {
			origin = placement{benchIndex: fromBench}
		}
		return e.MovePlayerToPosition(args[0], args[1], origin.isStarter, origin.positionID, origin.benchIndex), nil
	})
	return cmd
}

func newBenchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "bench <team-id> <member-or-entry-id> <bench-index>",
		Short: "Move an occupant onto a bench index",
		Args:  cobra.ExactArgs(3),
		RunE: runEdit(opts, func(e *formation.Engine, args []string) (bool, error) {
			index, err := strconv.Atoi(args[1])
			if err != nil || index < 0 {
				return false, fmt.Errorf("invalid bench index %q", args[1])
			}
			origin := originOf(e, args[0])
			return e.MovePlayerToSubSlot(args[0], index, origin.isStarter, origin.positionID, origin.benchIndex), nil
		}),
	}
}

func newSwapCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "swap <team-id> <id-a> <id-b>",
		Short: "Exchange two occupants",
		Args:  cobra.ExactArgs(3),
		RunE: runEdit(opts, func(e *formation.Engine, args []string) (bool, error) {
			return e.SwapPlayersInFormation(args[0], args[1]), nil
		}),
	}
}

func newSubCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sub <team-id> <member-id> <position-id>",
		Short: "Send a starter to the bench and leave the position open",
		Args:  cobra.ExactArgs(3),
		RunE: runEdit(opts, func(e *formation.Engine, args []string) (bool, error) {
			return e.MoveStarterToSubsGeneral(args[0], args[1]), nil
		}),
	}
}

func newDummyCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "dummy <team-id>",
		Short: "Replace the whole formation with placeholders",
		Args:  cobra.ExactArgs(1),
		RunE: runEdit(opts, func(e *formation.Engine, args []string) (bool, error) {
			return e.SetDummyPlayers(), nil
		}),
	}
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printPresets(cmd.OutOrStdout())
		},
	}
}

type placement struct {
	isStarter  bool
	positionID string
	benchIndex int
}

// originOf finds where id currently sits, matching starters by member id or
// slot id and bench entries by entry id.
func originOf(e *formation.Engine, id string) placement {
	state := e.State()
	for _, st := range state.Starters {
		if st.ID == id || (st.MemberID != nil && *st.MemberID == id) {
			return placement{isStarter: true, positionID: st.PositionID, benchIndex: formation.NoBenchIndex}
		}
	}
	for i, b := range state.Bench {
		if b.ID == id {
			return placement{benchIndex: i}
		}
	}
	return placement{benchIndex: formation.NoBenchIndex}
}
