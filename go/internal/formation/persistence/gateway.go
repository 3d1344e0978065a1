package persistence

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/lineup/go/clients"
	"github.com/mcdev12/lineup/go/internal/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Remote defines what the gateway needs from the formation resource
type Remote interface {
	GetFormation(ctx context.Context, teamID uuid.UUID) (*models.FormationDocument, error)
	BootstrapFormation(ctx context.Context, teamID uuid.UUID) (*models.FormationDocument, error)
	PutFormation(ctx context.Context, teamID uuid.UUID, doc models.FormationDocument) error
}

// Gateway runs the load, bootstrap and save protocol against a Remote and
// tracks a load state per team.
type Gateway struct {
	remote Remote
	clock  clockwork.Clock
	logger zerolog.Logger

	mu     sync.Mutex
	states map[uuid.UUID]LoadState
}

// Option configures a Gateway
type Option func(*Gateway)

// WithClock sets the clock used to stamp updated_at
func WithClock(clock clockwork.Clock) Option {
	return func(g *Gateway) {
		g.clock = clock
	}
}

// WithLogger sets the gateway logger
func WithLogger(logger zerolog.Logger) Option {
	return func(g *Gateway) {
		g.logger = logger
	}
}

// NewGateway creates a Gateway over remote
func NewGateway(remote Remote, opts ...Option) *Gateway {
	g := &Gateway{
		remote: remote,
		clock:  clockwork.NewRealClock(),
		logger: log.Logger,
		states: make(map[uuid.UUID]LoadState),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// State returns the load state of a team
func (g *Gateway) State(teamID uuid.UUID) LoadState {
	g.mu.Lock()
	defer g.mu.Unlock()
	if s, ok := g.states[teamID]; ok {
		return s
	}
	return StateIdle
}

func (g *Gateway) transition(teamID uuid.UUID, to LoadState) {
	g.mu.Lock()
	from, ok := g.states[teamID]
	if !ok {
		from = StateIdle
	}
	g.states[teamID] = to
	g.mu.Unlock()

	if !canTransition(from, to) {
		g.logger.Warn().
			Str("team_id", teamID.String()).
			Str("from", string(from)).
			Str("to", string(to)).
			Msg("unexpected formation load transition")
		return
	}
	g.logger.Debug().
		Str("team_id", teamID.String()).
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("formation load transition")
}

// Load fetches the formation of a team. A missing formation is bootstrapped on
// the server; a default the server did not store comes back as SourceTemplate.
// Every other failure is a *LoadError.
func (g *Gateway) Load(ctx context.Context, teamID uuid.UUID) (*LoadResult, error) {
	g.transition(teamID, StateLoading)

	doc, err := g.remote.GetFormation(ctx, teamID)
	if err == nil {
		return g.loaded(teamID, StateLoading, doc, SourceRemote)
	}
	if !errors.Is(err, clients.ErrNotFound) {
		return nil, g.fail(teamID, StateLoading, err)
	}

	g.logger.Info().Str("team_id", teamID.String()).Msg("no formation stored, bootstrapping default")
	g.transition(teamID, StateBootstrapping)

	doc, err = g.remote.BootstrapFormation(ctx, teamID)
	if err != nil {
		return nil, g.fail(teamID, StateBootstrapping, err)
	}
	return g.loaded(teamID, StateBootstrapping, doc, SourceBootstrapped)
}

func (g *Gateway) loaded(teamID uuid.UUID, stage LoadState, doc *models.FormationDocument, source LoadSource) (*LoadResult, error) {
	if doc == nil {
		return nil, g.fail(teamID, stage, fmt.Errorf("empty formation document"))
	}
	if doc.NotSaved {
		source = SourceTemplate
	}
	g.transition(teamID, StateLoaded)
	g.logger.Info().
		Str("team_id", teamID.String()).
		Str("preset", doc.SchemaJSON.Preset).
		Str("source", string(source)).
		Msg("formation loaded")
	return &LoadResult{Document: *doc, Source: source}, nil
}

func (g *Gateway) fail(teamID uuid.UUID, stage LoadState, err error) error {
	g.transition(teamID, StateFailed)
	loadErr := &LoadError{TeamID: teamID, Stage: stage, Err: err}
	g.logger.Error().Err(err).
		Str("team_id", teamID.String()).
		Str("stage", string(stage)).
		Msg("formation load failed")
	return loadErr
}

// Save stores doc as the formation of a team, stamping updated_at. Failures are
// returned as *SaveError and never change any local state.
func (g *Gateway) Save(ctx context.Context, teamID uuid.UUID, doc models.FormationDocument) error {
	now := g.clock.Now().UTC()
	doc.SchemaJSON.UpdatedAt = &now
	doc.NotSaved = false

	if err := g.remote.PutFormation(ctx, teamID, doc); err != nil {
		g.logger.Warn().Err(err).Str("team_id", teamID.String()).Msg("formation save failed")
		return &SaveError{TeamID: teamID, Err: err}
	}

	g.logger.Debug().
		Str("team_id", teamID.String()).
		Str("preset", doc.SchemaJSON.Preset).
		Time("updated_at", now).
		Msg("formation saved")
	return nil
}
