package formationapi

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/lineup/go/internal/formation"
	"github.com/mcdev12/lineup/go/internal/formation/preset"
	"github.com/mcdev12/lineup/go/internal/models"
	"github.com/rs/zerolog/log"
)

// FormationRepository defines what the app layer needs from storage
type FormationRepository interface {
	GetFormation(ctx context.Context, teamID uuid.UUID) (*models.FormationSchema, error)
	UpsertFormation(ctx context.Context, teamID uuid.UUID, schema models.FormationSchema) (*models.FormationSchema, error)
	CreateFormationIfAbsent(ctx context.Context, teamID uuid.UUID, schema models.FormationSchema) (*models.FormationSchema, bool, error)
}

// Notifier is told about every stored formation
type Notifier interface {
	FormationSaved(ctx context.Context, event FormationEvent) error
}

// App handles formation business logic
type App struct {
	repo      FormationRepository
	catalog   *preset.Catalog
	clock     clockwork.Clock
	notifiers []Notifier
}

// NewApp creates a new formation App
func NewApp(repo FormationRepository, catalog *preset.Catalog, clock clockwork.Clock, notifiers ...Notifier) *App {
	if catalog == nil {
		catalog = preset.Default()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &App{
		repo:      repo,
		catalog:   catalog,
		clock:     clock,
		notifiers: notifiers,
	}
}

// DefaultSchema is the formation a team starts with: the default preset and no
// assignment. Clients fill it with placeholders or a planned roster.
func (a *App) DefaultSchema() models.FormationSchema {
	return models.FormationSchema{
		Preset:   a.catalog.DefaultPreset(),
		Starters: []models.StarterAssignment{},
		Subs:     []models.BenchAssignment{},
	}
}

// GetFormation retrieves the stored formation of a team
func (a *App) GetFormation(ctx context.Context, teamID uuid.UUID) (*models.FormationDocument, error) {
	schema, err := a.repo.GetFormation(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get formation: %w", err)
	}
	return &models.FormationDocument{SchemaJSON: *schema}, nil
}

// PutFormation validates and stores a formation. updated_at is set by the server.
func (a *App) PutFormation(ctx context.Context, teamID uuid.UUID, doc models.FormationDocument) (*models.FormationDocument, error) {
	if err := formation.ValidateDocument(a.catalog, doc.SchemaJSON); err != nil {
		return nil, &ValidationError{Err: err}
	}

	schema := doc.SchemaJSON
	now := a.clock.Now().UTC()
	schema.UpdatedAt = &now

	stored, err := a.repo.UpsertFormation(ctx, teamID, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to store formation: %w", err)
	}

	log.Info().
		Str("team_id", teamID.String()).
		Str("preset", stored.Preset).
		Int("starters", len(stored.Starters)).
		Int("subs", len(stored.Subs)).
		Msg("formation stored")
	a.notify(ctx, teamID, *stored)
	return &models.FormationDocument{SchemaJSON: *stored}, nil
}

// BootstrapFormation creates the default formation of a team unless one exists,
// and returns the stored document. When the write fails the default is returned
// with NotSaved set so the caller can persist it later.
func (a *App) BootstrapFormation(ctx context.Context, teamID uuid.UUID) (*models.FormationDocument, error) {
	schema := a.DefaultSchema()
	now := a.clock.Now().UTC()
	schema.UpdatedAt = &now

	stored, created, err := a.repo.CreateFormationIfAbsent(ctx, teamID, schema)
	if err != nil {
		log.Warn().Err(err).Str("team_id", teamID.String()).Msg("failed to store default formation, returning template")
		schema.UpdatedAt = nil
		return &models.FormationDocument{SchemaJSON: schema, NotSaved: true}, nil
	}

	if created {
		log.Info().Str("team_id", teamID.String()).Str("preset", stored.Preset).Msg("default formation created")
		a.notify(ctx, teamID, *stored)
	}
	return &models.FormationDocument{SchemaJSON: *stored}, nil
}

func (a *App) notify(ctx context.Context, teamID uuid.UUID, schema models.FormationSchema) {
	event := newSavedEvent(teamID, schema, a.clock.Now().UTC())
	for _, n := range a.notifiers {
		if err := n.FormationSaved(ctx, event); err != nil {
			log.Error().Err(err).
				Str("team_id", teamID.String()).
				Str("event_id", event.ID.String()).
				Msg("failed to notify formation change")
		}
	}
}
