package formation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/lineup/go/internal/formation/persistence"
	"github.com/mcdev12/lineup/go/internal/formation/preset"
	"github.com/mcdev12/lineup/go/internal/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultSaveTimeout bounds a single save request
const DefaultSaveTimeout = 10 * time.Second

// Gateway defines what the engine needs from the persistence layer
type Gateway interface {
	Load(ctx context.Context, teamID uuid.UUID) (*persistence.LoadResult, error)
	Save(ctx context.Context, teamID uuid.UUID, doc models.FormationDocument) error
}

type initPhase int

const (
	phaseNotStarted initPhase = iota
	phaseLoading
	phaseReady
)

// Engine is the formation editor surface for one team. Mutations are applied
// synchronously under a lock; every effective mutation marks the state dirty and
// starts an asynchronous save of the state at that moment.
type Engine struct {
	teamID      uuid.UUID
	gateway     Gateway
	planner     *Planner
	catalog     *preset.Catalog
	benchSize   int
	saveTimeout time.Duration
	logger      zerolog.Logger

	mu            sync.Mutex
	store         *Store
	phase         initPhase
	initTask      *Task
	dirty         bool
	revision      uint64
	lastErr       error
	// detached is set after a failed load; only an explicit Save writes until
	// one succeeds
	detached      bool
	pendingRoster []models.RosterMember
	hasPending    bool

	inflight sync.WaitGroup
}

// EngineOption configures an Engine
type EngineOption func(*Engine)

// WithPlanner sets the planner used when a roster is supplied
func WithPlanner(p *Planner) EngineOption {
	return func(e *Engine) {
		e.planner = p
	}
}

// WithCatalog sets the preset catalog
func WithCatalog(c *preset.Catalog) EngineOption {
	return func(e *Engine) {
		e.catalog = c
	}
}

// WithSaveTimeout bounds each save request
func WithSaveTimeout(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.saveTimeout = d
	}
}

// WithBenchSize overrides the catalog bench capacity
func WithBenchSize(n int) EngineOption {
	return func(e *Engine) {
		e.benchSize = n
	}
}

// WithLogger sets the engine logger
func WithLogger(logger zerolog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an engine for teamID. A nil gateway keeps the engine local:
// Init only generates placeholders and saves complete immediately without
// clearing dirty.
func NewEngine(teamID uuid.UUID, gateway Gateway, opts ...EngineOption) *Engine {
	e := &Engine{
		teamID:      teamID,
		gateway:     gateway,
		saveTimeout: DefaultSaveTimeout,
		logger:      log.Logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.catalog == nil {
		e.catalog = preset.Default()
	}
	if e.planner == nil {
		e.planner = NewPlanner()
	}
	e.logger = e.logger.With().Str("team_id", teamID.String()).Logger()
	e.store = NewStore(e.catalog, e.benchSize)
	e.store.SetLogger(e.logger)
	return e
}

// TeamID returns the team the engine edits
func (e *Engine) TeamID() uuid.UUID {
	return e.teamID
}

// Init loads the team formation. When loading fails the pitch and bench are
// filled with placeholders before the task completes and the task reports the
// load error. Calling Init again returns the first task.
func (e *Engine) Init(ctx context.Context) *Task {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.initTask != nil {
		return e.initTask
	}

	if e.gateway == nil {
		e.store.SetDummyPlayers()
		e.finishInitLocked()
		e.initTask = completedTask(nil)
		return e.initTask
	}

	e.phase = phaseLoading
	e.inflight.Add(1)
	e.initTask = runTask(func() error {
		defer e.inflight.Done()
		result, err := e.gateway.Load(ctx, e.teamID)

		e.mu.Lock()
		defer e.mu.Unlock()
		if err != nil {
			e.lastErr = err
			e.logger.Warn().Err(err).Msg("failed to load formation, editing locally")
			e.detached = true
			e.store.SetDummyPlayers()
			e.finishInitLocked()
			return err
		}

		e.store.Load(result.Document.SchemaJSON)
		e.store.FillOpenSlots()
		if result.NeedsSave() {
			e.markDirtyLocked()
		}
		e.logger.Debug().
			Str("source", string(result.Source)).
			Str("preset", e.store.PresetName()).
			Msg("formation applied")
		e.finishInitLocked()
		return nil
	})
	return e.initTask
}

func (e *Engine) finishInitLocked() {
	e.phase = phaseReady
	if e.hasPending {
		roster := e.pendingRoster
		e.pendingRoster = nil
		e.hasPending = false
		e.applyRosterLocked(roster)
	}
}

// SupplyRoster hands the team roster to the engine. With no real member assigned
// yet the planner builds the assignment; otherwise the current assignment is
// reconciled with the roster. A roster supplied while loading is applied once
// the load finishes.
func (e *Engine) SupplyRoster(members []models.RosterMember) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase == phaseLoading {
		e.pendingRoster = append([]models.RosterMember(nil), members...)
		e.hasPending = true
		return
	}
	e.applyRosterLocked(members)
}

func (e *Engine) applyRosterLocked(members []models.RosterMember) {
	var changed bool
	if e.store.HasMembers() {
		changed = e.store.ReconcileRoster(members)
	} else {
		before, beforeBench := e.store.starters, e.store.bench
		plan := e.planner.Plan(members, e.store.Slots(), e.store.BenchSize())
		e.store.ApplyPlan(plan)
		changed = !sameStarters(before, e.store.starters) || !sameBench(beforeBench, e.store.bench)
		e.logger.Debug().
			Int("roster", len(members)).
			Int("unassigned", len(plan.Unassigned)).
			Msg("roster planned")
	}
	if changed {
		e.markDirtyLocked()
		e.autoSaveLocked()
	}
}

// MovePlayerToPosition moves an occupant onto a pitch slot
func (e *Engine) MovePlayerToPosition(id, targetPositionID string, originIsStarter bool, originPositionID string, originBenchIndex int) bool {
	return e.mutate("move_to_position", func(s *Store) (bool, error) {
		return s.MovePlayerToPosition(id, targetPositionID, originIsStarter, originPositionID, originBenchIndex)
	})
}

// MovePlayerToSubSlot moves an occupant onto a bench index
func (e *Engine) MovePlayerToSubSlot(id string, targetBenchIndex int, originIsStarter bool, originPositionID string, originBenchIndex int) bool {
	return e.mutate("move_to_sub_slot", func(s *Store) (bool, error) {
		return s.MovePlayerToSubSlot(id, targetBenchIndex, originIsStarter, originPositionID, originBenchIndex)
	})
}

// SwapPlayersInFormation exchanges two occupants
func (e *Engine) SwapPlayersInFormation(idA, idB string) bool {
	return e.mutate("swap", func(s *Store) (bool, error) {
		return s.SwapPlayersInFormation(idA, idB)
	})
}

// MoveStarterToSubsGeneral sends a starter to the end of the bench
func (e *Engine) MoveStarterToSubsGeneral(memberID, originPositionID string) bool {
	return e.mutate("move_to_subs", func(s *Store) (bool, error) {
		return s.MoveStarterToSubsGeneral(memberID, originPositionID)
	})
}

// SetDummyPlayers replaces the whole assignment with placeholders
func (e *Engine) SetDummyPlayers() bool {
	return e.mutate("set_dummy_players", func(s *Store) (bool, error) {
		before, beforeBench := s.starters, s.bench
		s.SetDummyPlayers()
		return !sameStarters(before, s.starters) || !sameBench(beforeBench, s.bench), nil
	})
}

// ChangePreset switches the active preset. Only an unknown preset is reported.
func (e *Engine) ChangePreset(name string) error {
	var presetErr error
	e.mutate("change_preset", func(s *Store) (bool, error) {
		changed, err := s.ChangePreset(name)
		if errors.Is(err, preset.ErrUnknownPreset) {
			presetErr = err
		}
		return changed, err
	})
	return presetErr
}

func (e *Engine) mutate(op string, fn func(*Store) (bool, error)) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase == phaseLoading {
		e.logger.Debug().Str("op", op).Msg("mutation ignored while loading")
		return false
	}

	changed, err := fn(e.store)
	if err != nil {
		e.logger.Warn().Err(err).Str("op", op).Msg("mutation rejected")
		return false
	}
	if !changed {
		return false
	}
	e.markDirtyLocked()
	e.autoSaveLocked()
	return true
}

func (e *Engine) markDirtyLocked() {
	e.dirty = true
	e.revision++
}

// autoSaveLocked starts the save that follows an effective mutation, unless the
// engine is editing locally after a failed load.
func (e *Engine) autoSaveLocked() {
	if e.detached {
		return
	}
	e.startSaveLocked(context.Background())
}

// Save persists the current state. It is started by every effective mutation
// and can be called again to retry after a failure. After a failed load only an
// explicit Save writes; once it succeeds later mutations save on their own.
func (e *Engine) Save(ctx context.Context) *Task {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.startSaveLocked(ctx)
}

func (e *Engine) startSaveLocked(ctx context.Context) *Task {
	if e.gateway == nil {
		return completedTask(nil)
	}

	revision := e.revision
	doc := models.FormationDocument{SchemaJSON: e.store.Schema()}

	e.inflight.Add(1)
	return runTask(func() error {
		defer e.inflight.Done()
		saveCtx, cancel := context.WithTimeout(ctx, e.saveTimeout)
		defer cancel()

		err := e.gateway.Save(saveCtx, e.teamID, doc)

		e.mu.Lock()
		defer e.mu.Unlock()
		if err != nil {
			e.lastErr = err
			e.logger.Warn().Err(err).Uint64("revision", revision).Msg("failed to save formation")
			return err
		}
		if e.revision == revision {
			e.dirty = false
		}
		e.detached = false
		e.logger.Debug().Uint64("revision", revision).Msg("formation saved")
		return nil
	})
}

// Wait blocks until the load and every save started so far have finished
func (e *Engine) Wait() {
	e.inflight.Wait()
}

// State returns a copy of the formation state for rendering
func (e *Engine) State() models.FormationState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return models.FormationState{
		TeamID:     e.teamID,
		PresetName: e.store.PresetName(),
		Starters:   e.store.Starters(),
		Bench:      e.store.Bench(),
		Dirty:      e.dirty,
		IsLoading:  e.phase == phaseLoading,
	}
}

// Slots returns the slots of the active preset
func (e *Engine) Slots() []models.PositionSlot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Slots()
}

// Dirty reports whether local state differs from the last successful save
func (e *Engine) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dirty
}

// IsLoading reports whether the initial load is in flight
func (e *Engine) IsLoading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase == phaseLoading
}

// LastError returns the most recent load or save failure
func (e *Engine) LastError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}
