package formationapi

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/lineup/go/internal/models"
)

// MemoryRepository keeps formations in process memory. Documents are stored
// serialized so callers never share slices with the repository.
type MemoryRepository struct {
	mu         sync.RWMutex
	formations map[uuid.UUID]memoryFormation
}

type memoryFormation struct {
	schemaJSON []byte
	updatedAt  time.Time
}

// NewMemoryRepository creates an empty MemoryRepository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		formations: make(map[uuid.UUID]memoryFormation),
	}
}

func (r *MemoryRepository) GetFormation(ctx context.Context, teamID uuid.UUID) (*models.FormationSchema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.formations[teamID]
	if !ok {
		return nil, ErrFormationNotFound
	}
	return f.toModel()
}

func (r *MemoryRepository) UpsertFormation(ctx context.Context, teamID uuid.UUID, schema models.FormationSchema) (*models.FormationSchema, error) {
	f, err := newMemoryFormation(schema)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.formations[teamID] = f
	r.mu.Unlock()
	return f.toModel()
}

func (r *MemoryRepository) CreateFormationIfAbsent(ctx context.Context, teamID uuid.UUID, schema models.FormationSchema) (*models.FormationSchema, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.formations[teamID]; ok {
		stored, err := existing.toModel()
		return stored, false, err
	}

	f, err := newMemoryFormation(schema)
	if err != nil {
		return nil, false, err
	}
	r.formations[teamID] = f
	stored, err := f.toModel()
	return stored, true, err
}

func (r *MemoryRepository) DeleteFormation(ctx context.Context, teamID uuid.UUID) error {
	r.mu.Lock()
	delete(r.formations, teamID)
	r.mu.Unlock()
	return nil
}

func newMemoryFormation(schema models.FormationSchema) (memoryFormation, error) {
	raw, err := schemaToRaw(schema)
	if err != nil {
		return memoryFormation{}, err
	}
	return memoryFormation{schemaJSON: raw.RawMessage, updatedAt: updatedAt(schema)}, nil
}

func (f memoryFormation) toModel() (*models.FormationSchema, error) {
	var schema models.FormationSchema
	if err := json.Unmarshal(f.schemaJSON, &schema); err != nil {
		return nil, fmt.Errorf("failed to unmarshal formation: %w", err)
	}
	if schema.Starters == nil {
		schema.Starters = []models.StarterAssignment{}
	}
	if schema.Subs == nil {
		schema.Subs = []models.BenchAssignment{}
	}
	updated := f.updatedAt
	schema.UpdatedAt = &updated
	return &schema, nil
}
