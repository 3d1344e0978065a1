package formationapi

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/lineup/go/internal/formationapi/db"
	"github.com/mcdev12/lineup/go/internal/models"
	"github.com/mcdev12/lineup/go/internal/sqlutil"
	"github.com/sqlc-dev/pqtype"
)

type Querier interface {
	GetFormation(ctx context.Context, teamID uuid.UUID) (db.Formation, error)
	UpsertFormation(ctx context.Context, arg db.UpsertFormationParams) (db.Formation, error)
	InsertFormationIfAbsent(ctx context.Context, arg db.InsertFormationIfAbsentParams) (int64, error)
	DeleteFormation(ctx context.Context, teamID uuid.UUID) error
}

// Repository stores formations in Postgres
type Repository struct {
	queries  Querier
	database *sql.DB
}

// NewRepository creates a Repository over a Postgres connection
func NewRepository(database *sql.DB) *Repository {
	return &Repository{
		queries:  db.New(database),
		database: database,
	}
}

// NewRepositoryWithQuerier creates a Repository without transaction support
func NewRepositoryWithQuerier(querier Querier) *Repository {
	return &Repository{
		queries: querier,
	}
}

func (r *Repository) GetFormation(ctx context.Context, teamID uuid.UUID) (*models.FormationSchema, error) {
	row, err := r.queries.GetFormation(ctx, teamID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFormationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get formation: %w", err)
	}
	return dbFormationToModel(row)
}

func (r *Repository) UpsertFormation(ctx context.Context, teamID uuid.UUID, schema models.FormationSchema) (*models.FormationSchema, error) {
	raw, err := schemaToRaw(schema)
	if err != nil {
		return nil, err
	}
	row, err := r.queries.UpsertFormation(ctx, db.UpsertFormationParams{
		TeamID:     teamID,
		SchemaJson: raw,
		UpdatedAt:  updatedAt(schema),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert formation: %w", err)
	}
	return dbFormationToModel(row)
}

// CreateFormationIfAbsent inserts schema unless the team already has a
// formation, and returns whichever formation is stored afterwards.
func (r *Repository) CreateFormationIfAbsent(ctx context.Context, teamID uuid.UUID, schema models.FormationSchema) (*models.FormationSchema, bool, error) {
	raw, err := schemaToRaw(schema)
	if err != nil {
		return nil, false, err
	}

	var (
		row     db.Formation
		created bool
	)
	create := func(q Querier) error {
		n, err := q.InsertFormationIfAbsent(ctx, db.InsertFormationIfAbsentParams{
			TeamID:     teamID,
			SchemaJson: raw,
			UpdatedAt:  updatedAt(schema),
		})
		if err != nil {
			return fmt.Errorf("failed to insert formation: %w", err)
		}
		created = n > 0
		row, err = q.GetFormation(ctx, teamID)
		if err != nil {
			return fmt.Errorf("failed to read formation: %w", err)
		}
		return nil
	}

	if r.database != nil {
		err = sqlutil.Run(ctx, r.database, newTxQueries, func(q *db.Queries) error {
			return create(q)
		})
	} else {
		err = create(r.queries)
	}
	if err != nil {
		return nil, false, err
	}

	stored, err := dbFormationToModel(row)
	if err != nil {
		return nil, false, err
	}
	return stored, created, nil
}

func (r *Repository) DeleteFormation(ctx context.Context, teamID uuid.UUID) error {
	if err := r.queries.DeleteFormation(ctx, teamID); err != nil {
		return fmt.Errorf("failed to delete formation: %w", err)
	}
	return nil
}

func newTxQueries(tx *sql.Tx) *db.Queries {
	return db.New(tx)
}

func schemaToRaw(schema models.FormationSchema) (pqtype.NullRawMessage, error) {
	schema.UpdatedAt = nil
	raw, err := sqlutil.ToNullRawJSON(schema)
	if err != nil {
		return pqtype.NullRawMessage{}, fmt.Errorf("failed to encode formation: %w", err)
	}
	return raw, nil
}

func updatedAt(schema models.FormationSchema) time.Time {
	if schema.UpdatedAt != nil {
		return schema.UpdatedAt.UTC()
	}
	return time.Now().UTC()
}

func dbFormationToModel(row db.Formation) (*models.FormationSchema, error) {
	schema := models.FormationSchema{}
	if _, err := sqlutil.FromNullRawJSON(row.SchemaJson, &schema); err != nil {
		return nil, fmt.Errorf("failed to decode formation: %w", err)
	}
	if schema.Starters == nil {
		schema.Starters = []models.StarterAssignment{}
	}
	if schema.Subs == nil {
		schema.Subs = []models.BenchAssignment{}
	}
	schema.UpdatedAt = sqlutil.FromSqlTime(sql.NullTime{Time: row.UpdatedAt.UTC(), Valid: !row.UpdatedAt.IsZero()})
	return &schema, nil
}
