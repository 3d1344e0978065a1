package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

const getFormation = `-- name: GetFormation :one
SELECT team_id, schema_json, created_at, updated_at FROM formations
WHERE team_id = $1
`

func (q *Queries) GetFormation(ctx context.Context, teamID uuid.UUID) (Formation, error) {
	row := q.db.QueryRowContext(ctx, getFormation, teamID)
	var i Formation
	err := row.Scan(
		&i.TeamID,
		&i.SchemaJson,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const upsertFormation = `-- name: UpsertFormation :one
INSERT INTO formations (team_id, schema_json, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (team_id) DO UPDATE
SET schema_json = EXCLUDED.schema_json,
    updated_at = EXCLUDED.updated_at
RETURNING team_id, schema_json, created_at, updated_at
`

type UpsertFormationParams struct {
	TeamID     uuid.UUID             `json:"team_id"`
	SchemaJson pqtype.NullRawMessage `json:"schema_json"`
	UpdatedAt  time.Time             `json:"updated_at"`
}

func (q *Queries) UpsertFormation(ctx context.Context, arg UpsertFormationParams) (Formation, error) {
	row := q.db.QueryRowContext(ctx, upsertFormation, arg.TeamID, arg.SchemaJson, arg.UpdatedAt)
	var i Formation
	err := row.Scan(
		&i.TeamID,
		&i.SchemaJson,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const insertFormationIfAbsent = `-- name: InsertFormationIfAbsent :execrows
INSERT INTO formations (team_id, schema_json, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (team_id) DO NOTHING
`

type InsertFormationIfAbsentParams struct {
	TeamID     uuid.UUID             `json:"team_id"`
	SchemaJson pqtype.NullRawMessage `json:"schema_json"`
	UpdatedAt  time.Time             `json:"updated_at"`
}

func (q *Queries) InsertFormationIfAbsent(ctx context.Context, arg InsertFormationIfAbsentParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, insertFormationIfAbsent, arg.TeamID, arg.SchemaJson, arg.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteFormation = `-- name: DeleteFormation :exec
DELETE FROM formations
WHERE team_id = $1
`

func (q *Queries) DeleteFormation(ctx context.Context, teamID uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, deleteFormation, teamID)
	return err
}
