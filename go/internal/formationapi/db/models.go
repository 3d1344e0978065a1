package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

type Formation struct {
	TeamID     uuid.UUID             `json:"team_id"`
	SchemaJson pqtype.NullRawMessage `json:"schema_json"`
	CreatedAt  time.Time             `json:"created_at"`
	UpdatedAt  time.Time             `json:"updated_at"`
}
