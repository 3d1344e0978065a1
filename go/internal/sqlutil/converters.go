package sqlutil

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sqlc-dev/pqtype"
)

// Helper functions for converting between Go types and nullable column types

// ToSqlTime converts a Go time pointer to sql.NullTime
func ToSqlTime(val *time.Time) sql.NullTime {
	if val == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *val, Valid: true}
}

// FromSqlTime converts sql.NullTime to Go time pointer
func FromSqlTime(val sql.NullTime) *time.Time {
	if !val.Valid {
		return nil
	}
	return &val.Time
}

// ToNullRawJSON marshals v into a jsonb column value
func ToNullRawJSON(v interface{}) (pqtype.NullRawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return pqtype.NullRawMessage{}, fmt.Errorf("failed to marshal json column: %w", err)
	}
	return pqtype.NullRawMessage{RawMessage: data, Valid: true}, nil
}

// FromNullRawJSON unmarshals a jsonb column into dest. It reports false and
// leaves dest untouched when the column is NULL or empty.
func FromNullRawJSON(val pqtype.NullRawMessage, dest interface{}) (bool, error) {
	if !val.Valid || len(val.RawMessage) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(val.RawMessage, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal json column: %w", err)
	}
	return true, nil
}
