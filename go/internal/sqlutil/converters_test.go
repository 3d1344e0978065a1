package sqlutil

import (
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/sqlc-dev/pqtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSqlTime(t *testing.T) {
	assert.False(t, ToSqlTime(nil).Valid)
	assert.Nil(t, FromSqlTime(sql.NullTime{}))

	now := time.Date(2024, 9, 1, 18, 30, 0, 0, time.UTC)
	got := FromSqlTime(ToSqlTime(&now))
	require.NotNil(t, got)
	assert.True(t, now.Equal(*got))
}

func TestNullRawJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	raw, err := ToNullRawJSON(payload{Name: "4-3-3"})
	require.NoError(t, err)
	assert.True(t, raw.Valid)
	assert.JSONEq(t, `{"name":"4-3-3"}`, string(raw.RawMessage))

	var out payload
	ok, err := FromNullRawJSON(raw, &out)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "4-3-3", out.Name)

	ok, err = FromNullRawJSON(pqtype.NullRawMessage{}, &out)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = FromNullRawJSON(pqtype.NullRawMessage{RawMessage: json.RawMessage(`{`), Valid: true}, &out)
	assert.Error(t, err)
}
