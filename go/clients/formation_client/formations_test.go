package formation_client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/mcdev12/lineup/go/clients"
	"github.com/mcdev12/lineup/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFormation_Success(t *testing.T) {
	teamID := uuid.New()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/formations/"+teamID.String(), r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"schema_json":{"preset":"4-4-2","starters":[{"id":"gk","position_id":"gk","label":"GK","member_id":"m1","jersey_number":1,"display_name":"Keeper"}],"subs":[]}}`))
	}))
	defer server.Close()

	doc, err := NewFormationClient(server.URL, "secret").GetFormation(context.Background(), teamID)
	require.NoError(t, err)
	assert.Equal(t, "4-4-2", doc.SchemaJSON.Preset)
	require.Len(t, doc.SchemaJSON.Starters, 1)
	assert.Equal(t, "m1", *doc.SchemaJSON.Starters[0].MemberID)
	assert.False(t, doc.NotSaved)
}

func TestGetFormation_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	_, err := NewFormationClient(server.URL, "").GetFormation(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, clients.ErrNotFound))
}

func TestGetFormation_BadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := NewFormationClient(server.URL, "").GetFormation(context.Background(), uuid.New())
	assert.Error(t, err)
}

func TestBootstrapFormation_NotSaved(t *testing.T) {
	teamID := uuid.New()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/formations/"+teamID.String()+"/default", r.URL.Path)
		_, _ = w.Write([]byte(`{"schema_json":{"preset":"4-3-3","starters":[],"subs":[]},"notSaved":true}`))
	}))
	defer server.Close()

	doc, err := NewFormationClient(server.URL, "").BootstrapFormation(context.Background(), teamID)
	require.NoError(t, err)
	assert.True(t, doc.NotSaved)
	assert.Equal(t, "4-3-3", doc.SchemaJSON.Preset)
}

func TestBootstrapFormation_Forbidden(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := NewFormationClient(server.URL, "").BootstrapFormation(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, clients.ErrForbidden))
}

func TestPutFormation_SendsDocument(t *testing.T) {
	teamID := uuid.New()
	var received models.FormationDocument
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	doc := models.FormationDocument{SchemaJSON: models.FormationSchema{
		Preset: "4-3-3",
		Subs:   []models.BenchAssignment{{ID: "m9", MemberID: models.StringPtr("m9"), JerseyNumber: 9, DisplayName: "Nine"}},
	}}
	err := NewFormationClient(server.URL, "").PutFormation(context.Background(), teamID, doc)
	require.NoError(t, err)
	assert.Equal(t, "4-3-3", received.SchemaJSON.Preset)
	require.Len(t, received.SchemaJSON.Subs, 1)
	assert.Equal(t, "m9", *received.SchemaJSON.Subs[0].MemberID)
}

func TestPutFormation_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	err := NewFormationClient(server.URL, "").PutFormation(context.Background(), uuid.New(), models.FormationDocument{})
	assert.Error(t, err)
}
