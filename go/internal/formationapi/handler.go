package formationapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/mcdev12/lineup/go/internal/models"
	"github.com/rs/zerolog/log"
)

const maxBodyBytes = 1 << 20

// Handler serves the formation resource over HTTP
type Handler struct {
	app *App
	hub *Hub
}

// NewHandler creates a Handler. hub may be nil, which disables the change feed.
func NewHandler(app *App, hub *Hub) *Handler {
	return &Handler{
		app: app,
		hub: hub,
	}
}

// RegisterRoutes registers the formation routes with an HTTP mux
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /formations/{teamId}", h.HandleGetFormation)
	mux.HandleFunc("PUT /formations/{teamId}", h.HandlePutFormation)
	mux.HandleFunc("POST /formations/{teamId}/default", h.HandleBootstrapFormation)
	if h.hub != nil {
		mux.HandleFunc("GET /formations/{teamId}/ws", h.HandleWatchFormation)
	}
}

func (h *Handler) HandleGetFormation(w http.ResponseWriter, r *http.Request) {
	teamID, ok := teamIDFromPath(w, r)
	if !ok {
		return
	}

	doc, err := h.app.GetFormation(r.Context(), teamID)
	if err != nil {
		writeError(w, teamID, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) HandlePutFormation(w http.ResponseWriter, r *http.Request) {
	teamID, ok := teamIDFromPath(w, r)
	if !ok {
		return
	}

	var doc models.FormationDocument
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&doc); err != nil {
		http.Error(w, "invalid formation document", http.StatusBadRequest)
		return
	}

	if _, err := h.app.PutFormation(r.Context(), teamID, doc); err != nil {
		writeError(w, teamID, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleBootstrapFormation(w http.ResponseWriter, r *http.Request) {
	teamID, ok := teamIDFromPath(w, r)
	if !ok {
		return
	}

	doc, err := h.app.BootstrapFormation(r.Context(), teamID)
	if err != nil {
		writeError(w, teamID, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) HandleWatchFormation(w http.ResponseWriter, r *http.Request) {
	teamID, ok := teamIDFromPath(w, r)
	if !ok {
		return
	}

	// the upgrader has already answered the request on failure
	if err := h.hub.Serve(w, r, teamID); err != nil {
		log.Error().Err(err).Str("team_id", teamID.String()).Msg("failed to open formation watch")
	}
}

func teamIDFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	teamID, err := uuid.Parse(r.PathValue("teamId"))
	if err != nil {
		http.Error(w, "invalid team id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return teamID, true
}

func writeError(w http.ResponseWriter, teamID uuid.UUID, err error) {
	var validationErr *ValidationError
	switch {
	case errors.Is(err, ErrFormationNotFound):
		http.Error(w, "formation not found", http.StatusNotFound)
	case errors.As(err, &validationErr):
		http.Error(w, validationErr.Error(), http.StatusBadRequest)
	default:
		log.Error().Err(err).Str("team_id", teamID.String()).Msg("formation request failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write response")
	}
}
