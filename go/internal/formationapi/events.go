package formationapi

import (
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/lineup/go/internal/models"
)

// EventFormationSaved is emitted after a formation is stored
const EventFormationSaved = "formation.saved"

// FormationEvent describes a stored formation change
type FormationEvent struct {
	ID        uuid.UUID              `json:"eventId"`
	Type      string                 `json:"eventType"`
	TeamID    uuid.UUID              `json:"teamId"`
	Timestamp time.Time              `json:"timestamp"`
	Schema    models.FormationSchema `json:"schema_json"`
}

func newSavedEvent(teamID uuid.UUID, schema models.FormationSchema, now time.Time) FormationEvent {
	return FormationEvent{
		ID:        uuid.New(),
		Type:      EventFormationSaved,
		TeamID:    teamID,
		Timestamp: now,
		Schema:    schema,
	}
}
