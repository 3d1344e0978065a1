package models

import (
	"time"

	"github.com/google/uuid"
)

// PositionSlot is one pitch position of a preset. Coordinates are normalized to 0-100.
type PositionSlot struct {
	ID    string  `json:"id" yaml:"id"`
	Label string  `json:"label" yaml:"label"`
	XNorm float64 `json:"x" yaml:"x"`
	YNorm float64 `json:"y" yaml:"y"`
}

// Preset is a named formation template such as "4-3-3"
type Preset struct {
	Name  string         `json:"name" yaml:"name"`
	Slots []PositionSlot `json:"slots" yaml:"slots"`
}

// StarterAssignment binds an occupant to a pitch slot. ID equals PositionID while
// the slot is occupied. A nil MemberID marks a placeholder occupant.
type StarterAssignment struct {
	ID           string  `json:"id"`
	PositionID   string  `json:"position_id"`
	XNorm        float64 `json:"x"`
	YNorm        float64 `json:"y"`
	Label        string  `json:"label"`
	MemberID     *string `json:"member_id"`
	JerseyNumber int     `json:"jersey_number"`
	DisplayName  string  `json:"display_name"`
}

// IsPlaceholder reports whether the starter is a synthetic occupant
func (s StarterAssignment) IsPlaceholder() bool {
	return s.MemberID == nil
}

// BenchAssignment is one substitutes bench entry
type BenchAssignment struct {
	ID           string  `json:"id"`
	MemberID     *string `json:"member_id"`
	JerseyNumber int     `json:"jersey_number"`
	DisplayName  string  `json:"display_name"`
}

// IsPlaceholder reports whether the bench entry is a synthetic occupant
func (b BenchAssignment) IsPlaceholder() bool {
	return b.MemberID == nil
}

// FormationState is the full editable formation of one team
type FormationState struct {
	TeamID     uuid.UUID           `json:"team_id"`
	PresetName string              `json:"preset"`
	Starters   []StarterAssignment `json:"starters"`
	Bench      []BenchAssignment   `json:"bench"`
	Dirty      bool                `json:"dirty"`
	IsLoading  bool                `json:"is_loading"`
}

// FormationSchema is the persisted shape of a formation
type FormationSchema struct {
	Preset    string              `json:"preset"`
	Starters  []StarterAssignment `json:"starters"`
	Subs      []BenchAssignment   `json:"subs"`
	UpdatedAt *time.Time          `json:"updated_at,omitempty"`
}

// FormationDocument is the body of the remote formation resource.
// NotSaved marks a default template the server returned without storing it.
type FormationDocument struct {
	SchemaJSON FormationSchema `json:"schema_json"`
	NotSaved   bool            `json:"notSaved,omitempty"`
}

// StringPtr returns a pointer to a copy of s
func StringPtr(s string) *string {
	return &s
}
