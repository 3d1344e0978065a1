package models

// RosterMember is a team member as supplied by the team-membership service.
type RosterMember struct {
	ID                    string `json:"id"`
	PreferredPositionCode string `json:"preferred_position_code,omitempty"`
	JerseyNumber          *int   `json:"jersey_number,omitempty"`
	DisplayName           string `json:"display_name,omitempty"`
}

// RosterPosition represents where an occupant sits in a formation
type RosterPosition string

const (
	RosterPositionStarter RosterPosition = "STARTER"
	RosterPositionBench   RosterPosition = "BENCH"
)
