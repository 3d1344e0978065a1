package roster_client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/lineup/go/internal/models"
)

// GetTeamMembers returns the roster of a team, skipping entries without an id
func (c *RosterClient) GetTeamMembers(ctx context.Context, teamID uuid.UUID) ([]models.RosterMember, error) {
	body, err := c.Get(ctx, fmt.Sprintf(TeamMembersEndpoint, teamID))
	if err != nil {
		return nil, fmt.Errorf("failed to get team members: %w", err)
	}

	var members []models.RosterMember
	if err := json.Unmarshal(body, &members); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, raw response: %s", err, string(body))
	}

	valid := members[:0]
	for _, m := range members {
		if m.ID != "" {
			valid = append(valid, m)
		}
	}
	return valid, nil
}
