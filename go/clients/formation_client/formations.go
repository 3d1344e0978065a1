package formation_client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/lineup/go/internal/models"
)

// GetFormation fetches the stored formation of a team. A missing formation is
// reported as an error matching clients.ErrNotFound.
func (c *FormationClient) GetFormation(ctx context.Context, teamID uuid.UUID) (*models.FormationDocument, error) {
	body, err := c.Get(ctx, fmt.Sprintf(FormationEndpoint, teamID))
	if err != nil {
		return nil, fmt.Errorf("failed to get formation: %w", err)
	}
	return decodeDocument(body)
}

// BootstrapFormation asks the server to create a default formation. The result
// has NotSaved set when the server could not store it.
func (c *FormationClient) BootstrapFormation(ctx context.Context, teamID uuid.UUID) (*models.FormationDocument, error) {
	body, err := c.Post(ctx, fmt.Sprintf(DefaultFormationEndpoint, teamID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to bootstrap formation: %w", err)
	}
	return decodeDocument(body)
}

// PutFormation stores a formation document
func (c *FormationClient) PutFormation(ctx context.Context, teamID uuid.UUID, doc models.FormationDocument) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal formation: %w", err)
	}
	if _, err := c.Put(ctx, fmt.Sprintf(FormationEndpoint, teamID), bytes.NewReader(payload)); err != nil {
		return fmt.Errorf("failed to put formation: %w", err)
	}
	return nil
}

func decodeDocument(body []byte) (*models.FormationDocument, error) {
	var doc models.FormationDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, raw response: %s", err, string(body))
	}
	return &doc, nil
}
