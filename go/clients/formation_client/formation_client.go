package formation_client

import (
	"github.com/mcdev12/lineup/go/clients"
)

type FormationClient struct {
	*clients.BaseClient
}

// NewFormationClient creates a client for the formation resource. An empty token
// sends no Authorization header.
func NewFormationClient(baseURL, token string) *FormationClient {
	client := &FormationClient{
		BaseClient: clients.NewBaseClient(baseURL),
	}

	if token != "" {
		client.SetHeader(AuthorizationHeader, "Bearer "+token)
	}

	return client
}
