package roster_client

import (
	"github.com/mcdev12/lineup/go/clients"
)

type RosterClient struct {
	*clients.BaseClient
}

func NewRosterClient(baseURL, token string) *RosterClient {
	client := &RosterClient{
		BaseClient: clients.NewBaseClient(baseURL),
	}

	if token != "" {
		client.SetHeader(AuthorizationHeader, "Bearer "+token)
	}

	return client
}
