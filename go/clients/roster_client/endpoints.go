package roster_client

const (
	// API Endpoints
	TeamMembersEndpoint = "/teams/%s/members"

	// Headers
	AuthorizationHeader = "Authorization"
)
