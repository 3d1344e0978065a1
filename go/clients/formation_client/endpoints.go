package formation_client

const (
	// API Endpoints
	FormationEndpoint        = "/formations/%s"
	DefaultFormationEndpoint = "/formations/%s/default"

	// Headers
	AuthorizationHeader = "Authorization"
)
