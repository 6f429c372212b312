package endpoints

import (
	"github.com/babasida246/NetOpsAI-sub007/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterStatusEndpoints(srv)
	RegisterPoliciesEndpoints(srv)
	RegisterGovernanceEndpoints(srv)
	RegisterToolsEndpoints(srv)
	RegisterSessionsEndpoints(srv)
}
