package endpoints

import (
	"time"

	"github.com/babasida246/NetOpsAI-sub007/pkg/audit"
	"github.com/babasida246/NetOpsAI-sub007/pkg/changecontrol"
	"github.com/babasida246/NetOpsAI-sub007/pkg/config"
	"github.com/babasida246/NetOpsAI-sub007/pkg/governance"
	"github.com/babasida246/NetOpsAI-sub007/pkg/identity"
	"github.com/babasida246/NetOpsAI-sub007/pkg/server"
)

// TestSigningKey signs the tokens of servers built by NewTestServer
const TestSigningKey = "netops-test-signing-key"

// TestConfig returns the configuration in-process test servers run with
func TestConfig() *config.NetOpsConfig {
	return &config.NetOpsConfig{
		IdleTimeoutSec:                 600,
		SweepIntervalSec:               30,
		RequireMaintenanceWindowInProd: true,
		DefaultEnvironment:             string(governance.EnvDev),
		JWTSigningKey:                  TestSigningKey,
		AuditEnabled:                   true,
		LogLevel:                       "info",
	}
}

// NewTestServer creates a server over store with every endpoint
// registered. Audit entries are appended to sinks.
func NewTestServer(cfg *config.NetOpsConfig, store governance.Store, sinks ...audit.Sink) *server.Server {
	s := server.NewServer(server.Deps{
		Config:     cfg,
		Governance: store,
		Recorder:   audit.NewRecorder(sinks...),
	}, "127.0.0.1", "0")
	RegisterAll(s)
	return s
}

// GenerateTestToken issues a one hour bearer token for userID signed with
// the server's key
func GenerateTestToken(s *server.Server, userID string, role changecontrol.Role) (string, error) {
	return identity.IssueToken([]byte(s.Config.JWTSigningKey), userID, role, time.Hour, time.Now())
}
