package integration

import (
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/babasida246/NetOpsAI-sub007/pkg/audit"
	"github.com/babasida246/NetOpsAI-sub007/pkg/governance"
	"github.com/babasida246/NetOpsAI-sub007/pkg/server/endpoints"
)

// NewMemoryTestContext serves the API in-process over the memory store.
// Every scenario gets a fresh server.
func NewMemoryTestContext() *TestContext {
	tc := &TestContext{
		SigningKey: endpoints.TestSigningKey,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
	tc.restartMemoryServer()
	return tc
}

func (tc *TestContext) restartMemoryServer() {
	if tc.memory != nil {
		tc.memory.Close()
	}
	tc.memoryLog = audit.NewMemory()
	s := endpoints.NewTestServer(endpoints.TestConfig(), governance.NewMemoryStore(), tc.memoryLog)
	tc.memory = httptest.NewServer(s.Router)
}
