package endpoints

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babasida246/NetOpsAI-sub007/pkg/governance"
)

func TestHandleStatus(t *testing.T) {
	t.Run("reports default version", func(t *testing.T) {
		t.Setenv("NETOPS_VERSION_DISPLAY", "")
		s := NewTestServer(TestConfig(), governance.NewMemoryStore())

		w := httptest.NewRecorder()
		handleStatus(s)(w, httptest.NewRequest("GET", "/", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

		var status StatusResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
		assert.Equal(t, "ok", status.Status)
		assert.Equal(t, "0.1.0", status.Version)
	})

	t.Run("version display override", func(t *testing.T) {
		t.Setenv("NETOPS_VERSION_DISPLAY", "2.4.0-rc1")
		cfg := TestConfig()
		cfg.DefaultEnvironment = "staging"
		cfg.AuditEnabled = false
		s := NewTestServer(cfg, governance.NewMemoryStore())

		w := httptest.NewRecorder()
		handleStatus(s)(w, httptest.NewRequest("GET", "/", nil))

		var status StatusResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
		assert.Equal(t, "2.4.0-rc1", status.Version)
		assert.Equal(t, "staging", status.DefaultEnvironment)
		assert.False(t, status.AuditEnabled)
	})
}
