package endpoints

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/babasida246/NetOpsAI-sub007/pkg/audit"
	"github.com/babasida246/NetOpsAI-sub007/pkg/changecontrol"
	"github.com/babasida246/NetOpsAI-sub007/pkg/governance"
)

func decodeError(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body struct {
		Error map[string]string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func TestPolicyEndpoints(t *testing.T) {
	t.Run("listing requires admin", func(t *testing.T) {
		store := NewMockGovernanceStore()

		w := httptest.NewRecorder()
		handleListPolicies(store)(w, requestWithIdentity("GET", "/netops/policies", "", "bob", changecontrol.RoleNetops))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "Admin access required", decodeError(t, w)["message"])
		store.AssertNotCalled(t, "ListPolicies")
	})

	t.Run("create defaults environment to all", func(t *testing.T) {
		store := NewMockGovernanceStore()
		sink := audit.NewMemory()

		store.On("CreatePolicy", mock.MatchedBy(func(in governance.PolicyInput) bool {
			return in.Environment == governance.EnvAll && in.Name == "Baseline"
		})).Return(&governance.Policy{ID: "policy_1", Name: "Baseline", Environment: governance.EnvAll}, nil)

		body := `{"name":"Baseline","allowList":["show"]}`
		w := httptest.NewRecorder()
		handleCreatePolicy(store, audit.NewRecorder(sink))(w, requestWithIdentity("POST", "/netops/policies", body, "alice", changecontrol.RoleAdmin))

		assert.Equal(t, http.StatusCreated, w.Code)
		store.AssertExpectations(t)
		require.Len(t, sink.Entries(), 1)
		assert.Equal(t, "policy_create", sink.Entries()[0].Action)
		assert.Equal(t, "policy_1", sink.Entries()[0].ResourceID)
	})

	t.Run("update of unknown policy is not found and audited", func(t *testing.T) {
		store := NewMockGovernanceStore()
		sink := audit.NewMemory()

		store.On("UpdatePolicy", "missing", mock.Anything).Return(nil, governance.ErrPolicyNotFound)

		req := requestWithIdentity("PATCH", "/netops/policies/missing", `{"requireApproval":true}`, "alice", changecontrol.RoleAdmin)
		req = withMuxVars(req, map[string]string{"id": "missing"})
		w := httptest.NewRecorder()
		handleUpdatePolicy(store, audit.NewRecorder(sink))(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		require.Len(t, sink.Entries(), 1)
		assert.Equal(t, audit.OutcomeBlocked, sink.Entries()[0].Outcome)
	})

	t.Run("resolve falls back to the default policy", func(t *testing.T) {
		store := NewMockGovernanceStore()
		store.On("ListPolicies").Return([]governance.Policy{
			{ID: "p-dev", Name: "dev", Environment: governance.EnvDev},
		}, nil)

		req := requestWithIdentity("GET", "/netops/policies/resolve/prod", "", "v", changecontrol.RoleViewer)
		req = withMuxVars(req, map[string]string{"environment": "prod"})
		w := httptest.NewRecorder()
		handleResolvePolicy(store)(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var p governance.Policy
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
		assert.Equal(t, governance.DefaultPolicyID, p.ID)
	})

	t.Run("resolve rejects unknown environment", func(t *testing.T) {
		req := requestWithIdentity("GET", "/netops/policies/resolve/qa", "", "v", changecontrol.RoleViewer)
		req = withMuxVars(req, map[string]string{"environment": "qa"})
		w := httptest.NewRecorder()
		handleResolvePolicy(NewMockGovernanceStore())(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestApprovalEndpoints(t *testing.T) {
	t.Run("requester is the caller", func(t *testing.T) {
		store := NewMockGovernanceStore()
		store.On("RequestApproval", governance.ApprovalInput{
			DeviceID: "edge-1", TicketID: "T1", Reason: "reboot", RequestedBy: "bob",
		}).Return(&governance.ApprovalRequest{ID: "approval_1", DeviceID: "edge-1", TicketID: "T1", Status: governance.ApprovalPending}, nil)

		body := `{"deviceId":"edge-1","ticketId":"T1","reason":"reboot","requestedBy":"mallory"}`
		w := httptest.NewRecorder()
		handleRequestApproval(store, nil)(w, requestWithIdentity("POST", "/netops/approvals", body, "bob", changecontrol.RoleNetops))

		assert.Equal(t, http.StatusCreated, w.Code)
		store.AssertExpectations(t)
	})

	t.Run("netops cannot approve", func(t *testing.T) {
		store := NewMockGovernanceStore()
		req := requestWithIdentity("POST", "/netops/approvals/approval_1/resolve", `{"status":"approved"}`, "bob", changecontrol.RoleNetops)
		req = withMuxVars(req, map[string]string{"id": "approval_1"})
		w := httptest.NewRecorder()
		handleResolveApproval(store, nil)(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "Insufficient permissions", decodeError(t, w)["message"])
	})

	t.Run("invalid status", func(t *testing.T) {
		req := requestWithIdentity("POST", "/netops/approvals/approval_1/resolve", `{"status":"pending"}`, "alice", changecontrol.RoleAdmin)
		req = withMuxVars(req, map[string]string{"id": "approval_1"})
		w := httptest.NewRecorder()
		handleResolveApproval(NewMockGovernanceStore(), nil)(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("admin approves", func(t *testing.T) {
		store := NewMockGovernanceStore()
		sink := audit.NewMemory()
		store.On("ResolveApproval", "approval_1", governance.ApprovalApproved, "alice").
			Return(&governance.ApprovalRequest{ID: "approval_1", DeviceID: "edge-1", TicketID: "T1", Status: governance.ApprovalApproved}, nil)

		req := requestWithIdentity("POST", "/netops/approvals/approval_1/resolve", `{"status":"approved"}`, "alice", changecontrol.RoleAdmin)
		req = withMuxVars(req, map[string]string{"id": "approval_1"})
		w := httptest.NewRecorder()
		handleResolveApproval(store, audit.NewRecorder(sink))(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"approval_resolve"}, sink.Actions())
	})

	t.Run("unknown approval", func(t *testing.T) {
		store := NewMockGovernanceStore()
		store.On("ResolveApproval", "nope", governance.ApprovalRejected, "alice").Return(nil, governance.ErrApprovalNotFound)

		req := requestWithIdentity("POST", "/netops/approvals/nope/resolve", `{"status":"rejected"}`, "alice", changecontrol.RoleAdmin)
		req = withMuxVars(req, map[string]string{"id": "nope"})
		w := httptest.NewRecorder()
		handleResolveApproval(store, nil)(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestGovernanceArtifactEndpoints(t *testing.T) {
	t.Run("maintenance window validation error", func(t *testing.T) {
		start := time.Date(2026, 3, 1, 2, 0, 0, 0, time.UTC)
		store := NewMockGovernanceStore()
		store.On("CreateMaintenanceWindow", mock.Anything).
			Return(nil, governance.MaintenanceWindowInput{StartAt: start, EndAt: start}.Validate())

		body := `{"title":"Core","environment":"prod","startAt":"2026-03-01T02:00:00Z","endAt":"2026-03-01T02:00:00Z"}`
		w := httptest.NewRecorder()
		handleCreateWindow(store, nil)(w, requestWithIdentity("POST", "/netops/maintenance-windows", body, "bob", changecontrol.RoleNetops))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("jit grants are admin only", func(t *testing.T) {
		w := httptest.NewRecorder()
		handleListJitGrants(NewMockGovernanceStore())(w, requestWithIdentity("GET", "/netops/jit-grants", "", "bob", changecontrol.RoleNetops))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("jit grant rejects unknown role", func(t *testing.T) {
		body := `{"userId":"bob","role":"root","expiresAt":"2026-03-01T02:00:00Z","reason":"on call"}`
		w := httptest.NewRecorder()
		handleCreateJitGrant(NewMockGovernanceStore(), nil)(w, requestWithIdentity("POST", "/netops/jit-grants", body, "alice", changecontrol.RoleAdmin))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("break-glass is recorded for the caller", func(t *testing.T) {
		store := NewMockGovernanceStore()
		sink := audit.NewMemory()
		store.On("CreateBreakGlassEvent", governance.BreakGlassInput{UserID: "bob", Reason: "core down"}).
			Return(&governance.BreakGlassEvent{ID: "bg_1", UserID: "bob", Reason: "core down"}, nil)

		w := httptest.NewRecorder()
		handleCreateBreakGlass(store, audit.NewRecorder(sink))(w, requestWithIdentity("POST", "/netops/break-glass", `{"reason":"core down"}`, "bob", changecontrol.RoleNetops))

		assert.Equal(t, http.StatusCreated, w.Code)
		require.Len(t, sink.Entries(), 1)
		assert.Equal(t, audit.OutcomeEscalated, sink.Entries()[0].Outcome)
	})

	t.Run("evidence report renders html", func(t *testing.T) {
		store := NewMockGovernanceStore()
		store.On("GetEvidenceCase", "ev_1").Return(&governance.EvidenceCase{
			ID: "ev_1", DeviceID: "edge-1", Summary: "Link **flapped** twice.", SnapshotIDs: []string{"snap-1"},
		}, nil)

		req := requestWithIdentity("GET", "/netops/evidence/ev_1/report", "", "v", changecontrol.RoleViewer)
		req = withMuxVars(req, map[string]string{"id": "ev_1"})
		w := httptest.NewRecorder()
		handleEvidenceReport(store)(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, w.Body.String(), "<strong>flapped</strong>")
		assert.Contains(t, w.Body.String(), "snap-1")
	})

	t.Run("viewer cannot create evidence", func(t *testing.T) {
		w := httptest.NewRecorder()
		handleCreateEvidence(NewMockGovernanceStore(), nil)(w, requestWithIdentity("POST", "/netops/evidence", `{"deviceId":"d"}`, "v", changecontrol.RoleViewer))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing identity", func(t *testing.T) {
		w := httptest.NewRecorder()
		handleListEvidence(NewMockGovernanceStore())(w, httptest.NewRequest("GET", "/netops/evidence", nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
