package endpoints

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/mock"

	"github.com/babasida246/NetOpsAI-sub007/pkg/changecontrol"
	"github.com/babasida246/NetOpsAI-sub007/pkg/governance"
	"github.com/babasida246/NetOpsAI-sub007/pkg/identity"
)

// MockGovernanceStore implements governance.Store for testing using testify/mock
type MockGovernanceStore struct {
	mock.Mock
}

var _ governance.Store = (*MockGovernanceStore)(nil)

func NewMockGovernanceStore() *MockGovernanceStore {
	return &MockGovernanceStore{}
}

func (m *MockGovernanceStore) ListPolicies(ctx context.Context) ([]governance.Policy, error) {
	args := m.Called()
	return args.Get(0).([]governance.Policy), args.Error(1)
}

func (m *MockGovernanceStore) CreatePolicy(ctx context.Context, in governance.PolicyInput) (*governance.Policy, error) {
	args := m.Called(in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*governance.Policy), args.Error(1)
}

func (m *MockGovernanceStore) UpdatePolicy(ctx context.Context, id string, patch governance.PolicyPatch) (*governance.Policy, error) {
	args := m.Called(id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*governance.Policy), args.Error(1)
}

func (m *MockGovernanceStore) ListApprovals(ctx context.Context, deviceID string) ([]governance.ApprovalRequest, error) {
	args := m.Called(deviceID)
	return args.Get(0).([]governance.ApprovalRequest), args.Error(1)
}

func (m *MockGovernanceStore) RequestApproval(ctx context.Context, in governance.ApprovalInput) (*governance.ApprovalRequest, error) {
	args := m.Called(in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*governance.ApprovalRequest), args.Error(1)
}

func (m *MockGovernanceStore) ResolveApproval(ctx context.Context, id string, status governance.ApprovalStatus, approver string) (*governance.ApprovalRequest, error) {
	args := m.Called(id, status, approver)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*governance.ApprovalRequest), args.Error(1)
}

func (m *MockGovernanceStore) HasApproved(ctx context.Context, deviceID, ticketID string) (bool, error) {
	args := m.Called(deviceID, ticketID)
	return args.Bool(0), args.Error(1)
}

func (m *MockGovernanceStore) ListMaintenanceWindows(ctx context.Context) ([]governance.MaintenanceWindow, error) {
	args := m.Called()
	return args.Get(0).([]governance.MaintenanceWindow), args.Error(1)
}

func (m *MockGovernanceStore) CreateMaintenanceWindow(ctx context.Context, in governance.MaintenanceWindowInput) (*governance.MaintenanceWindow, error) {
	args := m.Called(in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*governance.MaintenanceWindow), args.Error(1)
}

func (m *MockGovernanceStore) ListJitGrants(ctx context.Context) ([]governance.JitGrant, error) {
	args := m.Called()
	return args.Get(0).([]governance.JitGrant), args.Error(1)
}

func (m *MockGovernanceStore) CreateJitGrant(ctx context.Context, in governance.JitGrantInput) (*governance.JitGrant, error) {
	args := m.Called(in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*governance.JitGrant), args.Error(1)
}

func (m *MockGovernanceStore) ListBreakGlassEvents(ctx context.Context) ([]governance.BreakGlassEvent, error) {
	args := m.Called()
	return args.Get(0).([]governance.BreakGlassEvent), args.Error(1)
}

func (m *MockGovernanceStore) CreateBreakGlassEvent(ctx context.Context, in governance.BreakGlassInput) (*governance.BreakGlassEvent, error) {
	args := m.Called(in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*governance.BreakGlassEvent), args.Error(1)
}

func (m *MockGovernanceStore) ListEvidenceCases(ctx context.Context) ([]governance.EvidenceCase, error) {
	args := m.Called()
	return args.Get(0).([]governance.EvidenceCase), args.Error(1)
}

func (m *MockGovernanceStore) CreateEvidenceCase(ctx context.Context, in governance.EvidenceCaseInput) (*governance.EvidenceCase, error) {
	args := m.Called(in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*governance.EvidenceCase), args.Error(1)
}

func (m *MockGovernanceStore) GetEvidenceCase(ctx context.Context, id string) (*governance.EvidenceCase, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*governance.EvidenceCase), args.Error(1)
}

// requestWithIdentity builds a request as if the JWT middleware had
// authenticated userID with role.
func requestWithIdentity(method, path, body, userID string, role changecontrol.Role) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	id := &identity.Identity{UserID: userID, Role: role}
	return req.WithContext(identity.Set(req.Context(), id))
}

func withMuxVars(req *http.Request, vars map[string]string) *http.Request {
	return mux.SetURLVars(req, vars)
}
