package gorm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/babasida246/NetOpsAI-sub007/pkg/apperr"
	"github.com/babasida246/NetOpsAI-sub007/pkg/governance"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 mockDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	s := NewStore(db)
	s.now = func() time.Time { return fixedNow }
	return s, mock
}

var policyRowColumns = []string{
	"id", "name", "environment", "allow_list", "deny_list", "dangerous_list",
	"require_approval", "created_at", "updated_at",
}

func TestListPolicies(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT (.+) FROM policies ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows(policyRowColumns).
			AddRow("policy_2", "Prod", "prod", "{show,/ip route print}", "{reload}", "{}", true, fixedNow, fixedNow).
			AddRow("policy_1", "Any", "all", "{}", nil, nil, false, fixedNow, fixedNow))

	policies, err := s.ListPolicies(context.Background())
	require.NoError(t, err)
	require.Len(t, policies, 2)

	assert.Equal(t, "policy_2", policies[0].ID)
	assert.Equal(t, governance.EnvProd, policies[0].Environment)
	assert.Equal(t, []string{"show", "/ip route print"}, policies[0].AllowList)
	assert.Equal(t, []string{"reload"}, policies[0].DenyList)
	assert.True(t, policies[0].RequireApproval)

	assert.Equal(t, []string{}, policies[1].DenyList)
	assert.Equal(t, []string{}, policies[1].DangerousList)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePolicy(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO policies`).
		WithArgs(sqlmock.AnyArg(), "Prod", "prod", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), true, fixedNow, fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))

	p, err := s.CreatePolicy(context.Background(), governance.PolicyInput{
		Name:            "Prod",
		Environment:     governance.EnvProd,
		AllowList:       []string{"show"},
		RequireApproval: true,
	})
	require.NoError(t, err)
	assert.Contains(t, p.ID, "policy_")
	assert.Equal(t, []string{}, p.DenyList)
	assert.Equal(t, fixedNow, p.CreatedAt)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePolicyInvalidRegex(t *testing.T) {
	s, mock := newMockStore(t)

	_, err := s.CreatePolicy(context.Background(), governance.PolicyInput{
		Name:        "Broken",
		Environment: governance.EnvDev,
		DenyList:    []string{"/(/"},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	// Nothing reaches the database.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePolicy(t *testing.T) {
	s, mock := newMockStore(t)
	created := fixedNow.Add(-time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM policies WHERE id = (.+) FOR UPDATE`).
		WithArgs("policy_1").
		WillReturnRows(sqlmock.NewRows(policyRowColumns).
			AddRow("policy_1", "Prod", "prod", "{show}", "{}", "{}", false, created, created))
	mock.ExpectExec(`UPDATE policies`).
		WithArgs("Prod", "prod", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), true, fixedNow, "policy_1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	approve := true
	p, err := s.UpdatePolicy(context.Background(), "policy_1", governance.PolicyPatch{RequireApproval: &approve})
	require.NoError(t, err)
	assert.True(t, p.RequireApproval)
	assert.Equal(t, created, p.CreatedAt)
	assert.Equal(t, fixedNow, p.UpdatedAt)
	assert.Equal(t, []string{"show"}, p.AllowList)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePolicyNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM policies WHERE id = (.+) FOR UPDATE`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(policyRowColumns))
	mock.ExpectRollback()

	_, err := s.UpdatePolicy(context.Background(), "missing", governance.PolicyPatch{})
	assert.ErrorIs(t, err, governance.ErrPolicyNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

var approvalRowColumns = []string{
	"id", "device_id", "ticket_id", "requested_by", "reason", "status",
	"created_at", "resolved_at", "approver",
}

func TestListApprovalsByDevice(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT (.+) FROM approval_requests WHERE device_id = (.+) ORDER BY created_at DESC`).
		WithArgs("edge-1").
		WillReturnRows(sqlmock.NewRows(approvalRowColumns).
			AddRow("approval_2", "edge-1", "T2", "alice", "", "approved", fixedNow, fixedNow, "bob").
			AddRow("approval_1", "edge-1", "T1", "alice", "", "pending", fixedNow, nil, nil))

	approvals, err := s.ListApprovals(context.Background(), "edge-1")
	require.NoError(t, err)
	require.Len(t, approvals, 2)

	assert.Equal(t, governance.ApprovalApproved, approvals[0].Status)
	assert.Equal(t, "bob", approvals[0].Approver)
	require.NotNil(t, approvals[0].ResolvedAt)
	assert.Equal(t, governance.ApprovalPending, approvals[1].Status)
	assert.Empty(t, approvals[1].Approver)
	assert.Nil(t, approvals[1].ResolvedAt)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListApprovalsAll(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT (.+) FROM approval_requests ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows(approvalRowColumns))

	approvals, err := s.ListApprovals(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, approvals)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestApproval(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO approval_requests`).
		WithArgs(sqlmock.AnyArg(), "edge-1", "T1", "alice", "reload core", "pending", fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))

	a, err := s.RequestApproval(context.Background(), governance.ApprovalInput{
		DeviceID:    "edge-1",
		TicketID:    "T1",
		RequestedBy: "alice",
		Reason:      "reload core",
	})
	require.NoError(t, err)
	assert.Equal(t, governance.ApprovalPending, a.Status)
	assert.Contains(t, a.ID, "approval_")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestApprovalValidation(t *testing.T) {
	s, mock := newMockStore(t)

	_, err := s.RequestApproval(context.Background(), governance.ApprovalInput{DeviceID: "edge-1"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveApproval(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`UPDATE approval_requests SET (.+) RETURNING`).
		WithArgs("approved", "bob", fixedNow, "approval_1", "pending").
		WillReturnRows(sqlmock.NewRows(approvalRowColumns).
			AddRow("approval_1", "edge-1", "T1", "alice", "", "approved", fixedNow, fixedNow, "bob"))

	a, err := s.ResolveApproval(context.Background(), "approval_1", governance.ApprovalApproved, "bob")
	require.NoError(t, err)
	assert.Equal(t, governance.ApprovalApproved, a.Status)
	assert.Equal(t, "bob", a.Approver)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveApprovalNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`UPDATE approval_requests SET (.+) RETURNING`).
		WillReturnRows(sqlmock.NewRows(approvalRowColumns))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	_, err := s.ResolveApproval(context.Background(), "missing", governance.ApprovalRejected, "bob")
	assert.ErrorIs(t, err, governance.ErrApprovalNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveApprovalAlreadyResolved(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`UPDATE approval_requests SET (.+) WHERE id = (.+) AND status = (.+) RETURNING`).
		WithArgs("rejected", "carol", fixedNow, "approval_1", "pending").
		WillReturnRows(sqlmock.NewRows(approvalRowColumns))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("approval_1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := s.ResolveApproval(context.Background(), "approval_1", governance.ApprovalRejected, "carol")
	assert.ErrorIs(t, err, governance.ErrApprovalResolved)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveApprovalRejectsPending(t *testing.T) {
	s, mock := newMockStore(t)

	_, err := s.ResolveApproval(context.Background(), "approval_1", governance.ApprovalPending, "bob")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHasApproved(t *testing.T) {
	tests := []struct {
		name string
		row  bool
	}{
		{"approved", true},
		{"none", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockStore(t)

			mock.ExpectQuery(`SELECT EXISTS`).
				WithArgs("edge-1", "T1", "approved").
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(tt.row))

			ok, err := s.HasApproved(context.Background(), "edge-1", "T1")
			require.NoError(t, err)
			assert.Equal(t, tt.row, ok)

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHasApprovedError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT EXISTS`).WillReturnError(errors.New("connection reset"))

	ok, err := s.HasApproved(context.Background(), "edge-1", "T1")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestCreateMaintenanceWindow(t *testing.T) {
	s, mock := newMockStore(t)
	start := fixedNow.Add(time.Hour)
	end := fixedNow.Add(3 * time.Hour)

	mock.ExpectExec(`INSERT INTO maintenance_windows`).
		WithArgs(sqlmock.AnyArg(), "core upgrade", "prod", start, end, "alice", fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))

	w, err := s.CreateMaintenanceWindow(context.Background(), governance.MaintenanceWindowInput{
		Title:       "core upgrade",
		Environment: governance.EnvProd,
		StartAt:     start,
		EndAt:       end,
		CreatedBy:   "alice",
	})
	require.NoError(t, err)
	assert.True(t, w.Contains(fixedNow.Add(2*time.Hour)))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateMaintenanceWindowInverted(t *testing.T) {
	s, mock := newMockStore(t)

	_, err := s.CreateMaintenanceWindow(context.Background(), governance.MaintenanceWindowInput{
		Environment: governance.EnvProd,
		StartAt:     fixedNow,
		EndAt:       fixedNow.Add(-time.Minute),
	})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListMaintenanceWindows(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT (.+) FROM maintenance_windows`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "environment", "start_at", "end_at", "created_by", "created_at"}).
			AddRow("mw_1", "core upgrade", "prod", fixedNow, fixedNow.Add(time.Hour), "alice", fixedNow))

	windows, err := s.ListMaintenanceWindows(context.Background())
	require.NoError(t, err)
	require.Len(t, windows, 1)
	assert.Equal(t, governance.EnvProd, windows[0].Environment)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJitGrants(t *testing.T) {
	s, mock := newMockStore(t)
	expires := fixedNow.Add(time.Hour)

	mock.ExpectExec(`INSERT INTO jit_grants`).
		WithArgs(sqlmock.AnyArg(), "carol", "admin", expires, "incident", "alice", fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT (.+) FROM jit_grants`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "role", "expires_at", "reason", "created_by", "created_at"}).
			AddRow("jit_1", "carol", "admin", expires, "incident", "alice", fixedNow))

	g, err := s.CreateJitGrant(context.Background(), governance.JitGrantInput{
		UserID:    "carol",
		Role:      "admin",
		ExpiresAt: expires,
		Reason:    "incident",
		CreatedBy: "alice",
	})
	require.NoError(t, err)
	assert.True(t, g.Active(fixedNow))

	grants, err := s.ListJitGrants(context.Background())
	require.NoError(t, err)
	require.Len(t, grants, 1)
	assert.Equal(t, "carol", grants[0].UserID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBreakGlassEvents(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO break_glass_events`).
		WithArgs(sqlmock.AnyArg(), "alice", "core outage", fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT (.+) FROM break_glass_events`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "reason", "created_at"}).
			AddRow("breakglass_1", "alice", "core outage", fixedNow))

	_, err := s.CreateBreakGlassEvent(context.Background(), governance.BreakGlassInput{UserID: "alice", Reason: "core outage"})
	require.NoError(t, err)

	events, err := s.ListBreakGlassEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)

	_, err = s.CreateBreakGlassEvent(context.Background(), governance.BreakGlassInput{UserID: "alice", Reason: "x"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

var evidenceRowColumns = []string{"id", "device_id", "ticket_id", "summary", "snapshot_ids", "created_by", "created_at"}

func TestCreateEvidenceCase(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO evidence_cases`).
		WithArgs(sqlmock.AnyArg(), "edge-1", "T1", "flap", sqlmock.AnyArg(), "alice", fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))

	e, err := s.CreateEvidenceCase(context.Background(), governance.EvidenceCaseInput{
		DeviceID:  "edge-1",
		TicketID:  "T1",
		Summary:   "flap",
		CreatedBy: "alice",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{}, e.SnapshotIDs)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetEvidenceCase(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT (.+) FROM evidence_cases WHERE id = `).
		WithArgs("evidence_1").
		WillReturnRows(sqlmock.NewRows(evidenceRowColumns).
			AddRow("evidence_1", "edge-1", "T1", "flap", "{snap_1,snap_2}", "alice", fixedNow))

	e, err := s.GetEvidenceCase(context.Background(), "evidence_1")
	require.NoError(t, err)
	assert.Equal(t, []string{"snap_1", "snap_2"}, e.SnapshotIDs)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetEvidenceCaseNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT (.+) FROM evidence_cases WHERE id = `).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(evidenceRowColumns))

	_, err := s.GetEvidenceCase(context.Background(), "missing")
	assert.ErrorIs(t, err, governance.ErrEvidenceNotFound)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListEvidenceCases(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT (.+) FROM evidence_cases ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows(evidenceRowColumns).
			AddRow("evidence_1", "edge-1", "T1", "flap", nil, "alice", fixedNow))

	cases, err := s.ListEvidenceCases(context.Background())
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, []string{}, cases[0].SnapshotIDs)

	assert.NoError(t, mock.ExpectationsWereMet())
}
