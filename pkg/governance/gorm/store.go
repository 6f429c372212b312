// Package gorm provides the Postgres implementation of governance.Store.
//
// Reads and writes go through raw SQL on a *gorm.DB so the statements match
// the schema in db/migrations exactly. Lists are ordered by created_at
// descending to keep the most-recent-first contract of the memory store.
package gorm

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/babasida246/NetOpsAI-sub007/pkg/governance"
	"github.com/babasida246/NetOpsAI-sub007/pkg/model"
)

// Ensure Store implements governance.Store
var _ governance.Store = (*Store)(nil)

// Store implements governance.Store using GORM
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// NewStore creates a new Store
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) stamp() time.Time {
	return s.now().UTC()
}

const policyColumns = `id, name, environment, allow_list, deny_list, dangerous_list, require_approval, created_at, updated_at`

// ListPolicies returns all policies, most recent first.
func (s *Store) ListPolicies(ctx context.Context) ([]governance.Policy, error) {
	var rows []model.Policy
	err := s.db.WithContext(ctx).Raw(`SELECT ` + policyColumns + ` FROM policies ORDER BY created_at DESC`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	policies := make([]governance.Policy, 0, len(rows))
	for _, row := range rows {
		policies = append(policies, policyFromRow(row))
	}
	return policies, nil
}

// CreatePolicy validates and inserts a policy.
func (s *Store) CreatePolicy(ctx context.Context, in governance.PolicyInput) (*governance.Policy, error) {
	p, err := governance.BuildPolicy(in, s.stamp())
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Exec(`
		INSERT INTO policies (`+policyColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		p.ID, p.Name, string(p.Environment),
		pq.StringArray(p.AllowList), pq.StringArray(p.DenyList), pq.StringArray(p.DangerousList),
		p.RequireApproval, p.CreatedAt, p.UpdatedAt,
	).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePolicy locks the row, applies patch and writes it back.
func (s *Store) UpdatePolicy(ctx context.Context, id string, patch governance.PolicyPatch) (*governance.Policy, error) {
	var updated governance.Policy
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []model.Policy
		if err := tx.Raw(`SELECT `+policyColumns+` FROM policies WHERE id = ? FOR UPDATE`, id).Scan(&rows).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return governance.ErrPolicyNotFound
		}

		var err error
		updated, err = governance.PatchPolicy(policyFromRow(rows[0]), patch, s.stamp())
		if err != nil {
			return err
		}

		return tx.Exec(`
			UPDATE policies
			SET name = ?, environment = ?, allow_list = ?, deny_list = ?, dangerous_list = ?, require_approval = ?, updated_at = ?
			WHERE id = ?
		`,
			updated.Name, string(updated.Environment),
			pq.StringArray(updated.AllowList), pq.StringArray(updated.DenyList), pq.StringArray(updated.DangerousList),
			updated.RequireApproval, updated.UpdatedAt, id,
		).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

const approvalColumns = `id, device_id, ticket_id, requested_by, reason, status, created_at, resolved_at, approver`

// ListApprovals returns approvals, optionally for one device.
func (s *Store) ListApprovals(ctx context.Context, deviceID string) ([]governance.ApprovalRequest, error) {
	var rows []model.ApprovalRequest
	query := s.db.WithContext(ctx)
	if deviceID == "" {
		query = query.Raw(`SELECT ` + approvalColumns + ` FROM approval_requests ORDER BY created_at DESC`)
	} else {
		query = query.Raw(`SELECT `+approvalColumns+` FROM approval_requests WHERE device_id = ? ORDER BY created_at DESC`, deviceID)
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	approvals := make([]governance.ApprovalRequest, 0, len(rows))
	for _, row := range rows {
		approvals = append(approvals, approvalFromRow(row))
	}
	return approvals, nil
}

// RequestApproval inserts a pending approval.
func (s *Store) RequestApproval(ctx context.Context, in governance.ApprovalInput) (*governance.ApprovalRequest, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	a := governance.ApprovalRequest{
		ID:          governance.NewID("approval"),
		DeviceID:    in.DeviceID,
		TicketID:    in.TicketID,
		RequestedBy: in.RequestedBy,
		Reason:      in.Reason,
		Status:      governance.ApprovalPending,
		CreatedAt:   s.stamp(),
	}
	err := s.db.WithContext(ctx).Exec(`
		INSERT INTO approval_requests (id, device_id, ticket_id, requested_by, reason, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.DeviceID, a.TicketID, a.RequestedBy, a.Reason, string(a.Status), a.CreatedAt).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ResolveApproval sets the terminal status of a pending approval.
func (s *Store) ResolveApproval(ctx context.Context, id string, status governance.ApprovalStatus, approver string) (*governance.ApprovalRequest, error) {
	if _, err := governance.ParseResolution(string(status)); err != nil {
		return nil, err
	}

	var rows []model.ApprovalRequest
	err := s.db.WithContext(ctx).Raw(`
		UPDATE approval_requests
		SET status = ?, approver = ?, resolved_at = ?
		WHERE id = ? AND status = ?
		RETURNING `+approvalColumns,
		string(status), approver, s.stamp(), id, string(governance.ApprovalPending),
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		var exists bool
		row := s.db.WithContext(ctx).Raw(`SELECT EXISTS (SELECT 1 FROM approval_requests WHERE id = ?)`, id).Row()
		if err := row.Scan(&exists); err != nil {
			return nil, err
		}
		if exists {
			return nil, governance.ErrApprovalResolved
		}
		return nil, governance.ErrApprovalNotFound
	}
	a := approvalFromRow(rows[0])
	return &a, nil
}

// HasApproved reports whether an approved request exists for the pair.
func (s *Store) HasApproved(ctx context.Context, deviceID, ticketID string) (bool, error) {
	var ok bool
	row := s.db.WithContext(ctx).Raw(`
		SELECT EXISTS (
			SELECT 1 FROM approval_requests
			WHERE device_id = ? AND ticket_id = ? AND status = ?
		)
	`, deviceID, ticketID, string(governance.ApprovalApproved)).Row()
	if err := row.Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

// ListMaintenanceWindows returns windows, most recent first.
func (s *Store) ListMaintenanceWindows(ctx context.Context) ([]governance.MaintenanceWindow, error) {
	var rows []model.MaintenanceWindow
	err := s.db.WithContext(ctx).Raw(`
		SELECT id, title, environment, start_at, end_at, created_by, created_at
		FROM maintenance_windows
		ORDER BY created_at DESC
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	windows := make([]governance.MaintenanceWindow, 0, len(rows))
	for _, row := range rows {
		windows = append(windows, governance.MaintenanceWindow{
			ID:          row.ID,
			Title:       row.Title,
			Environment: governance.Environment(row.Environment),
			StartAt:     row.StartAt,
			EndAt:       row.EndAt,
			CreatedBy:   row.CreatedBy,
			CreatedAt:   row.CreatedAt,
		})
	}
	return windows, nil
}

// CreateMaintenanceWindow validates and inserts a window.
func (s *Store) CreateMaintenanceWindow(ctx context.Context, in governance.MaintenanceWindowInput) (*governance.MaintenanceWindow, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	w := governance.MaintenanceWindow{
		ID:          governance.NewID("mw"),
		Title:       in.Title,
		Environment: in.Environment,
		StartAt:     in.StartAt.UTC(),
		EndAt:       in.EndAt.UTC(),
		CreatedBy:   in.CreatedBy,
		CreatedAt:   s.stamp(),
	}
	err := s.db.WithContext(ctx).Exec(`
		INSERT INTO maintenance_windows (id, title, environment, start_at, end_at, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, w.ID, w.Title, string(w.Environment), w.StartAt, w.EndAt, w.CreatedBy, w.CreatedAt).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// ListJitGrants returns grants, most recent first.
func (s *Store) ListJitGrants(ctx context.Context) ([]governance.JitGrant, error) {
	var rows []model.JitGrant
	err := s.db.WithContext(ctx).Raw(`
		SELECT id, user_id, role, expires_at, reason, created_by, created_at
		FROM jit_grants
		ORDER BY created_at DESC
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	grants := make([]governance.JitGrant, 0, len(rows))
	for _, row := range rows {
		grants = append(grants, governance.JitGrant{
			ID:        row.ID,
			UserID:    row.UserID,
			Role:      row.Role,
			ExpiresAt: row.ExpiresAt,
			Reason:    row.Reason,
			CreatedBy: row.CreatedBy,
			CreatedAt: row.CreatedAt,
		})
	}
	return grants, nil
}

// CreateJitGrant validates and inserts a grant.
func (s *Store) CreateJitGrant(ctx context.Context, in governance.JitGrantInput) (*governance.JitGrant, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	g := governance.JitGrant{
		ID:        governance.NewID("jit"),
		UserID:    in.UserID,
		Role:      in.Role,
		ExpiresAt: in.ExpiresAt.UTC(),
		Reason:    in.Reason,
		CreatedBy: in.CreatedBy,
		CreatedAt: s.stamp(),
	}
	err := s.db.WithContext(ctx).Exec(`
		INSERT INTO jit_grants (id, user_id, role, expires_at, reason, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, g.ID, g.UserID, g.Role, g.ExpiresAt, g.Reason, g.CreatedBy, g.CreatedAt).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// ListBreakGlassEvents returns events, most recent first.
func (s *Store) ListBreakGlassEvents(ctx context.Context) ([]governance.BreakGlassEvent, error) {
	var rows []model.BreakGlassEvent
	err := s.db.WithContext(ctx).Raw(`
		SELECT id, user_id, reason, created_at
		FROM break_glass_events
		ORDER BY created_at DESC
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	events := make([]governance.BreakGlassEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, governance.BreakGlassEvent{
			ID:        row.ID,
			UserID:    row.UserID,
			Reason:    row.Reason,
			CreatedAt: row.CreatedAt,
		})
	}
	return events, nil
}

// CreateBreakGlassEvent validates and inserts an event.
func (s *Store) CreateBreakGlassEvent(ctx context.Context, in governance.BreakGlassInput) (*governance.BreakGlassEvent, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	e := governance.BreakGlassEvent{
		ID:        governance.NewID("breakglass"),
		UserID:    in.UserID,
		Reason:    in.Reason,
		CreatedAt: s.stamp(),
	}
	err := s.db.WithContext(ctx).Exec(`
		INSERT INTO break_glass_events (id, user_id, reason, created_at)
		VALUES (?, ?, ?, ?)
	`, e.ID, e.UserID, e.Reason, e.CreatedAt).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

const evidenceColumns = `id, device_id, ticket_id, summary, snapshot_ids, created_by, created_at`

// ListEvidenceCases returns evidence cases, most recent first.
func (s *Store) ListEvidenceCases(ctx context.Context) ([]governance.EvidenceCase, error) {
	var rows []model.EvidenceCase
	err := s.db.WithContext(ctx).Raw(`SELECT ` + evidenceColumns + ` FROM evidence_cases ORDER BY created_at DESC`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	cases := make([]governance.EvidenceCase, 0, len(rows))
	for _, row := range rows {
		cases = append(cases, evidenceFromRow(row))
	}
	return cases, nil
}

// CreateEvidenceCase validates and inserts an evidence case.
func (s *Store) CreateEvidenceCase(ctx context.Context, in governance.EvidenceCaseInput) (*governance.EvidenceCase, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	snapshots := in.SnapshotIDs
	if snapshots == nil {
		snapshots = []string{}
	}
	e := governance.EvidenceCase{
		ID:          governance.NewID("evidence"),
		DeviceID:    in.DeviceID,
		TicketID:    in.TicketID,
		Summary:     in.Summary,
		SnapshotIDs: snapshots,
		CreatedBy:   in.CreatedBy,
		CreatedAt:   s.stamp(),
	}
	err := s.db.WithContext(ctx).Exec(`
		INSERT INTO evidence_cases (`+evidenceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.DeviceID, e.TicketID, e.Summary, pq.StringArray(e.SnapshotIDs), e.CreatedBy, e.CreatedAt).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// GetEvidenceCase fetches one evidence case.
func (s *Store) GetEvidenceCase(ctx context.Context, id string) (*governance.EvidenceCase, error) {
	var row model.EvidenceCase
	err := s.db.WithContext(ctx).Raw(`SELECT `+evidenceColumns+` FROM evidence_cases WHERE id = ?`, id).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, governance.ErrEvidenceNotFound
		}
		return nil, err
	}
	e := evidenceFromRow(row)
	return &e, nil
}

func policyFromRow(row model.Policy) governance.Policy {
	return governance.Policy{
		ID:              row.ID,
		Name:            row.Name,
		Environment:     governance.Environment(row.Environment),
		AllowList:       stringsOrEmpty(row.AllowList),
		DenyList:        stringsOrEmpty(row.DenyList),
		DangerousList:   stringsOrEmpty(row.DangerousList),
		RequireApproval: row.RequireApproval,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

func approvalFromRow(row model.ApprovalRequest) governance.ApprovalRequest {
	a := governance.ApprovalRequest{
		ID:          row.ID,
		DeviceID:    row.DeviceID,
		TicketID:    row.TicketID,
		RequestedBy: row.RequestedBy,
		Reason:      row.Reason,
		Status:      governance.ApprovalStatus(row.Status),
		CreatedAt:   row.CreatedAt,
		ResolvedAt:  row.ResolvedAt,
	}
	if row.Approver != nil {
		a.Approver = *row.Approver
	}
	return a
}

func evidenceFromRow(row model.EvidenceCase) governance.EvidenceCase {
	return governance.EvidenceCase{
		ID:          row.ID,
		DeviceID:    row.DeviceID,
		TicketID:    row.TicketID,
		Summary:     row.Summary,
		SnapshotIDs: stringsOrEmpty(row.SnapshotIDs),
		CreatedBy:   row.CreatedBy,
		CreatedAt:   row.CreatedAt,
	}
}

func stringsOrEmpty(a pq.StringArray) []string {
	if a == nil {
		return []string{}
	}
	return []string(a)
}
