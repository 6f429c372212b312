package governance

import (
	"context"
	"sync"
	"time"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore is an in-process Store. All operations are serialized by a
// single mutex.
type MemoryStore struct {
	mu  sync.Mutex
	now func() time.Time

	policies           []Policy
	approvals          []ApprovalRequest
	maintenanceWindows []MaintenanceWindow
	jitGrants          []JitGrant
	breakGlassEvents   []BreakGlassEvent
	evidenceCases      []EvidenceCase
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock overrides the time source used to stamp records.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		s.now = now
	}
}

// NewMemoryStore returns an empty store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func prepend[T any](list []T, v T) []T {
	return append([]T{v}, list...)
}

func (s *MemoryStore) ListPolicies(_ context.Context) ([]Policy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Policy, len(s.policies))
	for i, p := range s.policies {
		out[i] = copyPolicy(p)
	}
	return out, nil
}

func (s *MemoryStore) CreatePolicy(_ context.Context, in PolicyInput) (*Policy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := BuildPolicy(in, s.now().UTC())
	if err != nil {
		return nil, err
	}
	s.policies = prepend(s.policies, p)
	out := copyPolicy(p)
	return &out, nil
}

func (s *MemoryStore) UpdatePolicy(_ context.Context, id string, patch PolicyPatch) (*Policy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.policies {
		if p.ID != id {
			continue
		}
		updated, err := PatchPolicy(p, patch, s.now().UTC())
		if err != nil {
			return nil, err
		}
		s.policies[i] = updated
		out := copyPolicy(updated)
		return &out, nil
	}
	return nil, ErrPolicyNotFound
}

func (s *MemoryStore) ListApprovals(_ context.Context, deviceID string) ([]ApprovalRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]ApprovalRequest, 0, len(s.approvals))
	for _, a := range s.approvals {
		if deviceID != "" && a.DeviceID != deviceID {
			continue
		}
		out = append(out, copyApproval(a))
	}
	return out, nil
}

func (s *MemoryStore) RequestApproval(_ context.Context, in ApprovalInput) (*ApprovalRequest, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a := ApprovalRequest{
		ID:          NewID("approval"),
		DeviceID:    in.DeviceID,
		TicketID:    in.TicketID,
		RequestedBy: in.RequestedBy,
		Reason:      in.Reason,
		Status:      ApprovalPending,
		CreatedAt:   s.now().UTC(),
	}
	s.approvals = prepend(s.approvals, a)
	return &a, nil
}

func (s *MemoryStore) ResolveApproval(_ context.Context, id string, status ApprovalStatus, approver string) (*ApprovalRequest, error) {
	if _, err := ParseResolution(string(status)); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.approvals {
		a := &s.approvals[i]
		if a.ID != id {
			continue
		}
		if a.Status != ApprovalPending {
			return nil, ErrApprovalResolved
		}
		resolvedAt := s.now().UTC()
		a.Status = status
		a.Approver = approver
		a.ResolvedAt = &resolvedAt
		out := copyApproval(*a)
		return &out, nil
	}
	return nil, ErrApprovalNotFound
}

func (s *MemoryStore) HasApproved(_ context.Context, deviceID, ticketID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.approvals {
		if a.DeviceID == deviceID && a.TicketID == ticketID && a.Status == ApprovalApproved {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) ListMaintenanceWindows(_ context.Context) ([]MaintenanceWindow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]MaintenanceWindow{}, s.maintenanceWindows...), nil
}

func (s *MemoryStore) CreateMaintenanceWindow(_ context.Context, in MaintenanceWindowInput) (*MaintenanceWindow, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	w := MaintenanceWindow{
		ID:          NewID("mw"),
		Title:       in.Title,
		Environment: in.Environment,
		StartAt:     in.StartAt.UTC(),
		EndAt:       in.EndAt.UTC(),
		CreatedBy:   in.CreatedBy,
		CreatedAt:   s.now().UTC(),
	}
	s.maintenanceWindows = prepend(s.maintenanceWindows, w)
	return &w, nil
}

func (s *MemoryStore) ListJitGrants(_ context.Context) ([]JitGrant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]JitGrant{}, s.jitGrants...), nil
}

func (s *MemoryStore) CreateJitGrant(_ context.Context, in JitGrantInput) (*JitGrant, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	g := JitGrant{
		ID:        NewID("jit"),
		UserID:    in.UserID,
		Role:      in.Role,
		ExpiresAt: in.ExpiresAt.UTC(),
		Reason:    in.Reason,
		CreatedBy: in.CreatedBy,
		CreatedAt: s.now().UTC(),
	}
	s.jitGrants = prepend(s.jitGrants, g)
	return &g, nil
}

func (s *MemoryStore) ListBreakGlassEvents(_ context.Context) ([]BreakGlassEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]BreakGlassEvent{}, s.breakGlassEvents...), nil
}

func (s *MemoryStore) CreateBreakGlassEvent(_ context.Context, in BreakGlassInput) (*BreakGlassEvent, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e := BreakGlassEvent{
		ID:        NewID("breakglass"),
		UserID:    in.UserID,
		Reason:    in.Reason,
		CreatedAt: s.now().UTC(),
	}
	s.breakGlassEvents = prepend(s.breakGlassEvents, e)
	return &e, nil
}

func (s *MemoryStore) ListEvidenceCases(_ context.Context) ([]EvidenceCase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]EvidenceCase, len(s.evidenceCases))
	for i, e := range s.evidenceCases {
		out[i] = copyEvidence(e)
	}
	return out, nil
}

func (s *MemoryStore) CreateEvidenceCase(_ context.Context, in EvidenceCaseInput) (*EvidenceCase, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e := EvidenceCase{
		ID:          NewID("evidence"),
		DeviceID:    in.DeviceID,
		TicketID:    in.TicketID,
		Summary:     in.Summary,
		SnapshotIDs: nonNil(in.SnapshotIDs),
		CreatedBy:   in.CreatedBy,
		CreatedAt:   s.now().UTC(),
	}
	s.evidenceCases = prepend(s.evidenceCases, e)
	out := copyEvidence(e)
	return &out, nil
}

func (s *MemoryStore) GetEvidenceCase(_ context.Context, id string) (*EvidenceCase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.evidenceCases {
		if e.ID == id {
			out := copyEvidence(e)
			return &out, nil
		}
	}
	return nil, ErrEvidenceNotFound
}

func copyPolicy(p Policy) Policy {
	p.AllowList = cloneStrings(p.AllowList)
	p.DenyList = cloneStrings(p.DenyList)
	p.DangerousList = cloneStrings(p.DangerousList)
	return p
}

func copyApproval(a ApprovalRequest) ApprovalRequest {
	if a.ResolvedAt != nil {
		t := *a.ResolvedAt
		a.ResolvedAt = &t
	}
	return a
}

func copyEvidence(e EvidenceCase) EvidenceCase {
	e.SnapshotIDs = cloneStrings(e.SnapshotIDs)
	return e
}
