// Package governance holds the per-environment policies and the governance
// artifacts around a change: approvals, maintenance windows, JIT grants,
// break-glass events and evidence cases.
//
// The Store interface is implemented in memory by MemoryStore and on
// Postgres by the gorm subpackage. Every list is returned most recent
// first, and every list and lookup returns copies the caller may modify.
//
//	store := governance.NewMemoryStore()
//	policy, err := governance.ResolvePolicy(ctx, store, governance.EnvProd)
//	if err != nil {
//	    return err
//	}
//	verdict, dangerous := policy.Rules().Evaluate("reload")
package governance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/babasida246/NetOpsAI-sub007/pkg/apperr"
)

var (
	ErrPolicyNotFound   = apperr.NotFound("Policy not found")
	ErrApprovalNotFound = apperr.NotFound("Approval not found")
	ErrApprovalResolved = apperr.Validation("Approval already resolved")
	ErrEvidenceNotFound = apperr.NotFound("Evidence case not found")
)

// Store persists policies and governance artifacts.
type Store interface {
	ListPolicies(ctx context.Context) ([]Policy, error)
	CreatePolicy(ctx context.Context, in PolicyInput) (*Policy, error)
	// UpdatePolicy returns ErrPolicyNotFound for an unknown id.
	UpdatePolicy(ctx context.Context, id string, patch PolicyPatch) (*Policy, error)

	// ListApprovals filters by device when deviceID is not empty.
	ListApprovals(ctx context.Context, deviceID string) ([]ApprovalRequest, error)
	RequestApproval(ctx context.Context, in ApprovalInput) (*ApprovalRequest, error)
	// ResolveApproval returns ErrApprovalNotFound for an unknown id and
	// ErrApprovalResolved once the request left pending.
	ResolveApproval(ctx context.Context, id string, status ApprovalStatus, approver string) (*ApprovalRequest, error)
	// HasApproved reports whether any approval for the pair is approved.
	HasApproved(ctx context.Context, deviceID, ticketID string) (bool, error)

	ListMaintenanceWindows(ctx context.Context) ([]MaintenanceWindow, error)
	CreateMaintenanceWindow(ctx context.Context, in MaintenanceWindowInput) (*MaintenanceWindow, error)

	ListJitGrants(ctx context.Context) ([]JitGrant, error)
	CreateJitGrant(ctx context.Context, in JitGrantInput) (*JitGrant, error)

	ListBreakGlassEvents(ctx context.Context) ([]BreakGlassEvent, error)
	CreateBreakGlassEvent(ctx context.Context, in BreakGlassInput) (*BreakGlassEvent, error)

	ListEvidenceCases(ctx context.Context) ([]EvidenceCase, error)
	CreateEvidenceCase(ctx context.Context, in EvidenceCaseInput) (*EvidenceCase, error)
	// GetEvidenceCase returns ErrEvidenceNotFound for an unknown id.
	GetEvidenceCase(ctx context.Context, id string) (*EvidenceCase, error)
}

// DefaultPolicyID identifies the built-in fallback policy.
const DefaultPolicyID = "policy-default"

// DefaultPolicy is used when no stored policy matches an environment. Its
// allow list is empty, so it admits no command until an administrator
// defines one.
func DefaultPolicy() Policy {
	return Policy{
		ID:            DefaultPolicyID,
		Name:          "Default Policy",
		Environment:   EnvAll,
		AllowList:     []string{},
		DenyList:      []string{"reload", "erase", "reset-configuration", "format", "delete"},
		DangerousList: []string{"reload", "erase", "reset-configuration", "write erase"},
	}
}

// Resolve picks the policy for env from policies: the first exact match,
// then the first "all" policy, then DefaultPolicy. policies is expected in
// store order, most recent first.
func Resolve(policies []Policy, env Environment) Policy {
	for _, p := range policies {
		if p.Environment == env {
			return p
		}
	}
	for _, p := range policies {
		if p.Environment == EnvAll {
			return p
		}
	}
	return DefaultPolicy()
}

// ResolvePolicy reads the current policies from s and resolves env.
func ResolvePolicy(ctx context.Context, s Store, env Environment) (Policy, error) {
	policies, err := s.ListPolicies(ctx)
	if err != nil {
		return Policy{}, fmt.Errorf("listing policies: %w", err)
	}
	return Resolve(policies, env), nil
}

// NewID returns a prefixed random identifier such as "approval_<uuid>".
func NewID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

// BuildPolicy validates in and returns the policy a store creates at now.
func BuildPolicy(in PolicyInput, now time.Time) (Policy, error) {
	p := Policy{
		ID:              NewID("policy"),
		Name:            in.Name,
		Environment:     in.Environment,
		AllowList:       nonNil(in.AllowList),
		DenyList:        nonNil(in.DenyList),
		DangerousList:   nonNil(in.DangerousList),
		RequireApproval: in.RequireApproval,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

// PatchPolicy applies patch to p, validates the result and stamps
// UpdatedAt.
func PatchPolicy(p Policy, patch PolicyPatch, now time.Time) (Policy, error) {
	updated := patch.Apply(p)
	updated.ID = p.ID
	updated.CreatedAt = p.CreatedAt
	updated.UpdatedAt = now
	if err := updated.Validate(); err != nil {
		return Policy{}, err
	}
	return updated, nil
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return cloneStrings(in)
}
