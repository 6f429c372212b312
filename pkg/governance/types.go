package governance

import (
	"fmt"
	"strings"
	"time"

	"github.com/babasida246/NetOpsAI-sub007/pkg/apperr"
	"github.com/babasida246/NetOpsAI-sub007/pkg/rule"
)

// Environment is a deployment tier a policy applies to.
type Environment string

const (
	EnvDev     Environment = "dev"
	EnvStaging Environment = "staging"
	EnvProd    Environment = "prod"
	EnvAll     Environment = "all"
)

// ParseEnvironment validates s.
func ParseEnvironment(s string) (Environment, error) {
	switch e := Environment(s); e {
	case EnvDev, EnvStaging, EnvProd, EnvAll:
		return e, nil
	}
	return "", apperr.Validation("Unsupported environment: " + s)
}

// Policy is the command and config rulebook for one environment.
type Policy struct {
	ID              string      `json:"id" yaml:"id"`
	Name            string      `json:"name" yaml:"name"`
	Environment     Environment `json:"environment" yaml:"environment"`
	AllowList       []string    `json:"allowList" yaml:"allowList"`
	DenyList        []string    `json:"denyList" yaml:"denyList"`
	DangerousList   []string    `json:"dangerousList" yaml:"dangerousList"`
	RequireApproval bool        `json:"requireApproval" yaml:"requireApproval"`
	CreatedAt       time.Time   `json:"createdAt" yaml:"-"`
	UpdatedAt       time.Time   `json:"updatedAt" yaml:"-"`
}

// Rules compiles the policy lists. Patterns were checked when the policy
// was saved; one that still fails to compile never matches.
func (p Policy) Rules() rule.Set {
	return rule.Set{
		Allow:     rule.CompileList(p.AllowList),
		Deny:      rule.CompileList(p.DenyList),
		Dangerous: rule.CompileList(p.DangerousList),
	}
}

// Validate checks the environment and parses every rule.
func (p Policy) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return apperr.Validation("Policy name is required")
	}
	if _, err := ParseEnvironment(string(p.Environment)); err != nil {
		return err
	}
	lists := []struct {
		name     string
		patterns []string
	}{
		{"allowList", p.AllowList},
		{"denyList", p.DenyList},
		{"dangerousList", p.DangerousList},
	}
	for _, l := range lists {
		if _, err := rule.ParseList(l.patterns); err != nil {
			return &apperr.Error{
				Kind:    apperr.KindValidation,
				Message: fmt.Sprintf("Invalid %s: %v", l.name, err),
				Err:     err,
			}
		}
	}
	return nil
}

// PolicyInput holds the administrator-supplied fields of a new policy.
type PolicyInput struct {
	Name            string      `json:"name" yaml:"name"`
	Environment     Environment `json:"environment" yaml:"environment"`
	AllowList       []string    `json:"allowList" yaml:"allowList"`
	DenyList        []string    `json:"denyList" yaml:"denyList"`
	DangerousList   []string    `json:"dangerousList" yaml:"dangerousList"`
	RequireApproval bool        `json:"requireApproval" yaml:"requireApproval"`
}

// PolicyPatch updates the non-nil fields of a policy.
type PolicyPatch struct {
	Name            *string      `json:"name,omitempty"`
	Environment     *Environment `json:"environment,omitempty"`
	AllowList       *[]string    `json:"allowList,omitempty"`
	DenyList        *[]string    `json:"denyList,omitempty"`
	DangerousList   *[]string    `json:"dangerousList,omitempty"`
	RequireApproval *bool        `json:"requireApproval,omitempty"`
}

// Apply returns p with the patch applied.
func (patch PolicyPatch) Apply(p Policy) Policy {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Environment != nil {
		p.Environment = *patch.Environment
	}
	if patch.AllowList != nil {
		p.AllowList = cloneStrings(*patch.AllowList)
	}
	if patch.DenyList != nil {
		p.DenyList = cloneStrings(*patch.DenyList)
	}
	if patch.DangerousList != nil {
		p.DangerousList = cloneStrings(*patch.DangerousList)
	}
	if patch.RequireApproval != nil {
		p.RequireApproval = *patch.RequireApproval
	}
	return p
}

// ApprovalStatus is the state of an approval request.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// ParseResolution accepts the two terminal statuses.
func ParseResolution(s string) (ApprovalStatus, error) {
	switch st := ApprovalStatus(s); st {
	case ApprovalApproved, ApprovalRejected:
		return st, nil
	}
	return "", apperr.Validation("Approval status must be approved or rejected")
}

// ApprovalRequest is a sign-off for a (device, ticket) pair.
type ApprovalRequest struct {
	ID          string         `json:"id"`
	DeviceID    string         `json:"deviceId"`
	TicketID    string         `json:"ticketId"`
	RequestedBy string         `json:"requestedBy"`
	Reason      string         `json:"reason"`
	Status      ApprovalStatus `json:"status"`
	CreatedAt   time.Time      `json:"createdAt"`
	ResolvedAt  *time.Time     `json:"resolvedAt,omitempty"`
	Approver    string         `json:"approver,omitempty"`
}

// ApprovalInput requests a new approval.
type ApprovalInput struct {
	DeviceID    string `json:"deviceId"`
	TicketID    string `json:"ticketId"`
	RequestedBy string `json:"requestedBy"`
	Reason      string `json:"reason"`
}

func (in ApprovalInput) Validate() error {
	if in.DeviceID == "" || in.TicketID == "" {
		return apperr.Validation("Device ID and ticket ID are required")
	}
	return nil
}

// MaintenanceWindow is a declared time range for change activity.
type MaintenanceWindow struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Environment Environment `json:"environment"`
	StartAt     time.Time   `json:"startAt"`
	EndAt       time.Time   `json:"endAt"`
	CreatedBy   string      `json:"createdBy"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// Contains reports whether t falls inside the window.
func (w MaintenanceWindow) Contains(t time.Time) bool {
	return !t.Before(w.StartAt) && t.Before(w.EndAt)
}

type MaintenanceWindowInput struct {
	Title       string      `json:"title"`
	Environment Environment `json:"environment"`
	StartAt     time.Time   `json:"startAt"`
	EndAt       time.Time   `json:"endAt"`
	CreatedBy   string      `json:"createdBy"`
}

func (in MaintenanceWindowInput) Validate() error {
	if _, err := ParseEnvironment(string(in.Environment)); err != nil {
		return err
	}
	if !in.StartAt.Before(in.EndAt) {
		return apperr.Validation("Maintenance window must start before it ends")
	}
	return nil
}

// JitGrant is a time-boxed role elevation. Nothing revokes it; callers
// compare ExpiresAt with the current time.
type JitGrant struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
	Reason    string    `json:"reason"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// Active reports whether the grant has not expired at now.
func (g JitGrant) Active(now time.Time) bool {
	return now.Before(g.ExpiresAt)
}

type JitGrantInput struct {
	UserID    string    `json:"userId"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
	Reason    string    `json:"reason"`
	CreatedBy string    `json:"createdBy"`
}

func (in JitGrantInput) Validate() error {
	if in.UserID == "" || in.Role == "" {
		return apperr.Validation("User ID and role are required")
	}
	if in.ExpiresAt.IsZero() {
		return apperr.Validation("Expiry is required")
	}
	return nil
}

// BreakGlassEvent records an emergency override. It is evidence only and
// grants nothing.
type BreakGlassEvent struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"createdAt"`
}

type BreakGlassInput struct {
	UserID string `json:"userId"`
	Reason string `json:"reason"`
}

func (in BreakGlassInput) Validate() error {
	if in.UserID == "" {
		return apperr.Validation("User ID is required")
	}
	if len(strings.TrimSpace(in.Reason)) < 5 {
		return apperr.Validation("Reason is required for break-glass")
	}
	return nil
}

// EvidenceCase bundles collector snapshots for an investigation.
type EvidenceCase struct {
	ID          string    `json:"id"`
	DeviceID    string    `json:"deviceId"`
	TicketID    string    `json:"ticketId"`
	Summary     string    `json:"summary"`
	SnapshotIDs []string  `json:"snapshotIds"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

type EvidenceCaseInput struct {
	DeviceID    string   `json:"deviceId"`
	TicketID    string   `json:"ticketId"`
	Summary     string   `json:"summary"`
	SnapshotIDs []string `json:"snapshotIds"`
	CreatedBy   string   `json:"createdBy"`
}

func (in EvidenceCaseInput) Validate() error {
	if in.DeviceID == "" {
		return apperr.Validation("Device ID is required")
	}
	return nil
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
