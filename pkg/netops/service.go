// Package netops ties the governance store, the change-control gate and
// the config tooling together into the governed operations the API and
// CLI expose: config generate, lint and push, and MikroTik compilation.
package netops

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/babasida246/NetOpsAI-sub007/pkg/apperr"
	"github.com/babasida246/NetOpsAI-sub007/pkg/audit"
	"github.com/babasida246/NetOpsAI-sub007/pkg/changecontrol"
	"github.com/babasida246/NetOpsAI-sub007/pkg/configtool"
	"github.com/babasida246/NetOpsAI-sub007/pkg/governance"
	"github.com/babasida246/NetOpsAI-sub007/pkg/identity"
	"github.com/babasida246/NetOpsAI-sub007/pkg/logging"
	"github.com/babasida246/NetOpsAI-sub007/pkg/mikrotik"
	"github.com/babasida246/NetOpsAI-sub007/pkg/rule"
)

// UnassignedTicket is used when a push names no ticket.
const UnassignedTicket = "UNASSIGNED"

// Push rejection reasons.
var (
	ErrReadOnlyPush       = apperr.Validation("Config push requires a write risk level")
	ErrCommandsRequired   = apperr.Validation("Commands are required")
	ErrEmptyAllowList     = apperr.Forbidden("Command allowlist is empty")
	ErrCommandBlocked     = apperr.Forbidden("Command blocked by policy")
	ErrDangerousCommand   = apperr.Forbidden("Dangerous command requires approval")
	ErrPushNeedsApproval  = apperr.Forbidden("Approval required before pushing config")
	ErrDeviceIDRequired   = apperr.Validation("Device ID is required")
	ErrUnauthenticatedOps = apperr.Forbidden("Authentication required")
)

// Collector applies accepted pushes to a device and returns its output.
type Collector interface {
	Apply(ctx context.Context, req PushRequest) ([]string, error)
}

// CollectorFunc adapts a function to Collector.
type CollectorFunc func(ctx context.Context, req PushRequest) ([]string, error)

func (f CollectorFunc) Apply(ctx context.Context, req PushRequest) ([]string, error) {
	return f(ctx, req)
}

type Service struct {
	store               governance.Store
	recorder            *audit.Recorder
	collector           Collector
	requireWindowInProd bool
	defaultEnvironment  governance.Environment
}

type Option func(*Service)

func WithRecorder(r *audit.Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithCollector delivers accepted, non dry-run pushes to c.
func WithCollector(c Collector) Option {
	return func(s *Service) { s.collector = c }
}

// WithMaintenanceWindowInProd controls whether R2/R3 pushes in prod need a
// maintenance window id. It is on by default.
func WithMaintenanceWindowInProd(required bool) Option {
	return func(s *Service) { s.requireWindowInProd = required }
}

// WithDefaultEnvironment sets the environment of configs that name none.
func WithDefaultEnvironment(env governance.Environment) Option {
	return func(s *Service) { s.defaultEnvironment = env }
}

func NewService(store governance.Store, opts ...Option) *Service {
	s := &Service{
		store:               store,
		requireWindowInProd: true,
		defaultEnvironment:  governance.EnvDev,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the governance store the service decides against.
func (s *Service) Store() governance.Store {
	return s.store
}

// PushRequest is a governed config push.
type PushRequest struct {
	DeviceID            string             `json:"deviceId"`
	Vendor              configtool.Vendor  `json:"vendor"`
	Commands            []string           `json:"commands"`
	Config              *configtool.Config `json:"config,omitempty"`
	TicketID            string             `json:"ticketId,omitempty"`
	RiskLevel           string             `json:"riskLevel,omitempty"`
	Reason              string             `json:"reason,omitempty"`
	ChangeRequestID     string             `json:"changeRequestId,omitempty"`
	DryRun              bool               `json:"dryRun,omitempty"`
	RollbackPlan        string             `json:"rollbackPlan,omitempty"`
	Precheck            []string           `json:"precheck,omitempty"`
	Postcheck           []string           `json:"postcheck,omitempty"`
	MaintenanceWindowID string             `json:"maintenanceWindowId,omitempty"`
	BreakGlass          bool               `json:"breakGlass,omitempty"`
}

func (r PushRequest) environment(fallback governance.Environment) governance.Environment {
	if r.Config != nil && r.Config.Metadata != nil && r.Config.Metadata.Environment != "" {
		return r.Config.Metadata.Environment
	}
	return fallback
}

func (r PushRequest) ticket() string {
	if t := strings.TrimSpace(r.TicketID); t != "" {
		return t
	}
	return UnassignedTicket
}

type PushStatus string

const (
	PushSuccess PushStatus = "success"
	PushDryRun  PushStatus = "dry_run"
)

type PushResult struct {
	Status  PushStatus `json:"status"`
	Details []string   `json:"details"`
	Output  []string   `json:"output,omitempty"`
}

// pushRisk normalizes the requested risk level. Pushes are writes, so an
// empty level means R1_SAFE_WRITE and R0_READ is rejected.
func pushRisk(s string) (changecontrol.RiskLevel, error) {
	if strings.TrimSpace(s) == "" {
		return changecontrol.R1SafeWrite, nil
	}
	level, err := changecontrol.NormalizeRiskLevel(s)
	if err != nil {
		return level, err
	}
	if level == changecontrol.R0Read {
		return level, ErrReadOnlyPush
	}
	return level, nil
}

// dangerousCommand returns the first command that the policy flags as
// dangerous. MikroTik pushes are also checked for destructive script
// patterns.
func dangerousCommand(req PushRequest, rules rule.Set) string {
	for _, cmd := range req.Commands {
		if rule.IsDangerous(cmd, rules.Dangerous) {
			return cmd
		}
		if req.Vendor == configtool.VendorMikroTik && len(mikrotik.DetectDangerous(cmd)) > 0 {
			return cmd
		}
	}
	return ""
}

// Push decides a config push. The checks run in a fixed order and the
// first failing one is returned. Every refusal after the device and policy
// are known is audited as config_push_blocked before it is returned.
func (s *Service) Push(ctx context.Context, caller *identity.Identity, req PushRequest) (*PushResult, error) {
	if caller == nil {
		return nil, ErrUnauthenticatedOps
	}
	if strings.TrimSpace(req.DeviceID) == "" {
		return nil, ErrDeviceIDRequired
	}
	env := req.environment(s.defaultEnvironment)
	policy, err := governance.ResolvePolicy(ctx, s.store, env)
	if err != nil {
		return nil, err
	}

	ticket := req.ticket()
	event := audit.PushEvent{
		UserID:      caller.UserID,
		IPAddress:   caller.IP(),
		UserAgent:   caller.UserAgent,
		DeviceID:    req.DeviceID,
		Vendor:      string(req.Vendor),
		Environment: string(env),
		TicketID:    ticket,
		RiskLevel:   req.RiskLevel,
		Commands:    req.Commands,
	}
	block := func(reason *apperr.Error, command string) (*PushResult, error) {
		e := event
		e.Decision = audit.PushBlocked
		e.Reason = reason.Message
		if command != "" {
			e.Commands = []string{command}
		}
		s.recorder.Record(ctx, e)
		return nil, reason
	}
	// reject audits a failed precondition. Errors that carry no decision,
	// such as a store failure, are returned as they are.
	reject := func(err error) (*PushResult, error) {
		var appErr *apperr.Error
		if errors.As(err, &appErr) && appErr.Kind != apperr.KindInternal {
			return block(appErr, "")
		}
		return nil, err
	}

	level, err := pushRisk(req.RiskLevel)
	if err != nil {
		return reject(err)
	}
	event.RiskLevel = level.String()
	if err := changecontrol.EnforceReason(level, req.Reason); err != nil {
		return reject(err)
	}
	if err := changecontrol.RequirePermission(caller.Subject(), changecontrol.PermChangeExecute); err != nil {
		return reject(err)
	}

	requiresApproval := env == governance.EnvProd || policy.RequireApproval || level.IsChange()
	approved := true
	if requiresApproval {
		approved, err = s.store.HasApproved(ctx, req.DeviceID, ticket)
		if err != nil {
			return nil, fmt.Errorf("checking approval: %w", err)
		}
	}

	err = changecontrol.Enforce(changecontrol.Input{
		Level:                    level,
		ChangeRequestID:          req.ChangeRequestID,
		ApprovalGranted:          approved,
		DryRun:                   req.DryRun,
		RollbackPlan:             req.RollbackPlan,
		Precheck:                 req.Precheck,
		Postcheck:                req.Postcheck,
		MaintenanceWindowID:      req.MaintenanceWindowID,
		RequireMaintenanceWindow: s.requireWindowInProd && env == governance.EnvProd,
		BreakGlassAllowed:        req.BreakGlass && caller.Role == changecontrol.RoleSuperAdmin,
	})
	if err != nil {
		return reject(err)
	}

	if len(req.Commands) == 0 {
		return block(ErrCommandsRequired, "")
	}
	if len(policy.AllowList) == 0 {
		return block(ErrEmptyAllowList, "")
	}

	rules := policy.Rules()
	for _, cmd := range req.Commands {
		if verdict, _ := rules.Evaluate(cmd); verdict != rule.Allowed {
			return block(ErrCommandBlocked, cmd)
		}
	}

	if req.DryRun {
		e := event
		e.Decision = audit.PushDryRun
		s.recorder.Record(ctx, e)
		return &PushResult{Status: PushDryRun, Details: []string{"Dry-run only. No config applied."}}, nil
	}

	if cmd := dangerousCommand(req, rules); cmd != "" && env == governance.EnvProd && !approved {
		return block(ErrDangerousCommand, cmd)
	}
	if requiresApproval && !approved {
		return block(ErrPushNeedsApproval, "")
	}

	result := &PushResult{Status: PushSuccess, Details: []string{"Config push accepted (mock)."}}
	if s.collector != nil {
		out, err := s.collector.Apply(ctx, req)
		if err != nil {
			logging.L().Errorw("collector apply failed", "device", req.DeviceID, "error", err)
			e := event
			e.Decision = audit.PushBlocked
			e.Reason = "collector failure"
			s.recorder.Record(ctx, e)
			return nil, apperr.Transport("Device collector failed", err)
		}
		result.Details = []string{"Config push applied."}
		result.Output = out
	}

	e := event
	e.Decision = audit.PushApplied
	s.recorder.Record(ctx, e)
	return result, nil
}
