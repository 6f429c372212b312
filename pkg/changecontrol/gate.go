// Package changecontrol is the rulebook every risky action passes before it
// may touch a device.
//
// Enforce is a pure function over Input. Its checks run in a fixed order and
// the first failing check decides the error, so callers get the most basic
// unmet precondition first:
//
//  1. R0 and R1 pass without further checks.
//  2. A change request id is required.
//  3. A maintenance window is required when the caller demands one.
//  4. R3 requires break-glass.
//  5. A dry run stops here and passes.
//  6. Approval must be granted.
//  7. A rollback plan of at least MinRollbackPlanLength characters is required.
//  8. Precheck and postcheck commands are required.
package changecontrol

import (
	"strings"

	"github.com/babasida246/NetOpsAI-sub007/pkg/apperr"
)

// MinRollbackPlanLength is the shortest rollback plan accepted for change
// class actions.
const MinRollbackPlanLength = 10

var (
	ErrReasonRequired            = apperr.Validation("Reason is required for write actions")
	ErrChangeRequestRequired     = apperr.Validation("Change request ID is required for R2/R3 actions")
	ErrMaintenanceWindowRequired = apperr.Validation("Maintenance window is required for R2/R3 actions")
	ErrBreakGlassRequired        = apperr.Forbidden("Break-glass approval required for R3 actions")
	ErrApprovalRequired          = apperr.Forbidden("Approval is required before executing R2/R3 actions")
	ErrRollbackPlanRequired      = apperr.Validation("Rollback plan is required for R2/R3 actions")
	ErrPrecheckRequired          = apperr.Validation("Precheck commands are required for R2/R3 actions")
	ErrPostcheckRequired         = apperr.Validation("Postcheck commands are required for R2/R3 actions")
)

// Input describes a proposed action.
type Input struct {
	Level               RiskLevel
	ChangeRequestID     string
	ApprovalGranted     bool
	DryRun              bool
	RollbackPlan        string
	Precheck            []string
	Postcheck           []string
	MaintenanceWindowID string

	// RequireMaintenanceWindow is set by the caller's configuration, for
	// example for every change in prod.
	RequireMaintenanceWindow bool

	// BreakGlassAllowed is decided by the caller from the request and the
	// requester's role.
	BreakGlassAllowed bool
}

// Enforce runs the change-control checks against in.
func Enforce(in Input) error {
	if !in.Level.IsChange() {
		return nil
	}
	if in.ChangeRequestID == "" {
		return ErrChangeRequestRequired
	}
	if in.RequireMaintenanceWindow && in.MaintenanceWindowID == "" {
		return ErrMaintenanceWindowRequired
	}
	if in.Level == R3Dangerous && !in.BreakGlassAllowed {
		return ErrBreakGlassRequired
	}
	if in.DryRun {
		return nil
	}
	if !in.ApprovalGranted {
		return ErrApprovalRequired
	}
	if len(strings.TrimSpace(in.RollbackPlan)) < MinRollbackPlanLength {
		return ErrRollbackPlanRequired
	}
	if len(in.Precheck) == 0 {
		return ErrPrecheckRequired
	}
	if len(in.Postcheck) == 0 {
		return ErrPostcheckRequired
	}
	return nil
}
