package audit

// PolicyEvent records an administrator change to a policy.
type PolicyEvent struct {
	UserID       string
	IPAddress    string
	PolicyID     string
	Environment  string
	Operation    string // "create", "update", "load"
	Success      bool
	ErrorMessage string
}

func (e PolicyEvent) Entry() Entry {
	details := map[string]any{"environment": e.Environment}
	outcome := OutcomeAllowed
	if !e.Success {
		outcome = OutcomeBlocked
		details["error"] = e.ErrorMessage
	}
	return Entry{
		UserID:     e.UserID,
		Action:     "policy_" + e.Operation,
		Resource:   "policy",
		ResourceID: e.PolicyID,
		Outcome:    outcome,
		Details:    details,
		IPAddress:  e.IPAddress,
	}
}

// ApprovalEvent records a request for, or the resolution of, an approval.
type ApprovalEvent struct {
	UserID     string
	IPAddress  string
	ApprovalID string
	DeviceID   string
	TicketID   string
	Status     string
	Resolved   bool
}

func (e ApprovalEvent) Entry() Entry {
	action := "approval_request"
	if e.Resolved {
		action = "approval_resolve"
	}
	return Entry{
		UserID:     e.UserID,
		Action:     action,
		Resource:   "approval",
		ResourceID: e.ApprovalID,
		Outcome:    OutcomeAllowed,
		Details: map[string]any{
			"deviceId": e.DeviceID,
			"ticketId": e.TicketID,
			"status":   e.Status,
		},
		IPAddress: e.IPAddress,
	}
}

// PushDecision is the result of a governed config push.
type PushDecision string

const (
	PushBlocked PushDecision = "blocked"
	PushDryRun  PushDecision = "dry_run"
	PushApplied PushDecision = "success"
)

// pushSampleSize bounds how many commands a push entry carries.
const pushSampleSize = 5

// PushEvent records a config push decision.
type PushEvent struct {
	UserID      string
	IPAddress   string
	UserAgent   string
	DeviceID    string
	Vendor      string
	Environment string
	TicketID    string
	RiskLevel   string
	Decision    PushDecision
	Reason      string
	Commands    []string
}

func (e PushEvent) Entry() Entry {
	action, outcome := "config_push", OutcomeAllowed
	switch e.Decision {
	case PushBlocked:
		action, outcome = "config_push_blocked", OutcomeBlocked
	case PushDryRun:
		action, outcome = "config_push_dry_run", OutcomeSimulated
	}

	sample := e.Commands
	if len(sample) > pushSampleSize {
		sample = sample[:pushSampleSize]
	}
	details := map[string]any{
		"vendor":       e.Vendor,
		"environment":  e.Environment,
		"ticketId":     e.TicketID,
		"riskLevel":    e.RiskLevel,
		"commandCount": len(e.Commands),
		"sample":       append([]string(nil), sample...),
	}
	if e.Reason != "" {
		details["reason"] = e.Reason
	}
	return Entry{
		UserID:     e.UserID,
		Action:     action,
		Resource:   "device",
		ResourceID: e.DeviceID,
		Outcome:    outcome,
		Details:    details,
		IPAddress:  e.IPAddress,
		UserAgent:  e.UserAgent,
	}
}

// SessionEvent records an interactive session lifecycle step or command
// decision.
type SessionEvent struct {
	UserID    string
	IPAddress string
	SessionID string
	DeviceID  string
	Operation string // "open", "close", "command"
	Command   string
	Blocked   bool
	Dangerous bool
	Reason    string
}

func (e SessionEvent) Entry() Entry {
	outcome := OutcomeAllowed
	switch {
	case e.Blocked:
		outcome = OutcomeBlocked
	case e.Dangerous:
		outcome = OutcomeEscalated
	}
	details := map[string]any{"deviceId": e.DeviceID}
	if e.Command != "" {
		details["command"] = e.Command
	}
	if e.Reason != "" {
		details["reason"] = e.Reason
	}
	return Entry{
		UserID:     e.UserID,
		Action:     "ssh_session_" + e.Operation,
		Resource:   "ssh_session",
		ResourceID: e.SessionID,
		Outcome:    outcome,
		Details:    details,
		IPAddress:  e.IPAddress,
	}
}

// CompileEvent records a MikroTik intent compilation.
type CompileEvent struct {
	UserID       string
	DeviceID     string
	Hostname     string
	Role         string
	Valid        bool
	ErrorCount   int
	WarningCount int
	RiskLevel    string
}

func (e CompileEvent) Entry() Entry {
	outcome := OutcomeAllowed
	if !e.Valid {
		outcome = OutcomeBlocked
	}
	return Entry{
		UserID:     e.UserID,
		Action:     "mikrotik_compile",
		Resource:   "device",
		ResourceID: e.DeviceID,
		Outcome:    outcome,
		Details: map[string]any{
			"hostname": e.Hostname,
			"role":     e.Role,
			"valid":    e.Valid,
			"errors":   e.ErrorCount,
			"warnings": e.WarningCount,
			"risk":     e.RiskLevel,
		},
	}
}

// BreakGlassEvent records an emergency override declaration.
type BreakGlassEvent struct {
	UserID    string
	IPAddress string
	EventID   string
	Reason    string
}

func (e BreakGlassEvent) Entry() Entry {
	return Entry{
		UserID:     e.UserID,
		Action:     "break_glass",
		Resource:   "break_glass_event",
		ResourceID: e.EventID,
		Outcome:    OutcomeEscalated,
		Details:    map[string]any{"reason": e.Reason},
		IPAddress:  e.IPAddress,
	}
}
