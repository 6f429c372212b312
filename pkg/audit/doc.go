// Package audit records every governance decision.
//
// An Entry is the append-only record of one decision: who acted, on what,
// and whether the action was allowed, blocked, escalated or only simulated.
// Typed events (PushEvent, SessionEvent, PolicyEvent, ApprovalEvent,
// CompileEvent, BreakGlassEvent) build entries for the common actions.
//
// # Sinks
//
//   - Logger: RFC5424 syslog lines on stdout
//   - Store: rows in the audit_logs table (AUDIT_DATABASE_URL)
//   - Memory: in-process, for tests and the memory-backed server
//
// # Usage
//
//	recorder := audit.NewRecorder(audit.NewLogger())
//	recorder.Record(ctx, audit.PushEvent{
//	    UserID:   "alice",
//	    DeviceID: "edge-1",
//	    Decision: audit.PushBlocked,
//	})
//
// Recording is best effort. Record redacts credential-shaped details,
// writes to each sink and logs sink failures without returning them, so a
// failed audit write never changes the outcome of the action it describes.
// NETOPS_AUDIT_ENABLED=false turns recording off.
package audit
