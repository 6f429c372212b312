package audit

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Outcome is the governance decision an entry records.
type Outcome string

const (
	OutcomeAllowed   Outcome = "allowed"
	OutcomeBlocked   Outcome = "blocked"
	OutcomeEscalated Outcome = "escalated"
	OutcomeSimulated Outcome = "simulated"
)

// Entry is one append-only audit record.
type Entry struct {
	Timestamp  time.Time      `json:"timestamp"`
	UserID     string         `json:"userId,omitempty"`
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	ResourceID string         `json:"resourceId,omitempty"`
	Outcome    Outcome        `json:"outcome,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	IPAddress  string         `json:"ipAddress,omitempty"`
	UserAgent  string         `json:"userAgent,omitempty"`
}

// Recordable is anything that can be turned into an Entry. Entry itself
// and every typed event in this package implement it.
type Recordable interface {
	Entry() Entry
}

// Entry returns e.
func (e Entry) Entry() Entry { return e }

func (e Entry) MessageID() string {
	return e.Action
}

func (e Entry) Message() string {
	user := e.UserID
	if user == "" {
		user = "system"
	}
	target := e.Resource
	if e.ResourceID != "" {
		target += " " + e.ResourceID
	}
	msg := fmt.Sprintf("%s %s %s", user, e.Action, target)
	if e.Outcome != "" {
		msg += " (" + string(e.Outcome) + ")"
	}
	return msg
}

func (e Entry) Severity() Severity {
	switch e.Outcome {
	case OutcomeBlocked:
		return SeverityWarning
	case OutcomeEscalated:
		return SeverityNotice
	default:
		return SeverityInfo
	}
}

func (e Entry) Facility() int {
	return FacilityAuthPriv
}

func (e Entry) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDSubject: {
			"user": e.UserID,
		},
		SDIDAction: {
			"action":   e.Action,
			"resource": e.Resource,
		},
	}
	if e.ResourceID != "" {
		sd[SDIDAction]["resource_id"] = e.ResourceID
	}
	if e.Outcome != "" {
		sd[SDIDAction]["result"] = string(e.Outcome)
	}
	if e.IPAddress != "" || e.UserAgent != "" {
		sd[SDIDClient] = map[string]string{}
		if e.IPAddress != "" {
			sd[SDIDClient]["ip"] = e.IPAddress
		}
		if e.UserAgent != "" {
			sd[SDIDClient]["user_agent"] = e.UserAgent
		}
	}
	if len(e.Details) > 0 {
		details := make(map[string]string, len(e.Details))
		for k, v := range e.Details {
			details[k] = detailString(v)
		}
		sd[SDIDDetails] = details
	}
	return sd
}

func detailString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []string:
		return strings.Join(t, "; ")
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+"="+detailString(t[k]))
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(v)
	}
}
