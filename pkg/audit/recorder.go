package audit

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/babasida246/NetOpsAI-sub007/pkg/logging"
	"github.com/babasida246/NetOpsAI-sub007/pkg/redact"
)

// Sink accepts audit entries. Implementations may fail; Recorder is the
// layer that keeps those failures away from the governed action.
type Sink interface {
	Append(ctx context.Context, e Entry) error
}

// Append writes e as an RFC5424 line.
func (l *Logger) Append(_ context.Context, e Entry) error {
	return l.Log(e)
}

// Recorder fans entries out to its sinks. Record never fails: sink errors
// are written to the operational log and dropped.
type Recorder struct {
	sinks   []Sink
	enabled bool
	now     func() time.Time
}

// NewRecorder returns an enabled recorder writing to sinks in order.
func NewRecorder(sinks ...Sink) *Recorder {
	return &Recorder{sinks: sinks, enabled: true, now: time.Now}
}

// SetEnabled turns recording on or off.
func (r *Recorder) SetEnabled(enabled bool) {
	r.enabled = enabled
}

// Record redacts the details of rec, stamps it and appends it to every
// sink. It returns once every sink has been called.
func (r *Recorder) Record(ctx context.Context, rec Recordable) {
	if r == nil || !r.enabled {
		return
	}
	e := rec.Entry()
	if e.Timestamp.IsZero() {
		e.Timestamp = r.now().UTC()
	}
	e.Details = redact.Record(e.Details)
	e.ResourceID = redact.Sensitive(e.ResourceID)

	for _, s := range r.sinks {
		if err := s.Append(ctx, e); err != nil {
			logging.L().Warnw("audit write failed",
				"action", e.Action,
				"resource", e.Resource,
				"error", err,
			)
		}
	}
}

// Memory is a Sink that keeps entries in process. Tests and the in-memory
// server use it.
type Memory struct {
	mu      sync.Mutex
	entries []Entry
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Append(_ context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

// Entries returns a copy of the recorded entries, oldest first.
func (m *Memory) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Entry(nil), m.entries...)
}

// Actions returns the action of every recorded entry, oldest first.
func (m *Memory) Actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Action
	}
	return out
}

// EnabledFromEnv reads NETOPS_AUDIT_ENABLED. Audit is on unless the
// variable is "false", "0" or "no".
func EnabledFromEnv() bool {
	env := os.Getenv("NETOPS_AUDIT_ENABLED")
	return env != "false" && env != "0" && env != "no"
}

// FromEnv builds the process recorder: the RFC5424 logger on stdout, plus
// the SQL store when AUDIT_DATABASE_URL is set. The returned close
// function releases the store.
func FromEnv() (*Recorder, func() error, error) {
	sinks := []Sink{NewLogger()}
	store, err := NewStore()
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() error { return nil }
	if store != nil {
		sinks = append(sinks, store)
		closeFn = store.Close
	}
	r := NewRecorder(sinks...)
	r.SetEnabled(EnabledFromEnv())
	return r, closeFn, nil
}
