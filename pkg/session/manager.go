package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/babasida246/NetOpsAI-sub007/pkg/apperr"
	"github.com/babasida246/NetOpsAI-sub007/pkg/audit"
	"github.com/babasida246/NetOpsAI-sub007/pkg/logging"
	"github.com/babasida246/NetOpsAI-sub007/pkg/redact"
	"github.com/babasida246/NetOpsAI-sub007/pkg/rule"
)

// Interactive defaults: read-only show commands for the common vendors.
var (
	DefaultAllowList = []string{
		"show interface",
		"show ip route",
		"/interface print",
		"/ip route print",
		"display interface",
		"display ip routing",
	}
	DefaultDenyList      = []string{"reload", "erase", "reset-configuration", "format", "delete"}
	DefaultDangerousList = []string{"reload", "erase", "reset-configuration", "write erase"}
)

// DefaultRules compiles the interactive default lists with allow replacing
// DefaultAllowList when it is not nil.
func DefaultRules(allow []string) rule.Set {
	if allow == nil {
		allow = DefaultAllowList
	}
	return rule.Set{
		Allow:     rule.CompileList(allow),
		Deny:      rule.CompileList(DefaultDenyList),
		Dangerous: rule.CompileList(DefaultDangerousList),
	}
}

const (
	closedByUser = "Closed by user"
	closedByIdle = "Closed due to idle timeout"

	msgNotFound       = "Session not found."
	msgClosed         = "Session closed."
	msgBlockedAllow   = "Command blocked by allowlist."
	msgBlockedDeny    = "Command blocked by denylist."
	msgDangerousFlags = "Dangerous command flagged."
)

// Executor runs an admitted command against the device. It receives the
// command as typed; the Manager redacts whatever it returns before it is
// stored or handed back.
type Executor interface {
	Execute(ctx context.Context, s Session, command string) ([]string, error)
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, s Session, command string) ([]string, error)

func (f ExecutorFunc) Execute(ctx context.Context, s Session, command string) ([]string, error) {
	return f(ctx, s, command)
}

// EchoExecutor acknowledges the command without contacting a device.
var EchoExecutor = ExecutorFunc(func(_ context.Context, _ Session, command string) ([]string, error) {
	return []string{"executed: " + command}, nil
})

// Manager owns the session lifecycle. Compound operations on the store are
// serialized by mu; device execution runs outside the lock.
type Manager struct {
	mu       sync.Mutex
	store    Store
	exec     Executor
	rules    rule.Set
	recorder *audit.Recorder
	idle     time.Duration
	now      func() time.Time
}

type Option func(*Manager)

func WithStore(s Store) Option {
	return func(m *Manager) { m.store = s }
}

func WithExecutor(e Executor) Option {
	return func(m *Manager) { m.exec = e }
}

// WithDefaultRules sets the rules used when the caller has no policy of
// its own.
func WithDefaultRules(rules rule.Set) Option {
	return func(m *Manager) { m.rules = rules }
}

// WithRecorder records sweeper closes, which have no request to audit them.
func WithRecorder(r *audit.Recorder) Option {
	return func(m *Manager) { m.recorder = r }
}

func WithIdleTimeout(d time.Duration) Option {
	return func(m *Manager) { m.idle = d }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		store: NewMemoryStore(),
		exec:  EchoExecutor,
		rules: DefaultRules(nil),
		idle:  DefaultIdleTimeout,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// DefaultRules returns the rules configured for callers without a policy.
func (m *Manager) DefaultRules() rule.Set {
	return m.rules
}

func (m *Manager) stamp() time.Time {
	return m.now().UTC()
}

func (m *Manager) event(typ LogType, msg string) LogEvent {
	return LogEvent{Timestamp: m.stamp(), Type: typ, Message: msg}
}

// Open returns the connected session for (DeviceID, User), refreshing its
// activity time, or opens a new one.
func (m *Manager) Open(ctx context.Context, in OpenInput) (Session, error) {
	if err := in.Validate(); err != nil {
		return Session{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok, err := m.store.FindConnected(ctx, in.DeviceID, in.User)
	if err != nil {
		return Session{}, err
	}
	if ok {
		existing.LastActiveAt = m.stamp()
		if err := m.store.Put(ctx, existing); err != nil {
			return Session{}, err
		}
		return existing, nil
	}

	idle := in.IdleTimeoutSec
	if idle == 0 {
		idle = int(m.idle / time.Second)
	}
	authType := in.AuthType
	if authType == "" {
		authType = AuthPassword
	}
	now := m.stamp()
	s := Session{
		ID:             "ssh_" + uuid.NewString(),
		DeviceID:       in.DeviceID,
		DeviceName:     in.DeviceName,
		Host:           in.Host,
		Port:           in.Port,
		User:           in.User,
		AuthType:       authType,
		Status:         StatusConnected,
		CreatedAt:      now,
		LastActiveAt:   now,
		IdleTimeoutSec: idle,
	}
	if err := m.store.Put(ctx, s); err != nil {
		return Session{}, err
	}
	opened := fmt.Sprintf("SSH session opened to %s@%s:%d", s.User, s.Host, s.Port)
	if err := m.store.AppendLog(ctx, s.ID, m.event(LogSystem, opened)); err != nil {
		return Session{}, err
	}
	return s, nil
}

// Close marks the session closed and appends reason to its transcript. An
// empty reason means the user closed it.
func (m *Manager) Close(ctx context.Context, id, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.closeLocked(ctx, id, reason)
}

func (m *Manager) closeLocked(ctx context.Context, id, reason string) error {
	if reason == "" {
		reason = closedByUser
	}
	s, err := m.store.Get(ctx, id)
	if err != nil {
		return err
	}
	s.Status = StatusClosed
	s.LastActiveAt = m.stamp()
	if err := m.store.Put(ctx, s); err != nil {
		return err
	}
	return m.store.AppendLog(ctx, id, m.event(LogSystem, reason))
}

// Send runs command through rules and, when admitted, through the
// executor. A command for an unknown or closed session, or one the rules
// reject, comes back as a blocked Result with a nil error. Errors are
// reserved for store and executor failures.
func (m *Manager) Send(ctx context.Context, id, command string, rules rule.Set) (Result, error) {
	s, res, err := m.admit(ctx, id, command, rules)
	if err != nil || res.Blocked {
		return res, err
	}

	output, err := m.exec.Execute(ctx, s, command)
	if err != nil {
		msg := "Command failed: " + redact.Sensitive(err.Error())
		if logErr := m.appendLog(ctx, id, m.event(LogError, msg)); logErr != nil {
			logging.L().Warnw("session transcript write failed", "session", id, "error", logErr)
		}
		return Result{}, apperr.Transport("Command execution failed", err)
	}

	res.Output = redact.Strings(output)
	events := make([]LogEvent, 0, len(res.Output))
	for _, line := range res.Output {
		events = append(events, m.event(LogOutput, line))
	}
	if err := m.appendLog(ctx, id, events...); err != nil {
		return Result{}, err
	}
	return res, nil
}

// admit makes the policy decision and records it, under the lock.
func (m *Manager) admit(ctx context.Context, id, command string, rules rule.Set) (Session, Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.store.Get(ctx, id)
	if errors.Is(err, ErrSessionNotFound) {
		return Session{}, blocked(msgNotFound), nil
	}
	if err != nil {
		return Session{}, Result{}, err
	}

	s.LastActiveAt = m.stamp()
	if err := m.store.Put(ctx, s); err != nil {
		return Session{}, Result{}, err
	}
	if !s.Connected() {
		return s, blocked(msgClosed), nil
	}

	verdict, dangerous := rules.Evaluate(command)
	switch verdict {
	case rule.BlockedByAllowList:
		return s, blocked(msgBlockedAllow), m.store.AppendLog(ctx, id,
			m.event(LogError, "Command blocked by allowlist: "+redact.Sensitive(command)))
	case rule.BlockedByDenyList:
		return s, blocked(msgBlockedDeny), m.store.AppendLog(ctx, id,
			m.event(LogError, "Command blocked by denylist: "+redact.Sensitive(command)))
	}

	var res Result
	if dangerous {
		res.Warning = msgDangerousFlags
	}
	return s, res, m.store.AppendLog(ctx, id, m.event(LogInput, redact.Sensitive(command)))
}

func (m *Manager) appendLog(ctx context.Context, id string, events ...LogEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.AppendLog(ctx, id, events...)
}

func blocked(msg string) Result {
	return Result{Output: []string{msg}, Blocked: true}
}

func (m *Manager) Get(ctx context.Context, id string) (Session, error) {
	return m.store.Get(ctx, id)
}

// List returns every session in open order, closed ones included.
func (m *Manager) List(ctx context.Context) ([]Session, error) {
	return m.store.List(ctx)
}

// Transcript returns a copy of the session's log.
func (m *Manager) Transcript(ctx context.Context, id string) ([]LogEvent, error) {
	return m.store.Log(ctx, id)
}

// ExportText renders the transcript one "[timestamp] TYPE: message" line
// per event.
func (m *Manager) ExportText(ctx context.Context, id string) (string, error) {
	events, err := m.store.Log(ctx, id)
	if err != nil {
		return "", err
	}
	lines := make([]string, len(events))
	for i, e := range events {
		lines[i] = e.String()
	}
	return strings.Join(lines, "\n"), nil
}

// PurgeIdle closes every connected session idle past its timeout and
// returns the ids it closed.
func (m *Manager) PurgeIdle(ctx context.Context) ([]string, error) {
	closed, err := m.closeIdle(ctx)
	for _, s := range closed {
		m.recorder.Record(ctx, audit.SessionEvent{
			SessionID: s.ID,
			DeviceID:  s.DeviceID,
			Operation: "close",
			Reason:    closedByIdle,
		})
	}
	ids := make([]string, 0, len(closed))
	for _, s := range closed {
		ids = append(ids, s.ID)
	}
	return ids, err
}

// closeIdle closes the idle sessions under the lock. Audit records are
// written by the caller once the lock is released.
func (m *Manager) closeIdle(ctx context.Context) ([]Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sessions, err := m.store.List(ctx)
	if err != nil {
		return nil, err
	}

	now := m.now().UTC()
	var closed []Session
	for _, s := range sessions {
		if !s.Connected() || !s.IdleAt(now) {
			continue
		}
		if err := m.closeLocked(ctx, s.ID, closedByIdle); err != nil {
			return closed, fmt.Errorf("closing idle session %s: %w", s.ID, err)
		}
		closed = append(closed, s)
	}
	return closed, nil
}

// RunSweeper calls PurgeIdle every interval until ctx is done.
func (m *Manager) RunSweeper(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			closed, err := m.PurgeIdle(ctx)
			if err != nil {
				logging.L().Warnw("idle session sweep failed", "error", err)
				continue
			}
			if len(closed) > 0 {
				logging.L().Infow("closed idle sessions", "count", len(closed), "sessions", closed)
			}
		}
	}
}
