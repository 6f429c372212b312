package session

import (
	"context"
	"sync"
)

// Store persists sessions and their transcripts. The Manager serializes
// compound operations, so implementations only need to make each call
// atomic.
type Store interface {
	// Get returns ErrSessionNotFound for an unknown id.
	Get(ctx context.Context, id string) (Session, error)
	// FindConnected returns the connected session for the pair, if any.
	FindConnected(ctx context.Context, deviceID, user string) (Session, bool, error)
	Put(ctx context.Context, s Session) error
	List(ctx context.Context) ([]Session, error)
	AppendLog(ctx context.Context, id string, events ...LogEvent) error
	// Log returns ErrSessionNotFound for an unknown id.
	Log(ctx context.Context, id string) ([]LogEvent, error)
}

var _ Store = (*MemoryStore)(nil)

type memoryEntry struct {
	session Session
	log     []LogEvent
}

// MemoryStore keeps sessions in process, in open order.
type MemoryStore struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]*memoryEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*memoryEntry)}
}

func (m *MemoryStore) Get(_ context.Context, id string) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return e.session, nil
}

func (m *MemoryStore) FindConnected(_ context.Context, deviceID, user string) (Session, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, id := range m.order {
		s := m.entries[id].session
		if s.DeviceID == deviceID && s.User == user && s.Connected() {
			return s, true, nil
		}
	}
	return Session{}, false, nil
}

func (m *MemoryStore) Put(_ context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.entries[s.ID]; ok {
		e.session = s
		return nil
	}
	m.entries[s.ID] = &memoryEntry{session: s}
	m.order = append(m.order, s.ID)
	return nil
}

func (m *MemoryStore) List(_ context.Context) ([]Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Session, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.entries[id].session)
	}
	return out, nil
}

func (m *MemoryStore) AppendLog(_ context.Context, id string, events ...LogEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[id]
	if !ok {
		return ErrSessionNotFound
	}
	e.log = append(e.log, events...)
	return nil
}

func (m *MemoryStore) Log(_ context.Context, id string) ([]LogEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	out := make([]LogEvent, len(e.log))
	copy(out, e.log)
	return out, nil
}
