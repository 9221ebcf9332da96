// Package session scopes a profile and an application history to one user session.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/tracker"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/types"
)

// ErrSessionNotFound is returned for unknown or expired session IDs.
var ErrSessionNotFound = errors.New("session not found")

// Session is the state owned by one user. Sessions are never shared; callers
// go through Manager.With so that access to one session is serialized.
type Session struct {
	ID        uuid.UUID
	Profile   *types.Profile
	Tracker   *tracker.Tracker
	CreatedAt time.Time

	mu       sync.Mutex
	lastSeen time.Time
	deleted  bool
}

// LastSeen returns the time of the last access through the manager.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Snapshot is the persisted form of a session.
type Snapshot struct {
	Profile      json.RawMessage           `json:"profile"`
	Applications []types.ApplicationRecord `json:"applications"`
	CreatedAt    time.Time                 `json:"createdAt"`
	SavedAt      time.Time                 `json:"savedAt"`
}

// StoreFactory returns the application store for a session.
type StoreFactory func(id uuid.UUID) tracker.Store

// NotifierFactory returns the tracker event sink for a session, or nil.
type NotifierFactory func(id uuid.UUID) tracker.Notifier

// Options configures a Manager.
type Options struct {
	IdleTimeout time.Duration
	Snapshots   SnapshotStore
	Stores      StoreFactory
	Notifiers   NotifierFactory
	Now         func() time.Time
}

// Manager owns the live sessions of a server process.
type Manager struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	// deleted IDs, kept for one idle timeout so an in-flight restore cannot revive them
	tombstones map[uuid.UUID]time.Time

	idleTimeout time.Duration
	snapshots   SnapshotStore
	stores      StoreFactory
	notifiers   NotifierFactory
	now         func() time.Time
}

// NewManager creates a manager. Missing options default to a two hour idle
// timeout, in-memory snapshots and in-memory application stores.
func NewManager(opts Options) *Manager {
	m := &Manager{
		sessions:    make(map[uuid.UUID]*Session),
		tombstones:  make(map[uuid.UUID]time.Time),
		idleTimeout: opts.IdleTimeout,
		snapshots:   opts.Snapshots,
		stores:      opts.Stores,
		notifiers:   opts.Notifiers,
		now:         opts.Now,
	}
	if m.idleTimeout <= 0 {
		m.idleTimeout = 2 * time.Hour
	}
	if m.snapshots == nil {
		m.snapshots = NewMemorySnapshotStore()
	}
	if m.stores == nil {
		m.stores = func(uuid.UUID) tracker.Store { return tracker.NewMemoryStore() }
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

// Create starts a new session with an empty profile and history.
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	id := uuid.New()
	now := m.now()

	tr, err := m.openTracker(ctx, id)
	if err != nil {
		return nil, err
	}
	s := &Session{
		ID:        id,
		Profile:   types.NewProfile(),
		Tracker:   tr,
		CreatedAt: now,
		lastSeen:  now,
	}

	if err := m.save(ctx, s); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	log.Printf("[session] created %s", id)
	return s, nil
}

// Get returns a live session, restoring it from its snapshot if this process
// has not seen it yet.
func (m *Manager) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	_, gone := m.tombstones[id]
	m.mu.Unlock()
	if ok {
		return s, nil
	}
	if gone {
		return nil, ErrSessionNotFound
	}

	snap, err := m.snapshots.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load session snapshot: %w", err)
	}
	if snap == nil {
		return nil, ErrSessionNotFound
	}

	restored, err := m.restore(ctx, id, snap)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, gone := m.tombstones[id]; gone {
		return nil, ErrSessionNotFound
	}
	// Another request may have restored it first.
	if existing, ok := m.sessions[id]; ok {
		return existing, nil
	}
	m.sessions[id] = restored
	log.Printf("[session] restored %s (%d applications)", id, restored.Tracker.Len())
	return restored, nil
}

func (m *Manager) restore(ctx context.Context, id uuid.UUID, snap *Snapshot) (*Session, error) {
	profile := types.NewProfile()
	if len(snap.Profile) > 0 {
		if err := json.Unmarshal(snap.Profile, profile); err != nil {
			return nil, fmt.Errorf("failed to decode snapshot profile: %w", err)
		}
	}

	tr, err := m.openTracker(ctx, id)
	if err != nil {
		return nil, err
	}
	// A durable store is authoritative; otherwise the snapshot carries the history.
	if tr.Len() == 0 && len(snap.Applications) > 0 {
		if err := tr.Replace(ctx, snap.Applications); err != nil {
			return nil, fmt.Errorf("failed to restore applications: %w", err)
		}
	}

	return &Session{
		ID:        id,
		Profile:   profile,
		Tracker:   tr,
		CreatedAt: snap.CreatedAt,
		lastSeen:  m.now(),
	}, nil
}

func (m *Manager) openTracker(ctx context.Context, id uuid.UUID) (*tracker.Tracker, error) {
	tr, err := tracker.Open(ctx, m.stores(id))
	if err != nil {
		return nil, fmt.Errorf("failed to open tracker: %w", err)
	}
	if m.notifiers != nil {
		if n := m.notifiers(id); n != nil {
			tr.SetNotifier(n)
		}
	}
	return tr, nil
}

// With runs fn with exclusive access to the session and saves a snapshot
// afterwards. The snapshot is saved even when fn fails, since fn may have
// mutated state before failing. A session deleted while With waited for it
// yields ErrSessionNotFound and fn is not run.
func (m *Manager) With(ctx context.Context, id uuid.UUID, fn func(s *Session) error) error {
	s, err := m.Get(ctx, id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleted {
		return ErrSessionNotFound
	}
	s.lastSeen = m.now()

	fnErr := fn(s)
	if err := m.saveLocked(ctx, s); err != nil {
		log.Printf("[session] snapshot %s failed: %v", id, err)
		if fnErr == nil {
			return err
		}
	}
	return fnErr
}

// Delete drops a session, its stored applications and its snapshot. It waits
// for a running With on the same session to finish.
func (m *Manager) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	s, live := m.sessions[id]
	delete(m.sessions, id)
	m.tombstones[id] = m.now()
	m.mu.Unlock()

	if live {
		s.mu.Lock()
		s.deleted = true
		err := s.Tracker.Clear(ctx)
		s.mu.Unlock()
		if err != nil {
			return err
		}
	} else if err := m.stores(id).Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear applications: %w", err)
	}

	if err := m.snapshots.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session snapshot: %w", err)
	}
	log.Printf("[session] deleted %s", id)
	return nil
}

// Sweep evicts sessions idle for longer than the idle timeout from memory and
// returns how many were evicted. Their snapshots stay in the snapshot store.
func (m *Manager) Sweep(_ context.Context) int {
	cutoff := m.now().Add(-m.idleTimeout)

	m.mu.Lock()
	defer m.mu.Unlock()

	for id, at := range m.tombstones {
		if at.Before(cutoff) {
			delete(m.tombstones, id)
		}
	}

	evicted := 0
	for id, s := range m.sessions {
		if s.LastSeen().Before(cutoff) {
			delete(m.sessions, id)
			evicted++
		}
	}
	return evicted
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// IdleTimeout returns the idle duration after which sessions are evicted.
func (m *Manager) IdleTimeout() time.Duration {
	return m.idleTimeout
}

func (m *Manager) save(ctx context.Context, s *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return m.saveLocked(ctx, s)
}

func (m *Manager) saveLocked(ctx context.Context, s *Session) error {
	profile, err := json.Marshal(s.Profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	snap := &Snapshot{
		Profile:      profile,
		Applications: s.Tracker.List(),
		CreatedAt:    s.CreatedAt,
		SavedAt:      m.now(),
	}
	if err := m.snapshots.Save(ctx, s.ID, snap); err != nil {
		return fmt.Errorf("failed to save session snapshot: %w", err)
	}
	return nil
}
