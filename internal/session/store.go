package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Melanieheviap/DataViz-S5/internal/domain"
	"github.com/Melanieheviap/DataViz-S5/internal/observability"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// ErrNotFound is returned for unknown, deleted, or expired sessions.
var ErrNotFound = errors.New("session not found")

// Session is one viewer's interaction state.
type Session struct {
	ID        string
	Selection domain.Selection
	CreatedAt time.Time
	LastSeen  time.Time
}

// Store keeps sessions in memory with least-recently-used eviction once
// maxEntries is reached and expiry after idleTimeout without access. Each
// session's selection is private to it.
type Store struct {
	maxEntries  int
	idleTimeout time.Duration
	clock       clockwork.Clock
	metrics     *observability.Metrics

	mu      sync.Mutex
	entries map[string]*entry
	head    *entry // most recently used
	tail    *entry // least recently used
}

type entry struct {
	session Session
	prev    *entry
	next    *entry
}

// NewStore creates an empty session store.
func NewStore(maxEntries int, idleTimeout time.Duration, clock clockwork.Clock, metrics *observability.Metrics) *Store {
	return &Store{
		maxEntries:  maxEntries,
		idleTimeout: idleTimeout,
		clock:       clock,
		metrics:     metrics,
		entries:     make(map[string]*entry),
	}
}

// Create starts a session with an empty selection.
func (s *Store) Create() Session {
	now := s.clock.Now()
	sess := Session{ID: uuid.NewString(), CreatedAt: now, LastSeen: now}

	s.mu.Lock()
	defer s.mu.Unlock()

	e := &entry{session: sess}
	s.entries[sess.ID] = e
	s.addToFront(e)
	if len(s.entries) > s.maxEntries {
		s.evict(s.tail, "capacity")
	}
	s.metrics.SessionsActive.Set(float64(len(s.entries)))
	return sess
}

// Get returns the session and marks it as used.
func (s *Store) Get(id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.touch(id)
	if err != nil {
		return Session{}, err
	}
	return e.session, nil
}

// SetSelection replaces the session's selection.
func (s *Store) SetSelection(id string, sel domain.Selection) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.touch(id)
	if err != nil {
		return Session{}, err
	}
	e.session.Selection = sel
	return e.session, nil
}

// Delete removes the session. It reports whether the session existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return false
	}
	s.evict(e, "deleted")
	return true
}

// Len returns the number of stored sessions, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep removes every idle session and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	// The tail is the least recently used, so stop at the first live entry.
	for s.tail != nil && s.expired(s.tail) {
		s.evict(s.tail, "idle")
		removed++
	}
	return removed
}

// RunJanitor sweeps idle sessions every interval until ctx is cancelled.
func (s *Store) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := s.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			s.Sweep()
		}
	}
}

// touch looks up id, expiring it if idle, and moves it to the front.
// Callers hold s.mu.
func (s *Store) touch(id string) (*entry, error) {
	e, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	if s.expired(e) {
		s.evict(e, "idle")
		return nil, ErrNotFound
	}
	e.session.LastSeen = s.clock.Now()
	s.moveToFront(e)
	return e, nil
}

func (s *Store) expired(e *entry) bool {
	return s.idleTimeout > 0 && s.clock.Since(e.session.LastSeen) >= s.idleTimeout
}

func (s *Store) evict(e *entry, reason string) {
	delete(s.entries, e.session.ID)
	s.remove(e)
	s.metrics.SessionEvictions.WithLabelValues(reason).Inc()
	s.metrics.SessionsActive.Set(float64(len(s.entries)))
}

func (s *Store) moveToFront(e *entry) {
	if e == s.head {
		return
	}
	s.remove(e)
	s.addToFront(e)
}

func (s *Store) addToFront(e *entry) {
	e.next = s.head
	e.prev = nil
	if s.head != nil {
		s.head.prev = e
	}
	s.head = e
	if s.tail == nil {
		s.tail = e
	}
}

func (s *Store) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		s.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		s.tail = e.prev
	}
	e.prev, e.next = nil, nil
}
