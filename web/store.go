package web

import (
	"container/list"
	"sync"
	"time"

	"github.com/fwojciec/scribe"
	"github.com/google/uuid"
)

// Defaults for [NewStore].
const (
	DefaultSessionTTL  = 30 * time.Minute
	DefaultMaxSessions = 10000
)

// Store keeps sessions in memory, keyed by ID. Each session carries its own
// lock so turns on one session are serialised while other sessions proceed.
//
// Sessions idle for longer than the TTL are dropped on the next lookup, and
// the least recently used session is dropped when the store is full.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*list.Element
	recent   *list.List // of *sessionEntry, most recently used first
	ttl      time.Duration
	max      int
	now      func() time.Time
}

type sessionEntry struct {
	mu       sync.Mutex
	session  *scribe.Session
	lastSeen time.Time
}

// StoreOption configures a [Store].
type StoreOption func(*Store)

// WithSessionTTL sets how long an idle session is kept. Zero or less keeps
// sessions until they are evicted by size.
func WithSessionTTL(d time.Duration) StoreOption {
	return func(s *Store) { s.ttl = d }
}

// WithMaxSessions caps the number of live sessions.
func WithMaxSessions(n int) StoreOption {
	return func(s *Store) {
		if n > 0 {
			s.max = n
		}
	}
}

// WithStoreClock sets the time source.
func WithStoreClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// NewStore creates an empty Store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		sessions: make(map[string]*list.Element),
		recent:   list.New(),
		ttl:      DefaultSessionTTL,
		max:      DefaultMaxSessions,
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops every session idle for longer than the TTL and returns how
// many were dropped.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expire(s.now())
}

// lookup returns the session with the given ID, creating a fresh one when the
// ID is empty, unknown or expired. created reports whether a new session was
// made.
func (s *Store) lookup(id string) (entry *sessionEntry, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.expire(now)

	if el, ok := s.sessions[id]; ok && id != "" {
		e := el.Value.(*sessionEntry)
		e.lastSeen = now
		s.recent.MoveToFront(el)
		return e, false
	}

	e := &sessionEntry{session: scribe.NewSession(uuid.NewString(), now), lastSeen: now}
	s.sessions[e.session.ID] = s.recent.PushFront(e)
	for len(s.sessions) > s.max {
		s.remove(s.recent.Back())
	}
	return e, true
}

// expire walks from the least recently used end. The caller holds s.mu.
func (s *Store) expire(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}
	n := 0
	for el := s.recent.Back(); el != nil; el = s.recent.Back() {
		if now.Sub(el.Value.(*sessionEntry).lastSeen) <= s.ttl {
			break
		}
		s.remove(el)
		n++
	}
	return n
}

func (s *Store) remove(el *list.Element) {
	e := s.recent.Remove(el).(*sessionEntry)
	delete(s.sessions, e.session.ID)
}
