// Package session keeps each browser session's form and invoice in memory.
// Sessions never share state; a per-session mutex applies one user event at
// a time, so the components themselves need no locking.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"formdesk-backend/internal/billing"
	"formdesk-backend/internal/intake"
)

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = errors.New("session: not found")

// Session is one browser session's state.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	lastSeen time.Time
	form     *intake.Form
	invoice  *billing.Invoice
}

// Do runs fn with exclusive access to the session's components.
func (s *Session) Do(fn func(form *intake.Form, inv *billing.Invoice)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.form, s.invoice)
}

// LastSeen returns when the session was last used.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// Store is the in-memory session registry.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	invoice  billing.Options
	now      func() time.Time
}

// NewStore creates an empty registry. New invoices are built with opts.
func NewStore(opts billing.Options) *Store {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Store{
		sessions: make(map[string]*Session),
		invoice:  opts,
		now:      now,
	}
}

// Create starts a new session with a fresh form and invoice.
func (st *Store) Create() *Session {
	now := st.now()
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		lastSeen:  now,
		form:      intake.New(),
		invoice:   billing.New(st.invoice),
	}

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

// Get looks up a session and refreshes its idle timer.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	s.touch(st.now())
	return s, nil
}

// Delete drops a session. Unknown ids are ignored.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep removes sessions idle for longer than ttl and returns how many
// were dropped.
func (st *Store) Sweep(now time.Time, ttl time.Duration) int {
	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, s := range st.sessions {
		if now.Sub(s.LastSeen()) > ttl {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}
