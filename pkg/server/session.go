package server

import (
	"sync"
	"time"

	"github.com/matst80/slask-filters/pkg/filter"
	"github.com/matst80/slask-filters/pkg/suggest"
	"github.com/matst80/slask-filters/pkg/tracking"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "slaskfilters_sessions",
	Help: "The number of dashboard sessions held in memory",
})

// Session is the filter state of one browser. Controls must only be used
// while holding the session lock.
type Session struct {
	mu        sync.Mutex
	Id        string
	Controls  *filter.Controls
	Suggester *suggest.Suggester
	lastSeen  time.Time

	// changes committed by the running operation, published once it is done
	pending []tracking.FilterChange
	publish func(changes []tracking.FilterChange)
}

// SessionFactory builds the controls of a new session. The notify callback is
// bound to the session id.
type SessionFactory func(sessionId string) (*Session, error)

type Sessions struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	factory  SessionFactory
}

func NewSessions(factory SessionFactory) *Sessions {
	return &Sessions{
		sessions: map[string]*Session{},
		factory:  factory,
	}
}

// Get returns the session for the id, creating it when missing. The second
// return value is true when the session was created.
func (s *Sessions) Get(sessionId string) (*Session, bool, error) {
	s.mu.RLock()
	session, ok := s.sessions[sessionId]
	s.mu.RUnlock()
	if ok {
		return session, false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok = s.sessions[sessionId]; ok {
		return session, false, nil
	}
	session, err := s.factory(sessionId)
	if err != nil {
		return nil, false, err
	}
	session.lastSeen = time.Now()
	s.sessions[sessionId] = session
	activeSessions.Inc()
	return session, true, nil
}

// With runs fn holding the session lock. Changes committed by fn are
// published afterwards, all carrying the query of the final state.
func (session *Session) With(fn func(controls *filter.Controls) error) error {
	session.mu.Lock()
	defer session.mu.Unlock()
	session.lastSeen = time.Now()
	defer session.flush()
	return fn(session.Controls)
}

func (session *Session) flush() {
	if len(session.pending) == 0 {
		return
	}
	changes := session.pending
	session.pending = nil
	query := ""
	if params, err := session.Controls.Params(); err == nil {
		query = params.Encode()
	}
	for i := range changes {
		changes[i].Query = query
	}
	if session.publish != nil {
		session.publish(changes)
	}
}

func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Prune drops sessions that have not been used within maxAge.
func (s *Sessions) Prune(maxAge time.Duration) int {
	limit := time.Now().Add(-maxAge)
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, session := range s.sessions {
		session.mu.Lock()
		stale := !session.lastSeen.After(limit)
		session.mu.Unlock()
		if stale {
			delete(s.sessions, id)
			removed++
		}
	}
	activeSessions.Sub(float64(removed))
	return removed
}
