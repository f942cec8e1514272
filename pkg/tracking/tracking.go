package tracking

import (
	"log"
	"net/http"
)

type Tracking interface {
	TrackSession(sessionId string, r *http.Request)
	TrackFilterChange(change FilterChange)
}

type BaseEvent struct {
	SessionId string `json:"session_id"`
	Dashboard string `json:"dashboard,omitempty"`
	Event     uint16 `json:"event"`
}

const (
	sessionEvent      = 0
	filterChangeEvent = 1
)

type Session struct {
	*BaseEvent
	UserAgent string `json:"user_agent,omitempty"`
	Ip        string `json:"ip,omitempty"`
	Language  string `json:"language,omitempty"`
}

// FilterChange is emitted for every committed filter value change. Query is
// the canonical query string after the change, empty when the state could not
// be encoded.
type FilterChange struct {
	*BaseEvent
	Key    string `json:"key"`
	Value  any    `json:"value"`
	Reason string `json:"reason"`
	Query  string `json:"query"`
}

func NewFilterChange(sessionId, dashboard, key string, value any, reason, query string) FilterChange {
	return FilterChange{
		BaseEvent: &BaseEvent{SessionId: sessionId, Dashboard: dashboard, Event: filterChangeEvent},
		Key:       key,
		Value:     value,
		Reason:    reason,
		Query:     query,
	}
}

func clientIp(r *http.Request) string {
	ip := r.Header.Get("X-Real-Ip")
	if ip == "" {
		ip = r.Header.Get("X-Forwarded-For")
	}
	if ip == "" {
		ip = r.RemoteAddr
	}
	return ip
}

// LogTracking writes events to the standard logger, used when no broker is
// configured.
type LogTracking struct{}

func (LogTracking) TrackSession(sessionId string, r *http.Request) {
	log.Printf("session %s started from %s", sessionId, clientIp(r))
}

func (LogTracking) TrackFilterChange(change FilterChange) {
	log.Printf("session %s filter %s changed (%s): %v", change.SessionId, change.Key, change.Reason, change.Value)
}
