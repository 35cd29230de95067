package server

import (
	"errors"
	"log/slog"
	"sync"
)

// ErrMaxSessionsReached is returned when the session limit is hit.
var ErrMaxSessionsReached = errors.New("server: maximum sessions reached")

// SessionManager tracks live sessions.
type SessionManager struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	maxSessions int
	logger      *slog.Logger
}

// NewSessionManager creates a manager. maxSessions <= 0 means unlimited.
func NewSessionManager(maxSessions int, logger *slog.Logger) *SessionManager {
	return &SessionManager{
		sessions:    make(map[string]*Session),
		maxSessions: maxSessions,
		logger:      logger,
	}
}

// Add registers a session and removes it again when the session closes.
func (sm *SessionManager) Add(s *Session) error {
	sm.mu.Lock()
	if sm.maxSessions > 0 && len(sm.sessions) >= sm.maxSessions {
		sm.mu.Unlock()
		return ErrMaxSessionsReached
	}
	sm.sessions[s.ID] = s
	count := len(sm.sessions)
	sm.mu.Unlock()

	s.onClose = func(s *Session) { sm.remove(s.ID) }
	sm.logger.Info("session created", "session_id", s.ID, "active_sessions", count)
	return nil
}

// Full reports whether no more sessions can be added.
func (sm *SessionManager) Full() bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.maxSessions > 0 && len(sm.sessions) >= sm.maxSessions
}

// Get returns the session with id, or nil.
func (sm *SessionManager) Get(id string) *Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.sessions[id]
}

// Count returns the number of live sessions.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// ForEach calls fn for each session until fn returns false.
func (sm *SessionManager) ForEach(fn func(*Session) bool) {
	sm.mu.RLock()
	sessions := make([]*Session, 0, len(sm.sessions))
	for _, s := range sm.sessions {
		sessions = append(sessions, s)
	}
	sm.mu.RUnlock()

	for _, s := range sessions {
		if !fn(s) {
			return
		}
	}
}

// Shutdown closes every session.
func (sm *SessionManager) Shutdown() {
	sm.ForEach(func(s *Session) bool {
		s.Close()
		return true
	})
}

func (sm *SessionManager) remove(id string) {
	sm.mu.Lock()
	_, ok := sm.sessions[id]
	delete(sm.sessions, id)
	count := len(sm.sessions)
	sm.mu.Unlock()

	if ok {
		sm.logger.Info("session closed", "session_id", id, "active_sessions", count)
	}
}
