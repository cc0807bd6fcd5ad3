package ws

import (
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"legalserve/internal/model"
)

// Session is the per-connection state the gate keeps: who registered on this
// connection, and liveness bookkeeping for the heartbeat loop.
//
// The participant identity is written on the connection's read-loop
// goroutine but read for log fields from the heartbeat and GC goroutines,
// so it sits behind a mutex. LastSeen crosses the same goroutines and is
// atomic.
type Session struct {
	ID   int64
	Conn *Conn

	registerLimiter *rate.Limiter

	mu            sync.Mutex
	participantID string
	role          model.Role

	lastSeen atomic.Int64 // unix nanos
}

func (s *Session) setParticipant(id string, role model.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.participantID = id
	s.role = role
}

func (s *Session) participant() (string, model.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.participantID, s.role
}

func (s *Session) touch() {
	s.lastSeen.Store(time.Now().UnixNano())
}

func (s *Session) seenAt() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

type SessionManager struct {
	sessions map[int64]*Session
	mu       sync.RWMutex
}

func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[int64]*Session),
	}
}

func (sm *SessionManager) Add(s *Session) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.sessions[s.ID] = s
}

func (sm *SessionManager) Get(id int64) *Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.sessions[id]
}

func (sm *SessionManager) Remove(id int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.sessions, id)
}

func (sm *SessionManager) snapshot() []*Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	items := make([]*Session, 0, len(sm.sessions))
	for _, s := range sm.sessions {
		items = append(items, s)
	}
	return items
}

func (sm *SessionManager) Len() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return len(sm.sessions)
}
