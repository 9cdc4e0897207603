package services

import (
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/tailortalk/booking-assistant/internal/core/domain"
	"github.com/tailortalk/booking-assistant/internal/core/ports/out"
)

// SessionManager owns the conversational sessions. The store is
// LRU-bounded so abandoned sessions age out instead of accumulating;
// each session keeps its own sliding window of turns.
type SessionManager struct {
	mu       sync.Mutex
	sessions *lru.Cache[string, *domain.Session]
	window   int
	logger   out.LoggerPort
}

func NewSessionManager(storeSize, window int, logger out.LoggerPort) (*SessionManager, error) {
	sessions, err := lru.New[string, *domain.Session](storeSize)
	if err != nil {
		return nil, err
	}

	return &SessionManager{
		sessions: sessions,
		window:   window,
		logger:   logger.WithModule("SessionManager"),
	}, nil
}

// GetOrCreate returns the session for id, creating it on the first
// message. An empty id starts a fresh session with a generated id.
func (m *SessionManager) GetOrCreate(id string) *domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		id = uuid.NewString()
	}

	if session, exists := m.sessions.Get(id); exists {
		return session
	}

	session := domain.NewSession(id, m.window)
	m.sessions.Add(id, session)

	m.logger.Debug("session.created", out.LogFields{
		"sessionId": id,
	})

	return session
}

// Destroy ends a session explicitly.
func (m *SessionManager) Destroy(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions.Remove(id)
}

func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.sessions.Len()
}
