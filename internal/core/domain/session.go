package domain

import (
	"sync"
	"time"
)

const (
	TurnRoleUser      = "user"
	TurnRoleAssistant = "assistant"

	// DefaultSessionWindow is the number of turns kept per session.
	DefaultSessionWindow = 10
)

// Turn is one message in a conversation.
type Turn struct {
	Role    string
	Content string
	At      time.Time
}

// Session is the sliding-window conversational memory for one chat.
// It is created on the first message, evicts the oldest turns past the
// configured window and is passed by reference into the dispatcher.
type Session struct {
	ID string

	mu       sync.Mutex
	turns    []Turn
	maxTurns int
}

func NewSession(id string, maxTurns int) *Session {
	if maxTurns <= 0 {
		maxTurns = DefaultSessionWindow
	}
	return &Session{
		ID:       id,
		maxTurns: maxTurns,
	}
}

func (s *Session) AddTurn(role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns = append(s.turns, Turn{Role: role, Content: content, At: time.Now()})
	if len(s.turns) > s.maxTurns {
		s.turns = s.turns[len(s.turns)-s.maxTurns:]
	}
}

// History returns a copy of the retained turns, oldest first.
func (s *Session) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := make([]Turn, len(s.turns))
	copy(history, s.turns)
	return history
}
