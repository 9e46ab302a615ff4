package memory

import (
	"sync"
	"time"

	"vaultagent/internal/models"
)

// DefaultRetention bounds how many turns a session keeps before the oldest
// are evicted.
const DefaultRetention = 50

// Store holds per-session conversation history in process memory. Sessions
// are created lazily on first append and vanish on Clear or process restart;
// nothing is persisted.
type Store struct {
	mu        sync.RWMutex
	retention int
	sessions  map[string][]models.ConversationMessage
}

// NewStore builds a store keeping at most retention messages per session.
func NewStore(retention int) *Store {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Store{
		retention: retention,
		sessions:  make(map[string][]models.ConversationMessage),
	}
}

// Append records a turn for the session, stamping it with the current time.
// When the session exceeds the retention bound the oldest entries are
// dropped so that only the most recent ones remain.
func (s *Store) Append(sessionID string, role models.Role, content string) {
	msg := models.ConversationMessage{
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	history := append(s.sessions[sessionID], msg)
	if overflow := len(history) - s.retention; overflow > 0 {
		history = history[overflow:]
	}
	s.sessions[sessionID] = history
}

// History returns up to limit of the session's most recent messages in
// oldest-first order. Unknown sessions yield an empty slice.
func (s *Store) History(sessionID string, limit int) []models.ConversationMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.sessions[sessionID]
	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}
	out := make([]models.ConversationMessage, len(history))
	copy(out, history)
	return out
}

// Clear removes the session entirely and reports whether it existed.
// Clearing an unknown session is not an error.
func (s *Store) Clear(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	return ok
}
