package memory

import (
	"sync"

	"github.com/google/uuid"

	"dashchat/internal/domain"
)

// SessionStore maps opaque session tokens to user identities. Tokens live
// for the server process lifetime; restart invalidates every session.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.UserID
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]domain.UserID),
	}
}

func (s *SessionStore) Create(userID domain.UserID) (string, error) {
	token := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = userID
	return token, nil
}

func (s *SessionStore) Resolve(token string) (domain.UserID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, ok := s.sessions[token]
	if !ok {
		return 0, domain.ErrUnauthorized
	}
	return userID, nil
}

func (s *SessionStore) Destroy(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

func (s *SessionStore) DestroyForUser(userID domain.UserID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, id := range s.sessions {
		if id == userID {
			delete(s.sessions, token)
		}
	}
}
