package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"dashchat/internal/domain"
)

// UserStore is an in-memory account store for local development and tests.
// It mirrors the behavior of the postgres store, including unique emails.
type UserStore struct {
	mu      sync.RWMutex
	nextID  domain.UserID
	byID    map[domain.UserID]*domain.User
	byEmail map[string]domain.UserID
}

func NewUserStore() *UserStore {
	return &UserStore{
		nextID:  1,
		byID:    make(map[domain.UserID]*domain.User),
		byEmail: make(map[string]domain.UserID),
	}
}

func (s *UserStore) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := emailKey(user.Email)
	if _, exists := s.byEmail[key]; exists {
		return nil, domain.ErrEmailTaken
	}

	stored := *user
	stored.ID = s.nextID
	stored.CreatedAt = time.Now()
	s.nextID++

	s.byID[stored.ID] = &stored
	s.byEmail[key] = stored.ID

	out := stored
	return &out, nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[emailKey(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *s.byID[id]
	return &out, nil
}

func (s *UserStore) FindByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (s *UserStore) UpdateProfile(ctx context.Context, id domain.UserID, firstName, lastName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.FirstName = firstName
	u.LastName = lastName
	return nil
}

func (s *UserStore) UpdatePassword(ctx context.Context, id domain.UserID, passwordHash []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = append([]byte(nil), passwordHash...)
	return nil
}

func (s *UserStore) Delete(ctx context.Context, id domain.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	delete(s.byEmail, emailKey(u.Email))
	delete(s.byID, id)
	return nil
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
