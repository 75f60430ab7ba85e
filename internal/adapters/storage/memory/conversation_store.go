package memory

import (
	"sync"
	"time"

	"dashchat/internal/domain"
)

type transcript struct {
	turns      []domain.ChatTurn
	lastActive time.Time
}

// ConversationStore keeps per-user transcripts in process memory. Entries
// are created lazily on first access and survive until cleared, evicted by
// the idle sweeper, or the process exits.
type ConversationStore struct {
	mu          sync.RWMutex
	transcripts map[domain.UserID]*transcript

	maxMessages int
	ttl         time.Duration
	now         func() time.Time

	done chan struct{}
	once sync.Once
}

// NewConversationStore builds a store that truncates to maxMessages turns.
// A positive ttl starts a background sweeper that drops transcripts idle
// for longer than ttl; zero disables eviction.
func NewConversationStore(maxMessages int, ttl time.Duration) *ConversationStore {
	s := &ConversationStore{
		transcripts: make(map[domain.UserID]*transcript),
		maxMessages: maxMessages,
		ttl:         ttl,
		now:         time.Now,
		done:        make(chan struct{}),
	}
	if ttl > 0 {
		go s.sweep()
	}
	return s
}

// Close stops the idle sweeper, if running.
func (s *ConversationStore) Close() {
	s.once.Do(func() { close(s.done) })
}

// Get returns a copy of the transcript. An absent user reads as empty;
// the map entry itself is materialized on first Append.
func (s *ConversationStore) Get(userID domain.UserID) []domain.ChatTurn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.transcripts[userID]
	if !ok {
		return nil
	}
	return append([]domain.ChatTurn(nil), t.turns...)
}

func (s *ConversationStore) Append(userID domain.UserID, turn domain.ChatTurn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.entry(userID)
	t.turns = append(t.turns, turn)
	t.lastActive = s.now()
}

func (s *ConversationStore) PrependSystemTurn(userID domain.UserID, turn domain.ChatTurn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.entry(userID)
	if len(t.turns) > 0 && t.turns[0].Role == domain.RoleSystem {
		return
	}
	t.turns = append([]domain.ChatTurn{turn}, t.turns...)
	t.lastActive = s.now()
}

func (s *ConversationStore) Truncate(userID domain.UserID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transcripts[userID]
	if !ok || len(t.turns) <= s.maxMessages {
		return
	}
	t.turns = append([]domain.ChatTurn(nil), t.turns[len(t.turns)-s.maxMessages:]...)
}

func (s *ConversationStore) Clear(userID domain.UserID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.transcripts, userID)
}

func (s *ConversationStore) RollbackLastUserTurn(userID domain.UserID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transcripts[userID]
	if !ok || len(t.turns) == 0 {
		return
	}
	if t.turns[len(t.turns)-1].Role != domain.RoleUser {
		return
	}
	t.turns = t.turns[:len(t.turns)-1]
}

// entry returns the transcript for userID, creating it if absent.
// Caller must hold the write lock.
func (s *ConversationStore) entry(userID domain.UserID) *transcript {
	t, ok := s.transcripts[userID]
	if !ok {
		t = &transcript{lastActive: s.now()}
		s.transcripts[userID] = t
	}
	return t
}

func (s *ConversationStore) sweep() {
	ticker := time.NewTicker(s.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.evictIdle()
		}
	}
}

func (s *ConversationStore) evictIdle() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	for id, t := range s.transcripts {
		if t.lastActive.Before(cutoff) {
			delete(s.transcripts, id)
		}
	}
}
