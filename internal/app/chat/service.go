package chat

import (
	"context"
	"strings"
	"sync"

	"dashchat/internal/domain"
	"dashchat/internal/observability"
)

// ModelInfo describes the active inference configuration.
type ModelInfo struct {
	Model          string
	TimeoutSeconds int
	MaxContext     int
}

// Service is the inference gateway. It owns the speculative-append /
// reconcile cycle around the upstream call and serializes all transcript
// access per user, so a transcript can never end up with two user turns
// waiting on one reply.
type Service struct {
	store        domain.ConversationStore
	client       domain.InferenceClient
	systemPrompt string
	info         ModelInfo

	mu    sync.Mutex
	locks map[domain.UserID]*sync.Mutex
}

func NewService(store domain.ConversationStore, client domain.InferenceClient, systemPrompt string, info ModelInfo) *Service {
	return &Service{
		store:        store,
		client:       client,
		systemPrompt: systemPrompt,
		info:         info,
		locks:        make(map[domain.UserID]*sync.Mutex),
	}
}

// SendMessage appends the user turn, calls the model, and reconciles the
// transcript: assistant turn appended and transcript truncated on success,
// user turn rolled back on any failure.
func (s *Service) SendMessage(ctx context.Context, userID domain.UserID, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", domain.ErrInvalidInput
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	log := observability.LoggerFromContext(ctx)

	history := s.store.Get(userID)
	first := len(history) == 0

	userTurn := domain.ChatTurn{Role: domain.RoleUser, Content: text}
	s.store.Append(userID, userTurn)

	systemTurn := domain.ChatTurn{Role: domain.RoleSystem, Content: s.systemPrompt}

	outbound := make([]domain.ChatTurn, 0, len(history)+2)
	if first {
		outbound = append(outbound, systemTurn)
	}
	outbound = append(outbound, history...)
	outbound = append(outbound, userTurn)

	// Detach from the request context: a client disconnect must not abort
	// the upstream call mid-flight, or the speculative user turn would
	// never be reconciled. The client enforces its own timeout.
	reply, err := s.client.Chat(context.WithoutCancel(ctx), outbound)
	if err != nil {
		s.store.RollbackLastUserTurn(userID)
		log.Error("inference call failed", "error", err)
		return "", err
	}

	if first {
		// The system turn is persisted only once the first exchange
		// succeeds, so a failed first message leaves the transcript empty.
		s.store.PrependSystemTurn(userID, systemTurn)
	}
	s.store.Append(userID, domain.ChatTurn{Role: domain.RoleAssistant, Content: reply})
	s.store.Truncate(userID)

	log.Info("chat exchange completed", "reply_len", len(reply))
	return reply, nil
}

// ClearConversation resets the transcript to empty.
func (s *Service) ClearConversation(ctx context.Context, userID domain.UserID) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	s.store.Clear(userID)
	observability.LoggerFromContext(ctx).Info("conversation cleared")
}

// History returns a read-only copy of the transcript. It takes the same
// per-user lock as SendMessage so readers never observe a half-reconciled
// transcript.
func (s *Service) History(ctx context.Context, userID domain.UserID) []domain.ChatTurn {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	return s.store.Get(userID)
}

// Info returns the active model configuration.
func (s *Service) Info() ModelInfo {
	return s.info
}

// userLock returns the mutex serializing transcript access for one user.
// Locks are created lazily and never removed; they are two words each and
// bounded by the distinct-user count.
func (s *Service) userLock(userID domain.UserID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}
