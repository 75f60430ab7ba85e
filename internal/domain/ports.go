package domain

import "context"

// InferenceClient defines how the application talks to the model-serving
// endpoint. Implementations own the request timeout and translate transport
// failures into the domain error taxonomy (TimeoutError, UpstreamError,
// ErrUnreachable, ErrEmptyModelResponse).
type InferenceClient interface {
	Chat(ctx context.Context, messages []ChatTurn) (string, error)
}

// ConversationStore is the process-wide mapping from user identity to
// transcript. Entries are created lazily and live for the server process
// lifetime unless cleared or evicted.
type ConversationStore interface {
	// Get returns a copy of the transcript; an absent user reads as
	// empty. It never fails.
	Get(userID UserID) []ChatTurn
	Append(userID UserID, turn ChatTurn)
	// PrependSystemTurn inserts turn at position 0 unless a system turn is
	// already present there.
	PrependSystemTurn(userID UserID, turn ChatTurn)
	// Truncate keeps only the most recent MaxMessages turns.
	Truncate(userID UserID)
	Clear(userID UserID)
	// RollbackLastUserTurn removes the last turn if its role is user.
	// No-op on an empty transcript or a non-user tail.
	RollbackLastUserTurn(userID UserID)
}

// SessionStore resolves opaque session tokens to user identities.
type SessionStore interface {
	Create(userID UserID) (string, error)
	// Resolve returns ErrUnauthorized for unknown tokens.
	Resolve(token string) (UserID, error)
	Destroy(token string)
	DestroyForUser(userID UserID)
}

// UserStore is the account persistence port, consumed by the accounts
// service and the session authenticator.
type UserStore interface {
	Create(ctx context.Context, user *User) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id UserID) (*User, error)
	UpdateProfile(ctx context.Context, id UserID, firstName, lastName string) error
	UpdatePassword(ctx context.Context, id UserID, passwordHash []byte) error
	Delete(ctx context.Context, id UserID) error
}
