package llm

import (
	"context"
	"fmt"

	"dashchat/internal/domain"
)

// MockClient answers without a model server. Useful for local development.
type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Chat(ctx context.Context, messages []domain.ChatTurn) (string, error) {
	if len(messages) == 0 {
		return "", domain.ErrEmptyModelResponse
	}
	last := messages[len(messages)-1]
	return fmt.Sprintf("You said %q. For an IoT dashboard I would start with a clear layout of your key sensor metrics.", last.Content), nil
}
