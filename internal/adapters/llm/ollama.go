package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"dashchat/internal/domain"
)

// Options are the sampling parameters forwarded to the model verbatim.
type Options struct {
	Temperature   float64 `json:"temperature"`
	NumPredict    int     `json:"num_predict"`
	TopK          int     `json:"top_k"`
	TopP          float64 `json:"top_p"`
	NumCtx        int     `json:"num_ctx"`
	RepeatPenalty float64 `json:"repeat_penalty"`
}

type chatRequest struct {
	Model    string            `json:"model"`
	Messages []domain.ChatTurn `json:"messages"`
	Stream   bool              `json:"stream"`
	Options  Options           `json:"options"`
}

type chatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

// OllamaClient speaks the native Ollama chat protocol:
// POST {base}/api/chat with stream disabled.
type OllamaClient struct {
	baseURL    string
	model      string
	timeout    time.Duration
	options    Options
	httpClient *http.Client
}

func NewOllamaClient(baseURL, model string, timeout time.Duration, options Options) *OllamaClient {
	return &OllamaClient{
		baseURL: baseURL,
		model:   model,
		timeout: timeout,
		options: options,
		// Timeout is enforced per request via context so the bound covers
		// connection setup and body read together.
		httpClient: &http.Client{},
	}
}

// Chat sends the transcript upstream and returns the assistant content.
// Failures are translated into the domain taxonomy: TimeoutError,
// ErrUnreachable, UpstreamError, ErrEmptyModelResponse.
func (c *OllamaClient) Chat(ctx context.Context, messages []domain.ChatTurn) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   false,
		Options:  c.options,
	})
	if err != nil {
		return "", fmt.Errorf("encoding chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", c.classify(fmt.Errorf("calling inference endpoint: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &domain.UpstreamError{StatusCode: resp.StatusCode}
	}

	// The deadline can also strike while the body streams in, so decode
	// errors go through the same classification as transport errors.
	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", c.classify(fmt.Errorf("decoding chat response: %w", err))
	}

	if out.Message.Content == "" {
		return "", domain.ErrEmptyModelResponse
	}
	return out.Message.Content, nil
}

// classify maps request failures onto the domain taxonomy. Only a genuine
// exceeded deadline becomes a TimeoutError; a failed dial or dropped
// connection becomes ErrUnreachable; anything else passes through wrapped.
func (c *OllamaClient) classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &domain.TimeoutError{Seconds: int(c.timeout.Seconds())}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return domain.ErrUnreachable
	}

	return err
}
