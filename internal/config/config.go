package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const defaultSystemPrompt = "You are an expert AI assistant specialized in IoT dashboard design and development. " +
	"You help users create modern, responsive IoT dashboards with focus on: data visualization " +
	"(charts, graphs, real-time metrics), IoT device management, sensor data monitoring, user " +
	"interface design, and best practices for dashboard architecture. Provide practical, " +
	"actionable, and technical advice. Be concise but thorough."

type StorageBackend string

const (
	BackendMemory   StorageBackend = "memory"
	BackendPostgres StorageBackend = "postgres"
)

type Config struct {
	Port string `env:"DASHCHAT_PORT" envDefault:"8080"`

	// Inference endpoint
	OllamaBaseURL  string `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
	ModelName      string `env:"MODEL_NAME" envDefault:"llama3.1:8b"`
	TimeoutSeconds int    `env:"OLLAMA_TIMEOUT" envDefault:"120"`
	UseMockLLM     bool   `env:"USE_MOCK_LLM" envDefault:"false"`

	// Sampling parameters, passed through to the model as-is
	Temperature   float64 `env:"CHAT_TEMPERATURE" envDefault:"0.7"`
	TopK          int     `env:"CHAT_TOP_K" envDefault:"40"`
	TopP          float64 `env:"CHAT_TOP_P" envDefault:"0.9"`
	NumCtx        int     `env:"CHAT_NUM_CTX" envDefault:"8192"`
	NumPredict    int     `env:"CHAT_NUM_PREDICT" envDefault:"1024"`
	RepeatPenalty float64 `env:"CHAT_REPEAT_PENALTY" envDefault:"1.1"`

	// Conversation retention
	MaxMessages     int           `env:"MAX_MESSAGES" envDefault:"24"`
	ConversationTTL time.Duration `env:"CONVERSATION_TTL" envDefault:"0"`
	SystemPrompt    string        `env:"SYSTEM_PROMPT"`

	// User store backend: "memory" or "postgres"
	StorageBackend StorageBackend `env:"STORAGE_BACKEND" envDefault:"memory"`
	DatabaseURL    string         `env:"DATABASE_URL"`
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = defaultSystemPrompt
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageBackend {
	case BackendMemory:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres storage backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}

	if c.TimeoutSeconds <= 0 {
		return errors.New("OLLAMA_TIMEOUT must be positive")
	}
	if c.MaxMessages <= 0 {
		return errors.New("MAX_MESSAGES must be positive")
	}
	return nil
}

// Timeout is the upstream request bound as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
