package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Fatalf("unexpected port: %q", cfg.Port)
	}
	if cfg.OllamaBaseURL != "http://localhost:11434" {
		t.Fatalf("unexpected base url: %q", cfg.OllamaBaseURL)
	}
	if cfg.ModelName != "llama3.1:8b" {
		t.Fatalf("unexpected model: %q", cfg.ModelName)
	}
	if cfg.Timeout() != 120*time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.Timeout())
	}
	if cfg.MaxMessages != 24 {
		t.Fatalf("unexpected max messages: %d", cfg.MaxMessages)
	}
	if cfg.StorageBackend != BackendMemory {
		t.Fatalf("unexpected backend: %q", cfg.StorageBackend)
	}
	if cfg.SystemPrompt == "" {
		t.Fatalf("system prompt default missing")
	}
	if cfg.NumCtx != 8192 || cfg.NumPredict != 1024 || cfg.TopK != 40 {
		t.Fatalf("unexpected sampling defaults: %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MODEL_NAME", "mistral:7b")
	t.Setenv("OLLAMA_TIMEOUT", "30")
	t.Setenv("MAX_MESSAGES", "10")
	t.Setenv("CONVERSATION_TTL", "45m")
	t.Setenv("SYSTEM_PROMPT", "custom prompt")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ModelName != "mistral:7b" || cfg.TimeoutSeconds != 30 || cfg.MaxMessages != 10 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.ConversationTTL != 45*time.Minute {
		t.Fatalf("unexpected ttl: %v", cfg.ConversationTTL)
	}
	if cfg.SystemPrompt != "custom prompt" {
		t.Fatalf("unexpected prompt: %q", cfg.SystemPrompt)
	}
}

func TestLoadValidation(t *testing.T) {
	t.Run("postgres requires dsn", func(t *testing.T) {
		t.Setenv("STORAGE_BACKEND", "postgres")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for postgres backend without DATABASE_URL")
		}
	})

	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("STORAGE_BACKEND", "redis")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for unknown backend")
		}
	})

	t.Run("non-positive timeout", func(t *testing.T) {
		t.Setenv("OLLAMA_TIMEOUT", "0")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for zero timeout")
		}
	})
}
