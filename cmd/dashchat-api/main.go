package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "dashchat/internal/adapters/http"
	"dashchat/internal/adapters/llm"
	memstore "dashchat/internal/adapters/storage/memory"
	pgstore "dashchat/internal/adapters/storage/postgres"
	"dashchat/internal/app/accounts"
	"dashchat/internal/app/chat"
	"dashchat/internal/config"
	"dashchat/internal/domain"
	"dashchat/internal/observability"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log := observability.Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Inference client: mock or real Ollama endpoint
	var inference domain.InferenceClient
	if cfg.UseMockLLM {
		log.Info("using mock inference client")
		inference = llm.NewMockClient()
	} else {
		log.Info("using Ollama inference client",
			"base_url", cfg.OllamaBaseURL, "model", cfg.ModelName)
		inference = llm.NewOllamaClient(cfg.OllamaBaseURL, cfg.ModelName, cfg.Timeout(), llm.Options{
			Temperature:   cfg.Temperature,
			NumPredict:    cfg.NumPredict,
			TopK:          cfg.TopK,
			TopP:          cfg.TopP,
			NumCtx:        cfg.NumCtx,
			RepeatPenalty: cfg.RepeatPenalty,
		})
	}

	// User store: memory or postgres
	var users domain.UserStore
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		log.Info("using postgres user store")
		pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := pgstore.Migrate(ctx, pool); err != nil {
			log.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		users = pgstore.NewUserStore(pool)

	default:
		log.Info("using in-memory user store")
		users = memstore.NewUserStore()
	}

	sessions := memstore.NewSessionStore()

	conversations := memstore.NewConversationStore(cfg.MaxMessages, cfg.ConversationTTL)
	defer conversations.Close()

	chatSvc := chat.NewService(conversations, inference, cfg.SystemPrompt, chat.ModelInfo{
		Model:          cfg.ModelName,
		TimeoutSeconds: cfg.TimeoutSeconds,
		MaxContext:     cfg.NumCtx,
	})
	accountsSvc := accounts.NewService(users, sessions)

	handler := httpadapter.NewServer(chatSvc, accountsSvc, sessions)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("dashchat API listening", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
	log.Info("server shut down")
}
