package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/wanderbot/wanderbot/internal/agent"
	"github.com/wanderbot/wanderbot/internal/auth"
	"github.com/wanderbot/wanderbot/internal/recommender"
	"github.com/wanderbot/wanderbot/internal/server"
	"github.com/wanderbot/wanderbot/internal/storage"
	"github.com/wanderbot/wanderbot/pkg/config"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", "config.yaml"))
	}

	// Initialize storage
	var store storage.Storage
	if cfg.Database.UseInMemory {
		logger.Info("Using in-memory storage")
		store = storage.NewMemoryStorage()
	} else {
		logger.Info("Using PostgreSQL storage")
		dbConfig := storage.DatabaseConfig{
			Host:        cfg.Database.Host,
			Port:        cfg.Database.Port,
			User:        cfg.Database.User,
			Password:    cfg.Database.Password,
			DBName:      cfg.Database.DBName,
			SSLMode:     cfg.Database.SSLMode,
			UseInMemory: cfg.Database.UseInMemory,
		}
		store, err = storage.NewPostgresStorage(dbConfig)
		if err != nil {
			logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
	}
	defer store.Close()

	// The recommender is optional: without a credential the endpoint serves
	// the curated fallback set.
	var rec recommender.Recommender
	if cfg.OpenAI.APIKey != "" {
		rec = recommender.NewGPTRecommender(
			cfg.OpenAI.APIKey,
			cfg.OpenAI.BaseURL,
			cfg.OpenAI.Model,
			cfg.OpenAI.MaxTokens,
			cfg.OpenAI.Temperature,
			logger,
		)
	} else {
		logger.Warn("OPENAI_API_KEY not set, recommendations will use fallback data")
	}

	agentClient := agent.NewClient(
		cfg.ElevenLabs.APIKey,
		cfg.ElevenLabs.AgentID,
		cfg.ElevenLabs.BaseURL,
		logger,
	)

	var authenticator auth.Authenticator
	if cfg.Auth.ServiceURL != "" {
		authenticator = auth.NewRemoteAuthenticator(cfg.Auth.ServiceURL, logger)
	} else {
		logger.Warn("AUTH_SERVICE_URL not set, trusting the X-User-Id header (development only)")
		authenticator = auth.HeaderAuthenticator{Header: "X-User-Id"}
	}

	if cfg.ElevenLabs.WebhookSecret == "" {
		logger.Warn("ELEVENLABS_WEBHOOK_SECRET not set, webhook signature verification is disabled")
	}

	srv := server.New(
		logger,
		store,
		rec,
		agentClient,
		authenticator,
		cfg.ElevenLabs.WebhookSecret,
	)
	httpServer := server.NewHTTPServer(cfg.Server.Addr, srv.Handler())

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.Server.Addr))
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	case sig := <-stop:
		logger.Info("Shutting down", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			logger.Error("Shutdown error", zap.Error(err))
		}
	}
}
