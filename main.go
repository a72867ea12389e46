package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fudscan-ai/fudscan-webapp-sub001/internal/chatbot"
	"github.com/fudscan-ai/fudscan-webapp-sub001/internal/config"
	"github.com/fudscan-ai/fudscan-webapp-sub001/internal/llm"
	"github.com/fudscan-ai/fudscan-webapp-sub001/internal/logging"
	"github.com/fudscan-ai/fudscan-webapp-sub001/internal/search"
	"github.com/fudscan-ai/fudscan-webapp-sub001/internal/server"
	"github.com/fudscan-ai/fudscan-webapp-sub001/internal/wallet"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("%v", err)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.LoadConfig(os.Getenv("FUDSCAN_CONFIG"), envFile())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level, err := logging.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(logging.New(os.Stderr, level))

	// Wallet connector settings are validated before anything is served
	walletSettings, err := wallet.NewSettings(cfg.Wallet)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize services
	aiProvider, release, err := llm.NewProvider(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create LLM provider: %w", err)
	}
	defer release()

	var searcher search.Service = search.Noop{}
	if cfg.Search.Enabled {
		searcher = search.NewSerpAPIService(cfg.Search.APIKey, cfg.Search.MaxResults)
	}

	chatService := chatbot.NewChatService(aiProvider, searcher, cfg.Chat, cfg.LLM.MaxTokens)
	chatController := chatbot.NewChatController(chatService, cfg.CORS.AllowOrigins)
	walletController := wallet.NewController(walletSettings)

	router := server.NewRouter(cfg.CORS, chatController, walletController)

	slog.Info("server starting",
		"port", cfg.Server.Port,
		"provider", aiProvider.Name(),
		"model", aiProvider.Model(),
		"search", cfg.Search.Enabled,
	)

	// Start server
	if err := server.Run(ctx, ":"+cfg.Server.Port, router, cfg.Server.ShutdownTimeout); err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	slog.Info("server stopped")
	return nil
}

func envFile() string {
	if path := os.Getenv("FUDSCAN_ENV_FILE"); path != "" {
		return path
	}
	return ".env"
}
