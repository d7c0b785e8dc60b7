package main

import (
	"context"
	"time"

	"smartretail/internal/ai"
	"smartretail/internal/config"
	"smartretail/internal/database"
	"smartretail/internal/embeddings"
	"smartretail/internal/server"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Setup logger
	logger := cfg.SetupLogger()

	// Initialize database connection
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("Database connection failed")
	}
	logger.Info().Msg("Database connection established successfully")

	// Make sure the tables exist before serving requests
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	products := database.NewProductStore(db)
	chatLog := database.NewChatLogStore(db)
	if err := products.EnsureTable(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to ensure products table")
	}
	if err := chatLog.EnsureTable(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to ensure chat_log table")
	}
	cancel()

	// Create the AI client, shared across all requests
	client, err := ai.NewClient(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create AI client")
	}
	logger.Info().
		Str("provider", client.GetProviderName()).
		Str("embedding_model", client.GetEmbeddingModel()).
		Msg("AI client ready")

	generator := ai.NewGenerator(client)
	embedService := embeddings.NewService(client, products, cfg.EmbeddingDimension)

	// Create and initialize server
	srv := server.New(cfg, db, logger, generator, embedService)
	srv.Initialize()

	// Start server
	if err := srv.Start(); err != nil {
		logger.Fatal().Err(err).Msg("Server failed to start")
	}
}
