package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"smartretail/internal/ai"
	"smartretail/internal/config"
	"smartretail/internal/database"
	"smartretail/internal/embeddings"
)

func main() {
	fmt.Println("=== EMBEDDING UPDATE ===")
	fmt.Printf("Starting at: %s\n", time.Now().Format(time.RFC3339))

	// Load configuration
	cfg := config.Load()

	// Connect to the database
	fmt.Println("Connecting to database...")
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	store := database.NewProductStore(db)

	// Create the AI client and verify the API is reachable
	fmt.Println("Initializing AI client...")
	client, err := ai.NewClient(cfg)
	if err != nil {
		log.Fatal("Failed to create AI client:", err)
	}
	if err := client.TestConnection(context.Background()); err != nil {
		log.Fatal("AI connection test failed:", err)
	}
	fmt.Printf("Using %s for embeddings (model: %s)\n", client.GetProviderName(), client.GetEmbeddingModel())

	service := embeddings.NewService(client, store, cfg.EmbeddingDimension)

	// Re-embed every product from its current description
	fmt.Println("Updating embeddings for all products...")
	start := time.Now()

	updated, err := service.ReembedAll(context.Background(), 100)
	if err != nil {
		log.Fatal("Failed to update product embeddings:", err)
	}

	fmt.Printf("Successfully updated %d embeddings in %v\n", updated, time.Since(start))
	fmt.Printf("Completed at: %s\n", time.Now().Format(time.RFC3339))
}
