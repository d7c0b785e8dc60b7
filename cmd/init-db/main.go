package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"smartretail/internal/config"
	"smartretail/internal/database"
)

func main() {
	fmt.Println("=== DATABASE INIT ===")

	// Load configuration
	cfg := config.Load()

	// Connect to the database
	fmt.Println("Connecting to database...")
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fmt.Println("Creating products table...")
	if err := database.NewProductStore(db).EnsureTable(ctx); err != nil {
		log.Fatal("Failed to create products table:", err)
	}

	fmt.Println("Creating chat_log table...")
	if err := database.NewChatLogStore(db).EnsureTable(ctx); err != nil {
		log.Fatal("Failed to create chat_log table:", err)
	}

	fmt.Println("Database initialized successfully")
}
