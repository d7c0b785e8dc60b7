package database

import (
	"context"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL/MariaDB deployments
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL deployments
)

const (
	driverMySQL    = "mysql"
	driverPostgres = "postgres"
)

// New creates a new database connection (supports both MySQL and PostgreSQL)
func New(databaseURL string) (*sqlx.DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}

	// Auto-detect driver from URL
	driver := driverMySQL
	if len(databaseURL) > 8 && databaseURL[:8] == driverPostgres {
		driver = driverPostgres
	}

	db, err := sqlx.Open(driver, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool settings
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Ping verifies the connection is alive with a trivial query
func Ping(ctx context.Context, db *sqlx.DB) error {
	var result int
	if err := db.GetContext(ctx, &result, "SELECT 1"); err != nil {
		return fmt.Errorf("failed to execute ping query: %w", err)
	}
	return nil
}
