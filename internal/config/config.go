package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds all configuration for the application
type Config struct {
	Port                   string
	DatabaseURL            string // Relational store for products and the chat log
	Version                string
	LogLevel               string
	OpenAIKey              string
	OpenAIBaseURL          string // Optional API base override, mainly for tests against a local stub
	AzureOpenAIEndpoint    string
	AzureOpenAIKey         string
	AzureGPTDeployment     string
	AzureEmbedDeployment   string
	OpenAITimeout          int // OpenAI API timeout in seconds
	EmbeddingDimension     int // Expected embedding vector length
	ProductCacheTTLMinutes int // Product list cache TTL in minutes
	SendGridAPIKey         string
	CatalogNotifyEmail     string // Address notified when a product is inserted (optional)
}

// Load initializes and returns application configuration
func Load() *Config {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Port:                   getEnv("PORT", "8080"),
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		Version:                getEnv("VERSION", "1.0.0"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		OpenAIKey:              os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:          os.Getenv("OPENAI_BASE_URL"),
		AzureOpenAIEndpoint:    os.Getenv("AZURE_OPENAI_ENDPOINT"),
		AzureOpenAIKey:         os.Getenv("AZURE_OPENAI_KEY"),
		AzureGPTDeployment:     getEnv("AZURE_OPENAI_GPT_DEPLOYMENT", "gpt-4o-mini"),
		AzureEmbedDeployment:   getEnv("AZURE_OPENAI_EMBEDDING_DEPLOYMENT", "text-embedding-3-small"),
		OpenAITimeout:          getEnvInt("OPENAI_TIMEOUT", 60),
		EmbeddingDimension:     getEnvInt("EMBEDDING_DIMENSION", 1536), // text-embedding-3-small
		ProductCacheTTLMinutes: getEnvInt("PRODUCT_CACHE_TTL_MINUTES", 5),
		SendGridAPIKey:         os.Getenv("SENDGRID_API_KEY"),
		CatalogNotifyEmail:     os.Getenv("CATALOG_NOTIFY_EMAIL"),
	}

	return config
}

// UseAzureOpenAI reports whether Azure OpenAI is fully configured
func (c *Config) UseAzureOpenAI() bool {
	return c.AzureOpenAIEndpoint != "" && c.AzureOpenAIKey != ""
}

// HasOpenAIFallback reports whether the OpenAI platform key is configured
func (c *Config) HasOpenAIFallback() bool {
	return c.OpenAIKey != ""
}

// getEnv gets an environment variable with a default fallback
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as integer with a default fallback
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// SetupLogger configures zerolog with JSON output and single-line format
func (c *Config) SetupLogger() zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	logger := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", "smartretail").
		Str("version", c.Version).
		Logger()

	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger = logger.Level(level)

	return logger
}
