// Package ai provides a unified client for hosted model access
// with support for both Azure OpenAI (primary) and OpenAI platform (fallback)
package ai

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"smartretail/internal/config"

	"github.com/sashabaranov/go-openai"
)

// Client wraps the OpenAI client with Azure support and fallback capability
type Client struct {
	primary      *openai.Client
	fallback     *openai.Client
	cfg          *config.Config
	useAzure     bool
	gptModel     string
	embedModel   openai.EmbeddingModel
	providerName string
}

// NewClient creates a new client with Azure as primary and OpenAI as fallback
func NewClient(cfg *config.Config) (*Client, error) {
	client := &Client{
		cfg: cfg,
	}

	httpClient := &http.Client{
		Timeout: time.Duration(cfg.OpenAITimeout) * time.Second,
	}

	// Try Azure OpenAI first (primary)
	if cfg.UseAzureOpenAI() {
		azureConfig := openai.DefaultAzureConfig(cfg.AzureOpenAIKey, cfg.AzureOpenAIEndpoint)
		azureConfig.HTTPClient = httpClient
		client.primary = openai.NewClientWithConfig(azureConfig)
		client.useAzure = true
		client.gptModel = cfg.AzureGPTDeployment
		client.embedModel = openai.EmbeddingModel(cfg.AzureEmbedDeployment)
		client.providerName = "Azure OpenAI"
	}

	// Setup OpenAI as fallback (or primary if Azure not configured)
	if cfg.HasOpenAIFallback() {
		openaiConfig := openai.DefaultConfig(cfg.OpenAIKey)
		openaiConfig.HTTPClient = httpClient
		if cfg.OpenAIBaseURL != "" {
			openaiConfig.BaseURL = cfg.OpenAIBaseURL
		}
		client.fallback = openai.NewClientWithConfig(openaiConfig)

		if !client.useAzure {
			// Use OpenAI as primary since Azure is not configured
			client.primary = client.fallback
			client.fallback = nil
			client.gptModel = string(openai.GPT4oMini)
			client.embedModel = openai.SmallEmbedding3
			client.providerName = "OpenAI"
		}
	}

	if client.primary == nil {
		return nil, fmt.Errorf("no AI provider configured: set AZURE_OPENAI_ENDPOINT + AZURE_OPENAI_KEY or OPENAI_API_KEY")
	}

	return client, nil
}

// TestConnection verifies the API connection works
func (c *Client) TestConnection(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := c.CreateEmbeddings(ctx, []string{"test"}); err != nil {
		return fmt.Errorf("failed to connect to %s: %w", c.providerName, err)
	}
	return nil
}

// CreateEmbeddings generates embeddings for the given texts
func (c *Client) CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := c.primary.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: c.embedModel,
	})

	if err != nil && c.fallback != nil {
		// Try fallback provider
		resp, err = c.fallback.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: texts,
			Model: openai.SmallEmbedding3,
		})
		if err != nil {
			return nil, fmt.Errorf("both providers failed: %w", err)
		}
	} else if err != nil {
		return nil, err
	}

	embeddings := make([][]float32, len(resp.Data))
	for i, data := range resp.Data {
		embeddings[i] = data.Embedding
	}

	return embeddings, nil
}

// CreateChatCompletion generates a chat completion
func (c *Client) CreateChatCompletion(ctx context.Context, messages []openai.ChatCompletionMessage, maxTokens int, temperature float32) (*openai.ChatCompletionResponse, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.gptModel,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	resp, err := c.primary.CreateChatCompletion(ctx, req)
	if err != nil && c.fallback != nil {
		// Try fallback provider with OpenAI model name
		req.Model = string(openai.GPT4oMini)
		resp, err = c.fallback.CreateChatCompletion(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("both providers failed: %w", err)
		}
	} else if err != nil {
		return nil, err
	}

	return &resp, nil
}

// GetProviderName returns the current primary provider name
func (c *Client) GetProviderName() string {
	return c.providerName
}

// GetEmbeddingModel returns the embedding model/deployment name being used
func (c *Client) GetEmbeddingModel() string {
	return string(c.embedModel)
}
