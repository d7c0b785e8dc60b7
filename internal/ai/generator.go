package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Generation parameters carried over from the source system
const (
	explainMaxTokens   = 100
	explainTemperature = 0.5

	describeMaxTokens   = 50
	describeTemperature = 0.7
)

// Generator produces product explanations and short generated descriptions
type Generator struct {
	client *Client
}

// NewGenerator creates a new insight generator
func NewGenerator(client *Client) *Generator {
	return &Generator{client: client}
}

// ExplainProduct asks the model to explain an existing product description
// to a customer. Any API failure is surfaced as-is; no fallback text.
func (g *Generator) ExplainProduct(ctx context.Context, description string) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleUser,
			Content: explainPrompt(description),
		},
	}

	resp, err := g.client.CreateChatCompletion(ctx, messages, explainMaxTokens, explainTemperature)
	if err != nil {
		return "", fmt.Errorf("explanation request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from %s", g.client.GetProviderName())
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// GenerateDescription asks the model for a 10-word description of a new product
func (g *Generator) GenerateDescription(ctx context.Context, name string) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleUser,
			Content: describePrompt(name),
		},
	}

	resp, err := g.client.CreateChatCompletion(ctx, messages, describeMaxTokens, describeTemperature)
	if err != nil {
		return "", fmt.Errorf("description generation failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from %s", g.client.GetProviderName())
	}

	description := strings.TrimSpace(resp.Choices[0].Message.Content)
	if description == "" {
		return "", fmt.Errorf("empty description from %s", g.client.GetProviderName())
	}

	return description, nil
}

func explainPrompt(description string) string {
	return fmt.Sprintf("Explain the following product for a customer: %s", description)
}

func describePrompt(name string) string {
	return fmt.Sprintf("Write a 10-word product description for: %s", name)
}
