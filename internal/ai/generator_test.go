package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"smartretail/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chatRequest mirrors the fields of the completion request we care about
type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float32 `json:"temperature"`
}

func chatCompletionJSON(content string) string {
	payload := map[string]interface{}{
		"id":     "chatcmpl-test",
		"object": "chat.completion",
		"model":  "gpt-4o-mini",
		"choices": []map[string]interface{}{
			{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": content},
				"finish_reason": "stop",
			},
		},
	}
	data, _ := json.Marshal(payload)
	return string(data)
}

func embeddingsJSON(vectors [][]float64) string {
	data := make([]map[string]interface{}, len(vectors))
	for i, v := range vectors {
		data[i] = map[string]interface{}{
			"object":    "embedding",
			"index":     i,
			"embedding": v,
		}
	}
	payload := map[string]interface{}{
		"object": "list",
		"data":   data,
		"model":  "text-embedding-3-small",
	}
	out, _ := json.Marshal(payload)
	return string(out)
}

// newStubClient creates a Client pointed at a local stub of the OpenAI API
func newStubClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		OpenAIKey:     "test-key",
		OpenAIBaseURL: server.URL + "/v1",
	}
	client, err := NewClient(cfg)
	require.NoError(t, err)
	return client
}

func TestNewClient_NoProvider(t *testing.T) {
	client, err := NewClient(&config.Config{})
	assert.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "no AI provider configured")
}

func TestNewClient_OpenAIPrimary(t *testing.T) {
	client, err := NewClient(&config.Config{OpenAIKey: "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, "OpenAI", client.GetProviderName())
	assert.Equal(t, "text-embedding-3-small", client.GetEmbeddingModel())
}

func TestGenerator_ExplainProduct(t *testing.T) {
	var captured chatRequest
	client := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, chatCompletionJSON("  This creamy milk is perfect for coffee.\n"))
	})

	generator := NewGenerator(client)
	answer, err := generator.ExplainProduct(context.Background(), "Creamy dairy-free milk alternative")
	require.NoError(t, err)

	// Whitespace from the model is trimmed
	assert.Equal(t, "This creamy milk is perfect for coffee.", answer)

	require.Len(t, captured.Messages, 1)
	assert.Equal(t, "Explain the following product for a customer: Creamy dairy-free milk alternative", captured.Messages[0].Content)
	assert.Equal(t, explainMaxTokens, captured.MaxTokens)
	assert.InDelta(t, explainTemperature, captured.Temperature, 0.001)
}

func TestGenerator_GenerateDescription(t *testing.T) {
	var captured chatRequest
	client := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, chatCompletionJSON("Creamy organic almond milk, dairy-free and perfect for coffee."))
	})

	generator := NewGenerator(client)
	description, err := generator.GenerateDescription(context.Background(), "Organic Almond Milk")
	require.NoError(t, err)

	assert.NotEmpty(t, description)
	assert.LessOrEqual(t, len(strings.Fields(description)), 10)

	require.Len(t, captured.Messages, 1)
	assert.Equal(t, "Write a 10-word product description for: Organic Almond Milk", captured.Messages[0].Content)
	assert.Equal(t, describeMaxTokens, captured.MaxTokens)
	assert.InDelta(t, describeTemperature, captured.Temperature, 0.001)
}

func TestGenerator_GenerateDescription_Empty(t *testing.T) {
	client := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, chatCompletionJSON("   "))
	})

	generator := NewGenerator(client)
	description, err := generator.GenerateDescription(context.Background(), "Organic Almond Milk")
	assert.Error(t, err)
	assert.Empty(t, description)
	assert.Contains(t, err.Error(), "empty description")
}

func TestGenerator_APIError(t *testing.T) {
	client := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
	})

	generator := NewGenerator(client)

	_, err := generator.ExplainProduct(context.Background(), "anything")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "explanation request failed")

	_, err = generator.GenerateDescription(context.Background(), "anything")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "description generation failed")
}

func TestClient_CreateEmbeddings(t *testing.T) {
	client := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, embeddingsJSON([][]float64{{0.1, 0.2, 0.3}}))
	})

	vectors, err := client.CreateEmbeddings(context.Background(), []string{"Organic Almond Milk"})
	require.NoError(t, err)
	require.Len(t, vectors, 1)
	assert.Len(t, vectors[0], 3)
}
