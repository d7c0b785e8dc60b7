// Package embeddings handles vector embeddings for catalog products.
// Vectors are stored as JSON arrays in the products table and compared
// in-process with cosine similarity.
package embeddings

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"smartretail/internal/ai"
	"smartretail/internal/database"
	"smartretail/internal/models"
)

// Service generates, stores, and searches product embeddings
type Service struct {
	client    *ai.Client
	store     *database.ProductStore
	dimension int
}

// NewService creates a new embedding service.
// dimension is the expected vector length; vectors of any other length
// are rejected as a provider/model mismatch.
func NewService(client *ai.Client, store *database.ProductStore, dimension int) *Service {
	return &Service{
		client:    client,
		store:     store,
		dimension: dimension,
	}
}

// Dimension returns the configured embedding dimension
func (s *Service) Dimension() int {
	return s.dimension
}

// EmbedText generates an embedding vector for a single text
func (s *Service) EmbedText(ctx context.Context, text string) ([]float64, error) {
	vectors, err := s.client.CreateEmbeddings(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("no embedding returned from %s", s.client.GetProviderName())
	}

	embedding := toFloat64(vectors[0])
	if len(embedding) != s.dimension {
		return nil, fmt.Errorf("embedding dimension mismatch: got %d, expected %d", len(embedding), s.dimension)
	}

	return embedding, nil
}

// MarshalEmbedding encodes a vector as the JSON stored in the embedding column
func MarshalEmbedding(embedding []float64) (string, error) {
	data, err := json.Marshal(embedding)
	if err != nil {
		return "", fmt.Errorf("failed to marshal embedding: %w", err)
	}
	return string(data), nil
}

// UnmarshalEmbedding decodes the JSON stored in the embedding column
func UnmarshalEmbedding(embeddingJSON string) ([]float64, error) {
	var embedding []float64
	if err := json.Unmarshal([]byte(embeddingJSON), &embedding); err != nil {
		return nil, fmt.Errorf("failed to unmarshal embedding: %w", err)
	}
	return embedding, nil
}

// SearchSimilar finds products similar to the query using cosine similarity
// over the stored embeddings. Rows with malformed embeddings are skipped.
func (s *Service) SearchSimilar(ctx context.Context, query string, limit int) ([]models.ProductMatch, error) {
	queryEmbedding, err := s.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	products, err := s.store.ListWithEmbeddings(ctx)
	if err != nil {
		return nil, err
	}

	matches := make([]models.ProductMatch, 0, len(products))
	for _, product := range products {
		if product.Embedding == nil {
			continue
		}
		embedding, err := UnmarshalEmbedding(*product.Embedding)
		if err != nil {
			continue // Skip invalid embeddings
		}

		product.Embedding = nil // Do not ship vectors back to the UI
		matches = append(matches, models.ProductMatch{
			Product:    product,
			Similarity: CosineSimilarity(queryEmbedding, embedding),
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if limit > 0 && limit < len(matches) {
		matches = matches[:limit]
	}

	return matches, nil
}

// ReembedAll regenerates embeddings for every product from its current
// description, in batches to stay under API limits.
func (s *Service) ReembedAll(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 100
	}

	products, err := s.store.List(ctx)
	if err != nil {
		return 0, err
	}

	updated := 0
	for start := 0; start < len(products); start += batchSize {
		end := start + batchSize
		if end > len(products) {
			end = len(products)
		}
		batch := products[start:end]

		texts := make([]string, len(batch))
		for i, product := range batch {
			texts[i] = embeddingText(product)
		}

		batchCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		vectors, err := s.client.CreateEmbeddings(batchCtx, texts)
		cancel()
		if err != nil {
			return updated, fmt.Errorf("failed to embed batch %d-%d: %w", start, end, err)
		}

		for i, vector := range vectors {
			embedding := toFloat64(vector)
			if len(embedding) != s.dimension {
				return updated, fmt.Errorf("embedding dimension mismatch for product %d: got %d, expected %d",
					batch[i].ID, len(embedding), s.dimension)
			}

			embeddingJSON, err := MarshalEmbedding(embedding)
			if err != nil {
				return updated, err
			}
			if err := s.store.UpdateEmbedding(ctx, batch[i].ID, embeddingJSON); err != nil {
				return updated, fmt.Errorf("failed to store embedding for product %d: %w", batch[i].ID, err)
			}
			updated++
		}
	}

	return updated, nil
}

// embeddingText builds the text that gets embedded for a product
func embeddingText(product models.Product) string {
	if product.Description != nil && *product.Description != "" {
		return product.Name + " | " + *product.Description
	}
	return product.Name
}

// CosineSimilarity calculates cosine similarity between two vectors
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

func toFloat64(vector []float32) []float64 {
	out := make([]float64, len(vector))
	for i, v := range vector {
		out[i] = float64(v)
	}
	return out
}
