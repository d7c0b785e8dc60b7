package models

import "time"

// HealthResponse represents a basic health check response
// @Description Health check response
type HealthResponse struct {
	Status    string    `json:"status" example:"healthy"`                 // Health status
	Timestamp time.Time `json:"timestamp" example:"2023-01-01T00:00:00Z"` // Timestamp of the check
	Version   string    `json:"version" example:"1.0.0"`                  // Application version
}

// DBHealthResponse represents a database health check response
// @Description Database health check response
type DBHealthResponse struct {
	Status    string        `json:"status" example:"healthy"`                   // Health status
	Timestamp time.Time     `json:"timestamp" example:"2023-01-01T00:00:00Z"`   // Timestamp of the check
	Connected bool          `json:"connected" example:"true"`                   // Database connection status
	Latency   time.Duration `json:"latency" swaggertype:"string" example:"1ms"` // Database ping latency
	Error     string        `json:"error,omitempty" example:""`                 // Error message if any
}

// Product represents a catalog row
// @Description Product information
type Product struct {
	ID          int       `json:"id" db:"id" example:"1"`                                  // Product ID
	Name        string    `json:"name" db:"name" example:"Organic Almond Milk"`            // Product name
	Description *string   `json:"description" db:"description" example:"Creamy dairy-free milk"` // Product description
	Embedding   *string   `json:"-" db:"embedding"`                                        // JSON array of floats
	CreatedAt   time.Time `json:"created_at" db:"created_at"`                              // Row creation time
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`                              // Last update time
}

// ChatLogEntry represents one question/answer pair in the append-only log
// @Description Chat log entry
type ChatLogEntry struct {
	ID        int       `json:"id" db:"id" example:"1"`                               // Log entry ID
	Question  string    `json:"question" db:"question" example:"What is this for?"`   // User question
	Answer    string    `json:"answer" db:"answer" example:"It is a dairy-free milk"` // Assistant answer
	CreatedAt time.Time `json:"created_at" db:"created_at"`                           // Entry timestamp (UTC)
}

// ProductsResponse represents the product listing response
// @Description Product listing payload
type ProductsResponse struct {
	Products []Product `json:"products"`                   // Products in the catalog
	Error    string    `json:"error,omitempty" example:""` // Error message if any
}

// ProductNamesResponse represents the product name listing response
// @Description Product name listing payload
type ProductNamesResponse struct {
	Names []string `json:"names"`                      // Ordered product names
	Error string   `json:"error,omitempty" example:""` // Error message if any
}

// InsertProductRequest represents the request body for product insertion
// @Description Product insertion payload
type InsertProductRequest struct {
	Name string `json:"name" example:"Organic Almond Milk"` // Product name to insert
}

// InsertProductResponse represents the response after a product insertion
// @Description Product insertion result
type InsertProductResponse struct {
	Product *Product `json:"product,omitempty"`          // The inserted product
	Error   string   `json:"error,omitempty" example:""` // Error message if any
}

// UpdateProductRequest represents the request body for a description update
// @Description Product update payload
type UpdateProductRequest struct {
	Description string `json:"description" example:"A fresh new description"` // New description
}

// InsightRequest represents the request body for the insight endpoint
// @Description Insight request payload
type InsightRequest struct {
	ProductID int    `json:"product_id" example:"1"`                        // Product to explain
	Question  string `json:"question,omitempty" example:"What is this for?"` // Optional user question
}

// InsightResponse represents the response from the insight endpoint
// @Description Insight response payload
type InsightResponse struct {
	Answer string `json:"answer,omitempty" example:"This product is..."` // Assistant answer
	Error  string `json:"error,omitempty" example:""`                    // Error message if any
}

// ProductMatch represents a product with its similarity score
// @Description Product similarity search result
type ProductMatch struct {
	Product    Product `json:"product"`                      // Matched product
	Similarity float64 `json:"similarity" example:"0.87"`    // Cosine similarity to the query
}

// SearchResponse represents the similarity search response
// @Description Similarity search payload
type SearchResponse struct {
	Matches []ProductMatch `json:"matches"`                    // Matches sorted by similarity
	Error   string         `json:"error,omitempty" example:""` // Error message if any
}

// ChatLogResponse represents the chat log listing response
// @Description Chat log listing payload
type ChatLogResponse struct {
	Entries []ChatLogEntry `json:"entries"`                    // Log entries, newest first
	Error   string         `json:"error,omitempty" example:""` // Error message if any
}
