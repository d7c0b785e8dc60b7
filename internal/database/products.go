package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"smartretail/internal/models"

	"github.com/jmoiron/sqlx"
)

// ErrProductNotFound is returned when a product lookup matches no row
var ErrProductNotFound = errors.New("product not found")

// ProductStore provides access to the products table
type ProductStore struct {
	db *sqlx.DB
}

// NewProductStore creates a new product store
func NewProductStore(db *sqlx.DB) *ProductStore {
	return &ProductStore{db: db}
}

// EnsureTable creates the products table if it does not exist
func (s *ProductStore) EnsureTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS products (
			id INT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description TEXT,
			embedding TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create products table: %w", err)
	}
	return nil
}

// ListNames returns the distinct product names, ordered alphabetically
func (s *ProductStore) ListNames(ctx context.Context) ([]string, error) {
	var names []string
	query := `SELECT DISTINCT name FROM products ORDER BY name`
	if err := s.db.SelectContext(ctx, &names, query); err != nil {
		return nil, fmt.Errorf("failed to list product names: %w", err)
	}
	// Ensure we return an empty slice, not nil
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// List returns all products ordered by ID, without embeddings
func (s *ProductStore) List(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	query := `SELECT id, name, description FROM products ORDER BY id`
	if err := s.db.SelectContext(ctx, &products, query); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

// ListWithEmbeddings returns all products that have a stored embedding
func (s *ProductStore) ListWithEmbeddings(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	query := `SELECT id, name, description, embedding FROM products WHERE embedding IS NOT NULL ORDER BY id`
	if err := s.db.SelectContext(ctx, &products, query); err != nil {
		return nil, fmt.Errorf("failed to list product embeddings: %w", err)
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

// Get returns the product with the given ID, or ErrProductNotFound
func (s *ProductStore) Get(ctx context.Context, id int) (*models.Product, error) {
	var product models.Product
	query := s.db.Rebind(`SELECT id, name, description, embedding FROM products WHERE id = ?`)
	err := s.db.GetContext(ctx, &product, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	return &product, nil
}

// GetByName returns the first product with the given name, or ErrProductNotFound
func (s *ProductStore) GetByName(ctx context.Context, name string) (*models.Product, error) {
	var product models.Product
	query := s.db.Rebind(`SELECT id, name, description, embedding FROM products WHERE name = ? ORDER BY id LIMIT 1`)
	err := s.db.GetContext(ctx, &product, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product %q: %w", name, err)
	}
	return &product, nil
}

// Insert stores a new product row, allocating id = MAX(id)+1.
// Single-writer demo allocation, matching the source system.
func (s *ProductStore) Insert(ctx context.Context, name, description, embeddingJSON string) (*models.Product, error) {
	var maxID sql.NullInt64
	if err := s.db.GetContext(ctx, &maxID, `SELECT MAX(id) FROM products`); err != nil {
		return nil, fmt.Errorf("failed to allocate product id: %w", err)
	}

	newID := 1
	if maxID.Valid {
		newID = int(maxID.Int64) + 1
	}

	query := s.db.Rebind(`INSERT INTO products (id, name, description, embedding, created_at, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`)
	if _, err := s.db.ExecContext(ctx, query, newID, name, description, embeddingJSON); err != nil {
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}

	return &models.Product{
		ID:          newID,
		Name:        name,
		Description: &description,
		Embedding:   &embeddingJSON,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}, nil
}

// UpdateDescription replaces a product's description and embedding
func (s *ProductStore) UpdateDescription(ctx context.Context, id int, description, embeddingJSON string) error {
	query := s.db.Rebind(`UPDATE products SET description = ?, embedding = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`)
	result, err := s.db.ExecContext(ctx, query, description, embeddingJSON, id)
	if err != nil {
		return fmt.Errorf("failed to update product %d: %w", id, err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ErrProductNotFound
	}
	return nil
}

// UpdateEmbedding replaces only a product's stored embedding
func (s *ProductStore) UpdateEmbedding(ctx context.Context, id int, embeddingJSON string) error {
	query := s.db.Rebind(`UPDATE products SET embedding = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`)
	result, err := s.db.ExecContext(ctx, query, embeddingJSON, id)
	if err != nil {
		return fmt.Errorf("failed to update embedding for product %d: %w", id, err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ErrProductNotFound
	}
	return nil
}

// Delete removes a product row
func (s *ProductStore) Delete(ctx context.Context, id int) error {
	query := s.db.Rebind(`DELETE FROM products WHERE id = ?`)
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ErrProductNotFound
	}
	return nil
}
