package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"smartretail/internal/ai"
	"smartretail/internal/cache"
	"smartretail/internal/config"
	"smartretail/internal/database"
	"smartretail/internal/email"
	"smartretail/internal/embeddings"
	"smartretail/internal/models"

	"github.com/labstack/echo/v4"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	productListCacheKey  = "product_list"
	productNamesCacheKey = "product_names"
)

// ProductsHandler returns the full product listing
// @Summary List products
// @Description Returns all products in the catalog
// @Tags products
// @Produce json
// @Success 200 {object} models.ProductsResponse
// @Failure 500 {object} models.ProductsResponse
// @Router /api/products [get]
func ProductsHandler(store *database.ProductStore, productCache *cache.Cache, cfg *config.Config) echo.HandlerFunc {
	ttl := time.Duration(cfg.ProductCacheTTLMinutes) * time.Minute

	return func(c echo.Context) error {
		if cached, found := productCache.Get(productListCacheKey); found {
			if products, ok := cached.([]models.Product); ok {
				return c.JSON(http.StatusOK, models.ProductsResponse{Products: products})
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		products, err := store.List(ctx)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.ProductsResponse{
				Error: fmt.Sprintf("Failed to fetch products: %v", err),
			})
		}

		productCache.Set(productListCacheKey, products, ttl)
		return c.JSON(http.StatusOK, models.ProductsResponse{Products: products})
	}
}

// ProductNamesHandler returns the ordered product names for the sidebar selector
// @Summary List product names
// @Description Returns the distinct product names, ordered
// @Tags products
// @Produce json
// @Success 200 {object} models.ProductNamesResponse
// @Failure 500 {object} models.ProductNamesResponse
// @Router /api/products/names [get]
func ProductNamesHandler(store *database.ProductStore, productCache *cache.Cache, cfg *config.Config) echo.HandlerFunc {
	ttl := time.Duration(cfg.ProductCacheTTLMinutes) * time.Minute

	return func(c echo.Context) error {
		if cached, found := productCache.Get(productNamesCacheKey); found {
			if names, ok := cached.([]string); ok {
				return c.JSON(http.StatusOK, models.ProductNamesResponse{Names: names})
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		names, err := store.ListNames(ctx)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.ProductNamesResponse{
				Error: fmt.Sprintf("Failed to fetch product names: %v", err),
			})
		}

		productCache.Set(productNamesCacheKey, names, ttl)
		return c.JSON(http.StatusOK, models.ProductNamesResponse{Names: names})
	}
}

// ProductHandler returns a single product by ID
// @Summary Get product
// @Description Returns the product with the given ID
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.Product
// @Failure 404 {object} models.InsertProductResponse
// @Router /api/products/{id} [get]
func ProductHandler(store *database.ProductStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.InsertProductResponse{
				Error: "Invalid product id",
			})
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		product, err := store.Get(ctx, id)
		if errors.Is(err, database.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, models.InsertProductResponse{
				Error: fmt.Sprintf("Product %d not found", id),
			})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.InsertProductResponse{
				Error: fmt.Sprintf("Failed to fetch product: %v", err),
			})
		}

		product.Embedding = nil
		return c.JSON(http.StatusOK, product)
	}
}

// InsertProductHandler inserts a new product with an AI-generated
// description and embedding
// @Summary Insert product
// @Description Generates a short description and embedding for the named product and stores the row
// @Tags products
// @Accept json
// @Produce json
// @Param request body models.InsertProductRequest true "Product to insert"
// @Success 201 {object} models.InsertProductResponse
// @Failure 400 {object} models.InsertProductResponse
// @Failure 500 {object} models.InsertProductResponse
// @Router /api/products [post]
func InsertProductHandler(store *database.ProductStore, generator *ai.Generator, embedService *embeddings.Service, notifier *email.Service, productCache *cache.Cache) echo.HandlerFunc {
	caser := cases.Title(language.English)

	return func(c echo.Context) error {
		var req models.InsertProductRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.InsertProductResponse{
				Error: fmt.Sprintf("Invalid request body: %v", err),
			})
		}

		name := strings.TrimSpace(req.Name)
		if name == "" {
			return c.JSON(http.StatusBadRequest, models.InsertProductResponse{
				Error: "Product name cannot be empty",
			})
		}
		name = caser.String(name)

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		description, err := generator.GenerateDescription(ctx, name)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.InsertProductResponse{
				Error: fmt.Sprintf("Failed to generate description: %v", err),
			})
		}

		embedding, err := embedService.EmbedText(ctx, description)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.InsertProductResponse{
				Error: fmt.Sprintf("Failed to generate embedding: %v", err),
			})
		}

		embeddingJSON, err := embeddings.MarshalEmbedding(embedding)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.InsertProductResponse{
				Error: fmt.Sprintf("Failed to encode embedding: %v", err),
			})
		}

		product, err := store.Insert(ctx, name, description, embeddingJSON)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.InsertProductResponse{
				Error: fmt.Sprintf("Insertion failed: %v", err),
			})
		}

		productCache.Delete(productListCacheKey)
		productCache.Delete(productNamesCacheKey)

		// Catalog notification is best effort; a mail failure never fails the insert
		if notifier != nil && notifier.Enabled() {
			if err := notifier.SendProductInsertedEmail(product.Name, description); err != nil {
				fmt.Printf("[PRODUCTS] Warning: Failed to send catalog notification: %v\n", err)
			}
		}

		product.Embedding = nil
		return c.JSON(http.StatusCreated, models.InsertProductResponse{Product: product})
	}
}

// UpdateProductHandler replaces a product's description and re-embeds it
// @Summary Update product description
// @Description Stores the new description and its regenerated embedding
// @Tags products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param request body models.UpdateProductRequest true "New description"
// @Success 200 {object} models.InsertProductResponse
// @Failure 400 {object} models.InsertProductResponse
// @Failure 404 {object} models.InsertProductResponse
// @Failure 500 {object} models.InsertProductResponse
// @Router /api/products/{id} [put]
func UpdateProductHandler(store *database.ProductStore, embedService *embeddings.Service, productCache *cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.InsertProductResponse{
				Error: "Invalid product id",
			})
		}

		var req models.UpdateProductRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.InsertProductResponse{
				Error: fmt.Sprintf("Invalid request body: %v", err),
			})
		}

		description := strings.TrimSpace(req.Description)
		if description == "" {
			return c.JSON(http.StatusBadRequest, models.InsertProductResponse{
				Error: "Description cannot be empty",
			})
		}

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		embedding, err := embedService.EmbedText(ctx, description)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.InsertProductResponse{
				Error: fmt.Sprintf("Failed to generate embedding: %v", err),
			})
		}

		embeddingJSON, err := embeddings.MarshalEmbedding(embedding)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.InsertProductResponse{
				Error: fmt.Sprintf("Failed to encode embedding: %v", err),
			})
		}

		err = store.UpdateDescription(ctx, id, description, embeddingJSON)
		if errors.Is(err, database.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, models.InsertProductResponse{
				Error: fmt.Sprintf("Product %d not found", id),
			})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.InsertProductResponse{
				Error: fmt.Sprintf("Update failed: %v", err),
			})
		}

		productCache.Delete(productListCacheKey)
		productCache.Delete(productNamesCacheKey)

		return c.JSON(http.StatusOK, models.InsertProductResponse{})
	}
}

// DeleteProductHandler removes a product from the catalog
// @Summary Delete product
// @Description Removes the product with the given ID
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.InsertProductResponse
// @Failure 404 {object} models.InsertProductResponse
// @Failure 500 {object} models.InsertProductResponse
// @Router /api/products/{id} [delete]
func DeleteProductHandler(store *database.ProductStore, productCache *cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.InsertProductResponse{
				Error: "Invalid product id",
			})
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err = store.Delete(ctx, id)
		if errors.Is(err, database.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, models.InsertProductResponse{
				Error: fmt.Sprintf("Product %d not found", id),
			})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.InsertProductResponse{
				Error: fmt.Sprintf("Delete failed: %v", err),
			})
		}

		productCache.Delete(productListCacheKey)
		productCache.Delete(productNamesCacheKey)

		return c.JSON(http.StatusOK, models.InsertProductResponse{})
	}
}
