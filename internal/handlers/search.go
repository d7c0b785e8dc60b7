package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"smartretail/internal/embeddings"
	"smartretail/internal/models"

	"github.com/labstack/echo/v4"
)

// SearchHandler finds products similar to a free-text query using the
// stored embeddings
// @Summary Similarity search
// @Description Embeds the query and returns products ranked by cosine similarity
// @Tags search
// @Produce json
// @Param q query string true "Search query"
// @Param limit query int false "Maximum matches to return" default(5)
// @Success 200 {object} models.SearchResponse
// @Failure 400 {object} models.SearchResponse
// @Failure 500 {object} models.SearchResponse
// @Router /api/search [get]
func SearchHandler(embedService *embeddings.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		query := strings.TrimSpace(c.QueryParam("q"))
		if query == "" {
			return c.JSON(http.StatusBadRequest, models.SearchResponse{
				Error: "Query parameter 'q' is required",
			})
		}

		limit := 5
		if raw := c.QueryParam("limit"); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
				limit = parsed
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		matches, err := embedService.SearchSimilar(ctx, query, limit)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.SearchResponse{
				Error: fmt.Sprintf("Search failed: %v", err),
			})
		}

		return c.JSON(http.StatusOK, models.SearchResponse{Matches: matches})
	}
}
