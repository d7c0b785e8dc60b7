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
	"smartretail/internal/database"
	"smartretail/internal/models"

	"github.com/labstack/echo/v4"
)

// InsightHandler explains a selected product with the hosted model and
// appends the question/answer pair to the chat log
// @Summary Product insight
// @Description Asks the AI assistant to explain the selected product and logs the interaction
// @Tags insight
// @Accept json
// @Produce json
// @Param request body models.InsightRequest true "Insight request"
// @Success 200 {object} models.InsightResponse
// @Failure 400 {object} models.InsightResponse
// @Failure 404 {object} models.InsightResponse
// @Failure 500 {object} models.InsightResponse
// @Router /api/insight [post]
func InsightHandler(store *database.ProductStore, chatLog *database.ChatLogStore, generator *ai.Generator) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.InsightRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.InsightResponse{
				Error: fmt.Sprintf("Invalid request body: %v", err),
			})
		}

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		product, err := store.Get(ctx, req.ProductID)
		if errors.Is(err, database.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, models.InsightResponse{
				Error: fmt.Sprintf("Product %d not found", req.ProductID),
			})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.InsightResponse{
				Error: fmt.Sprintf("Failed to fetch product: %v", err),
			})
		}

		description := product.Name
		if product.Description != nil && *product.Description != "" {
			description = *product.Description
		}

		answer, err := generator.ExplainProduct(ctx, description)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.InsightResponse{
				Error: fmt.Sprintf("Error while generating explanation: %v", err),
			})
		}

		question := strings.TrimSpace(req.Question)
		if question == "" {
			question = product.Name
		}

		// The log write happens after the answer is produced; if it fails
		// the user still gets the answer and the failure is surfaced.
		if err := chatLog.Append(ctx, question, answer); err != nil {
			return c.JSON(http.StatusInternalServerError, models.InsightResponse{
				Error: fmt.Sprintf("Failed to log conversation: %v", err),
			})
		}

		return c.JSON(http.StatusOK, models.InsightResponse{Answer: answer})
	}
}

// ChatLogHandler returns the most recent chat log entries
// @Summary Chat log
// @Description Returns the newest question/answer pairs
// @Tags insight
// @Produce json
// @Param limit query int false "Maximum entries to return" default(20)
// @Success 200 {object} models.ChatLogResponse
// @Failure 500 {object} models.ChatLogResponse
// @Router /api/chatlog [get]
func ChatLogHandler(chatLog *database.ChatLogStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		limit := 20
		if raw := c.QueryParam("limit"); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
				limit = parsed
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		entries, err := chatLog.Recent(ctx, limit)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.ChatLogResponse{
				Error: fmt.Sprintf("Failed to read chat log: %v", err),
			})
		}

		return c.JSON(http.StatusOK, models.ChatLogResponse{Entries: entries})
	}
}
