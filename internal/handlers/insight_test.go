package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"smartretail/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsightHandler(t *testing.T) {
	answer := "This almond milk is a creamy dairy-free alternative."
	env := newTestEnv(t, answer)

	env.mock.ExpectQuery(`SELECT id, name, description, embedding FROM products WHERE id = \?`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description"}).
			AddRow(1, "Organic Almond Milk", "Creamy dairy-free milk alternative"))
	env.mock.ExpectExec("INSERT INTO chat_log").
		WithArgs("Is this good for coffee?", answer).
		WillReturnResult(sqlmock.NewResult(1, 1))

	handler := InsightHandler(env.store, env.chatLog, env.generator)
	rec := doJSON(t, handler, http.MethodPost, "/api/insight",
		`{"product_id":1,"question":"Is this good for coffee?"}`)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response models.InsightResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, answer, response.Answer)

	assert.NoError(t, env.mock.ExpectationsWereMet())
}

// An empty question is logged under the product name, matching how a
// plain "explain this product" click is recorded.
func TestInsightHandler_DefaultQuestion(t *testing.T) {
	answer := "A tangy loaf with a crisp crust."
	env := newTestEnv(t, answer)

	env.mock.ExpectQuery(`SELECT id, name, description, embedding FROM products WHERE id = \?`).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description"}).
			AddRow(2, "Sourdough Bread", "Hand-crafted tangy sourdough"))
	env.mock.ExpectExec("INSERT INTO chat_log").
		WithArgs("Sourdough Bread", answer).
		WillReturnResult(sqlmock.NewResult(2, 1))

	handler := InsightHandler(env.store, env.chatLog, env.generator)
	rec := doJSON(t, handler, http.MethodPost, "/api/insight", `{"product_id":2}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestInsightHandler_ProductNotFound(t *testing.T) {
	env := newTestEnv(t, "unused")

	env.mock.ExpectQuery(`SELECT id, name, description, embedding FROM products WHERE id = \?`).
		WithArgs(999).
		WillReturnError(sql.ErrNoRows)

	handler := InsightHandler(env.store, env.chatLog, env.generator)
	rec := doJSON(t, handler, http.MethodPost, "/api/insight", `{"product_id":999}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var response models.InsightResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Contains(t, response.Error, "not found")
}

func TestInsightHandler_LogWriteFailure(t *testing.T) {
	answer := "An answer the user still deserves."
	env := newTestEnv(t, answer)

	env.mock.ExpectQuery(`SELECT id, name, description, embedding FROM products WHERE id = \?`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description"}).
			AddRow(1, "Organic Almond Milk", "Creamy dairy-free milk alternative"))
	env.mock.ExpectExec("INSERT INTO chat_log").
		WillReturnError(sql.ErrConnDone)

	handler := InsightHandler(env.store, env.chatLog, env.generator)
	rec := doJSON(t, handler, http.MethodPost, "/api/insight", `{"product_id":1}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var response models.InsightResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Contains(t, response.Error, "Failed to log conversation")
}

func TestChatLogHandler(t *testing.T) {
	env := newTestEnv(t, "")
	now := time.Now()

	env.mock.ExpectQuery("SELECT id, question, answer, created_at FROM chat_log").
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "question", "answer", "created_at"}).
			AddRow(2, "Sourdough Bread", "A tangy loaf.", now).
			AddRow(1, "Is this good for coffee?", "Yes, very much.", now.Add(-time.Minute)))

	handler := ChatLogHandler(env.chatLog)
	rec := doJSON(t, handler, http.MethodGet, "/api/chatlog?limit=2", "")

	assert.Equal(t, http.StatusOK, rec.Code)

	var response models.ChatLogResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response.Entries, 2)
	assert.Equal(t, "Sourdough Bread", response.Entries[0].Question)
}

func TestChatLogHandler_DefaultLimit(t *testing.T) {
	env := newTestEnv(t, "")

	env.mock.ExpectQuery("SELECT id, question, answer, created_at FROM chat_log").
		WithArgs(20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "question", "answer", "created_at"}))

	handler := ChatLogHandler(env.chatLog)
	rec := doJSON(t, handler, http.MethodGet, "/api/chatlog", "")

	assert.Equal(t, http.StatusOK, rec.Code)

	var response models.ChatLogResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Empty(t, response.Entries)
}
