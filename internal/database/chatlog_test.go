package database

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatLogStore_Append(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewChatLogStore(db)

	// The literal question and answer strings go into the row unchanged
	mock.ExpectExec("INSERT INTO chat_log").
		WithArgs("What is Organic Almond Milk?", "It is a creamy dairy-free milk alternative.").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := store.Append(context.Background(), "What is Organic Almond Milk?", "It is a creamy dairy-free milk alternative.")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChatLogStore_Append_WriteFailure(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewChatLogStore(db)

	mock.ExpectExec("INSERT INTO chat_log").
		WithArgs("question", "answer").
		WillReturnError(sql.ErrConnDone)

	err := store.Append(context.Background(), "question", "answer")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to append chat log entry")
}

func TestChatLogStore_Recent(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewChatLogStore(db)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT id, question, answer, created_at FROM chat_log").
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "question", "answer", "created_at"}).
			AddRow(2, "Second question", "Second answer", now).
			AddRow(1, "First question", "First answer", now.Add(-time.Minute)))

	entries, err := store.Recent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Second question", entries[0].Question)
	assert.Equal(t, "Second answer", entries[0].Answer)
	assert.Equal(t, "First question", entries[1].Question)
}

func TestChatLogStore_Recent_DefaultLimit(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewChatLogStore(db)

	mock.ExpectQuery("SELECT id, question, answer, created_at FROM chat_log").
		WithArgs(20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "question", "answer", "created_at"}))

	entries, err := store.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestChatLogStore_Count(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewChatLogStore(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM chat_log`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, count)
}
