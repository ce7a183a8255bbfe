package telegram

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSessions(t *testing.T) *SessionRepository {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE bot_sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			state TEXT NOT NULL,
			context_data TEXT NOT NULL DEFAULT '{}',
			expires_at INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		);
	`)
	require.NoError(t, err)

	return NewSessionRepository(db)
}

func TestSessionRepository(t *testing.T) {
	ctx := context.Background()
	repo := setupSessions(t)
	now := time.Unix(1_700_000_000, 0)

	t.Run("NoSession", func(t *testing.T) {
		s, err := repo.GetActive(ctx, "42", now)
		require.NoError(t, err)
		assert.Nil(t, s)
	})

	t.Run("StartAndGet", func(t *testing.T) {
		_, err := repo.Start(ctx, "42", StateAwaitingRecipeName, SessionContextData{ChatID: 7, PromptMessageID: 3}, 10*time.Minute, now)
		require.NoError(t, err)

		s, err := repo.GetActive(ctx, "42", now.Add(time.Minute))
		require.NoError(t, err)
		require.NotNil(t, s)
		assert.Equal(t, StateAwaitingRecipeName, s.State)

		data, err := s.GetContextData()
		require.NoError(t, err)
		assert.Equal(t, int64(7), data.ChatID)
		assert.Equal(t, 3, data.PromptMessageID)
	})

	t.Run("Expired", func(t *testing.T) {
		s, err := repo.GetActive(ctx, "42", now.Add(10*time.Minute))
		require.NoError(t, err)
		assert.Nil(t, s)
	})

	t.Run("StartReplacesPrevious", func(t *testing.T) {
		first, err := repo.Start(ctx, "42", "first", SessionContextData{}, time.Hour, now)
		require.NoError(t, err)
		second, err := repo.Start(ctx, "42", "second", SessionContextData{}, time.Hour, now)
		require.NoError(t, err)
		assert.NotEqual(t, first, second)

		s, err := repo.GetActive(ctx, "42", now)
		require.NoError(t, err)
		require.NotNil(t, s)
		assert.Equal(t, "second", s.State)

		require.NoError(t, repo.Delete(ctx, s.ID))
		s, err = repo.GetActive(ctx, "42", now)
		require.NoError(t, err)
		assert.Nil(t, s)
	})

	t.Run("CleanupExpired", func(t *testing.T) {
		_, err := repo.Start(ctx, "1", "a", SessionContextData{}, time.Minute, now)
		require.NoError(t, err)
		_, err = repo.Start(ctx, "2", "b", SessionContextData{}, time.Hour, now)
		require.NoError(t, err)

		removed, err := repo.CleanupExpired(ctx, now.Add(2*time.Minute))
		require.NoError(t, err)
		assert.Equal(t, int64(1), removed)
	})
}
