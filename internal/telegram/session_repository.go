package telegram

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	sessiondb "food-suggester/internal/telegram/session_db"
)

// StateAwaitingRecipeName marks a user whose next plain message is a recipe name.
const StateAwaitingRecipeName = "awaiting_recipe_name"

// Session represents an active conversation step of a user
type Session struct {
	ID          int64
	UserID      string
	State       string
	ContextData string
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

// SessionContextData holds structured data stored in the context_data JSON field
type SessionContextData struct {
	ChatID          int64 `json:"chat_id"`
	PromptMessageID int   `json:"prompt_message_id,omitempty"`
}

// SessionRepository provides access to session persistence operations
type SessionRepository struct {
	queries *sessiondb.Queries
}

// NewSessionRepository creates a new SessionRepository instance
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{
		queries: sessiondb.New(db),
	}
}

// Start replaces any session of userID with a new one in state.
func (sr *SessionRepository) Start(ctx context.Context, userID, state string, contextData SessionContextData, ttl time.Duration, now time.Time) (int64, error) {
	jsonData, err := json.Marshal(contextData)
	if err != nil {
		return 0, err
	}

	if err := sr.queries.DeleteUserSessions(ctx, userID); err != nil {
		return 0, err
	}

	return sr.queries.CreateSession(ctx, sessiondb.CreateSessionParams{
		UserID:      userID,
		State:       state,
		ContextData: string(jsonData),
		ExpiresAt:   now.Add(ttl).Unix(),
		CreatedAt:   now.Unix(),
	})
}

// GetActive retrieves the most recent non-expired session of a user, or nil.
func (sr *SessionRepository) GetActive(ctx context.Context, userID string, now time.Time) (*Session, error) {
	row, err := sr.queries.GetActiveSession(ctx, sessiondb.GetActiveSessionParams{
		UserID:    userID,
		ExpiresAt: now.Unix(),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &Session{
		ID:          row.ID,
		UserID:      row.UserID,
		State:       row.State,
		ContextData: row.ContextData,
		ExpiresAt:   time.Unix(row.ExpiresAt, 0),
		CreatedAt:   time.Unix(row.CreatedAt, 0),
	}, nil
}

// GetContextData unmarshals the context_data JSON field
func (s *Session) GetContextData() (SessionContextData, error) {
	var data SessionContextData
	err := json.Unmarshal([]byte(s.ContextData), &data)
	return data, err
}

// Delete removes a session
func (sr *SessionRepository) Delete(ctx context.Context, sessionID int64) error {
	return sr.queries.DeleteSession(ctx, sessionID)
}

// Clear removes every session of a user
func (sr *SessionRepository) Clear(ctx context.Context, userID string) error {
	return sr.queries.DeleteUserSessions(ctx, userID)
}

// CleanupExpired removes all sessions expired at now.
func (sr *SessionRepository) CleanupExpired(ctx context.Context, now time.Time) (int64, error) {
	return sr.queries.CleanupExpiredSessions(ctx, now.Unix())
}
