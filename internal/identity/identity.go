// Package identity provides the per-user profile store the session engine
// reads at session start and appends command history to.
package identity

import (
	"context"
	"errors"

	"github.com/its-pratyushpandey/Intellia/internal/models"
)

// ErrNotFound is returned when no user record exists for an ID.
var ErrNotFound = errors.New("user not found")

// Store persists user profiles and their append-only command history.
type Store interface {
	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, userID string) (*models.User, error)

	// UpsertUser creates or replaces a user record.
	UpsertUser(ctx context.Context, user *models.User) error

	// UpdateAssistant updates the assistant name and image for a user.
	UpdateAssistant(ctx context.Context, userID, assistantName, assistantImage string) error

	// UpdateSettings updates voice and/or NLP settings. Nil leaves a
	// settings block unchanged.
	UpdateSettings(ctx context.Context, userID string, voice *models.VoiceSettings, nlp *models.NLPSettings) error

	// AppendHistory appends one accepted command to a user's history log.
	// History is append-only; past entries are never mutated.
	AppendHistory(ctx context.Context, userID, command string) error

	// History returns the most recent history entries, newest first.
	History(ctx context.Context, userID string, limit int) ([]models.HistoryEntry, error)

	// Ping verifies store connectivity.
	Ping(ctx context.Context) error

	// Close closes the store.
	Close() error
}
