package ports

import (
	"context"

	"github.com/aretw0/aura/pkg/domain"
)

// SessionStore defines the interface for keeping conversation state between turns.
type SessionStore interface {
	// Create initializes an empty session, replacing any existing one with the same key.
	Create(ctx context.Context, sessionID string) (*domain.Session, error)

	// Load retrieves the session for a given key.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Session, error)

	// Save persists the session after a turn mutated it.
	Save(ctx context.Context, session *domain.Session) error

	// Delete removes the session. Deleting a missing session is not an error.
	Delete(ctx context.Context, sessionID string) error

	// List returns the keys of live sessions.
	List(ctx context.Context) ([]string, error)
}
