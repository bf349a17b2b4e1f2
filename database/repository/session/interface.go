package sessionRepo

import (
	"context"

	"agendai/models"
)

// SessionStore holds one conversation session per WhatsApp sender id.
// Implementations must be safe for concurrent use and must serialize
// operations on the same sender id.
type SessionStore interface {
	// Get returns the session for senderID, creating a fresh idle
	// session if none exists yet.
	Get(ctx context.Context, senderID string) (models.Session, error)

	// Set replaces the stored session for senderID entirely.
	Set(ctx context.Context, senderID string, sess models.Session) error

	// Reset returns senderID to a fresh idle session. Resetting an
	// unknown sender is a no-op.
	Reset(ctx context.Context, senderID string) error
}
