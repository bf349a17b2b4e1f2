package conversation

import (
	"context"

	"agendai/models"
)

// ConversationService is the inbound-message entry point consumed by
// the webhook handler.
type ConversationService interface {
	// HandleInbound advances the sender's session by one message,
	// persists the result and delivers the replies. The returned
	// session and replies reflect the committed transition; delivery
	// failures are logged and never undo it.
	HandleInbound(ctx context.Context, senderID, text string) (models.Session, []Reply, error)
}
