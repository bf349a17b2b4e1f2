package messaging

import "context"

// Messenger delivers outbound text messages to a recipient phone
// number. A failed delivery is the caller's problem to log; it must
// never roll back state already committed.
type Messenger interface {
	Send(ctx context.Context, to, text string) error
}
