package calendar

import (
	"context"
	"time"

	"agendai/models"
)

// Event is a calendar entry, reduced to what the bot reads and writes.
type Event struct {
	ID          string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
}

// CalendarService is the delegated-authorization and calendar
// boundary. AuthCodeURL and Exchange implement the OAuth handshake;
// ListUpcoming is used to validate a credential right after the
// exchange; CreateEvent writes a confirmed booking to the clinic's
// calendar.
type CalendarService interface {
	AuthCodeURL(entityID string) string
	Exchange(ctx context.Context, code string) (models.Credential, error)
	ListUpcoming(ctx context.Context, cred models.Credential, max int64) ([]Event, error)
	CreateEvent(ctx context.Context, cred models.Credential, event Event) (string, error)
}
