package models

import "time"

// Slot is an offerable appointment time. Slots are defined at process
// start and never change. When is the human-readable label shown to
// the user and stored on a confirmed booking; Start is the concrete
// time used when a calendar event is created, and may be zero for
// catalogs that only carry labels.
type Slot struct {
	ID    int       `json:"id"`
	When  string    `json:"when"`
	Start time.Time `json:"start,omitempty"`
}
