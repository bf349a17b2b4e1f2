package models

// Step identifies the current stage of the booking dialogue.
type Step string

const (
	StepIdle       Step = "idle"
	StepGetName    Step = "get_name"
	StepGetPhone   Step = "get_phone"
	StepOfferSlots Step = "offer_slots"
	StepConfirm    Step = "confirm"
)

// SessionData accumulates what the dialogue has collected so far.
// Fields are filled in step order: Name after get_name, Phone after
// get_phone (digits only), Slot after offer_slots (the slot's display
// label, not its id).
type SessionData struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Slot  string `json:"slot,omitempty"`
}

// Session is the per-sender conversation state.
type Session struct {
	Step Step        `json:"step"`
	Data SessionData `json:"data"`
}

// NewSession returns a fresh idle session.
func NewSession() Session {
	return Session{Step: StepIdle}
}
