package models

import "time"

// DefaultEntityID keys credentials for callers that did not say which
// clinic they are authorizing.
const DefaultEntityID = "default"

// Credential is the stored result of a completed OAuth exchange for
// one clinic. Fields are copied verbatim from the provider's token
// response; RefreshToken may be empty on re-authorization when the
// provider omits it.
type Credential struct {
	EntityID     string    `json:"entityId"`
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	Expiry       time.Time `json:"expiry"`
}
