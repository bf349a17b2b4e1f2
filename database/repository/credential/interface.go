package credentialRepo

import (
	"context"

	"agendai/models"
)

// CredentialStore holds one calendar credential per clinic entity id.
// Writes happen only after a completed OAuth exchange; a later
// exchange for the same entity overwrites the record entirely.
type CredentialStore interface {
	// Put unconditionally upserts the credential for entityID.
	Put(ctx context.Context, entityID string, cred models.Credential) error

	// Get returns the credential for entityID. The bool reports
	// whether a record exists; absence is not an error.
	Get(ctx context.Context, entityID string) (models.Credential, bool, error)
}
